// Package report renders per-offer claim outcomes.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/txmazing/primelooter/internal/models"
)

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

type WriteOptions struct {
	ColorEnabled bool
}

// WriteResults renders one row per offer in the requested format.
func WriteResults(w io.Writer, results []models.Result, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatCSV:
		return writeCSV(w, results)
	default:
		return writeTable(w, results, opts)
	}
}

func writeJSON(w io.Writer, results []models.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeCSV(w io.Writer, results []models.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header()); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.Write(row(result)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, results []models.Result, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header(), "\t"))
	output := termenv.NewOutput(w)
	for _, result := range results {
		cells := row(result)
		cells[2] = colorizeOutcome(output, opts.ColorEnabled, result.Outcome, cells[2])
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func header() []string {
	return []string{"TITLE", "PUBLISHER", "OUTCOME", "CODE", "ERROR"}
}

func row(result models.Result) []string {
	return []string{
		safe(result.Offer.Title),
		safe(result.Offer.Publisher),
		string(result.Outcome),
		safe(result.Code),
		safe(result.Error),
	}
}

func colorizeOutcome(output *termenv.Output, enabled bool, outcome models.Outcome, text string) string {
	if !enabled {
		return text
	}
	var color string
	switch outcome {
	case models.OutcomeClaimed:
		color = "2"
	case models.OutcomeFailed:
		color = "1"
	case models.OutcomeAlreadyClaimed:
		color = "4"
	default:
		color = "3"
	}
	return output.String(text).Foreground(output.Color(color)).String()
}

func safe(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// Summary produces the one-line cycle summary logged after every run.
func Summary(results []models.Result) string {
	counts := map[models.Outcome]int{}
	for _, result := range results {
		counts[result.Outcome]++
	}

	order := []models.Outcome{
		models.OutcomeClaimed,
		models.OutcomeAlreadyClaimed,
		models.OutcomeNotMatched,
		models.OutcomeUnavailable,
		models.OutcomeFailed,
	}

	parts := make([]string, 0, len(order))
	for _, outcome := range order {
		if counts[outcome] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", outcome, counts[outcome]))
	}
	if len(parts) == 0 {
		return "summary: offers=0"
	}
	return fmt.Sprintf("summary: offers=%d %s", len(results), strings.Join(parts, " "))
}
