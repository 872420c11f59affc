package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/muesli/termenv"

	"github.com/txmazing/primelooter/internal/config"
	"github.com/txmazing/primelooter/internal/cookies"
	"github.com/txmazing/primelooter/internal/looter"
	"github.com/txmazing/primelooter/internal/models"
	"github.com/txmazing/primelooter/internal/network"
	"github.com/txmazing/primelooter/internal/report"
)

type RunCmd struct {
	Publishers string `short:"p" help:"Path to the publishers.txt allow-list." env:"PRIMELOOTER_PUBLISHERS"`
	Cookies    string `short:"c" help:"Path to the Netscape cookies.txt export." env:"PRIMELOOTER_COOKIES"`
	Loop       bool   `short:"l" help:"Repeat the claim cycle every 24 hours."`
	Dump       bool   `help:"Write page HTML dumps for diagnostics."`
	NoHeadless bool   `help:"Run with a visible browser window."`
	Format     string `help:"Results format: table, csv, json." enum:",table,csv,json" default:""`
	Output     string `short:"o" help:"Write results to a file."`
}

func (r *RunCmd) Run(ctx *Context) error {
	cfg := r.resolveRunConfig(ctx.Config, ctx.Debug)

	// Startup validation: missing or unusable input files abort the process
	// before any browser session opens. Cycles still re-read both files.
	if _, err := config.LoadPublishers(cfg.PublishersPath); err != nil {
		return err
	}
	if _, err := cookies.ParseFile(cfg.CookiesPath); err != nil {
		return err
	}

	client, err := network.NewClient()
	if err != nil {
		return fmt.Errorf("init http client: %w", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller := &looter.Controller{
		Runner:   looter.NewRunner(cfg, client, ctx.Logger),
		Loop:     cfg.Loop,
		Interval: cfg.LoopInterval,
		Log:      ctx.Logger,
		Report: func(results []models.Result) error {
			return r.report(ctx, results)
		},
	}

	err = controller.Run(runCtx)
	if errors.Is(err, context.Canceled) {
		ctx.Logger.Info().Msg("stopped by signal")
		return nil
	}
	return err
}

func (r *RunCmd) resolveRunConfig(settings config.Config, debug bool) models.RunConfig {
	return models.RunConfig{
		PublishersPath: firstNonEmpty(r.Publishers, settings.PublishersPath),
		CookiesPath:    firstNonEmpty(r.Cookies, settings.CookiesPath),
		CodesPath:      settings.CodesPath,
		DumpDir:        settings.DumpDir,
		Loop:           r.Loop,
		DumpHTML:       r.Dump,
		Debug:          debug,
		Headless:       !r.NoHeadless,
		ClaimTimeout:   time.Duration(settings.ClaimTimeoutSeconds) * time.Second,
		LoopInterval:   looter.DefaultInterval,
	}
}

func (r *RunCmd) report(ctx *Context, results []models.Result) error {
	writer := ctx.Out
	var file *os.File
	if r.Output != "" {
		var err error
		file, err = os.Create(r.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	format := resolveFormat(ctx, r.Format, r.Output)
	opts := report.WriteOptions{
		ColorEnabled: format == report.FormatTable && ctx.UI != nil && ctx.UI.ColorEnabled && file == nil,
	}
	if err := report.WriteResults(writer, results, format, opts); err != nil {
		return err
	}

	if ctx.UI != nil {
		ctx.UI.Successf("%s", report.Summary(results))
	}
	return nil
}

func resolveFormat(ctx *Context, flagValue string, outputPath string) report.Format {
	if ctx.JSONOutput {
		return report.FormatJSON
	}
	switch strings.ToLower(strings.TrimSpace(flagValue)) {
	case "json":
		return report.FormatJSON
	case "csv":
		return report.FormatCSV
	case "table":
		return report.FormatTable
	}
	if outputPath != "" {
		return report.FormatCSV
	}
	if isTTY(ctx.Out) {
		return report.FormatTable
	}
	return report.FormatCSV
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
