package cmd

import (
	"bytes"
	"testing"

	"github.com/txmazing/primelooter/internal/config"
	"github.com/txmazing/primelooter/internal/report"
)

func TestResolveRunConfigFlagOverridesSettings(t *testing.T) {
	settings := config.Config{
		PublishersPath:      "settings-publishers.txt",
		CookiesPath:         "settings-cookies.txt",
		CodesPath:           "game_codes.txt",
		DumpDir:             "dumps",
		ClaimTimeoutSeconds: 45,
	}

	cmd := &RunCmd{Publishers: "flag-publishers.txt", Loop: true, NoHeadless: true}
	cfg := cmd.resolveRunConfig(settings, true)

	if cfg.PublishersPath != "flag-publishers.txt" {
		t.Fatalf("expected flag to win, got %q", cfg.PublishersPath)
	}
	if cfg.CookiesPath != "settings-cookies.txt" {
		t.Fatalf("expected settings fallback, got %q", cfg.CookiesPath)
	}
	if !cfg.Loop || !cfg.Debug {
		t.Fatalf("expected loop and debug set: %+v", cfg)
	}
	if cfg.Headless {
		t.Fatalf("expected --no-headless to disable headless mode")
	}
	if cfg.ClaimTimeout.Seconds() != 45 {
		t.Fatalf("unexpected claim timeout: %v", cfg.ClaimTimeout)
	}
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	ctx := &Context{Out: &buf}

	if got := resolveFormat(ctx, "csv", ""); got != report.FormatCSV {
		t.Fatalf("expected csv, got %q", got)
	}
	if got := resolveFormat(ctx, "", "out.txt"); got != report.FormatCSV {
		t.Fatalf("expected csv for file output, got %q", got)
	}
	if got := resolveFormat(ctx, "table", ""); got != report.FormatTable {
		t.Fatalf("expected table, got %q", got)
	}

	ctx.JSONOutput = true
	if got := resolveFormat(ctx, "csv", ""); got != report.FormatJSON {
		t.Fatalf("expected --json to win, got %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "value", "other"); got != "value" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := firstNonEmpty("", " "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
