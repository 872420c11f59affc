package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/txmazing/primelooter/internal/cmd"
	"github.com/txmazing/primelooter/internal/config"
	"github.com/txmazing/primelooter/internal/ui"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli := cmd.NewCLI()
	applyEnvDefaults(cli)

	parser, err := kong.New(cli,
		kong.Name("primelooter"),
		kong.Description("Claims Prime Gaming loot for allow-listed publishers."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": buildVersion()},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fallbackUI := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(os.Getenv("PRIMELOOTER_COLOR")), false)
		fallbackUI.Errorf("%v", err)
		return 1
	}

	runCtx, err := buildContext(cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := kctx.Run(runCtx); err != nil {
		runCtx.UI.Errorf("%v", err)
		return 1
	}
	return 0
}

// buildContext wires settings, logging, and terminal output into the context
// every subcommand receives.
func buildContext(cli *cmd.CLI) (*cmd.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	configDir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}

	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	colorMode := ui.NormalizeColorMode(cli.Color)
	return &cmd.Context{
		Out:        os.Stdout,
		Err:        os.Stderr,
		UI:         ui.New(os.Stdout, os.Stderr, colorMode, cli.JSON),
		Config:     cfg,
		ConfigDir:  configDir,
		Logger:     zerolog.New(os.Stderr).With().Timestamp().Logger(),
		Debug:      cli.Debug,
		JSONOutput: cli.JSON,
		Version:    buildVersion(),
		ColorMode:  colorMode,
	}, nil
}

func buildVersion() string {
	var details []string
	for _, detail := range []string{commit, date} {
		if detail != "" {
			details = append(details, detail)
		}
	}
	if len(details) == 0 {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, strings.Join(details, ", "))
}

func applyEnvDefaults(cli *cmd.CLI) {
	for key, target := range map[string]*bool{
		"PRIMELOOTER_JSON":  &cli.JSON,
		"PRIMELOOTER_DEBUG": &cli.Debug,
	} {
		if envBool(key) {
			*target = true
		}
	}
	if value := os.Getenv("PRIMELOOTER_COLOR"); value != "" {
		cli.Color = value
	}
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
