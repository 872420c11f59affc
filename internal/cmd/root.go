package cmd

import "github.com/alecthomas/kong"

type CLI struct {
	Color string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON  bool   `help:"JSON results to stdout; disables colors."`
	Debug bool   `short:"d" help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Run     RunCmd     `cmd:"" default:"withargs" help:"Claim eligible offers from the storefront."`
	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
}

func NewCLI() *CLI {
	return &CLI{}
}
