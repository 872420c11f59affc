package cmd

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/txmazing/primelooter/internal/config"
	"github.com/txmazing/primelooter/internal/ui"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Debug      bool
	JSONOutput bool
	Version    string
	ColorMode  ui.ColorMode
}
