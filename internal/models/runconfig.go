package models

import "time"

// RunConfig is the resolved option set for one invocation. It is built once
// from flags and the settings file at startup and never mutated afterwards.
type RunConfig struct {
	PublishersPath string
	CookiesPath    string
	CodesPath      string
	DumpDir        string

	Loop     bool
	DumpHTML bool
	Debug    bool
	Headless bool

	ClaimTimeout time.Duration
	LoopInterval time.Duration
}
