package global

import (
	"time"
)

var (
	Version        = "0.0.1"
	BuildTime      = "none"
	Verbose        = false
	ConfigFilename = "wheelforge.yaml"

	// DefaultIndexPort is the port the local package index binds to when the
	// project config doesn't pick one.
	DefaultIndexPort = 8787

	// IndexStartupTimeout bounds how long a build waits for the local package
	// index to start answering before the run is aborted.
	IndexStartupTimeout = 30 * time.Second

	DefaultUpstreamIndexURL = "https://pypi.org/simple"
)
