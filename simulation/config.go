package simulation

import (
	"code.pegsim.io/pegsim/config/encoding"
	"code.pegsim.io/pegsim/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'simulation'.
const namedLogger = "simulation"

// Config holds the configurable items for the simulation driver.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// Ticks is how many steps a `run` executes by default.
	Ticks int `long:"ticks"`

	LogTickDebug bool `long:"log-tick-debug"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		Ticks: 1000,
	}
}
