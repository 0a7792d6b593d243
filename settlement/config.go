package settlement

import (
	"code.pegsim.io/pegsim/config/encoding"
	"code.pegsim.io/pegsim/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'simulation.settlement'.
const namedLogger = "settlement"

// Config holds the configurable items for the settlement engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	LogTradesDebug bool `long:"log-trades-debug"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
