package matching

import (
	"code.pegsim.io/pegsim/config/encoding"
	"code.pegsim.io/pegsim/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'simulation.matching'.
const namedLogger = "matching"

// Config holds the configurable items for the order books.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// RollingAverageWindow is the number of most recent trades feeding
	// the rolling price; VolumeWeightedAverage switches the average
	// from a plain mean of prices to a volume-weighted one.
	RollingAverageWindow  int           `long:"rolling-average-window"`
	VolumeWeightedAverage encoding.Bool `long:"volume-weighted-average"`

	LogRemovedOrdersDebug bool `long:"log-removed-orders-debug"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:                 encoding.LogLevel{Level: logging.InfoLevel},
		RollingAverageWindow:  30,
		VolumeWeightedAverage: true,
		LogRemovedOrdersDebug: false,
	}
}
