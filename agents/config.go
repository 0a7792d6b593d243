package agents

import (
	"code.pegsim.io/pegsim/config/encoding"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'simulation.agents'.
const namedLogger = "agents"

// Config holds the configurable items for agent strategies.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// IssuanceTolerance is the dead band around the optimal issuance
	// delta, expressed as an absolute token quantity. The banker takes
	// no action while |delta| stays inside it.
	IssuanceTolerance num.Decimal `long:"issuance-tolerance"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:             encoding.LogLevel{Level: logging.InfoLevel},
		IssuanceTolerance: num.MustDecimalFromString("0.01"),
	}
}
