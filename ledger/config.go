package ledger

import (
	"code.pegsim.io/pegsim/config/encoding"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'simulation.ledger'.
const namedLogger = "ledger"

// Config holds the configurable items for the ledger engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// Precision is the number of fractional digits every product or
	// quotient of currency amounts is rounded to (half up).
	Precision int32 `long:"precision"`

	// ReserveSupply, TokenSupply and FiatSupply are the quantities
	// held by the system account when the simulation starts;
	// endowments move value out of it, fees move value back in.
	ReserveSupply num.Decimal `long:"reserve-supply"`
	TokenSupply   num.Decimal `long:"token-supply"`
	FiatSupply    num.Decimal `long:"fiat-supply"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:         encoding.LogLevel{Level: logging.InfoLevel},
		Precision:     8,
		ReserveSupply: num.DecimalFromInt64(100000),
		TokenSupply:   num.DecimalZero(),
		FiatSupply:    num.DecimalFromInt64(100000),
	}
}
