package mint

import (
	"code.pegsim.io/pegsim/config/encoding"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
)

const namedLogger = "mint"

// Config carries the system-wide collateralization targets. Copt is
// the ratio the policy steers accounts towards, Cmax the maximum ratio
// still rewarded by fee distribution, UtilisationRatio the fraction of
// escrowed reserve value that may be issued against.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	Copt             num.Decimal `long:"copt"`
	Cmax             num.Decimal `long:"cmax"`
	UtilisationRatio num.Decimal `long:"utilisation-ratio"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		Copt:             num.MustDecimalFromString("0.2"),
		Cmax:             num.MustDecimalFromString("0.25"),
		UtilisationRatio: num.MustDecimalFromString("0.25"),
	}
}
