package fee

import (
	"code.pegsim.io/pegsim/config/encoding"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
)

const namedLogger = "fee"

// Config holds every fee rate in the system. Rates are multiplicative:
// fee = quantity * rate. The whole transfer/hedging fee machinery can
// be switched off independently of the individual rates.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	EnableTransferFee encoding.Bool `long:"enable-transfer-fee"`
	ReserveFeeRate    num.Decimal   `long:"reserve-fee-rate"`
	TokenFeeRate      num.Decimal   `long:"token-fee-rate"`
	FiatFeeRate       num.Decimal   `long:"fiat-fee-rate"`

	IssuanceFeeRate num.Decimal `long:"issuance-fee-rate"`
	BurningFeeRate  num.Decimal `long:"burning-fee-rate"`

	EnableHedgingFee    encoding.Bool `long:"enable-hedging-fee"`
	ReserveHedgeFeeRate num.Decimal   `long:"reserve-hedge-fee-rate"`
	TokenHedgeFeeRate   num.Decimal   `long:"token-hedge-fee-rate"`
	FiatHedgeFeeRate    num.Decimal   `long:"fiat-hedge-fee-rate"`
	HedgeLength         int64         `long:"hedge-length"`

	// DistributionPeriod is the number of ticks between fee pool
	// sweeps. DistributionBuffer is the fraction of the pool actually
	// paid out, the remainder guards against cumulative rounding.
	DistributionPeriod int64       `long:"distribution-period"`
	DistributionBuffer num.Decimal `long:"distribution-buffer"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:             encoding.LogLevel{Level: logging.InfoLevel},
		EnableTransferFee: true,
		ReserveFeeRate:    num.DecimalZero(),
		TokenFeeRate:      num.MustDecimalFromString("0.005"),
		FiatFeeRate:       num.DecimalZero(),

		IssuanceFeeRate: num.DecimalZero(),
		BurningFeeRate:  num.DecimalZero(),

		EnableHedgingFee:    false,
		ReserveHedgeFeeRate: num.DecimalZero(),
		TokenHedgeFeeRate:   num.MustDecimalFromString("0.005"),
		FiatHedgeFeeRate:    num.DecimalZero(),
		HedgeLength:         50,

		DistributionPeriod: 30,
		DistributionBuffer: num.MustDecimalFromString("0.995"),
	}
}
