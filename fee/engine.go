package fee

import (
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/types"
)

// Collateral provides the derived collateralization ratio of an
// account, implemented by the mint engine.
type Collateral interface {
	Collateralisation(acc *ledger.Account) num.Decimal
}

// Engine holds the fee rate configuration, computes fees on transfers
// and issuance, and periodically sweeps the accumulated token fee pool
// through the collateralization-weighted distribution.
type Engine struct {
	log    *logging.Logger
	cfg    Config
	ledger *ledger.Engine

	lastRun int64

	feesDistributed   num.Decimal
	lastFeesCollected num.Decimal
}

// New returns a fee engine accumulating into, and distributing from,
// the given ledger's pools.
func New(log *logging.Logger, cfg Config, lgr *ledger.Engine) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Engine{
		log:               log,
		cfg:               cfg,
		ledger:            lgr,
		feesDistributed:   num.DecimalZero(),
		lastFeesCollected: num.DecimalZero(),
	}
}

// ReloadConf is used in order to reload the internal configuration of
// the fee engine.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	e.cfg = cfg
}

func (e *Engine) transferRate(asset types.Asset) num.Decimal {
	switch asset {
	case types.AssetReserve:
		return e.cfg.ReserveFeeRate
	case types.AssetToken:
		return e.cfg.TokenFeeRate
	default:
		return e.cfg.FiatFeeRate
	}
}

// TransferFee returns the fee charged for transferring a quantity of
// the given asset.
func (e *Engine) TransferFee(asset types.Asset, qty num.Decimal) num.Decimal {
	if !bool(e.cfg.EnableTransferFee) {
		return num.DecimalZero()
	}
	return e.ledger.Round(qty.Mul(e.transferRate(asset)))
}

// ReceivedAfterFee returns the quantity the recipient ends up with if
// a sender commits qty inclusive of the transfer fee. A party can only
// move less than its whole balance once fees are taken into account.
func (e *Engine) ReceivedAfterFee(asset types.Asset, qty num.Decimal) num.Decimal {
	if !bool(e.cfg.EnableTransferFee) {
		return qty
	}
	return e.ledger.Round(qty.Div(num.DecimalOne().Add(e.transferRate(asset))))
}

// IssuanceFee returns the fee on issuing a quantity of pegged tokens.
func (e *Engine) IssuanceFee(qty num.Decimal) num.Decimal {
	return e.ledger.Round(qty.Mul(e.cfg.IssuanceFeeRate))
}

// BurningFee returns the fee on burning a quantity of pegged tokens.
func (e *Engine) BurningFee(qty num.Decimal) num.Decimal {
	return e.ledger.Round(qty.Mul(e.cfg.BurningFeeRate))
}

// CollectHedgeFees charges the per-tick hedging fee on each of the
// party's balances, amortised over the configured hedge length. All
// proceeds land in the token fee pool.
func (e *Engine) CollectHedgeFees(party string) {
	if !bool(e.cfg.EnableHedgingFee) {
		return
	}
	acc, err := e.ledger.Account(party)
	if err != nil {
		return
	}
	length := num.DecimalFromInt64(e.cfg.HedgeLength)
	rates := map[types.Asset]num.Decimal{
		types.AssetReserve: e.cfg.ReserveHedgeFeeRate,
		types.AssetToken:   e.cfg.TokenHedgeFeeRate,
		types.AssetFiat:    e.cfg.FiatHedgeFeeRate,
	}
	for _, asset := range types.Assets() {
		rate := rates[asset]
		if rate.IsZero() {
			continue
		}
		fee := e.ledger.Round(acc.Balance(asset).Mul(rate).Div(length))
		if err := e.ledger.Deduct(party, asset, fee); err != nil {
			continue
		}
		e.ledger.AddToPool(types.AssetToken, fee)
	}
}

// multiplier is the piecewise-linear collateralization weight: rising
// from 0 at ci=0 to 1 at ci=copt, falling back to 0 at ci=cmax, zero
// beyond. It rewards approaching the optimal ratio from below and
// penalizes exceeding it.
func multiplier(ci, copt, cmax num.Decimal) num.Decimal {
	switch {
	case ci.LessThanOrEqual(copt):
		return ci.Div(copt)
	case ci.LessThanOrEqual(cmax):
		return cmax.Sub(ci).Div(cmax.Sub(copt))
	default:
		return num.DecimalZero()
	}
}

// Distribute sweeps the token fee pool to the given accounts, weighted
// by reserve holdings scaled by each account's collateralization
// multiplier. It runs at most once per configured period; calls in
// between are no-ops. A zero copt (undefined target) skips entirely.
func (e *Engine) Distribute(accounts []*ledger.Account, collat Collateral, copt, cmax num.Decimal) {
	now := e.ledger.Now()
	if e.lastRun > 0 && now-e.lastRun < e.cfg.DistributionPeriod {
		return
	}
	e.lastRun = now

	if copt.IsZero() {
		return
	}

	pool := e.ledger.Pool(types.AssetToken)

	totalWeight := num.DecimalZero()
	weights := make([]num.Decimal, len(accounts))
	for i, acc := range accounts {
		ci := collat.Collateralisation(acc)
		w := acc.Balance(types.AssetReserve).Mul(multiplier(ci, copt, cmax))
		weights[i] = w
		totalWeight = totalWeight.Add(w)
	}

	if totalWeight.LessThanOrEqual(num.DecimalZero()) {
		e.log.Debug("skipping fee distribution, no account in the 0->cmax range",
			logging.Int64("tick", now))
		e.lastFeesCollected = num.DecimalZero()
		return
	}

	distributed := num.DecimalZero()
	for i, acc := range accounts {
		if weights[i].LessThanOrEqual(num.DecimalZero()) {
			continue
		}
		qty := e.ledger.Round(
			weights[i].Div(totalWeight).Mul(pool).Mul(e.cfg.DistributionBuffer))
		e.ledger.PayFromPool(types.AssetToken, acc.Party, qty)
		distributed = distributed.Add(qty)
	}

	e.feesDistributed = e.feesDistributed.Add(distributed)
	e.lastFeesCollected = distributed

	if e.log.GetLevel() == logging.DebugLevel {
		e.log.Debug("fee pool distributed",
			logging.Int64("tick", now),
			logging.Decimal("distributed", distributed),
			logging.Decimal("pool-remaining", e.ledger.Pool(types.AssetToken)),
		)
	}
}

// FeesDistributed returns the cumulative tokens paid out so far.
func (e *Engine) FeesDistributed() num.Decimal {
	return e.feesDistributed
}

// LastFeesCollected returns the amount paid out in the most recent
// distribution period, zero when the period was skipped.
func (e *Engine) LastFeesCollected() num.Decimal {
	return e.lastFeesCollected
}
