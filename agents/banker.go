package agents

import (
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/types"
)

// MintPolicy is the slice of the mint engine the banker consumes. The
// banker only reads the optimal delta, it never computes it.
type MintPolicy interface {
	OptimalIssuanceDelta(acc *ledger.Account) num.Decimal
	Issue(party string, qty num.Decimal) error
	Burn(party string, qty num.Decimal) error
	UnescrowReserve(party string, qty num.Decimal) error
	TokensToReserve(qty num.Decimal) num.Decimal
}

// Banker is a feedback-control agent keeping its issued token balance
// on the mint policy's optimal level. Each tick it reads the optimal
// issuance delta and issues when above the tolerance band, or burns
// and releases escrow when below it.
type Banker struct {
	log *logging.Logger
	cfg Config

	party  string
	ledger *ledger.Engine
	policy MintPolicy
}

// NewBanker returns a banker strategy for the given party. The party's
// ledger account must already exist.
func NewBanker(log *logging.Logger, cfg Config, party string, lgr *ledger.Engine, policy MintPolicy) *Banker {
	log = log.Named(namedLogger + ".banker")
	log.SetLevel(cfg.Level.Get())
	return &Banker{
		log:    log,
		cfg:    cfg,
		party:  party,
		ledger: lgr,
		policy: policy,
	}
}

// Party implements Agent.
func (b *Banker) Party() string {
	return b.party
}

// Kind implements Agent.
func (b *Banker) Kind() Kind {
	return KindBanker
}

// Step runs one control iteration. A positive delta beyond tolerance
// is issued in full; failure there means the policy reported capacity
// it cannot back, which is a state inconsistency the simulation must
// not continue over. A negative delta is first burned down from the
// liquid token balance, then the delta is re-read and any residue is
// released from escrow.
func (b *Banker) Step() {
	acc, err := b.ledger.Account(b.party)
	if err != nil {
		b.log.Error("banker has no ledger account",
			logging.String("party", b.party),
			logging.Error(err),
		)
		return
	}

	tol := b.cfg.IssuanceTolerance
	delta := b.policy.OptimalIssuanceDelta(acc)

	switch {
	case delta.GreaterThan(tol):
		if err := b.policy.Issue(b.party, delta); err != nil {
			b.log.Panic("issuance demanded by policy exceeds capacity",
				logging.String("party", b.party),
				logging.Decimal("delta", delta),
				logging.Int64("tick", b.ledger.Now()),
				logging.Error(err),
			)
		}
	case delta.LessThan(tol.Neg()):
		b.contract(acc, delta.Neg())
	}
}

// contract burns up to the liquid token balance, then un-escrows
// reserve covering whatever deficit the burn could not absorb.
func (b *Banker) contract(acc *ledger.Account, deficit num.Decimal) {
	burn := num.MinD(acc.Available(types.AssetToken), deficit)
	if burn.IsPositive() {
		if err := b.policy.Burn(b.party, burn); err != nil {
			b.log.Debug("burn rejected",
				logging.String("party", b.party),
				logging.Decimal("qty", burn),
				logging.Error(err),
			)
		}
	}

	delta := b.policy.OptimalIssuanceDelta(acc)
	if !delta.LessThan(b.cfg.IssuanceTolerance.Neg()) {
		return
	}
	release := b.policy.TokensToReserve(delta.Neg())
	if !release.IsPositive() {
		return
	}
	if err := b.policy.UnescrowReserve(b.party, release); err != nil {
		b.log.Debug("unescrow rejected",
			logging.String("party", b.party),
			logging.Decimal("qty", release),
			logging.Error(err),
		)
	}
}
