package mint

import (
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/types"
)

// PriceSource yields the current rolling price of a book, used to
// value escrowed reserve and issued tokens in fiat terms.
type PriceSource interface {
	RollingPrice() num.Decimal
}

// Fees provides the issuance and burning fee amounts, implemented by
// the fee engine.
type Fees interface {
	IssuanceFee(qty num.Decimal) num.Decimal
	BurningFee(qty num.Decimal) num.Decimal
}

// Engine implements the mint policy: escrow accounting, issuance
// rights against escrowed reserve, and the optimal-issuance signal
// that drives the issuance controller.
type Engine struct {
	log    *logging.Logger
	cfg    Config
	ledger *ledger.Engine
	fees   Fees

	reserveFiat PriceSource
	tokenFiat   PriceSource
}

// New returns a mint engine valuing collateral off the two fiat books.
func New(log *logging.Logger, cfg Config, lgr *ledger.Engine, fees Fees, reserveFiat, tokenFiat PriceSource) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Engine{
		log:         log,
		cfg:         cfg,
		ledger:      lgr,
		fees:        fees,
		reserveFiat: reserveFiat,
		tokenFiat:   tokenFiat,
	}
}

// Copt returns the optimal collateralization target.
func (e *Engine) Copt() num.Decimal {
	return e.cfg.Copt
}

// Cmax returns the maximum rewarded collateralization ratio.
func (e *Engine) Cmax() num.Decimal {
	return e.cfg.Cmax
}

// reserveToTokens values a reserve quantity in pegged-token units at
// current rolling prices.
func (e *Engine) reserveToTokens(qty num.Decimal) num.Decimal {
	return e.ledger.Round(
		qty.Mul(e.reserveFiat.RollingPrice()).Div(e.tokenFiat.RollingPrice()))
}

// tokensToReserve values a token quantity in reserve units at current
// rolling prices.
func (e *Engine) tokensToReserve(qty num.Decimal) num.Decimal {
	return e.ledger.Round(
		qty.Mul(e.tokenFiat.RollingPrice()).Div(e.reserveFiat.RollingPrice()))
}

// EscrowReserve locks a positive quantity of the party's free reserve
// as backing for issuance.
func (e *Engine) EscrowReserve(party string, qty num.Decimal) error {
	acc, err := e.ledger.Account(party)
	if err != nil {
		return err
	}
	if qty.IsNegative() || acc.Available(types.AssetReserve).LessThan(qty) {
		return types.ErrInsufficientFunds
	}
	acc.EscrowedReserve = acc.EscrowedReserve.Add(qty)
	return nil
}

// UnescrowReserve releases escrowed reserve that is not locked by
// issued tokens.
func (e *Engine) UnescrowReserve(party string, qty num.Decimal) error {
	acc, err := e.ledger.Account(party)
	if err != nil {
		return err
	}
	if qty.IsNegative() || e.AvailableEscrow(acc).LessThan(qty) {
		return types.ErrInsufficientFunds
	}
	acc.EscrowedReserve = acc.EscrowedReserve.Sub(qty)
	return nil
}

// LockedEscrow is the reserve quantity needed to back the account's
// issued tokens at the utilisation cap. May exceed total escrow when
// prices move.
func (e *Engine) LockedEscrow(acc *ledger.Account) num.Decimal {
	if acc.IssuedTokens.IsZero() {
		return num.DecimalZero()
	}
	return e.ledger.Round(
		e.tokensToReserve(acc.IssuedTokens).Div(e.cfg.UtilisationRatio))
}

// AvailableEscrow is the escrowed reserve not locked by issued tokens.
// May be negative.
func (e *Engine) AvailableEscrow(acc *ledger.Account) num.Decimal {
	return acc.EscrowedReserve.Sub(e.LockedEscrow(acc))
}

// MaxIssuanceRights is the total token quantity the account may have
// issued given its current escrow.
func (e *Engine) MaxIssuanceRights(acc *ledger.Account) num.Decimal {
	return e.ledger.Round(
		e.reserveToTokens(acc.EscrowedReserve).Mul(e.cfg.UtilisationRatio))
}

// RemainingIssuanceRights is how many more tokens the account may
// issue. May be negative.
func (e *Engine) RemainingIssuanceRights(acc *ledger.Account) num.Decimal {
	return e.MaxIssuanceRights(acc).Sub(acc.IssuedTokens)
}

// Issue mints a positive quantity of pegged tokens against the
// account's existing escrow. Rejected when it would exceed the
// utilisation cap.
func (e *Engine) Issue(party string, qty num.Decimal) error {
	acc, err := e.ledger.Account(party)
	if err != nil {
		return err
	}
	if qty.IsNegative() {
		return types.ErrInvalidQuantity
	}
	if e.RemainingIssuanceRights(acc).LessThan(qty) {
		return types.ErrIssuanceCapExceeded
	}
	if err := e.ledger.MintTokens(party, qty); err != nil {
		return err
	}
	acc.IssuedTokens = acc.IssuedTokens.Add(qty)

	if fee := e.fees.IssuanceFee(qty); fee.IsPositive() {
		if err := e.ledger.Deduct(party, types.AssetToken, fee); err == nil {
			e.ledger.AddToPool(types.AssetToken, fee)
		}
	}
	return nil
}

// Burn destroys a positive quantity of the party's pegged tokens,
// reducing its issued amount and freeing up escrow. The burn quantity
// is capped by both the token balance and the issued amount.
func (e *Engine) Burn(party string, qty num.Decimal) error {
	acc, err := e.ledger.Account(party)
	if err != nil {
		return err
	}
	if qty.IsNegative() || acc.IssuedTokens.LessThan(qty) {
		return types.ErrInvalidQuantity
	}
	fee := e.fees.BurningFee(qty)
	if acc.Balance(types.AssetToken).LessThan(qty.Add(fee)) {
		return types.ErrInsufficientFunds
	}
	if err := e.ledger.BurnTokens(party, qty); err != nil {
		return err
	}
	acc.IssuedTokens = acc.IssuedTokens.Sub(qty)

	if fee.IsPositive() {
		if err := e.ledger.Deduct(party, types.AssetToken, fee); err == nil {
			e.ledger.AddToPool(types.AssetToken, fee)
		}
	}
	return nil
}

// Collateralisation derives the account's ratio of issued token value
// to escrowed reserve value. Zero when nothing is escrowed or issued.
func (e *Engine) Collateralisation(acc *ledger.Account) num.Decimal {
	if acc.EscrowedReserve.IsZero() || acc.IssuedTokens.IsZero() {
		return num.DecimalZero()
	}
	issuedValue := acc.IssuedTokens.Mul(e.tokenFiat.RollingPrice())
	escrowValue := acc.EscrowedReserve.Mul(e.reserveFiat.RollingPrice())
	return issuedValue.Div(escrowValue)
}

// OptimalIssuanceDelta is the signed token quantity separating the
// account's issued amount from the issuance that would put it exactly
// at the optimal collateralization target. Positive means the account
// should issue more, negative that it should burn or un-escrow.
func (e *Engine) OptimalIssuanceDelta(acc *ledger.Account) num.Decimal {
	optimal := e.ledger.Round(
		e.reserveToTokens(acc.EscrowedReserve).Mul(e.cfg.Copt))
	return optimal.Sub(acc.IssuedTokens)
}

// TokensToReserve converts a token-denominated deficit into reserve
// units at current prices, used when the controller releases escrow.
func (e *Engine) TokensToReserve(qty num.Decimal) num.Decimal {
	return e.tokensToReserve(qty)
}
