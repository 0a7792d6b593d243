package simulation

import (
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/matching"
	"code.pegsim.io/pegsim/types"
)

// Portfolio is a read-only fiat-valued snapshot of one account, for
// the reporting layer. Nothing here mutates the ledger.
type Portfolio struct {
	Party string

	Reserve num.Decimal
	Token   num.Decimal
	Fiat    num.Decimal

	EscrowedReserve num.Decimal
	IssuedTokens    num.Decimal

	// Wealth is fiat plus reserve holdings at the reserve/fiat rolling
	// price plus net token holdings (issuance debt deducted) at the
	// token/fiat rolling price. Escrow is part of the reserve balance.
	Wealth num.Decimal
}

// ReserveToFiat values a reserve quantity at the reserve/fiat book's
// rolling price.
func (e *Engine) ReserveToFiat(qty num.Decimal) num.Decimal {
	return e.ledger.Round(qty.Mul(e.books[types.PairReserveFiat].RollingPrice()))
}

// TokenToFiat values a token quantity at the token/fiat book's rolling
// price.
func (e *Engine) TokenToFiat(qty num.Decimal) num.Decimal {
	return e.ledger.Round(qty.Mul(e.books[types.PairTokenFiat].RollingPrice()))
}

// ReserveToTokens converts a reserve quantity via the reserve/token
// book's rolling price.
func (e *Engine) ReserveToTokens(qty num.Decimal) num.Decimal {
	return e.ledger.Round(qty.Mul(e.books[types.PairReserveToken].RollingPrice()))
}

// Portfolio builds the fiat-valued snapshot of a party's account.
func (e *Engine) Portfolio(party string) (Portfolio, error) {
	acc, err := e.ledger.Account(party)
	if err != nil {
		return Portfolio{}, err
	}
	return Portfolio{
		Party:           party,
		Reserve:         acc.Balance(types.AssetReserve),
		Token:           acc.Balance(types.AssetToken),
		Fiat:            acc.Balance(types.AssetFiat),
		EscrowedReserve: acc.EscrowedReserve,
		IssuedTokens:    acc.IssuedTokens,
		Wealth:          e.wealth(acc),
	}, nil
}

func (e *Engine) wealth(acc *ledger.Account) num.Decimal {
	w := acc.Balance(types.AssetFiat)
	w = w.Add(e.ReserveToFiat(acc.Balance(types.AssetReserve)))
	w = w.Add(e.TokenToFiat(acc.Balance(types.AssetToken).Sub(acc.IssuedTokens)))
	return e.ledger.Round(w)
}

// Depth returns the aggregated depth snapshot of one book.
func (e *Engine) Depth(pair types.Pair) matching.Depth {
	return e.books[pair].Depth()
}

// Depths returns the depth snapshots of all three books in pair order.
func (e *Engine) Depths() []matching.Depth {
	out := make([]matching.Depth, 0, len(e.books))
	for _, pair := range types.Pairs() {
		out = append(out, e.books[pair].Depth())
	}
	return out
}
