package ledger

import (
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/types"
)

// Account holds one participant's position in all three assets.
// Balances are total holdings; committed amounts back resting orders
// and escrowed reserve backs issued tokens. Accounts are only mutated
// through engine transfers, mint operations and fee distributions.
type Account struct {
	Party string

	balances  map[types.Asset]num.Decimal
	committed map[types.Asset]num.Decimal

	// EscrowedReserve is reserve locked to back issuance, IssuedTokens
	// the pegged tokens issued against it.
	EscrowedReserve num.Decimal
	IssuedTokens    num.Decimal
}

func newAccount(party string) *Account {
	balances := make(map[types.Asset]num.Decimal, 3)
	committed := make(map[types.Asset]num.Decimal, 3)
	for _, a := range types.Assets() {
		balances[a] = num.DecimalZero()
		committed[a] = num.DecimalZero()
	}
	return &Account{
		Party:           party,
		balances:        balances,
		committed:       committed,
		EscrowedReserve: num.DecimalZero(),
		IssuedTokens:    num.DecimalZero(),
	}
}

// Balance returns the total holding in the given asset.
func (a *Account) Balance(asset types.Asset) num.Decimal {
	return a.balances[asset]
}

// Committed returns the amount tied up in resting orders.
func (a *Account) Committed(asset types.Asset) num.Decimal {
	return a.committed[asset]
}

// Available is the balance not tied up in resting orders; for the
// reserve asset escrow is unavailable too. May be negative.
func (a *Account) Available(asset types.Asset) num.Decimal {
	avail := a.balances[asset].Sub(a.committed[asset])
	if asset == types.AssetReserve {
		avail = avail.Sub(a.EscrowedReserve)
	}
	return avail
}
