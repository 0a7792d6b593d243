package types

// Asset enumerates the three currencies in the simulated economy.
type Asset int

const (
	// AssetReserve is the collateral token backing issuance.
	AssetReserve Asset = iota
	// AssetToken is the pegged token issued against escrowed reserve.
	AssetToken
	// AssetFiat is the external reference currency.
	AssetFiat
)

func (a Asset) String() string {
	switch a {
	case AssetReserve:
		return "reserve"
	case AssetToken:
		return "token"
	case AssetFiat:
		return "fiat"
	}
	return "unknown"
}

// Assets lists all assets, in a fixed order used wherever the code
// iterates over balances.
func Assets() []Asset {
	return []Asset{AssetReserve, AssetToken, AssetFiat}
}

// Pair identifies one of the three order books. Buyers hold the quote
// asset and sellers hold the base asset.
type Pair int

const (
	// PairReserveToken trades reserve (base) against pegged tokens (quote).
	PairReserveToken Pair = iota
	// PairReserveFiat trades reserve (base) against fiat (quote).
	PairReserveFiat
	// PairTokenFiat trades pegged tokens (base) against fiat (quote).
	PairTokenFiat
)

func (p Pair) Base() Asset {
	switch p {
	case PairReserveToken, PairReserveFiat:
		return AssetReserve
	default:
		return AssetToken
	}
}

func (p Pair) Quote() Asset {
	switch p {
	case PairReserveToken:
		return AssetToken
	default:
		return AssetFiat
	}
}

func (p Pair) String() string {
	return p.Base().String() + "/" + p.Quote().String()
}

// Pairs lists all order book pairs in a fixed order.
func Pairs() []Pair {
	return []Pair{PairReserveToken, PairReserveFiat, PairTokenFiat}
}
