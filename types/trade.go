package types

import (
	"code.pegsim.io/pegsim/libs/num"
)

// Trade is the immutable record of a single match. It is created once
// per successful settlement and never mutated afterwards; it is the
// only audit artifact for filled volume.
type Trade struct {
	ID        string
	Pair      Pair
	Price     num.Decimal
	Size      num.Decimal
	Buyer     string
	Seller    string
	BuyOrder  string
	SellOrder string
	BuyerFee  num.Decimal
	SellerFee num.Decimal
	Timestamp int64
}

func (t *Trade) Clone() *Trade {
	cpy := *t
	return &cpy
}
