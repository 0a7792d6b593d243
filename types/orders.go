package types

import (
	"code.pegsim.io/pegsim/libs/num"

	"github.com/pkg/errors"
)

var (
	// ErrOrderNotFound signals the order is not resting on the book.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidQuantity signals a non-positive order quantity or price.
	ErrInvalidQuantity = errors.New("invalid quantity or price")
	// ErrInsufficientFunds signals the party cannot cover an amount plus fee.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrIssuanceCapExceeded signals an issuance beyond the utilisation cap.
	ErrIssuanceCapExceeded = errors.New("issuance exceeds escrow-backed capacity")
	// ErrAccountNotFound signals an unknown party.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists signals a duplicate party registration.
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// Side of the book an order rests on.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	OrderStatusActive OrderStatus = iota
	OrderStatusPartiallyFilled
	OrderStatusFilled
	OrderStatusCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusActive:
		return "active"
	case OrderStatusPartiallyFilled:
		return "partially-filled"
	case OrderStatusFilled:
		return "filled"
	case OrderStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Order is a resting bid or ask. Price is denominated in the pair's
// quote asset per unit of base asset, Size and Remaining in base units.
// Fee is the reserved fee still backing the remaining quantity; the
// ratio Fee/Remaining is constant across partial fills.
type Order struct {
	ID        string
	Pair      Pair
	Party     string
	Side      Side
	Price     num.Decimal
	Size      num.Decimal
	Remaining num.Decimal
	Fee       num.Decimal
	CreatedAt int64
	Seq       uint64
	Status    OrderStatus
}

// Active reports whether the order can still trade.
func (o *Order) Active() bool {
	return o.Status == OrderStatusActive || o.Status == OrderStatusPartiallyFilled
}

// Before reports whether o has time priority over other. Orders created
// on an earlier tick come first; within a tick the submission sequence
// breaks the tie.
func (o *Order) Before(other *Order) bool {
	if o.CreatedAt != other.CreatedAt {
		return o.CreatedAt < other.CreatedAt
	}
	return o.Seq < other.Seq
}

func (o *Order) Clone() *Order {
	cpy := *o
	return &cpy
}
