package matching

import (
	"sort"

	"code.pegsim.io/pegsim/types"
)

// bookSide holds one side of the book in matching priority order:
// element 0 is always the best order. Bids sort by descending price,
// asks by ascending price, ties broken by creation time (earliest
// first).
type bookSide struct {
	side   types.Side
	orders []*types.Order
}

func newBookSide(side types.Side) *bookSide {
	return &bookSide{
		side:   side,
		orders: []*types.Order{},
	}
}

// betterPrice reports whether price a has strict priority over b on
// this side.
func (s *bookSide) betterPrice(a, b *types.Order) bool {
	if s.side == types.SideBuy {
		return a.Price.GreaterThan(b.Price)
	}
	return a.Price.LessThan(b.Price)
}

// insert places the order at its sorted position by (price, time).
func (s *bookSide) insert(o *types.Order) {
	i := sort.Search(len(s.orders), func(i int) bool {
		cur := s.orders[i]
		if cur.Price.Equal(o.Price) {
			// equal price, the newcomer queues behind existing orders
			return o.Before(cur)
		}
		return s.betterPrice(o, cur)
	})
	s.orders = append(s.orders, nil)
	copy(s.orders[i+1:], s.orders[i:])
	s.orders[i] = o
}

// remove takes the order off the side, returning ErrOrderNotFound if
// it is not resting here.
func (s *bookSide) remove(o *types.Order) error {
	for i, cur := range s.orders {
		if cur.ID == o.ID {
			s.orders = s.orders[:i+copy(s.orders[i:], s.orders[i+1:])]
			return nil
		}
	}
	return types.ErrOrderNotFound
}

// best returns the top of the side, or false when the side is empty.
func (s *bookSide) best() (*types.Order, bool) {
	if len(s.orders) == 0 {
		return nil, false
	}
	return s.orders[0], true
}

func (s *bookSide) len() int {
	return len(s.orders)
}

// depth aggregates resting volume by price level, best price first.
func (s *bookSide) depth() []PriceVolume {
	levels := make([]PriceVolume, 0, len(s.orders))
	for _, o := range s.orders {
		if n := len(levels); n > 0 && levels[n-1].Price.Equal(o.Price) {
			levels[n-1].Volume = levels[n-1].Volume.Add(o.Remaining)
			continue
		}
		levels = append(levels, PriceVolume{Price: o.Price, Volume: o.Remaining})
	}
	return levels
}
