package matching

import (
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/metrics"
	"code.pegsim.io/pegsim/types"

	"github.com/google/uuid"
)

// Settler matches the top bid against the top ask. A nil trade with a
// nil error means no trade happened; the settler marks any order it
// cancelled, the book takes care of removal.
type Settler interface {
	Match(bid, ask *types.Order) (*types.Trade, error)
}

// FeeCalculator computes the transfer fee reserved when posting an
// order, implemented by the fee engine.
type FeeCalculator interface {
	TransferFee(asset types.Asset, qty num.Decimal) num.Decimal
}

// Listener is notified of order cancellations and settled trades.
type Listener interface {
	OnOrderCancelled(o *types.Order)
	OnTrade(t *types.Trade)
}

// PriceVolume is one aggregated depth level.
type PriceVolume struct {
	Price  num.Decimal
	Volume num.Decimal
}

// Depth is a read-only snapshot of resting volume by price, best
// levels first on both sides.
type Depth struct {
	Pair types.Pair
	Buy  []PriceVolume
	Sell []PriceVolume
}

// OrderBook is the continuous double auction for one asset pair.
// Matching is eager: any submission whose price crosses the opposite
// best triggers settlement before the submit returns, so at any rest
// point best bid < best ask or one side is empty.
type OrderBook struct {
	log *logging.Logger
	cfg Config

	pair    types.Pair
	ledger  *ledger.Engine
	fees    FeeCalculator
	settler Settler

	bids *bookSide
	asks *bookSide

	rolling   *rollingAverage
	listeners []Listener
	seq       uint64

	LogRemovedOrdersDebug bool
}

// NewOrderBook returns a book for the pair, wired to the ledger for
// commitment accounting and to the settler for eager matching.
func NewOrderBook(log *logging.Logger, cfg Config, pair types.Pair, lgr *ledger.Engine, fees FeeCalculator, settler Settler) *OrderBook {
	log = log.Named(namedLogger + "." + pair.String())
	log.SetLevel(cfg.Level.Get())
	return &OrderBook{
		log:                   log,
		cfg:                   cfg,
		pair:                  pair,
		ledger:                lgr,
		fees:                  fees,
		settler:               settler,
		bids:                  newBookSide(types.SideBuy),
		asks:                  newBookSide(types.SideSell),
		rolling:               newRollingAverage(cfg.RollingAverageWindow, bool(cfg.VolumeWeightedAverage)),
		LogRemovedOrdersDebug: cfg.LogRemovedOrdersDebug,
	}
}

// Pair returns the asset pair this book trades.
func (b *OrderBook) Pair() types.Pair {
	return b.pair
}

// Subscribe registers a listener for cancellations and trades.
func (b *OrderBook) Subscribe(l Listener) {
	b.listeners = append(b.listeners, l)
}

// SubmitBid posts a buy order for qty of the base asset at the given
// quote price. The quote value plus transfer fee is reserved up front;
// a party that cannot afford it gets the order rejected. The order may
// return already partially or fully filled when it crossed the book.
func (b *OrderBook) SubmitBid(party string, price, qty num.Decimal) (*types.Order, error) {
	price, qty = b.ledger.Round(price), b.ledger.Round(qty)
	if !price.IsPositive() || !qty.IsPositive() {
		return nil, types.ErrInvalidQuantity
	}
	value := b.ledger.Round(qty.Mul(price))
	fee := b.fees.TransferFee(b.pair.Quote(), value)
	if err := b.ledger.Commit(party, b.pair.Quote(), value.Add(fee)); err != nil {
		return nil, err
	}
	order := b.newOrder(party, types.SideBuy, price, qty, fee)
	b.bids.insert(order)
	metrics.OrderCounterInc(b.pair.String(), types.SideBuy.String())
	b.uncross()
	return order, nil
}

// SubmitAsk posts a sell order for qty of the base asset at the given
// quote price, reserving qty plus the base-asset transfer fee.
func (b *OrderBook) SubmitAsk(party string, price, qty num.Decimal) (*types.Order, error) {
	price, qty = b.ledger.Round(price), b.ledger.Round(qty)
	if !price.IsPositive() || !qty.IsPositive() {
		return nil, types.ErrInvalidQuantity
	}
	fee := b.fees.TransferFee(b.pair.Base(), qty)
	if err := b.ledger.Commit(party, b.pair.Base(), qty.Add(fee)); err != nil {
		return nil, err
	}
	order := b.newOrder(party, types.SideSell, price, qty, fee)
	b.asks.insert(order)
	metrics.OrderCounterInc(b.pair.String(), types.SideSell.String())
	b.uncross()
	return order, nil
}

// Buy submits a bid at the current best ask price (or the rolling
// price when the ask side is empty), the simulation's market-buy.
func (b *OrderBook) Buy(party string, qty num.Decimal) (*types.Order, error) {
	price := b.RollingPrice()
	if ask, ok := b.asks.best(); ok {
		price = ask.Price
	}
	return b.SubmitBid(party, price, qty)
}

// Sell submits an ask at the current best bid price (or the rolling
// price when the bid side is empty).
func (b *OrderBook) Sell(party string, qty num.Decimal) (*types.Order, error) {
	price := b.RollingPrice()
	if bid, ok := b.bids.best(); ok {
		price = bid.Price
	}
	return b.SubmitAsk(party, price, qty)
}

func (b *OrderBook) newOrder(party string, side types.Side, price, qty, fee num.Decimal) *types.Order {
	b.seq++
	return &types.Order{
		ID:        uuid.NewString(),
		Pair:      b.pair,
		Party:     party,
		Side:      side,
		Price:     price,
		Size:      qty,
		Remaining: qty,
		Fee:       fee,
		CreatedAt: b.ledger.Now(),
		Seq:       b.seq,
		Status:    types.OrderStatusActive,
	}
}

// CancelOrder removes a resting order and releases its remaining
// commitment. Cancelling an order that already left the book is a
// rejected operation.
func (b *OrderBook) CancelOrder(o *types.Order) error {
	if !o.Active() {
		return types.ErrOrderNotFound
	}
	side := b.bids
	if o.Side == types.SideSell {
		side = b.asks
	}
	if err := side.remove(o); err != nil {
		return err
	}
	o.Status = types.OrderStatusCancelled
	b.releaseRemaining(o)
	b.notifyCancelled(o)
	return nil
}

// BestBid returns the highest resting bid, or false when there is no
// liquidity on the buy side.
func (b *OrderBook) BestBid() (*types.Order, bool) {
	return b.bids.best()
}

// BestAsk returns the lowest resting ask, or false when there is no
// liquidity on the sell side.
func (b *OrderBook) BestAsk() (*types.Order, bool) {
	return b.asks.best()
}

// RollingPrice returns the rolling average of recently executed trade
// prices, defaulting to 1 before the first trade.
func (b *OrderBook) RollingPrice() num.Decimal {
	return b.ledger.Round(b.rolling.value())
}

// Orders returns how many orders are resting across both sides.
func (b *OrderBook) Orders() int {
	return b.bids.len() + b.asks.len()
}

// Depth returns the aggregated bid/ask volume by price for reporting.
func (b *OrderBook) Depth() Depth {
	return Depth{
		Pair: b.pair,
		Buy:  b.bids.depth(),
		Sell: b.asks.depth(),
	}
}

// uncross drives eager matching: while the best bid and ask cross, the
// settler is invoked on the pair. Orders it fills or cancels are swept
// off the book; a crossed book where the settler makes no progress is
// a defect and halts the run.
func (b *OrderBook) uncross() {
	for {
		bid, okBid := b.bids.best()
		ask, okAsk := b.asks.best()
		if !okBid || !okAsk || bid.Price.LessThan(ask.Price) {
			return
		}

		trade, err := b.settler.Match(bid, ask)
		if err != nil {
			b.log.Panic("settlement failed on crossed book",
				logging.String("book", b.pair.String()),
				logging.String("bid", bid.ID),
				logging.String("ask", ask.ID),
				logging.Error(err),
			)
		}

		if trade != nil {
			b.rolling.observe(trade.Price, trade.Size)
			// release the consumed slice of both commitments, valued
			// at each order's posted price
			b.ledger.Release(bid.Party, b.pair.Quote(),
				b.ledger.Round(trade.Size.Mul(bid.Price)).Add(trade.BuyerFee))
			b.ledger.Release(ask.Party, b.pair.Base(),
				trade.Size.Add(trade.SellerFee))
			metrics.TradeCounterInc(b.pair.String())
			b.notifyTrade(trade)
		}

		b.sweep(bid, b.bids)
		b.sweep(ask, b.asks)

		if trade == nil && bid.Active() && ask.Active() {
			b.log.Panic("crossed book made no matching progress",
				logging.String("book", b.pair.String()),
				logging.String("bid", bid.ID),
				logging.String("ask", ask.ID),
				logging.Int64("tick", b.ledger.Now()),
			)
		}
	}
}

// sweep removes the order from its side when it left the active
// states, releasing whatever commitment is still attached to it.
func (b *OrderBook) sweep(o *types.Order, side *bookSide) {
	if o.Active() {
		return
	}
	if err := side.remove(o); err != nil {
		return
	}
	if b.LogRemovedOrdersDebug {
		b.log.Debug("removed order from book",
			logging.String("order", o.ID),
			logging.String("status", o.Status.String()),
		)
	}
	b.releaseRemaining(o)
	if o.Status == types.OrderStatusCancelled {
		b.notifyCancelled(o)
	}
}

func (b *OrderBook) releaseRemaining(o *types.Order) {
	if o.Side == types.SideBuy {
		b.ledger.Release(o.Party, b.pair.Quote(),
			b.ledger.Round(o.Remaining.Mul(o.Price)).Add(o.Fee))
		return
	}
	b.ledger.Release(o.Party, b.pair.Base(), o.Remaining.Add(o.Fee))
}

func (b *OrderBook) notifyCancelled(o *types.Order) {
	for _, l := range b.listeners {
		l.OnOrderCancelled(o)
	}
}

func (b *OrderBook) notifyTrade(t *types.Trade) {
	for _, l := range b.listeners {
		l.OnTrade(t)
	}
}
