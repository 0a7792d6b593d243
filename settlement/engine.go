package settlement

import (
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/types"

	"github.com/google/uuid"
)

// Engine turns a crossed bid/ask pair into an atomic two-legged
// exchange on the ledger. Settlement is all-or-nothing: if either
// party cannot cover its leg the whole trade is abandoned and the
// insolvent order is cancelled, nothing moves.
type Engine struct {
	log *logging.Logger
	cfg Config

	ledger *ledger.Engine
}

// New returns a settlement engine writing against the given ledger.
func New(log *logging.Logger, cfg Config, lgr *ledger.Engine) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Engine{
		log:    log,
		cfg:    cfg,
		ledger: lgr,
	}
}

// ReloadConf update the internal configuration of the settlement engine.
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

// Match settles the overlap of a crossed bid and ask. The executed
// price is the earlier order's posted price, so the later arrival gets
// any improvement; with identical priority the ask's price is used.
// The fee reserved on each order is consumed pro rata with the filled
// quantity. Returns nil when the orders do not cross or when an
// insolvent side was cancelled instead of traded.
func (e *Engine) Match(bid, ask *types.Order) (*types.Trade, error) {
	if bid.Side != types.SideBuy || ask.Side != types.SideSell || bid.Pair != ask.Pair {
		return nil, types.ErrOrderNotFound
	}
	if bid.Price.LessThan(ask.Price) {
		return nil, nil
	}

	price := ask.Price
	if bid.Before(ask) {
		price = bid.Price
	}
	qty := num.MinD(bid.Remaining, ask.Remaining)
	value := e.ledger.Round(qty.Mul(price))
	buyerFee := e.prorateFee(bid, qty)
	sellerFee := e.prorateFee(ask, qty)

	pair := bid.Pair
	buyerOK := e.ledger.CanCover(bid.Party, pair.Quote(), value, buyerFee)
	sellerOK := e.ledger.CanCover(ask.Party, pair.Base(), qty, sellerFee)
	if !buyerOK || !sellerOK {
		if !buyerOK {
			e.cancel(bid)
		}
		if !sellerOK {
			e.cancel(ask)
		}
		return nil, nil
	}

	// quote leg: buyer pays value plus fee, seller receives value
	if err := e.ledger.Transfer(pair.Quote(), bid.Party, ask.Party, value, buyerFee); err != nil {
		return nil, err
	}
	// base leg: seller delivers qty plus fee, buyer receives qty
	if err := e.ledger.Transfer(pair.Base(), ask.Party, bid.Party, qty, sellerFee); err != nil {
		return nil, err
	}

	e.fill(bid, qty, buyerFee)
	e.fill(ask, qty, sellerFee)

	trade := &types.Trade{
		ID:        uuid.NewString(),
		Pair:      pair,
		Price:     price,
		Size:      qty,
		Buyer:     bid.Party,
		Seller:    ask.Party,
		BuyOrder:  bid.ID,
		SellOrder: ask.ID,
		BuyerFee:  buyerFee,
		SellerFee: sellerFee,
		Timestamp: e.ledger.Now(),
	}
	if e.cfg.LogTradesDebug {
		e.log.Debug("trade settled",
			logging.String("trade", trade.ID),
			logging.String("pair", pair.String()),
			logging.Decimal("price", price),
			logging.Decimal("size", qty),
			logging.String("buyer", trade.Buyer),
			logging.String("seller", trade.Seller),
		)
	}
	return trade, nil
}

// prorateFee consumes the slice of the order's reserved fee matching
// the filled fraction of its remaining quantity.
func (e *Engine) prorateFee(o *types.Order, qty num.Decimal) num.Decimal {
	if !o.Remaining.IsPositive() {
		return num.DecimalZero()
	}
	if qty.Equal(o.Remaining) {
		return o.Fee
	}
	return e.ledger.Round(o.Fee.Mul(qty).Div(o.Remaining))
}

func (e *Engine) fill(o *types.Order, qty, fee num.Decimal) {
	o.Remaining = o.Remaining.Sub(qty)
	o.Fee = num.MaxD(num.DecimalZero(), o.Fee.Sub(fee))
	if o.Remaining.IsPositive() {
		o.Status = types.OrderStatusPartiallyFilled
		return
	}
	o.Status = types.OrderStatusFilled
}

func (e *Engine) cancel(o *types.Order) {
	o.Status = types.OrderStatusCancelled
	e.log.Debug("order cancelled at settlement, party cannot cover",
		logging.String("order", o.ID),
		logging.String("party", o.Party),
		logging.String("pair", o.Pair.String()),
	)
}
