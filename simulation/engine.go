package simulation

import (
	"code.pegsim.io/pegsim/agents"
	"code.pegsim.io/pegsim/fee"
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/matching"
	"code.pegsim.io/pegsim/metrics"
	"code.pegsim.io/pegsim/mint"
	"code.pegsim.io/pegsim/settlement"
	"code.pegsim.io/pegsim/types"
)

// Engine is the single-threaded simulation driver. It owns the ledger,
// the three order books, the settlement, fee and mint engines, and the
// agent schedule. One call to Step completes a whole tick: time
// advance, every agent's turn in schedule order, the hedge fee sweep,
// and the periodic fee distribution. Nothing here is safe for
// concurrent use, determinism depends on the single caller.
type Engine struct {
	log *logging.Logger
	cfg Config

	agentsCfg agents.Config

	ledger *ledger.Engine
	fees   *fee.Engine
	mint   *mint.Engine
	settle *settlement.Engine
	books  map[types.Pair]*matching.OrderBook

	schedule []agents.Agent
	trades   []*types.Trade
}

// New wires the full engine stack together. The reserve/fiat and
// token/fiat books feed the mint engine its valuation prices.
func New(
	log *logging.Logger,
	cfg Config,
	ledgerCfg ledger.Config,
	matchingCfg matching.Config,
	settlementCfg settlement.Config,
	feeCfg fee.Config,
	mintCfg mint.Config,
	agentsCfg agents.Config,
) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	lgr := ledger.New(log, ledgerCfg)
	fees := fee.New(log, feeCfg, lgr)
	settle := settlement.New(log, settlementCfg, lgr)

	books := make(map[types.Pair]*matching.OrderBook, 3)
	for _, pair := range types.Pairs() {
		books[pair] = matching.NewOrderBook(log, matchingCfg, pair, lgr, fees, settle)
	}

	mnt := mint.New(log, mintCfg, lgr, fees,
		books[types.PairReserveFiat], books[types.PairTokenFiat])

	e := &Engine{
		log:       log,
		cfg:       cfg,
		agentsCfg: agentsCfg,
		ledger:    lgr,
		fees:      fees,
		mint:      mnt,
		settle:    settle,
		books:     books,
	}
	for _, pair := range types.Pairs() {
		books[pair].Subscribe(e)
	}
	return e
}

// Ledger exposes the account store.
func (e *Engine) Ledger() *ledger.Engine {
	return e.ledger
}

// Fees exposes the fee engine.
func (e *Engine) Fees() *fee.Engine {
	return e.fees
}

// Mint exposes the mint engine.
func (e *Engine) Mint() *mint.Engine {
	return e.mint
}

// Book returns the order book for a pair.
func (e *Engine) Book(pair types.Pair) *matching.OrderBook {
	return e.books[pair]
}

// AddAgent appends an agent to the schedule. Agents run every tick in
// the order they were added.
func (e *Engine) AddAgent(a agents.Agent) {
	e.schedule = append(e.schedule, a)
}

// AddBanker creates the party's ledger account and schedules a banker
// strategy for it.
func (e *Engine) AddBanker(party string) (*agents.Banker, error) {
	if _, err := e.ledger.CreateAccount(party); err != nil {
		return nil, err
	}
	b := agents.NewBanker(e.log, e.agentsCfg, party, e.ledger, e.mint)
	e.AddAgent(b)
	return b, nil
}

// OnTrade implements matching.Listener, recording every settled trade.
func (e *Engine) OnTrade(t *types.Trade) {
	e.trades = append(e.trades, t)
}

// OnOrderCancelled implements matching.Listener.
func (e *Engine) OnOrderCancelled(o *types.Order) {
	if e.cfg.LogTickDebug {
		e.log.Debug("order cancelled",
			logging.String("order", o.ID),
			logging.String("party", o.Party),
			logging.String("pair", o.Pair.String()),
		)
	}
}

// Step executes one full simulation tick.
func (e *Engine) Step() {
	tick := e.ledger.AdvanceTime()
	if e.cfg.LogTickDebug {
		e.log.Debug("tick", logging.Int64("t", tick))
	}

	for _, a := range e.schedule {
		a.Step()
		e.fees.CollectHedgeFees(a.Party())
	}

	e.fees.Distribute(e.ledger.Accounts(), e.mint, e.mint.Copt(), e.mint.Cmax())

	e.observe()
}

// Run executes n ticks.
func (e *Engine) Run(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
}

// Trades returns the full trade record, oldest first.
func (e *Engine) Trades() []*types.Trade {
	return e.trades
}

func (e *Engine) observe() {
	metrics.TickCounterInc()
	supply, _ := e.ledger.TokenSupply().Float64()
	metrics.TokenSupplySet(supply)
	for _, asset := range types.Assets() {
		pool, _ := e.ledger.Pool(asset).Float64()
		metrics.FeePoolSet(asset.String(), pool)
	}
	for _, pair := range types.Pairs() {
		metrics.RestingOrdersSet(pair.String(), e.books[pair].Orders())
	}
}
