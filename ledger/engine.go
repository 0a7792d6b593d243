package ledger

import (
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/types"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Engine is the process-wide account of balances and time. It holds
// every participant account, the system's own per-asset pools (where
// all fees accumulate), the total supply figures and the current
// simulated tick. All state is mutated on a single goroutine by the
// simulation driver.
type Engine struct {
	log *logging.Logger
	cfg Config

	accounts map[string]*Account
	pools    map[types.Asset]num.Decimal

	reserveSupply num.Decimal
	tokenSupply   num.Decimal

	now int64
}

// New instantiates a ledger engine holding the configured initial
// supplies in its system pools.
func New(log *logging.Logger, cfg Config) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	pools := make(map[types.Asset]num.Decimal, 3)
	for _, a := range types.Assets() {
		pools[a] = num.DecimalZero()
	}
	pools[types.AssetReserve] = cfg.ReserveSupply
	pools[types.AssetToken] = cfg.TokenSupply
	pools[types.AssetFiat] = cfg.FiatSupply

	return &Engine{
		log:           log,
		cfg:           cfg,
		accounts:      map[string]*Account{},
		pools:         pools,
		reserveSupply: cfg.ReserveSupply,
		tokenSupply:   cfg.TokenSupply,
	}
}

// ReloadConf is used in order to reload the internal configuration of
// the ledger engine.
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

// Round applies the configured fixed-precision rounding (half up).
// Products and quotients of currency amounts must go through this.
func (e *Engine) Round(d num.Decimal) num.Decimal {
	return num.Round(d, e.cfg.Precision)
}

// Now returns the current simulated tick.
func (e *Engine) Now() int64 {
	return e.now
}

// AdvanceTime moves the simulation one tick forward.
func (e *Engine) AdvanceTime() int64 {
	e.now++
	return e.now
}

// CreateAccount registers a new, empty account for the party.
func (e *Engine) CreateAccount(party string) (*Account, error) {
	if _, ok := e.accounts[party]; ok {
		return nil, types.ErrAccountAlreadyExists
	}
	acc := newAccount(party)
	e.accounts[party] = acc
	return acc, nil
}

// Account looks up the account for a party.
func (e *Engine) Account(party string) (*Account, error) {
	acc, ok := e.accounts[party]
	if !ok {
		return nil, types.ErrAccountNotFound
	}
	return acc, nil
}

// Accounts returns all accounts in deterministic party order.
func (e *Engine) Accounts() []*Account {
	parties := maps.Keys(e.accounts)
	slices.Sort(parties)
	accs := make([]*Account, 0, len(parties))
	for _, p := range parties {
		accs = append(accs, e.accounts[p])
	}
	return accs
}

// Endow moves an amount of an asset from the system pool to a party,
// used when populating agents at simulation start.
func (e *Engine) Endow(party string, asset types.Asset, qty num.Decimal) error {
	acc, err := e.Account(party)
	if err != nil {
		return err
	}
	if qty.IsNegative() || e.pools[asset].LessThan(qty) {
		return types.ErrInsufficientFunds
	}
	e.pools[asset] = e.pools[asset].Sub(qty)
	acc.balances[asset] = acc.balances[asset].Add(qty)
	return nil
}

// CanCover reports whether the party's total balance in the asset
// covers quantity plus fee. The check mirrors the transfer itself so a
// passing check guarantees the transfer will not be rejected.
func (e *Engine) CanCover(party string, asset types.Asset, qty, fee num.Decimal) bool {
	acc, ok := e.accounts[party]
	if !ok {
		return false
	}
	total := qty.Add(fee)
	return !qty.IsNegative() && !fee.IsNegative() &&
		total.LessThanOrEqual(e.Round(acc.balances[asset]))
}

// Transfer moves qty of the asset from one party to another and routes
// the fee to the system pool for that asset. It is rejected with no
// mutation when the sender cannot cover qty+fee.
func (e *Engine) Transfer(asset types.Asset, from, to string, qty, fee num.Decimal) error {
	if !e.CanCover(from, asset, qty, fee) {
		return types.ErrInsufficientFunds
	}
	sender, err := e.Account(from)
	if err != nil {
		return err
	}
	recipient, err := e.Account(to)
	if err != nil {
		return err
	}
	sender.balances[asset] = sender.balances[asset].Sub(qty).Sub(fee)
	recipient.balances[asset] = recipient.balances[asset].Add(qty)
	e.pools[asset] = e.pools[asset].Add(fee)
	return nil
}

// Commit reserves part of a party's balance against a resting order.
func (e *Engine) Commit(party string, asset types.Asset, qty num.Decimal) error {
	acc, err := e.Account(party)
	if err != nil {
		return err
	}
	if qty.IsNegative() || acc.Available(asset).LessThan(qty) {
		return types.ErrInsufficientFunds
	}
	acc.committed[asset] = acc.committed[asset].Add(qty)
	return nil
}

// Release frees a previously committed amount, clamping at zero so
// rounding drift on the final fill of an order cannot leave a negative
// commitment behind.
func (e *Engine) Release(party string, asset types.Asset, qty num.Decimal) {
	acc, ok := e.accounts[party]
	if !ok {
		return
	}
	c := acc.committed[asset].Sub(qty)
	if c.IsNegative() {
		c = num.DecimalZero()
	}
	acc.committed[asset] = c
}

// Deduct removes an amount from a party's balance without a recipient;
// callers route the amount into a system pool themselves.
func (e *Engine) Deduct(party string, asset types.Asset, qty num.Decimal) error {
	acc, err := e.Account(party)
	if err != nil {
		return err
	}
	if qty.IsNegative() || acc.balances[asset].LessThan(qty) {
		return types.ErrInsufficientFunds
	}
	acc.balances[asset] = acc.balances[asset].Sub(qty)
	return nil
}

// Pool returns the system-held balance for an asset. The token pool is
// the fee pool swept by the periodic distribution.
func (e *Engine) Pool(asset types.Asset) num.Decimal {
	return e.pools[asset]
}

// AddToPool adds a fee amount to the system pool for an asset.
func (e *Engine) AddToPool(asset types.Asset, qty num.Decimal) {
	e.pools[asset] = e.pools[asset].Add(qty)
}

// PayFromPool moves an amount from the system pool to a party. The
// pool going negative is a conservation defect, not a recoverable
// condition, so it halts the simulation.
func (e *Engine) PayFromPool(asset types.Asset, party string, qty num.Decimal) {
	acc, err := e.Account(party)
	if err != nil {
		e.log.Panic("fee distribution to unknown party",
			logging.String("party", party),
			logging.Int64("tick", e.now),
		)
	}
	remaining := e.pools[asset].Sub(qty)
	if remaining.IsNegative() {
		e.log.Panic("system pool overdrawn",
			logging.String("asset", asset.String()),
			logging.Decimal("pool", e.pools[asset]),
			logging.Decimal("payout", qty),
			logging.String("party", party),
			logging.Int64("tick", e.now),
		)
	}
	e.pools[asset] = remaining
	acc.balances[asset] = acc.balances[asset].Add(qty)
}

// MintTokens credits newly issued pegged tokens to a party and grows
// the supply. Only the mint engine calls this.
func (e *Engine) MintTokens(party string, qty num.Decimal) error {
	acc, err := e.Account(party)
	if err != nil {
		return err
	}
	acc.balances[types.AssetToken] = acc.balances[types.AssetToken].Add(qty)
	e.tokenSupply = e.tokenSupply.Add(qty)
	return nil
}

// BurnTokens removes pegged tokens from a party and shrinks the supply.
func (e *Engine) BurnTokens(party string, qty num.Decimal) error {
	acc, err := e.Account(party)
	if err != nil {
		return err
	}
	if acc.balances[types.AssetToken].LessThan(qty) {
		return types.ErrInsufficientFunds
	}
	acc.balances[types.AssetToken] = acc.balances[types.AssetToken].Sub(qty)
	e.tokenSupply = e.tokenSupply.Sub(qty)
	return nil
}

// ReserveSupply returns the total reserve asset in existence.
func (e *Engine) ReserveSupply() num.Decimal {
	return e.reserveSupply
}

// TokenSupply returns the total pegged tokens in existence.
func (e *Engine) TokenSupply() num.Decimal {
	return e.tokenSupply
}

// TotalBalance sums every account balance plus the system pool for an
// asset, used by conservation checks and reporting.
func (e *Engine) TotalBalance(asset types.Asset) num.Decimal {
	total := e.pools[asset]
	for _, acc := range e.accounts {
		total = total.Add(acc.balances[asset])
	}
	return total
}
