package simulation_test

import (
	"testing"

	"code.pegsim.io/pegsim/agents"
	"code.pegsim.io/pegsim/fee"
	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/matching"
	"code.pegsim.io/pegsim/mint"
	"code.pegsim.io/pegsim/settlement"
	"code.pegsim.io/pegsim/simulation"
	"code.pegsim.io/pegsim/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func getTestEngine(t *testing.T) *simulation.Engine {
	t.Helper()
	return simulation.New(
		logging.NewTestLogger(),
		simulation.NewDefaultConfig(),
		ledger.NewDefaultConfig(),
		matching.NewDefaultConfig(),
		settlement.NewDefaultConfig(),
		fee.NewDefaultConfig(),
		mint.NewDefaultConfig(),
		agents.NewDefaultConfig(),
	)
}

// A escrows half its reserve, issues tokens against it and sells part
// of them to B for fiat on the token/fiat book.
func TestIssueAndSellScenario(t *testing.T) {
	e := getTestEngine(t)
	lgr := e.Ledger()

	_, err := lgr.CreateAccount("partyA")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("partyA", types.AssetReserve, d("1000")))
	_, err = lgr.CreateAccount("partyB")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("partyB", types.AssetFiat, d("100")))

	require.NoError(t, e.Mint().EscrowReserve("partyA", d("500")))
	require.NoError(t, e.Mint().Issue("partyA", d("100")))

	book := e.Book(types.PairTokenFiat)
	ask, err := book.SubmitAsk("partyA", d("1.0"), d("50"))
	require.NoError(t, err)
	bid, err := book.SubmitBid("partyB", d("1.0"), d("50"))
	require.NoError(t, err)

	trades := e.Trades()
	require.Len(t, trades, 1)
	assert.True(t, trades[0].Price.Equal(d("1.0")))
	assert.True(t, trades[0].Size.Equal(d("50")))
	assert.Equal(t, "partyB", trades[0].Buyer)
	assert.Equal(t, "partyA", trades[0].Seller)
	assert.Equal(t, types.OrderStatusFilled, ask.Status)
	assert.Equal(t, types.OrderStatusFilled, bid.Status)

	accA, _ := lgr.Account("partyA")
	accB, _ := lgr.Account("partyB")
	// A delivered 50 tokens plus the 0.5% ask fee and received 50 fiat
	assert.True(t, accA.Balance(types.AssetToken).Equal(d("49.75")))
	assert.True(t, accA.Balance(types.AssetFiat).Equal(d("50")))
	// B paid 50 fiat (zero fiat fee) for 50 tokens
	assert.True(t, accB.Balance(types.AssetFiat).Equal(d("50")))
	assert.True(t, accB.Balance(types.AssetToken).Equal(d("50")))
	// the ask fee sits in the token pool
	assert.True(t, lgr.Pool(types.AssetToken).Equal(d("0.25")))
}

func TestConservationAcrossTicks(t *testing.T) {
	e := getTestEngine(t)
	lgr := e.Ledger()

	for _, p := range []string{"trader1", "trader2"} {
		_, err := lgr.CreateAccount(p)
		require.NoError(t, err)
		require.NoError(t, lgr.Endow(p, types.AssetReserve, d("1000")))
		require.NoError(t, lgr.Endow(p, types.AssetFiat, d("1000")))
	}

	fiatSupply := lgr.TotalBalance(types.AssetFiat)
	reserveSupply := lgr.ReserveSupply()

	book := e.Book(types.PairReserveFiat)
	_, err := book.SubmitAsk("trader1", d("1.0"), d("100"))
	require.NoError(t, err)
	_, err = book.SubmitBid("trader2", d("1.1"), d("60"))
	require.NoError(t, err)
	_, err = book.SubmitBid("trader2", d("0.9"), d("10"))
	require.NoError(t, err)
	e.Run(5)

	// trading and fee routing only move value around
	assert.True(t, lgr.TotalBalance(types.AssetFiat).Equal(fiatSupply))
	assert.True(t, lgr.TotalBalance(types.AssetReserve).Equal(reserveSupply))
	// tokens only exist through issuance
	assert.True(t, lgr.TotalBalance(types.AssetToken).Equal(lgr.TokenSupply()))
}

func TestBankerScheduleReachesTarget(t *testing.T) {
	e := getTestEngine(t)
	lgr := e.Ledger()

	_, err := e.AddBanker("banker-01")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("banker-01", types.AssetReserve, d("1000")))
	require.NoError(t, e.Mint().EscrowReserve("banker-01", d("500")))

	e.Step()
	assert.EqualValues(t, 1, lgr.Now())

	// 500 escrow at copt 0.2 and unit prices targets 100 issued
	acc, _ := lgr.Account("banker-01")
	assert.True(t, acc.IssuedTokens.Equal(d("100")))
	assert.True(t, lgr.TokenSupply().Equal(d("100")))

	// already on target, further ticks change nothing
	e.Run(30)
	assert.True(t, lgr.TokenSupply().Equal(d("100")))
}

func TestPortfolioSnapshot(t *testing.T) {
	e := getTestEngine(t)
	lgr := e.Ledger()

	_, err := lgr.CreateAccount("partyA")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("partyA", types.AssetReserve, d("1000")))
	require.NoError(t, lgr.Endow("partyA", types.AssetFiat, d("200")))
	require.NoError(t, e.Mint().EscrowReserve("partyA", d("500")))
	require.NoError(t, e.Mint().Issue("partyA", d("100")))

	p, err := e.Portfolio("partyA")
	require.NoError(t, err)
	assert.True(t, p.Reserve.Equal(d("1000")))
	assert.True(t, p.Token.Equal(d("100")))
	assert.True(t, p.Fiat.Equal(d("200")))
	assert.True(t, p.EscrowedReserve.Equal(d("500")))
	assert.True(t, p.IssuedTokens.Equal(d("100")))
	// issued tokens cancel out against the debt at unit prices:
	// 200 fiat + 1000 reserve + (100 - 100) tokens
	assert.True(t, p.Wealth.Equal(d("1200")))

	_, err = e.Portfolio("nobody")
	assert.ErrorIs(t, err, types.ErrAccountNotFound)
}

func TestDepthSnapshots(t *testing.T) {
	e := getTestEngine(t)
	lgr := e.Ledger()
	_, err := lgr.CreateAccount("trader1")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("trader1", types.AssetFiat, d("1000")))

	_, err = e.Book(types.PairTokenFiat).SubmitBid("trader1", d("0.9"), d("10"))
	require.NoError(t, err)

	depths := e.Depths()
	require.Len(t, depths, 3)
	assert.Equal(t, types.PairReserveToken, depths[0].Pair)
	assert.Empty(t, depths[0].Buy)
	assert.Equal(t, types.PairTokenFiat, depths[2].Pair)
	require.Len(t, depths[2].Buy, 1)
	assert.True(t, depths[2].Buy[0].Volume.Equal(d("10")))
}

func TestCancelNotifiesDriver(t *testing.T) {
	e := getTestEngine(t)
	lgr := e.Ledger()
	_, err := lgr.CreateAccount("trader1")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("trader1", types.AssetFiat, d("1000")))

	book := e.Book(types.PairTokenFiat)
	o, err := book.SubmitBid("trader1", d("0.9"), d("10"))
	require.NoError(t, err)
	require.NoError(t, book.CancelOrder(o))
	assert.Empty(t, e.Trades())
}
