package fee

import (
	"testing"

	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCollat map[string]num.Decimal

func (s stubCollat) Collateralisation(acc *ledger.Account) num.Decimal {
	return s[acc.Party]
}

func d(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func getTestFeeEngine(t *testing.T, cfg Config) (*Engine, *ledger.Engine) {
	t.Helper()
	log := logging.NewTestLogger()
	lgr := ledger.New(log, ledger.NewDefaultConfig())
	return New(log, cfg, lgr), lgr
}

func TestMultiplierShape(t *testing.T) {
	copt, cmax := d("0.2"), d("0.25")

	// rising side: 0 at ci=0, 1 at ci=copt
	assert.True(t, multiplier(d("0"), copt, cmax).IsZero())
	assert.True(t, multiplier(d("0.1"), copt, cmax).Equal(d("0.5")))
	assert.True(t, multiplier(d("0.2"), copt, cmax).Equal(d("1")))

	// falling side: back to 0 at ci=cmax
	assert.True(t, multiplier(d("0.225"), copt, cmax).Equal(d("0.5")))
	assert.True(t, multiplier(d("0.25"), copt, cmax).IsZero())

	// over-collateralized accounts get nothing
	assert.True(t, multiplier(d("0.3"), copt, cmax).IsZero())
	assert.True(t, multiplier(d("1"), copt, cmax).IsZero())
}

func TestTransferFeeRates(t *testing.T) {
	e, _ := getTestFeeEngine(t, NewDefaultConfig())

	assert.True(t, e.TransferFee(types.AssetToken, d("100")).Equal(d("0.5")))
	assert.True(t, e.TransferFee(types.AssetReserve, d("100")).IsZero())
	assert.True(t, e.TransferFee(types.AssetFiat, d("100")).IsZero())
}

func TestTransferFeeDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.EnableTransferFee = false
	e, _ := getTestFeeEngine(t, cfg)

	assert.True(t, e.TransferFee(types.AssetToken, d("100")).IsZero())
	assert.True(t, e.ReceivedAfterFee(types.AssetToken, d("100")).Equal(d("100")))
}

func TestReceivedAfterFee(t *testing.T) {
	e, _ := getTestFeeEngine(t, NewDefaultConfig())

	// committing qty inclusive of fee: received + fee(received) ~ qty
	received := e.ReceivedAfterFee(types.AssetToken, d("100.5"))
	assert.True(t, received.Equal(d("100")))
}

func TestCollectHedgeFees(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.EnableHedgingFee = true
	e, lgr := getTestFeeEngine(t, cfg)

	_, err := lgr.CreateAccount("hedged")
	require.NoError(t, err)
	lgr.AddToPool(types.AssetToken, d("100"))
	require.NoError(t, lgr.Endow("hedged", types.AssetToken, d("100")))

	pool := lgr.Pool(types.AssetToken)
	e.CollectHedgeFees("hedged")

	// 100 * 0.005 / 50 per tick
	acc, _ := lgr.Account("hedged")
	assert.True(t, acc.Balance(types.AssetToken).Equal(d("99.99")))
	assert.True(t, lgr.Pool(types.AssetToken).Equal(pool.Add(d("0.01"))))
}

func TestDistributeWeightedPayout(t *testing.T) {
	e, lgr := getTestFeeEngine(t, NewDefaultConfig())
	for _, p := range []string{"alice", "bob"} {
		_, err := lgr.CreateAccount(p)
		require.NoError(t, err)
		require.NoError(t, lgr.Endow(p, types.AssetReserve, d("100")))
	}
	lgr.AddToPool(types.AssetToken, d("100"))
	lgr.AdvanceTime()

	collat := stubCollat{"alice": d("0.2"), "bob": d("0.1")}
	e.Distribute(lgr.Accounts(), collat, d("0.2"), d("0.25"))

	// weights: alice 100*1, bob 100*0.5; payouts carry the 0.995 buffer
	alice, _ := lgr.Account("alice")
	bob, _ := lgr.Account("bob")
	assert.True(t, alice.Balance(types.AssetToken).Equal(d("66.33333333")))
	assert.True(t, bob.Balance(types.AssetToken).Equal(d("33.16666667")))
	assert.False(t, lgr.Pool(types.AssetToken).IsNegative())
	assert.True(t, e.LastFeesCollected().Equal(d("99.5")))
	assert.True(t, e.FeesDistributed().Equal(d("99.5")))
}

func TestDistributePeriodGating(t *testing.T) {
	e, lgr := getTestFeeEngine(t, NewDefaultConfig())
	_, err := lgr.CreateAccount("alice")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("alice", types.AssetReserve, d("100")))
	lgr.AddToPool(types.AssetToken, d("100"))
	collat := stubCollat{"alice": d("0.2")}

	lgr.AdvanceTime()
	e.Distribute(lgr.Accounts(), collat, d("0.2"), d("0.25"))
	first := e.FeesDistributed()
	assert.True(t, first.IsPositive())

	// within the period nothing more is paid out
	lgr.AdvanceTime()
	lgr.AddToPool(types.AssetToken, d("100"))
	e.Distribute(lgr.Accounts(), collat, d("0.2"), d("0.25"))
	assert.True(t, e.FeesDistributed().Equal(first))

	// a full period later the pool is swept again
	for i := 0; i < 30; i++ {
		lgr.AdvanceTime()
	}
	e.Distribute(lgr.Accounts(), collat, d("0.2"), d("0.25"))
	assert.True(t, e.FeesDistributed().GreaterThan(first))
}

func TestDistributeSkipsZeroCopt(t *testing.T) {
	e, lgr := getTestFeeEngine(t, NewDefaultConfig())
	_, err := lgr.CreateAccount("alice")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("alice", types.AssetReserve, d("100")))
	lgr.AddToPool(types.AssetToken, d("100"))
	lgr.AdvanceTime()

	pool := lgr.Pool(types.AssetToken)
	e.Distribute(lgr.Accounts(), stubCollat{"alice": d("0.2")}, d("0"), d("0.25"))
	assert.True(t, lgr.Pool(types.AssetToken).Equal(pool))
	assert.True(t, e.FeesDistributed().IsZero())
}

func TestDistributeSkipsWhenNoEligibleWeight(t *testing.T) {
	e, lgr := getTestFeeEngine(t, NewDefaultConfig())
	_, err := lgr.CreateAccount("alice")
	require.NoError(t, err)
	require.NoError(t, lgr.Endow("alice", types.AssetReserve, d("100")))
	lgr.AddToPool(types.AssetToken, d("100"))
	lgr.AdvanceTime()

	// over-collateralized, weight is zero
	pool := lgr.Pool(types.AssetToken)
	e.Distribute(lgr.Accounts(), stubCollat{"alice": d("0.5")}, d("0.2"), d("0.25"))
	assert.True(t, lgr.Pool(types.AssetToken).Equal(pool))
	assert.True(t, e.LastFeesCollected().IsZero())
}

func TestDistributeNonNegativity(t *testing.T) {
	e, lgr := getTestFeeEngine(t, NewDefaultConfig())
	parties := []string{"p1", "p2", "p3"}
	before := map[string]num.Decimal{}
	collat := stubCollat{"p1": d("0.01"), "p2": d("0.19"), "p3": d("0.24")}
	for _, p := range parties {
		_, err := lgr.CreateAccount(p)
		require.NoError(t, err)
		require.NoError(t, lgr.Endow(p, types.AssetReserve, d("333")))
		acc, _ := lgr.Account(p)
		before[p] = acc.Balance(types.AssetToken)
	}
	lgr.AddToPool(types.AssetToken, d("0.00000007"))
	lgr.AdvanceTime()

	e.Distribute(lgr.Accounts(), collat, d("0.2"), d("0.25"))

	assert.False(t, lgr.Pool(types.AssetToken).IsNegative())
	for _, p := range parties {
		acc, _ := lgr.Account(p)
		assert.True(t, acc.Balance(types.AssetToken).GreaterThanOrEqual(before[p]),
			"party %s lost tokens in a distribution", p)
	}
}
