package ledger_test

import (
	"testing"

	"code.pegsim.io/pegsim/ledger"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestLedger(t *testing.T) *ledger.Engine {
	t.Helper()
	return ledger.New(logging.NewTestLogger(), ledger.NewDefaultConfig())
}

func d(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func TestCreateAccount(t *testing.T) {
	e := getTestLedger(t)

	acc, err := e.CreateAccount("traderA")
	require.NoError(t, err)
	assert.Equal(t, "traderA", acc.Party)
	assert.True(t, acc.Balance(types.AssetReserve).IsZero())

	_, err = e.CreateAccount("traderA")
	assert.ErrorIs(t, err, types.ErrAccountAlreadyExists)

	_, err = e.Account("nobody")
	assert.ErrorIs(t, err, types.ErrAccountNotFound)
}

func TestEndowFromSystemPool(t *testing.T) {
	e := getTestLedger(t)
	_, err := e.CreateAccount("traderA")
	require.NoError(t, err)

	poolBefore := e.Pool(types.AssetReserve)
	require.NoError(t, e.Endow("traderA", types.AssetReserve, d("100")))

	acc, _ := e.Account("traderA")
	assert.True(t, acc.Balance(types.AssetReserve).Equal(d("100")))
	assert.True(t, e.Pool(types.AssetReserve).Equal(poolBefore.Sub(d("100"))))

	// the token pool starts empty, endowing from it must fail
	err = e.Endow("traderA", types.AssetToken, d("1"))
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestTransferRoutesFeeToPool(t *testing.T) {
	e := getTestLedger(t)
	_, _ = e.CreateAccount("traderA")
	_, _ = e.CreateAccount("traderB")
	require.NoError(t, e.Endow("traderA", types.AssetReserve, d("100")))

	poolBefore := e.Pool(types.AssetReserve)
	require.NoError(t, e.Transfer(types.AssetReserve, "traderA", "traderB", d("30"), d("1")))

	accA, _ := e.Account("traderA")
	accB, _ := e.Account("traderB")
	assert.True(t, accA.Balance(types.AssetReserve).Equal(d("69")))
	assert.True(t, accB.Balance(types.AssetReserve).Equal(d("30")))
	assert.True(t, e.Pool(types.AssetReserve).Equal(poolBefore.Add(d("1"))))
}

func TestTransferRejectedNoMutation(t *testing.T) {
	e := getTestLedger(t)
	_, _ = e.CreateAccount("traderA")
	_, _ = e.CreateAccount("traderB")
	require.NoError(t, e.Endow("traderA", types.AssetReserve, d("10")))

	err := e.Transfer(types.AssetReserve, "traderA", "traderB", d("10"), d("0.1"))
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)

	accA, _ := e.Account("traderA")
	accB, _ := e.Account("traderB")
	assert.True(t, accA.Balance(types.AssetReserve).Equal(d("10")))
	assert.True(t, accB.Balance(types.AssetReserve).IsZero())
}

func TestConservationAcrossTransfers(t *testing.T) {
	e := getTestLedger(t)
	_, _ = e.CreateAccount("traderA")
	_, _ = e.CreateAccount("traderB")
	require.NoError(t, e.Endow("traderA", types.AssetReserve, d("500")))
	require.NoError(t, e.Endow("traderB", types.AssetReserve, d("500")))

	supply := e.ReserveSupply()
	require.True(t, e.TotalBalance(types.AssetReserve).Equal(supply))

	require.NoError(t, e.Transfer(types.AssetReserve, "traderA", "traderB", d("123.456"), d("0.617")))
	require.NoError(t, e.Transfer(types.AssetReserve, "traderB", "traderA", d("42"), d("0.21")))

	assert.True(t, e.TotalBalance(types.AssetReserve).Equal(supply),
		"transfers and fees must never create or destroy value")
}

func TestCommitReleaseAvailability(t *testing.T) {
	e := getTestLedger(t)
	_, _ = e.CreateAccount("traderA")
	require.NoError(t, e.Endow("traderA", types.AssetFiat, d("100")))

	require.NoError(t, e.Commit("traderA", types.AssetFiat, d("60")))
	acc, _ := e.Account("traderA")
	assert.True(t, acc.Available(types.AssetFiat).Equal(d("40")))

	// over-committing beyond what is available is rejected
	err := e.Commit("traderA", types.AssetFiat, d("41"))
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)

	// release clamps at zero so rounding drift cannot go negative
	e.Release("traderA", types.AssetFiat, d("60.00000001"))
	assert.True(t, acc.Committed(types.AssetFiat).IsZero())
	assert.True(t, acc.Available(types.AssetFiat).Equal(d("100")))
}

func TestMintAndBurnTokens(t *testing.T) {
	e := getTestLedger(t)
	_, _ = e.CreateAccount("traderA")

	require.NoError(t, e.MintTokens("traderA", d("100")))
	assert.True(t, e.TokenSupply().Equal(d("100")))

	require.NoError(t, e.BurnTokens("traderA", d("40")))
	assert.True(t, e.TokenSupply().Equal(d("60")))

	err := e.BurnTokens("traderA", d("100"))
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)
	assert.True(t, e.TokenSupply().Equal(d("60")))
}

func TestRoundHalfUp(t *testing.T) {
	e := getTestLedger(t)

	assert.Equal(t, "0.00000001", e.Round(d("0.000000005")).String())
	assert.Equal(t, "0.00000001", e.Round(d("0.000000014")).String())
	assert.Equal(t, "0.00000002", e.Round(d("0.000000015")).String())
	assert.Equal(t, "1", e.Round(d("0.999999995")).String())
}

func TestAdvanceTime(t *testing.T) {
	e := getTestLedger(t)
	assert.EqualValues(t, 0, e.Now())
	assert.EqualValues(t, 1, e.AdvanceTime())
	assert.EqualValues(t, 2, e.AdvanceTime())
	assert.EqualValues(t, 2, e.Now())
}

func TestAccountsDeterministicOrder(t *testing.T) {
	e := getTestLedger(t)
	for _, p := range []string{"zed", "alice", "mid"} {
		_, err := e.CreateAccount(p)
		require.NoError(t, err)
	}
	accs := e.Accounts()
	require.Len(t, accs, 3)
	assert.Equal(t, "alice", accs[0].Party)
	assert.Equal(t, "mid", accs[1].Party)
	assert.Equal(t, "zed", accs[2].Party)
}
