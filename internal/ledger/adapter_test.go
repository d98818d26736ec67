package ledger

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	accounts    []string
	accountsErr error
	chainID     uint64
	chainErr    error
	native      *big.Int
	nativeErr   error
	balances    map[string]*big.Int
	balanceErrs map[string]error
}

func (s *stubProvider) RequestAccounts(_ context.Context) ([]string, error) {
	return s.accounts, s.accountsErr
}

func (s *stubProvider) ChainID(_ context.Context) (uint64, error) {
	return s.chainID, s.chainErr
}

func (s *stubProvider) NativeBalance(_ context.Context, _ string) (*big.Int, error) {
	return s.native, s.nativeErr
}

func (s *stubProvider) TokenBalance(_ context.Context, token, _ string) (*big.Int, error) {
	if err := s.balanceErrs[token]; err != nil {
		return nil, err
	}
	if b, ok := s.balances[token]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (s *stubProvider) TokenDecimals(_ context.Context, token string) (uint8, error) {
	for _, t := range supportedTokens[s.chainID] {
		if strings.EqualFold(t.Address, token) {
			return t.Decimals, nil
		}
	}
	return 0, errors.New("unknown token")
}

func (s *stubProvider) TokenSymbol(_ context.Context, token string) (string, error) {
	for _, t := range supportedTokens[s.chainID] {
		if strings.EqualFold(t.Address, token) {
			return t.Symbol, nil
		}
	}
	return "", errors.New("unknown token")
}

func (s *stubProvider) TokenName(_ context.Context, token string) (string, error) {
	for _, t := range supportedTokens[s.chainID] {
		if strings.EqualFold(t.Address, token) {
			return t.Name, nil
		}
	}
	return "", errors.New("unknown token")
}

func mainnetProvider() *stubProvider {
	return &stubProvider{
		accounts: []string{"0xAbCd000000000000000000000000000000000001"},
		chainID:  1,
		native:   big.NewInt(0),
		balances: map[string]*big.Int{},
	}
}

func TestAdapter_ConnectPopulatesSession(t *testing.T) {
	p := mainnetProvider()
	a := NewAdapter(p)

	assert.Equal(t, StateDisconnected, a.State())

	err := a.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateConnected, a.State())
	assert.Equal(t, p.accounts[0], a.Account())
	assert.Equal(t, uint64(1), a.ChainID())
	assert.Len(t, a.Tokens(), 2)
	assert.Nil(t, a.SelectedToken())
}

func TestAdapter_ConnectZeroAccountsResets(t *testing.T) {
	p := mainnetProvider()
	p.accounts = nil
	a := NewAdapter(p)

	err := a.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoAccounts)

	assert.Equal(t, StateDisconnected, a.State())
	assert.Empty(t, a.Account())
	assert.Empty(t, a.Tokens())
}

func TestAdapter_ConnectProviderFailureResets(t *testing.T) {
	p := mainnetProvider()
	p.accountsErr = errors.New("user rejected request")
	a := NewAdapter(p)

	err := a.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, a.State())
}

func TestAdapter_NoProvider(t *testing.T) {
	a := NewAdapter(nil)
	err := a.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoProvider)
}

func TestAdapter_DisconnectClearsEverything(t *testing.T) {
	p := mainnetProvider()
	a := NewAdapter(p)
	require.NoError(t, a.Connect(context.Background()))
	require.NoError(t, a.SelectToken("USDC"))

	a.Disconnect()

	assert.Equal(t, StateDisconnected, a.State())
	assert.Empty(t, a.Account())
	assert.Zero(t, a.ChainID())
	assert.Empty(t, a.Tokens())
	assert.Nil(t, a.SelectedToken())
}

func TestAdapter_BalancesNilWhenDisconnected(t *testing.T) {
	a := NewAdapter(mainnetProvider())

	b, err := a.NativeBalance(context.Background())
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = a.TokenBalance(context.Background(), supportedTokens[1][0].Address)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestAdapter_NativeBalanceFormatting(t *testing.T) {
	p := mainnetProvider()
	// 1.5 ETH in wei
	p.native, _ = new(big.Int).SetString("1500000000000000000", 10)
	a := NewAdapter(p)
	require.NoError(t, a.Connect(context.Background()))

	b, err := a.NativeBalance(context.Background())
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "ETH", b.Symbol)
	assert.Empty(t, b.Address)
	assert.True(t, b.Amount.Equal(decimal.RequireFromString("1.5")), "got %s", b.Amount)
}

func TestAdapter_TokenBalanceUsesTokenDecimals(t *testing.T) {
	p := mainnetProvider()
	usdc := supportedTokens[1][0]
	p.balances[usdc.Address] = big.NewInt(12_345_678) // 12.345678 with 6 decimals
	a := NewAdapter(p)
	require.NoError(t, a.Connect(context.Background()))

	b, err := a.TokenBalance(context.Background(), usdc.Address)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "USDC", b.Symbol)
	assert.True(t, b.Amount.Equal(decimal.RequireFromString("12.345678")), "got %s", b.Amount)
}

func TestAdapter_SelectToken(t *testing.T) {
	a := NewAdapter(mainnetProvider())

	err := a.SelectToken("USDC")
	require.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, a.Connect(context.Background()))

	require.NoError(t, a.SelectToken("usdc"))
	require.NotNil(t, a.SelectedToken())
	assert.Equal(t, "USDC", a.SelectedToken().Symbol)

	dai := supportedTokens[1][1]
	require.NoError(t, a.SelectToken(strings.ToLower(dai.Address)))
	assert.Equal(t, "DAI", a.SelectedToken().Symbol)

	err = a.SelectToken("SHIB")
	require.ErrorIs(t, err, ErrUnknownToken)
}

func TestAdapter_AllTokenBalancesOmitsFailures(t *testing.T) {
	p := mainnetProvider()
	usdc, dai := supportedTokens[1][0], supportedTokens[1][1]
	p.native = big.NewInt(1e18)
	p.balances[usdc.Address] = big.NewInt(5_000_000)
	p.balanceErrs = map[string]error{dai.Address: errors.New("rpc timeout")}
	a := NewAdapter(p)
	require.NoError(t, a.Connect(context.Background()))

	out, err := a.AllTokenBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "ETH", out[0].Symbol)
	assert.Equal(t, "USDC", out[1].Symbol)
}

func TestAdapter_AllTokenBalancesRequiresConnection(t *testing.T) {
	a := NewAdapter(mainnetProvider())
	_, err := a.AllTokenBalances(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestAdapter_ScheduleDeduction(t *testing.T) {
	ctx := context.Background()
	start := time.Now().AddDate(0, 0, 1)

	a := NewAdapter(mainnetProvider())
	_, err := a.ScheduleDeduction(ctx, "10", 30, "6", start)
	require.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, a.Connect(ctx))
	_, err = a.ScheduleDeduction(ctx, "10", 30, "6", start)
	require.ErrorIs(t, err, ErrNoTokenSelected)

	require.NoError(t, a.SelectToken("USDC"))

	hash, err := a.ScheduleDeduction(ctx, "10.50", 30, "6", start)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "0x"))
	assert.Len(t, hash, 66)

	other, err := a.ScheduleDeduction(ctx, "10.50", 30, "indefinite", start)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestAdapter_ScheduleDeductionRejectsBadAmounts(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(mainnetProvider())
	require.NoError(t, a.Connect(ctx))
	require.NoError(t, a.SelectToken("USDC"))

	start := time.Now()

	_, err := a.ScheduleDeduction(ctx, "abc", 30, "6", start)
	require.Error(t, err)

	_, err = a.ScheduleDeduction(ctx, "0", 30, "6", start)
	require.Error(t, err)

	_, err = a.ScheduleDeduction(ctx, "-5", 30, "6", start)
	require.Error(t, err)

	// USDC carries 6 decimals; a 7th fractional digit cannot be represented.
	_, err = a.ScheduleDeduction(ctx, "0.0000001", 30, "6", start)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precision")

	_, err = a.ScheduleDeduction(ctx, "1", 30, "soon", start)
	require.Error(t, err)
}

func TestAdapter_CancelDeduction(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(mainnetProvider())

	err := a.CancelDeduction(ctx, 1)
	require.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, a.Connect(ctx))
	require.NoError(t, a.CancelDeduction(ctx, 1))
	require.NoError(t, a.CancelDeduction(ctx, 9999))
}
