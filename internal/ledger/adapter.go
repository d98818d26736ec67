package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mkarimz/deduction-gateway/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrNoProvider      = errors.New("wallet provider not available")
	ErrNotConnected    = errors.New("wallet not connected")
	ErrNoAccounts      = errors.New("wallet provider returned no accounts")
	ErrNoTokenSelected = errors.New("no token selected")
	ErrUnknownToken    = errors.New("token not supported on the active chain")
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// indefiniteMonths is the fixed horizon substituted for an "indefinite"
// duration: ten years.
const indefiniteMonths = 120

// Balance is one formatted balance entry; Address is "" for the native asset.
type Balance struct {
	Symbol  string          `json:"symbol"`
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// Adapter wraps a wallet provider behind the Disconnected → Connecting →
// Connected state machine. The two ledger mutations (schedule, cancel) are a
// simulation boundary: they validate session state and fabricate a
// transaction hash without settling anything.
type Adapter struct {
	mu       sync.RWMutex
	provider Provider
	state    State
	account  string
	chainID  uint64
	tokens   []Token
	selected *Token
}

func NewAdapter(provider Provider) *Adapter {
	return &Adapter{
		provider: provider,
		state:    StateDisconnected,
	}
}

// Connect requests account access, captures the active account and chain and
// resolves the supported-token table for that chain. Zero accounts from the
// provider leaves the adapter disconnected.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.provider == nil {
		return ErrNoProvider
	}

	a.state = StateConnecting

	accounts, err := a.provider.RequestAccounts(ctx)
	if err != nil {
		a.reset()
		return fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		a.reset()
		return ErrNoAccounts
	}

	chainID, err := a.provider.ChainID(ctx)
	if err != nil {
		a.reset()
		return fmt.Errorf("query chain id: %w", err)
	}

	a.account = accounts[0]
	a.chainID = chainID
	a.tokens = SupportedTokens(chainID)
	a.selected = nil
	a.state = StateConnected

	logger.Info("wallet connected",
		"account", a.account,
		"chain_id", a.chainID,
		"supported_tokens", len(a.tokens))
	return nil
}

// Disconnect clears all adapter-held handles and selection state.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
	logger.Info("wallet disconnected")
}

// reset assumes the mutex is held.
func (a *Adapter) reset() {
	a.state = StateDisconnected
	a.account = ""
	a.chainID = 0
	a.tokens = nil
	a.selected = nil
}

func (a *Adapter) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Adapter) Account() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.account
}

func (a *Adapter) ChainID() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.chainID
}

func (a *Adapter) Tokens() []Token {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Token, len(a.tokens))
	copy(out, a.tokens)
	return out
}

// SelectToken binds the adapter to one of the chain's supported tokens by
// symbol or contract address.
func (a *Adapter) SelectToken(symbolOrAddress string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateConnected {
		return ErrNotConnected
	}
	for i := range a.tokens {
		t := a.tokens[i]
		if strings.EqualFold(t.Symbol, symbolOrAddress) || strings.EqualFold(t.Address, symbolOrAddress) {
			a.selected = &t
			return nil
		}
	}
	return ErrUnknownToken
}

func (a *Adapter) SelectedToken() *Token {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.selected == nil {
		return nil
	}
	t := *a.selected
	return &t
}

// NativeBalance returns nil without error when the wallet is not connected.
func (a *Adapter) NativeBalance(ctx context.Context) (*Balance, error) {
	a.mu.RLock()
	account, chainID, connected := a.account, a.chainID, a.state == StateConnected
	a.mu.RUnlock()

	if !connected {
		return nil, nil
	}

	raw, err := a.provider.NativeBalance(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("native balance: %w", err)
	}
	return &Balance{
		Symbol: NativeSymbol(chainID),
		Amount: decimal.NewFromBigInt(raw, -18),
	}, nil
}

// TokenBalance formats the raw balance with the token's declared decimals.
// Returns nil without error when not connected.
func (a *Adapter) TokenBalance(ctx context.Context, tokenAddress string) (*Balance, error) {
	a.mu.RLock()
	account, connected := a.account, a.state == StateConnected
	a.mu.RUnlock()

	if !connected {
		return nil, nil
	}

	decimals, err := a.provider.TokenDecimals(ctx, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("token decimals: %w", err)
	}
	symbol, err := a.provider.TokenSymbol(ctx, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("token symbol: %w", err)
	}
	raw, err := a.provider.TokenBalance(ctx, tokenAddress, account)
	if err != nil {
		return nil, fmt.Errorf("token balance: %w", err)
	}

	return &Balance{
		Symbol:  symbol,
		Address: tokenAddress,
		Amount:  decimal.NewFromBigInt(raw, -int32(decimals)),
	}, nil
}

// AllTokenBalances returns the native balance first, then one entry per
// supported token. A failure on one token is logged and the entry omitted;
// it never aborts the batch.
func (a *Adapter) AllTokenBalances(ctx context.Context) ([]Balance, error) {
	a.mu.RLock()
	tokens := make([]Token, len(a.tokens))
	copy(tokens, a.tokens)
	connected := a.state == StateConnected
	a.mu.RUnlock()

	if !connected {
		return nil, ErrNotConnected
	}

	var out []Balance

	native, err := a.NativeBalance(ctx)
	if err != nil {
		logger.Warn("native balance fetch failed, omitting", "error", err)
	} else if native != nil {
		out = append(out, *native)
	}

	for _, t := range tokens {
		b, err := a.TokenBalance(ctx, t.Address)
		if err != nil {
			logger.Warn("token balance fetch failed, omitting",
				"token", t.Symbol, "address", t.Address, "error", err)
			continue
		}
		if b != nil {
			out = append(out, *b)
		}
	}

	return out, nil
}

// ScheduleDeduction validates session and token selection, converts the
// decimal amount into the token's smallest unit and returns a synthetic
// transaction hash. No on-chain mutation occurs.
func (a *Adapter) ScheduleDeduction(ctx context.Context, amount string, intervalDays int, duration string, start time.Time) (string, error) {
	a.mu.RLock()
	connected := a.state == StateConnected
	selected := a.selected
	account := a.account
	a.mu.RUnlock()

	if !connected {
		return "", ErrNotConnected
	}
	if selected == nil {
		return "", ErrNoTokenSelected
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("parse amount: %w", err)
	}
	if !amt.IsPositive() {
		return "", fmt.Errorf("amount must be positive, got %s", amount)
	}

	units := amt.Shift(int32(selected.Decimals))
	if !units.Equal(units.Truncate(0)) {
		return "", fmt.Errorf("amount %s exceeds %s precision of %d decimals", amount, selected.Symbol, selected.Decimals)
	}

	months := indefiniteMonths
	if duration != "indefinite" {
		months, err = strconv.Atoi(duration)
		if err != nil {
			return "", fmt.Errorf("parse duration: %w", err)
		}
	}

	txHash := newTxHash()
	logger.Info("deduction scheduled (simulated)",
		"account", account,
		"token", selected.Symbol,
		"units", units.String(),
		"interval_days", intervalDays,
		"duration_months", months,
		"start", start,
		"tx_hash", txHash)
	return txHash, nil
}

// CancelDeduction reports success for any id as long as a session is active.
// Simulation boundary, same as ScheduleDeduction.
func (a *Adapter) CancelDeduction(ctx context.Context, id int64) error {
	a.mu.RLock()
	connected := a.state == StateConnected
	a.mu.RUnlock()

	if !connected {
		return ErrNotConnected
	}
	logger.Info("deduction cancelled (simulated)", "deduction_id", id)
	return nil
}

func newTxHash() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return "0x" + hex.EncodeToString(b)
}
