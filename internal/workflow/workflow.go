package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkarimz/deduction-gateway/internal/ledger"
	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/pkg/logger"
)

var (
	ErrNoDraft      = errors.New("no draft pending approval")
	ErrNotConnected = errors.New("wallet not connected")
)

// LedgerClient is the wallet capability surface the workflow needs: the
// active account, the token selection and the two simulated mutations.
type LedgerClient interface {
	Account() string
	SelectedToken() *ledger.Token
	ScheduleDeduction(ctx context.Context, amount string, intervalDays int, duration string, start time.Time) (string, error)
	CancelDeduction(ctx context.Context, id int64) error
}

// Backend persists deductions and transactions, normally over the REST API.
type Backend interface {
	CreateDeduction(ctx context.Context, req model.DeductionCreateRequest) (*model.ScheduledDeduction, error)
	CreateTransaction(ctx context.Context, req model.TransactionCreateRequest) (*model.Transaction, error)
	DeleteDeduction(ctx context.Context, id int64) error
}

// ViewCache invalidates cached list views for a wallet after a mutation.
type ViewCache interface {
	InvalidateWallet(walletAddress string) error
}

// Draft holds the user's selections before approval. It carries no wallet
// or token binding; those are read from the ledger client at approval time.
type Draft struct {
	UserID    int64
	Amount    string
	Interval  model.Interval
	Duration  string
	StartDate time.Time
}

func (d Draft) Validate() error {
	if d.Amount == "" {
		return &model.ValidationError{Field: "amount", Reason: "is required"}
	}
	amt, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return &model.ValidationError{Field: "amount", Reason: "must be a decimal number"}
	}
	if !amt.IsPositive() {
		return &model.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if _, ok := model.IntervalDays[d.Interval]; !ok {
		return &model.ValidationError{Field: "interval", Reason: "must be one of daily, weekly, biweekly, monthly"}
	}
	switch d.Duration {
	case "3", "6", "12", model.DurationIndefinite:
	default:
		return &model.ValidationError{Field: "duration", Reason: "must be one of 3, 6, 12, indefinite"}
	}
	return nil
}

// Controller runs the two-phase deduction workflow: a validated draft held
// in memory, then an approval that commits the ledger operation and the
// backend records in one strict sequence. There is no retry and no
// compensation; a failure aborts the remaining steps and keeps the draft.
type Controller struct {
	ledger   LedgerClient
	backend  Backend
	cache    ViewCache
	guard    *ApprovalGuard
	notifier *Notifier

	mu    sync.Mutex
	draft *Draft
}

// NewController wires the workflow. guard may be nil to disable the
// per-wallet approval lock; cache may be nil when no view cache is deployed.
func NewController(ledgerClient LedgerClient, backend Backend, cache ViewCache, guard *ApprovalGuard, notifier *Notifier) *Controller {
	if notifier == nil {
		notifier = NewNotifier(nil)
	}
	return &Controller{
		ledger:   ledgerClient,
		backend:  backend,
		cache:    cache,
		guard:    guard,
		notifier: notifier,
	}
}

// Submit validates the draft and parks it pending approval. No side effects.
func (c *Controller) Submit(d Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.draft = &d
	c.mu.Unlock()
	logger.Info("deduction draft submitted",
		"amount", d.Amount, "interval", d.Interval, "duration", d.Duration)
	return nil
}

// Draft returns a copy of the pending draft, or nil.
func (c *Controller) Draft() *Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return nil
	}
	d := *c.draft
	return &d
}

// Discard drops the pending draft without side effects.
func (c *Controller) Discard() {
	c.mu.Lock()
	c.draft = nil
	c.mu.Unlock()
}

// Approve commits the pending draft: schedule on the ledger, persist the
// approved deduction, record the success transaction, invalidate cached
// views, notify. Any step failure aborts the rest, emits an error
// notification and leaves the draft in place.
func (c *Controller) Approve(ctx context.Context) (*model.ScheduledDeduction, error) {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()
	if draft == nil {
		return nil, ErrNoDraft
	}

	wallet := c.ledger.Account()
	if wallet == "" {
		return nil, ErrNotConnected
	}

	if c.guard != nil {
		release, err := c.guard.Acquire(wallet)
		if err != nil {
			return nil, c.fail(wallet, stepGuard, err)
		}
		defer release()
	}

	txHash, err := c.ledger.ScheduleDeduction(ctx,
		draft.Amount, model.IntervalDays[draft.Interval], draft.Duration, draft.StartDate)
	if err != nil {
		return nil, c.fail(wallet, stepLedger, fmt.Errorf("schedule on ledger: %w", err))
	}

	req := model.DeductionCreateRequest{
		UserID:        draft.UserID,
		WalletAddress: wallet,
		Amount:        draft.Amount,
		Interval:      draft.Interval,
		Duration:      draft.Duration,
		StartDate:     draft.StartDate,
		Status:        model.DeductionStatusApproved,
	}
	if t := c.ledger.SelectedToken(); t != nil {
		req.TokenSymbol = t.Symbol
		req.TokenAddress = t.Address
	}

	ded, err := c.backend.CreateDeduction(ctx, req)
	if err != nil {
		// The simulated ledger operation already happened; acknowledged
		// inconsistency, there is no compensation path.
		logger.Error("deduction persist failed after ledger schedule",
			"wallet", wallet, "tx_hash", txHash, "error", err)
		return nil, c.fail(wallet, stepDeduction, fmt.Errorf("persist deduction: %w", err))
	}

	_, err = c.backend.CreateTransaction(ctx, model.TransactionCreateRequest{
		DeductionID:   ded.ID,
		WalletAddress: wallet,
		Amount:        draft.Amount,
		TokenSymbol:   req.TokenSymbol,
		TokenAddress:  req.TokenAddress,
		Status:        "success",
		Date:          time.Now(),
		TxHash:        txHash,
	})
	if err != nil {
		return nil, c.fail(wallet, stepTransaction, fmt.Errorf("record transaction: %w", err))
	}

	if c.cache != nil {
		if err := c.cache.InvalidateWallet(wallet); err != nil {
			return nil, c.fail(wallet, stepCache, fmt.Errorf("invalidate cached views: %w", err))
		}
	}

	c.mu.Lock()
	c.draft = nil
	c.mu.Unlock()

	recordApproval(true)
	c.notifier.Notify(LevelSuccess, wallet,
		fmt.Sprintf("deduction #%d approved, tx %s", ded.ID, txHash))
	logger.Info("deduction approved",
		"wallet", wallet, "deduction_id", ded.ID, "tx_hash", txHash)
	return ded, nil
}

// Cancel removes a scheduled deduction: ledger cancel, backend delete, view
// invalidation. A failure aborts the rest and leaves the record untouched.
func (c *Controller) Cancel(ctx context.Context, id int64) error {
	wallet := c.ledger.Account()
	if wallet == "" {
		return ErrNotConnected
	}

	if err := c.ledger.CancelDeduction(ctx, id); err != nil {
		return c.cancelFail(wallet, fmt.Errorf("cancel on ledger: %w", err))
	}
	if err := c.backend.DeleteDeduction(ctx, id); err != nil {
		return c.cancelFail(wallet, fmt.Errorf("delete deduction: %w", err))
	}
	if c.cache != nil {
		if err := c.cache.InvalidateWallet(wallet); err != nil {
			return c.cancelFail(wallet, fmt.Errorf("invalidate cached views: %w", err))
		}
	}

	recordCancellation(true)
	c.notifier.Notify(LevelSuccess, wallet, fmt.Sprintf("deduction #%d cancelled", id))
	return nil
}

func (c *Controller) fail(wallet, step string, err error) error {
	recordApprovalFailure(step)
	recordApproval(false)
	c.notifier.Notify(LevelError, wallet, err.Error())
	return err
}

func (c *Controller) cancelFail(wallet string, err error) error {
	recordCancellation(false)
	c.notifier.Notify(LevelError, wallet, err.Error())
	return err
}
