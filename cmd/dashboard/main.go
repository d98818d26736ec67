package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mkarimz/deduction-gateway/internal/apiclient"
	"github.com/mkarimz/deduction-gateway/internal/config"
	"github.com/mkarimz/deduction-gateway/internal/ledger"
	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/internal/workflow"
	"github.com/mkarimz/deduction-gateway/pkg/logger"
	"github.com/mkarimz/deduction-gateway/pkg/redis"
)

const usage = `dashboard drives the deduction workflow from the terminal.

Commands:
  balances                              connect and print all wallet balances
  deductions   -wallet <address>        list scheduled deductions
  transactions -wallet <address>        list transactions
  schedule     -amount <dec> -token <symbol|address>
               -interval <daily|weekly|biweekly|monthly>
               -duration <3|6|12|indefinite> [-start <RFC3339>]
  cancel       -id <deduction id>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := config.Load(envPath()); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "balances":
		err = runBalances(ctx)
	case "deductions":
		err = runDeductions(ctx, os.Args[2:])
	case "transactions":
		err = runTransactions(ctx, os.Args[2:])
	case "schedule":
		err = runSchedule(ctx, os.Args[2:])
	case "cancel":
		err = runCancel(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newAdapter(ctx context.Context) (*ledger.Adapter, error) {
	provider := ledger.NewHTTPProvider(ledger.HTTPProviderConfig{
		URL:     config.Get().WalletNodeUrl,
		Timeout: config.Get().WalletNodeTimeout,
	})
	adapter := ledger.NewAdapter(provider)
	if err := adapter.Connect(ctx); err != nil {
		return nil, err
	}
	return adapter, nil
}

// redisAdapterOrNil connects lazily; the dashboard still works without
// redis, it just loses the view cache and the approval lock.
func redisAdapterOrNil() redis.RedisAdapter {
	if config.Get().RedisAddr == "" {
		return nil
	}
	adapter, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:    []string{config.Get().RedisAddr},
		DB:       config.Get().RedisDatabase,
		Username: config.Get().RedisUsername,
		Password: config.Get().RedisPassword,
	})
	if err != nil {
		logger.Warn("redis unavailable, running without view cache", "error", err)
		return nil
	}
	return adapter
}

func newBackend() *apiclient.Client {
	var cache *apiclient.ViewCache
	if r := redisAdapterOrNil(); r != nil {
		cache = apiclient.NewViewCache(r, config.Get().ViewCacheTTL)
	}
	return apiclient.New(apiclient.Config{BaseURL: config.Get().AppBaseUrl}, cache)
}

func newController(adapter *ledger.Adapter, backend *apiclient.Client) *workflow.Controller {
	var guard *workflow.ApprovalGuard
	var cache workflow.ViewCache
	if r := redisAdapterOrNil(); r != nil {
		cache = apiclient.NewViewCache(r, config.Get().ViewCacheTTL)
		if !config.Get().ApprovalGuardOff {
			guard = workflow.NewApprovalGuard(r, workflow.GuardConfig{
				LockTTL: config.Get().ApprovalLockTTL,
			})
		}
	}
	return workflow.NewController(adapter, backend, cache, guard, workflow.NewNotifier(nil))
}

func runBalances(ctx context.Context) error {
	adapter, err := newAdapter(ctx)
	if err != nil {
		return err
	}
	defer adapter.Disconnect()

	balances, err := adapter.AllTokenBalances(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("account %s (chain %d)\n", adapter.Account(), adapter.ChainID())
	for _, b := range balances {
		if b.Address == "" {
			fmt.Printf("  %-8s %s\n", b.Symbol, b.Amount)
			continue
		}
		fmt.Printf("  %-8s %s  (%s)\n", b.Symbol, b.Amount, b.Address)
	}
	return nil
}

func runDeductions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("deductions", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet address")
	fs.Parse(args)
	if *wallet == "" {
		return fmt.Errorf("-wallet is required")
	}

	deductions, err := newBackend().ListDeductions(ctx, *wallet)
	if err != nil {
		return err
	}
	if len(deductions) == 0 {
		fmt.Println("no scheduled deductions")
		return nil
	}
	for _, d := range deductions {
		fmt.Printf("#%d  %s %s  every %s for %s  [%s]\n",
			d.ID, d.Amount, d.TokenSymbol, d.Interval, d.Duration, d.Status)
	}
	return nil
}

func runTransactions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	wallet := fs.String("wallet", "", "wallet address")
	fs.Parse(args)
	if *wallet == "" {
		return fmt.Errorf("-wallet is required")
	}

	transactions, err := newBackend().ListTransactions(ctx, *wallet)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		fmt.Println("no transactions")
		return nil
	}
	for _, tx := range transactions {
		fmt.Printf("#%d  %s  %s %s  [%s]  %s\n",
			tx.ID, tx.Date.Format(time.RFC3339), tx.Amount, tx.TokenSymbol, tx.Status, tx.TxHash)
	}
	return nil
}

func runSchedule(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	amount := fs.String("amount", "", "decimal amount per deduction")
	token := fs.String("token", "", "token symbol or contract address")
	interval := fs.String("interval", "monthly", "daily, weekly, biweekly or monthly")
	duration := fs.String("duration", "indefinite", "3, 6, 12 or indefinite")
	start := fs.String("start", "", "first deduction date, RFC3339 (default: now)")
	fs.Parse(args)

	startDate := time.Now()
	if *start != "" {
		parsed, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("parse -start: %w", err)
		}
		startDate = parsed
	}

	adapter, err := newAdapter(ctx)
	if err != nil {
		return err
	}
	defer adapter.Disconnect()

	if *token != "" {
		if err := adapter.SelectToken(*token); err != nil {
			return err
		}
	}

	ctrl := newController(adapter, newBackend())
	err = ctrl.Submit(workflow.Draft{
		Amount:    *amount,
		Interval:  model.Interval(*interval),
		Duration:  *duration,
		StartDate: startDate,
	})
	if err != nil {
		return err
	}

	ded, err := ctrl.Approve(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("scheduled deduction #%d: %s %s every %s\n",
		ded.ID, ded.Amount, ded.TokenSymbol, ded.Interval)
	return nil
}

func runCancel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.Int64("id", 0, "deduction id")
	fs.Parse(args)
	if *id == 0 {
		return fmt.Errorf("-id is required")
	}

	adapter, err := newAdapter(ctx)
	if err != nil {
		return err
	}
	defer adapter.Disconnect()

	ctrl := newController(adapter, newBackend())
	if err := ctrl.Cancel(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("cancelled deduction #%d\n", *id)
	return nil
}

func envPath() string {
	if _, err := os.Open(".env"); err != nil {
		return ""
	}
	return ".env"
}
