package ledger

import (
	"context"
	"math/big"
)

// Provider is the seam to an external wallet provider: account and chain
// discovery plus the ERC-20-style read set. It is the only boundary the
// adapter has to the outside world.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	ChainID(ctx context.Context) (uint64, error)
	NativeBalance(ctx context.Context, account string) (*big.Int, error)
	TokenBalance(ctx context.Context, token, account string) (*big.Int, error)
	TokenDecimals(ctx context.Context, token string) (uint8, error)
	TokenSymbol(ctx context.Context, token string) (string, error)
	TokenName(ctx context.Context, token string) (string, error)
}
