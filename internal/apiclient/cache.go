package apiclient

import (
	"strings"
	"time"

	"github.com/mkarimz/deduction-gateway/pkg/logger"
	"github.com/mkarimz/deduction-gateway/pkg/redis"
)

const (
	deductionViewPrefix   = "views:deductions:"
	transactionViewPrefix = "views:transactions:"
)

// ViewCache holds serialized list responses per wallet so repeated dashboard
// reads skip the API. Mutating workflows invalidate the wallet's keys.
type ViewCache struct {
	redis redis.RedisAdapter
	ttl   time.Duration
}

func NewViewCache(redisAdapter redis.RedisAdapter, ttl time.Duration) *ViewCache {
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	return &ViewCache{redis: redisAdapter, ttl: ttl}
}

func deductionViewKey(walletAddress string) string {
	return deductionViewPrefix + strings.ToLower(walletAddress)
}

func transactionViewKey(walletAddress string) string {
	return transactionViewPrefix + strings.ToLower(walletAddress)
}

// GetDeductions returns the cached deduction list body, or nil on a miss.
func (c *ViewCache) GetDeductions(walletAddress string) []byte {
	return c.get(deductionViewKey(walletAddress))
}

func (c *ViewCache) SetDeductions(walletAddress string, body []byte) {
	c.set(deductionViewKey(walletAddress), body)
}

func (c *ViewCache) GetTransactions(walletAddress string) []byte {
	return c.get(transactionViewKey(walletAddress))
}

func (c *ViewCache) SetTransactions(walletAddress string, body []byte) {
	c.set(transactionViewKey(walletAddress), body)
}

// InvalidateWallet drops both list views for the wallet.
func (c *ViewCache) InvalidateWallet(walletAddress string) error {
	if err := c.redis.Del(deductionViewKey(walletAddress)); err != nil {
		return err
	}
	return c.redis.Del(transactionViewKey(walletAddress))
}

func (c *ViewCache) get(key string) []byte {
	body, err := c.redis.Get(key)
	if err != nil {
		if err != redis.NilError {
			logger.Warn("view cache read failed", "key", key, "error", err)
		}
		return nil
	}
	return body
}

func (c *ViewCache) set(key string, body []byte) {
	// A failed write only costs a future cache miss.
	if err := c.redis.Set(key, body, c.ttl); err != nil {
		logger.Warn("view cache write failed", "key", key, "error", err)
	}
}
