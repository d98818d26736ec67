package workflow

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkarimz/deduction-gateway/pkg/logger"
	"github.com/mkarimz/deduction-gateway/pkg/redis"
)

var ErrApprovalInFlight = errors.New("an approval is already in flight for this wallet")

// releaseScript deletes the lock only while it still holds our token, in one
// redis round trip, so a release racing TTL expiry cannot drop a lock some
// newer approval has re-acquired.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

type GuardConfig struct {
	// LockTTL bounds how long a crashed approval can block the wallet.
	LockTTL   time.Duration
	KeyPrefix string
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		LockTTL:   30 * time.Second,
		KeyPrefix: "approval:lock:",
	}
}

// ApprovalGuard serializes approvals per wallet with a TTL-bounded redis
// lock so two concurrent approvals cannot both run the commit sequence.
type ApprovalGuard struct {
	redis  redis.RedisAdapter
	config GuardConfig
}

func NewApprovalGuard(redisAdapter redis.RedisAdapter, config GuardConfig) *ApprovalGuard {
	if config.LockTTL == 0 {
		config.LockTTL = DefaultGuardConfig().LockTTL
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultGuardConfig().KeyPrefix
	}
	return &ApprovalGuard{redis: redisAdapter, config: config}
}

// Acquire takes the wallet's approval lock and returns a release func. The
// lock value is a fresh uuid so a release after TTL expiry cannot drop a
// lock some other approval now holds.
func (g *ApprovalGuard) Acquire(walletAddress string) (func(), error) {
	key := g.config.KeyPrefix + strings.ToLower(walletAddress)
	token := uuid.NewString()

	ok, err := g.redis.SetNX(key, []byte(token), g.config.LockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrApprovalInFlight
	}

	release := func() {
		if _, err := g.redis.Eval(releaseScript, []string{key}, token); err != nil {
			logger.Warn("approval lock release failed", "key", key, "error", err)
		}
	}
	return release, nil
}
