package redis

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var NilError = goredis.Nil

type Options = goredis.UniversalOptions

// RedisAdapter is the key/value surface this service needs: cached list
// views and short-lived approval locks.
type RedisAdapter interface {
	Set(key string, value []byte, ttl time.Duration) error
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)
	Get(key string) ([]byte, error)
	Del(key string) error
	Eval(script string, keys []string, args ...interface{}) (interface{}, error)
}

type redisAdapter struct {
	prefix   string
	Conn     goredis.UniversalClient
	ConnName string
}

var redisLock = &sync.RWMutex{}
var redisInstance map[string]RedisAdapter

func NewRedisAdapter(connName string, keysPrefix string, opts *goredis.UniversalOptions) (RedisAdapter, error) {
	redisLock.RLock()
	if adapter, ok := redisInstance[connName]; ok {
		redisLock.RUnlock()
		return adapter, nil
	}
	redisLock.RUnlock()

	c := goredis.NewUniversalClient(opts)
	if cmd := c.Ping(context.Background()); cmd.Err() != nil {
		return nil, cmd.Err()
	}

	adapter := &redisAdapter{
		Conn:     c,
		prefix:   keysPrefix,
		ConnName: connName,
	}

	redisLock.Lock()
	if redisInstance == nil {
		redisInstance = make(map[string]RedisAdapter)
	}
	redisInstance[connName] = adapter
	redisLock.Unlock()

	return adapter, nil
}

func (a *redisAdapter) key(k string) string {
	if a.prefix == "" {
		return k
	}
	return a.prefix + ":" + k
}

func (a *redisAdapter) Set(key string, value []byte, ttl time.Duration) error {
	return a.Conn.Set(context.Background(), a.key(key), value, ttl).Err()
}

func (a *redisAdapter) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	return a.Conn.SetNX(context.Background(), a.key(key), value, ttl).Result()
}

func (a *redisAdapter) Get(key string) ([]byte, error) {
	return a.Conn.Get(context.Background(), a.key(key)).Bytes()
}

func (a *redisAdapter) Del(key string) error {
	return a.Conn.Del(context.Background(), a.key(key)).Err()
}

// Eval runs a Lua script with the adapter's prefix applied to every key.
func (a *redisAdapter) Eval(script string, keys []string, args ...interface{}) (interface{}, error) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = a.key(k)
	}
	return a.Conn.Eval(context.Background(), script, prefixed, args...).Result()
}
