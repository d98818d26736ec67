package apiclient

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarimz/deduction-gateway/pkg/redis"
)

func setupCache(t *testing.T) (*miniredis.Miniredis, *ViewCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, NewViewCache(adapter, time.Minute)
}

const cacheWallet = "0xAbCd000000000000000000000000000000000001"

func TestViewCache_RoundTrip(t *testing.T) {
	_, cache := setupCache(t)

	assert.Nil(t, cache.GetDeductions(cacheWallet), "miss before set")

	cache.SetDeductions(cacheWallet, []byte(`[{"id":1}]`))
	assert.Equal(t, []byte(`[{"id":1}]`), cache.GetDeductions(cacheWallet))

	cache.SetTransactions(cacheWallet, []byte(`[{"id":9}]`))
	assert.Equal(t, []byte(`[{"id":9}]`), cache.GetTransactions(cacheWallet))
}

func TestViewCache_KeysAreCaseInsensitive(t *testing.T) {
	_, cache := setupCache(t)

	cache.SetDeductions(cacheWallet, []byte(`[]`))
	assert.NotNil(t, cache.GetDeductions(cacheWallet))

	lowered := "0xabcd000000000000000000000000000000000001"
	assert.Equal(t, []byte(`[]`), cache.GetDeductions(lowered),
		"same wallet in different casing hits the same key")
}

func TestViewCache_InvalidateWalletDropsBothViews(t *testing.T) {
	_, cache := setupCache(t)

	cache.SetDeductions(cacheWallet, []byte(`[{"id":1}]`))
	cache.SetTransactions(cacheWallet, []byte(`[{"id":2}]`))

	require.NoError(t, cache.InvalidateWallet(cacheWallet))

	assert.Nil(t, cache.GetDeductions(cacheWallet))
	assert.Nil(t, cache.GetTransactions(cacheWallet))
}

func TestViewCache_EntriesExpire(t *testing.T) {
	mr, cache := setupCache(t)

	cache.SetDeductions(cacheWallet, []byte(`[]`))
	require.NotNil(t, cache.GetDeductions(cacheWallet))

	mr.FastForward(2 * time.Minute)
	assert.Nil(t, cache.GetDeductions(cacheWallet))
}
