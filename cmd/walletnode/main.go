package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TokenInfo describes one mock ERC-20 contract the node serves.
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// MockWallet simulates a wallet provider node: a fixed devnet chain, one
// funded account and a small token registry. Latency and failure rate are
// tunable so the dashboard can be exercised against a flaky provider.
type MockWallet struct {
	chainID     uint64
	account     string
	failureRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	tokens      map[string]TokenInfo
	balances    map[string]*big.Int
	native      *big.Int
	rng         *rand.Rand
}

func NewMockWallet(failureRate float64, minDelay, maxDelay time.Duration) *MockWallet {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	addr := make([]byte, 20)
	rng.Read(addr)
	account := "0x" + hex.EncodeToString(addr)

	// Same registry the gateway's devnet token table carries.
	tst := "0x5FbDB2315678afecb367f032d93F642f64180aa3"

	// 10 ETH and 1000 TST
	native, _ := new(big.Int).SetString("10000000000000000000", 10)
	tstBalance, _ := new(big.Int).SetString("1000000000000000000000", 10)

	return &MockWallet{
		chainID:     31337,
		account:     account,
		failureRate: failureRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		tokens: map[string]TokenInfo{
			strings.ToLower(tst): {Symbol: "TST", Name: "Test Token", Decimals: 18},
		},
		balances: map[string]*big.Int{
			strings.ToLower(tst): tstBalance,
		},
		native: native,
		rng:    rng,
	}
}

func (w *MockWallet) simulateRPC() error {
	delta := w.maxDelay - w.minDelay
	if delta > 0 {
		time.Sleep(w.minDelay + time.Duration(w.rng.Int63n(int64(delta))))
	}
	if w.rng.Float64() < w.failureRate {
		return fmt.Errorf("rpc node timed out")
	}
	return nil
}

// Handler struct holds the mock wallet and routes
type Handler struct {
	wallet *MockWallet
}

func NewHandler(wallet *MockWallet) *Handler {
	return &Handler{wallet: wallet}
}

func (h *Handler) rpcGuard(c *gin.Context) bool {
	if err := h.wallet.simulateRPC(); err != nil {
		log.Warn().Str("path", c.Request.URL.Path).Err(err).Msg("Simulated RPC failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) GetAccounts(c *gin.Context) {
	if !h.rpcGuard(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": []string{h.wallet.account}})
}

func (h *Handler) GetChain(c *gin.Context) {
	if !h.rpcGuard(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"chain_id": h.wallet.chainID})
}

func (h *Handler) GetNativeBalance(c *gin.Context) {
	if !h.rpcGuard(c) {
		return
	}
	account := c.Param("account")
	if !strings.EqualFold(account, h.wallet.account) {
		c.JSON(http.StatusOK, gin.H{"balance": "0"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": h.wallet.native.String()})
}

func (h *Handler) GetTokenBalance(c *gin.Context) {
	if !h.rpcGuard(c) {
		return
	}
	token := strings.ToLower(c.Param("token"))
	if _, ok := h.wallet.tokens[token]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown token contract"})
		return
	}
	account := c.Param("account")
	if !strings.EqualFold(account, h.wallet.account) {
		c.JSON(http.StatusOK, gin.H{"balance": "0"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": h.wallet.balances[token].String()})
}

func (h *Handler) GetTokenMeta(c *gin.Context) {
	if !h.rpcGuard(c) {
		return
	}
	token := strings.ToLower(c.Param("token"))
	info, ok := h.wallet.tokens[token]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown token contract"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"chain_id":  h.wallet.chainID,
		"account":   h.wallet.account,
		"timestamp": time.Now(),
	})
}

// UpdateConfig allows changing the simulated failure rate at runtime
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		FailureRate *float64 `json:"failure_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.FailureRate != nil {
		if *config.FailureRate >= 0 && *config.FailureRate <= 1.0 {
			h.wallet.failureRate = *config.FailureRate
			log.Info().Float64("rate", *config.FailureRate).Msg("Updated failure rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Configuration updated",
		"failure_rate": h.wallet.failureRate,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/accounts", handler.GetAccounts)
		v1.GET("/chain", handler.GetChain)
		v1.GET("/balance/:account", handler.GetNativeBalance)
		v1.GET("/token/:token/balance/:account", handler.GetTokenBalance)
		v1.GET("/token/:token/meta", handler.GetTokenMeta)
		v1.PUT("/config", handler.UpdateConfig)
	}

	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "9090")
	failureRate := getEnvFloat("FAILURE_RATE", 0)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 300*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("failure_rate", failureRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock Wallet Node")

	wallet := NewMockWallet(failureRate, minDelay, maxDelay)
	handler := NewHandler(wallet)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
