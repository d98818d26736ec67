package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mkarimz/deduction-gateway/internal/config"
	"github.com/mkarimz/deduction-gateway/internal/handlers"
	"github.com/mkarimz/deduction-gateway/internal/repository"
	"github.com/mkarimz/deduction-gateway/internal/services"
	xhttp "github.com/mkarimz/deduction-gateway/pkg/http"
	"github.com/mkarimz/deduction-gateway/pkg/logger"
	"github.com/mkarimz/deduction-gateway/pkg/pg"
	"github.com/mkarimz/deduction-gateway/pkg/prom"
	"github.com/mkarimz/deduction-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	db, err := openDatabase()
	if err != nil {
		logger.Error("failed opening database", "error", err)
		return
	}

	if config.Get().RedisAddr != "" {
		_, err = redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{config.Get().RedisAddr},
			ClientName: "default",
			DB:         config.Get().RedisDatabase,
			Username:   config.Get().RedisUsername,
			Password:   config.Get().RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
	}

	if config.Get().PromNamespace != "" {
		if err := prom.Create(config.Get().AppName, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed creating metrics registry", "error", err)
		}
		if config.Get().AppDebugMetricsAddr != "" {
			go prom.ListenAndServe(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}
	}

	deductionRepo := repository.NewDeductionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	userRepo := repository.NewUserRepository(db)

	// services
	deductionService := services.NewDeductionService(deductionRepo)
	transactionService := services.NewTransactionService(transactionRepo)
	userService := services.NewUserService(userRepo)

	// handlers
	deductionHandler := handlers.NewDeductionHandler(deductionService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler()

	g := s.Router.Group("/api")
	handlers.RegisterDeductionRoutes(g, deductionHandler)
	handlers.RegisterTransactionRoutes(g, transactionHandler)
	handlers.RegisterUserRoutes(g, userHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting api",
			"addr", config.Get().HttpListenAddr,
			"driver", config.Get().DbDriver,
			"version", version, "commit", commit, "built", date)
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

// openDatabase picks the configured driver: process-lifetime sqlite for the
// default "memory" mode, read/write postgres otherwise. The memory mode
// creates its schema in-process; ids restart from 1 on every boot.
func openDatabase() (*pg.DB, error) {
	pgDebug := config.Get().AppEnv == "dev"

	if config.Get().DbDriver == "memory" {
		db, err := pg.CreateMemory(pgDebug)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}
	return pg.CreateReadWrite(readConf, writeConf, pgDebug)
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
