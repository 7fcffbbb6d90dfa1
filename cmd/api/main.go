package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"metagate/internal/account"
	"metagate/internal/config"
	"metagate/internal/httpserver"
	"metagate/internal/logger"
	"metagate/internal/marketdata"
	"metagate/internal/positions"
	"metagate/internal/session"
	"metagate/internal/terminal"
	"metagate/internal/trading"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	zlog, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	var term terminal.Adapter
	if cfg.Bridge.BaseURL != "" {
		term = terminal.NewBridge(terminal.BridgeConfig{
			BaseURL:        cfg.Bridge.BaseURL,
			Timeout:        time.Duration(cfg.Bridge.TimeoutSeconds) * time.Second,
			RateLimit:      cfg.Bridge.RateLimit,
			RateLimitBurst: cfg.Bridge.RateLimitBurst,
		}, zlog)
		zlog.Info("using terminal bridge", zap.String("base_url", cfg.Bridge.BaseURL))
	} else {
		term = terminal.NewDisabledAdapter()
		zlog.Warn("no bridge configured, terminal calls will fail")
	}

	// One terminal connection, one session guard: trading operations hold
	// it exclusively, reads hold it shared.
	sessionMu := &sync.RWMutex{}

	reader := positions.NewReader(term, cfg.Gateway.OffsetSymbol)
	router := trading.NewRouter(sessionMu, term, reader, zlog)

	handler := httpserver.NewRouter(httpserver.RouterDeps{
		PositionsHandler: positions.NewHandler(reader, sessionMu, zlog),
		TradingHandler:   trading.NewHandler(router),
		MarketHandler:    marketdata.NewHandler(term, sessionMu),
		AccountHandler:   account.NewHandler(term, sessionMu, zlog),
		SessionHandler:   session.NewHandler(term, sessionMu, zlog),
		PriceWS:          marketdata.NewPriceWS(term, sessionMu, cfg.Server.WSOrigin, zlog),
		Logger:           zlog,
	})
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}

	zlog.Info("gateway listening", zap.String("addr", cfg.Server.Addr))
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
