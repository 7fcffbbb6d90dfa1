package httpserver

import (
	"net/http"

	"metagate/internal/account"
	"metagate/internal/marketdata"
	"metagate/internal/positions"
	"metagate/internal/session"
	"metagate/internal/trading"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RouterDeps struct {
	PositionsHandler *positions.Handler
	TradingHandler   *trading.Handler
	MarketHandler    *marketdata.Handler
	AccountHandler   *account.Handler
	SessionHandler   *session.Handler
	PriceWS          http.Handler
	Logger           *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(SecurityHeaders)
	r.Use(RateLimit)
	r.Use(RequestLogger(d.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/get_positions", d.PositionsHandler.Positions)
	r.Get("/get_aggregated", d.PositionsHandler.Aggregated)
	r.Get("/get_orders", d.PositionsHandler.Orders)
	r.Get("/get_balance_info", d.AccountHandler.Balance)
	r.Get("/get_price/ws", d.PriceWS.ServeHTTP)
	r.Get("/get_price/{symbol}", d.MarketHandler.GetPrice)

	r.Post("/close_position", d.TradingHandler.ClosePosition)
	r.Post("/open_position", d.TradingHandler.OpenPosition)
	r.Post("/send_pending_order", d.TradingHandler.SendPendingOrder)
	r.Post("/init_metatrader", d.SessionHandler.Init)

	return r
}
