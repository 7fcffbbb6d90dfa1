package marketdata

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"metagate/internal/terminal"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const quoteInterval = time.Second

type Quote struct {
	Type      string  `json:"type"`
	Symbol    string  `json:"symbol"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	Timestamp int64   `json:"ts"`
}

// PriceWS streams live quotes for one symbol over a websocket. Each poll
// holds the session guard shared, so a stream never observes prices from
// the middle of a close/open sequence.
type PriceWS struct {
	term     terminal.Adapter
	mu       *sync.RWMutex
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewPriceWS(term terminal.Adapter, mu *sync.RWMutex, origin string, logger *zap.Logger) *PriceWS {
	return &PriceWS{
		term:   term,
		mu:     mu,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) },
		},
	}
}

func (h *PriceWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		http.Error(w, "symbol query parameter required", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(quoteInterval)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	for {
		select {
		case <-ticker.C:
			h.mu.RLock()
			tick, err := h.term.SymbolTick(r.Context(), symbol)
			h.mu.RUnlock()
			if err != nil {
				h.logger.Debug("quote poll failed", zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			msg := Quote{Type: "quote", Symbol: symbol, Bid: tick.Bid, Ask: tick.Ask, Timestamp: time.Now().UTC().Unix()}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func allowOrigin(r *http.Request, origin string) bool {
	if origin == "*" {
		return true
	}
	return strings.EqualFold(r.Header.Get("Origin"), origin)
}
