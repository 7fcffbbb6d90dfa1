package marketdata

import (
	"fmt"
	"net/http"
	"sync"

	"metagate/internal/httputil"
	"metagate/internal/model"
	"metagate/internal/terminal"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	term terminal.Adapter
	mu   *sync.RWMutex
}

func NewHandler(term terminal.Adapter, mu *sync.RWMutex) *Handler {
	return &Handler{term: term, mu: mu}
}

type priceResponse struct {
	Success   bool            `json:"success"`
	PriceInfo model.PriceInfo `json:"price_info"`
}

func (h *Handler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	h.mu.RLock()
	tick, err := h.term.SymbolTick(r.Context(), symbol)
	h.mu.RUnlock()
	if err != nil {
		httputil.WriteFailure(w, http.StatusNotFound, fmt.Sprintf("Price information for symbol '%s' not found", symbol))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, priceResponse{
		Success:   true,
		PriceInfo: model.PriceInfo{Bid: tick.Bid, Ask: tick.Ask},
	})
}
