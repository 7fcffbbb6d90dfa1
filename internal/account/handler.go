package account

import (
	"net/http"
	"sync"

	"metagate/internal/httputil"
	"metagate/internal/model"
	"metagate/internal/terminal"

	"go.uber.org/zap"
)

type Handler struct {
	term   terminal.Adapter
	mu     *sync.RWMutex
	logger *zap.Logger
}

func NewHandler(term terminal.Adapter, mu *sync.RWMutex, logger *zap.Logger) *Handler {
	return &Handler{term: term, mu: mu, logger: logger}
}

type balanceResponse struct {
	Success     bool              `json:"success"`
	BalanceInfo model.BalanceInfo `json:"balance_info"`
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	info, err := h.term.AccountInfo(r.Context())
	h.mu.RUnlock()
	if err != nil {
		h.logger.Warn("account info failed", zap.Error(err))
		httputil.WriteFailure(w, http.StatusNotFound, "Check connection to metatrader")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, balanceResponse{
		Success: true,
		BalanceInfo: model.BalanceInfo{
			Balance:     info.Balance,
			Profit:      info.Profit,
			Equity:      info.Equity,
			Margin:      info.Margin,
			MarginFree:  info.MarginFree,
			MarginLevel: info.MarginLevel,
		},
	})
}
