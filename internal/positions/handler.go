package positions

import (
	"net/http"
	"sync"

	"metagate/internal/httputil"
	"metagate/internal/model"

	"go.uber.org/zap"
)

const connectionFailureMessage = "Check connection to metatrader"

type Handler struct {
	reader *Reader
	mu     *sync.RWMutex
	logger *zap.Logger
}

// NewHandler wires the read endpoints. mu is the session guard shared with
// the order router: reads hold it shared so they cannot observe a position
// snapshot mid-way through a close/open sequence.
func NewHandler(reader *Reader, mu *sync.RWMutex, logger *zap.Logger) *Handler {
	return &Handler{reader: reader, mu: mu, logger: logger}
}

type positionsResponse struct {
	Success   bool             `json:"success"`
	Positions []model.Position `json:"positions"`
}

type aggregatedResponse struct {
	Success    bool                       `json:"success"`
	Aggregated []model.AggregatedExposure `json:"aggregated_positions"`
}

type ordersResponse struct {
	Success bool                 `json:"success"`
	Orders  []model.PendingOrder `json:"orders"`
}

func (h *Handler) Positions(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	list, err := h.reader.ListPositions(r.Context())
	h.mu.RUnlock()
	if err != nil {
		h.logger.Warn("positions listing failed", zap.Error(err))
		httputil.WriteFailure(w, http.StatusNotFound, connectionFailureMessage)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, positionsResponse{Success: true, Positions: list})
}

func (h *Handler) Aggregated(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	list, err := h.reader.ListPositions(r.Context())
	h.mu.RUnlock()
	if err != nil {
		h.logger.Warn("aggregated listing failed", zap.Error(err))
		httputil.WriteFailure(w, http.StatusNotFound, connectionFailureMessage)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, aggregatedResponse{Success: true, Aggregated: Aggregate(list)})
}

func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	list, err := h.reader.ListOrders(r.Context())
	h.mu.RUnlock()
	if err != nil {
		h.logger.Warn("orders listing failed", zap.Error(err))
		httputil.WriteFailure(w, http.StatusNotFound, connectionFailureMessage)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ordersResponse{Success: true, Orders: list})
}
