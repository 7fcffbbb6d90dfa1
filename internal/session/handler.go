package session

import (
	"net/http"
	"strings"
	"sync"

	"metagate/internal/httputil"
	"metagate/internal/terminal"

	"go.uber.org/zap"
)

// Handler owns terminal session initialization. Init takes the session
// guard exclusively: nothing may trade or read against a half-initialized
// connection.
type Handler struct {
	term   terminal.Adapter
	mu     *sync.RWMutex
	logger *zap.Logger
}

func NewHandler(term terminal.Adapter, mu *sync.RWMutex, logger *zap.Logger) *Handler {
	return &Handler{term: term, mu: mu, logger: logger}
}

type initRequest struct {
	Login    *int64 `json:"login"`
	Server   string `json:"server"`
	Password string `json:"password"`
}

type initResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}
	var missing []string
	if req.Login == nil {
		missing = append(missing, "login")
	}
	if req.Server == "" {
		missing = append(missing, "server")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		httputil.WriteFailure(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	h.mu.Lock()
	err := h.term.Initialize(r.Context(), *req.Login, req.Server, req.Password)
	h.mu.Unlock()
	if err != nil {
		h.logger.Error("terminal initialization failed", zap.Int64("login", *req.Login), zap.Error(err))
		httputil.WriteJSON(w, http.StatusOK, initResponse{Success: false, Error: "Initialize failed: " + err.Error()})
		return
	}
	h.logger.Info("terminal session initialized", zap.Int64("login", *req.Login), zap.String("server", req.Server))
	httputil.WriteJSON(w, http.StatusOK, initResponse{Success: true, Message: "MetaTrader initialized successfully"})
}
