package trading

import (
	"errors"
	"net/http"
	"strings"

	"metagate/internal/httputil"
	"metagate/internal/terminal"
	"metagate/internal/types"

	"github.com/shopspring/decimal"
)

type Handler struct {
	router *Router
}

func NewHandler(router *Router) *Handler {
	return &Handler{router: router}
}

type closePositionRequest struct {
	Symbol    string   `json:"symbol"`
	Ticket    *int64   `json:"ticket"`
	Volume    *float64 `json:"volume"`
	Magic     *int64   `json:"magic"`
	Deviation *int     `json:"deviation"`
}

type openPositionRequest struct {
	Symbol    string   `json:"symbol"`
	Volume    *float64 `json:"volume"`
	OrderSide string   `json:"order_side"`
	Price     *float64 `json:"price"`
	TPPrice   *float64 `json:"tp_price"`
	SLPrice   *float64 `json:"sl_price"`
	Magic     *int64   `json:"magic"`
	Deviation *int     `json:"deviation"`
}

type orderResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Result  *terminal.OrderSendResult `json:"result,omitempty"`
}

func (h *Handler) ClosePosition(w http.ResponseWriter, r *http.Request) {
	var req closePositionRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}
	var missing []string
	if req.Symbol == "" {
		missing = append(missing, "symbol")
	}
	if req.Ticket == nil {
		missing = append(missing, "ticket")
	}
	if len(missing) > 0 {
		writeMissing(w, missing)
		return
	}

	closeReq := CloseRequest{
		Symbol:    req.Symbol,
		Ticket:    *req.Ticket,
		Deviation: DefaultDeviation,
	}
	if req.Volume != nil {
		closeReq.Volume = decimal.NewFromFloat(*req.Volume).Round(2)
	}
	if req.Magic != nil {
		closeReq.Magic = *req.Magic
	}
	if req.Deviation != nil {
		closeReq.Deviation = *req.Deviation
	}

	res, err := h.router.Close(r.Context(), closeReq)
	if err != nil {
		writeRouteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, orderResponse{Success: true, Message: res.Message, Result: res.Result})
}

func (h *Handler) OpenPosition(w http.ResponseWriter, r *http.Request) {
	var req openPositionRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}
	var missing []string
	if req.Symbol == "" {
		missing = append(missing, "symbol")
	}
	if req.Volume == nil {
		missing = append(missing, "volume")
	}
	if req.OrderSide == "" {
		missing = append(missing, "order_side")
	}
	if len(missing) > 0 {
		writeMissing(w, missing)
		return
	}
	side := types.OrderSide(req.OrderSide)
	if !side.Valid() {
		httputil.WriteFailure(w, http.StatusBadRequest, "order_side must be buy or sell")
		return
	}

	openReq := OpenRequest{
		Symbol:    req.Symbol,
		Volume:    decimal.NewFromFloat(*req.Volume).Round(2),
		Side:      side,
		Deviation: DefaultDeviation,
	}
	if openReq.Volume.LessThanOrEqual(decimal.Zero) {
		httputil.WriteFailure(w, http.StatusBadRequest, "volume must be positive")
		return
	}
	if req.Price != nil {
		p := decimal.NewFromFloat(*req.Price)
		openReq.Price = &p
	}
	if req.TPPrice != nil {
		p := decimal.NewFromFloat(*req.TPPrice)
		openReq.TakeProfit = &p
	}
	if req.SLPrice != nil {
		p := decimal.NewFromFloat(*req.SLPrice)
		openReq.StopLoss = &p
	}
	if req.Magic != nil {
		openReq.Magic = *req.Magic
	}
	if req.Deviation != nil {
		openReq.Deviation = *req.Deviation
	}

	res, err := h.router.Open(r.Context(), openReq)
	if err != nil {
		writeRouteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, orderResponse{Success: true, Message: res.Message, Result: res.Result})
}

func (h *Handler) SendPendingOrder(w http.ResponseWriter, r *http.Request) {
	var req openPositionRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, "invalid json body")
		return
	}
	var missing []string
	if req.Symbol == "" {
		missing = append(missing, "symbol")
	}
	if req.Volume == nil {
		missing = append(missing, "volume")
	}
	if req.OrderSide == "" {
		missing = append(missing, "order_side")
	}
	if req.Price == nil {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		writeMissing(w, missing)
		return
	}
	side := types.OrderSide(req.OrderSide)
	if !side.Valid() {
		httputil.WriteFailure(w, http.StatusBadRequest, "order_side must be buy or sell")
		return
	}

	pendingReq := PendingRequest{
		Symbol:    req.Symbol,
		Volume:    decimal.NewFromFloat(*req.Volume).Round(2),
		Side:      side,
		Price:     decimal.NewFromFloat(*req.Price),
		Deviation: DefaultDeviation,
	}
	if pendingReq.Volume.LessThanOrEqual(decimal.Zero) {
		httputil.WriteFailure(w, http.StatusBadRequest, "volume must be positive")
		return
	}
	if req.TPPrice != nil {
		p := decimal.NewFromFloat(*req.TPPrice)
		pendingReq.TakeProfit = &p
	}
	if req.SLPrice != nil {
		p := decimal.NewFromFloat(*req.SLPrice)
		pendingReq.StopLoss = &p
	}
	if req.Magic != nil {
		pendingReq.Magic = *req.Magic
	}
	if req.Deviation != nil {
		pendingReq.Deviation = *req.Deviation
	}

	res, err := h.router.PlacePending(r.Context(), pendingReq)
	if err != nil {
		writeRouteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, orderResponse{Success: true, Message: res.Message, Result: res.Result})
}

func writeMissing(w http.ResponseWriter, fields []string) {
	httputil.WriteFailure(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(fields, ", "))
}

// writeRouteError maps the routing failure taxonomy onto the wire. Failed
// trade operations answer 404 with the failure envelope, keeping the
// terminal's rejection payload when there is one.
func writeRouteError(w http.ResponseWriter, err error) {
	var te *Error
	if !errors.As(err, &te) {
		httputil.WriteFailure(w, http.StatusNotFound, "Check connection to metatrader")
		return
	}
	httputil.WriteJSON(w, http.StatusNotFound, orderResponse{Success: false, Message: te.Message, Result: te.Result})
}
