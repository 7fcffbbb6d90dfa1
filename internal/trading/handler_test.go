package trading

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"metagate/internal/terminal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestClosePositionMissingFields(t *testing.T) {
	h := NewHandler(newTestRouter(&fakeTerminal{}))

	rec := postJSON(t, h.ClosePosition, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing required fields: symbol, ticket", body["message"])
}

func TestOpenPositionMissingFields(t *testing.T) {
	h := NewHandler(newTestRouter(&fakeTerminal{}))

	rec := postJSON(t, h.OpenPosition, `{"symbol":"XAUUSD"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Missing required fields: volume, order_side", body["message"])
}

func TestSendPendingOrderMissingPrice(t *testing.T) {
	h := NewHandler(newTestRouter(&fakeTerminal{}))

	rec := postJSON(t, h.SendPendingOrder, `{"symbol":"XAUUSD","volume":0.1,"order_side":"buy"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Missing required fields: price", body["message"])
}

func TestOpenPositionInvalidSide(t *testing.T) {
	h := NewHandler(newTestRouter(&fakeTerminal{}))

	rec := postJSON(t, h.OpenPosition, `{"symbol":"XAUUSD","volume":0.1,"order_side":"long"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClosePositionSuccess(t *testing.T) {
	term := &fakeTerminal{
		tick:      terminal.Tick{Bid: 2600.1, Ask: 2600.4, Time: 1},
		positions: []terminal.RawPosition{buyPosition(1, "XAUUSD", 0.05)},
	}
	h := NewHandler(newTestRouter(term))

	rec := postJSON(t, h.ClosePosition, `{"symbol":"XAUUSD","ticket":1,"volume":0.03}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Position partial closed successfully", body["message"])
	assert.Contains(t, body, "result")
}

func TestClosePositionFailureMapsTo404(t *testing.T) {
	term := &fakeTerminal{posErr: terminal.ErrNotConnected}
	h := NewHandler(newTestRouter(term))

	rec := postJSON(t, h.ClosePosition, `{"symbol":"XAUUSD","ticket":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Check connection to metatrader", body["message"])
}

func TestOpenPositionDefaultsDeviation(t *testing.T) {
	term := &fakeTerminal{tick: terminal.Tick{Bid: 2600.1, Ask: 2600.4, Time: 1}}
	h := NewHandler(newTestRouter(term))

	rec := postJSON(t, h.OpenPosition, `{"symbol":"XAUUSD","volume":0.1,"order_side":"buy"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, term.sent, 1)
	assert.Equal(t, DefaultDeviation, term.sent[0].Deviation)
	assert.Equal(t, int64(0), term.sent[0].Magic)
}

func TestSendPendingOrderRejected(t *testing.T) {
	term := &fakeTerminal{
		sendResults: []*terminal.OrderSendResult{{Retcode: 10015, Comment: "Invalid price"}},
	}
	h := NewHandler(newTestRouter(term))

	rec := postJSON(t, h.SendPendingOrder, `{"symbol":"XAUUSD","volume":0.1,"order_side":"sell","price":2700}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "Invalid price")
	assert.Contains(t, body, "result")
}
