package terminal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBridge(baseURL string) *Bridge {
	return NewBridge(BridgeConfig{
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		RateLimit:      100,
		RateLimitBurst: 10,
	}, zap.NewNop())
}

func TestBridgePositions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/positions_get", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]RawPosition{
			{Ticket: 1, Symbol: "XAUUSD", Volume: 0.05, Type: OrderTypeBuy, Profit: 1.5},
		})
	}))
	defer srv.Close()

	bridge := newTestBridge(srv.URL)
	list, err := bridge.Positions(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].Ticket)
	assert.Equal(t, "XAUUSD", list[0].Symbol)
}

func TestBridgeUnreachableIsNotConnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	bridge := newTestBridge(srv.URL)
	_, err := bridge.Positions(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = bridge.SymbolTick(context.Background(), "XAUUSD")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = bridge.OrderSend(context.Background(), OrderRequest{})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestBridgeErrorStatusIsNotConnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	bridge := newTestBridge(srv.URL)
	_, err := bridge.AccountInfo(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestBridgeOrderSendDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/order_send", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, TradeActionDeal, req.Action)
		assert.Equal(t, "XAUUSD", req.Symbol)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(OrderSendResult{
			Retcode: RetcodeDone,
			Order:   42,
			Volume:  req.Volume,
			Comment: "Request executed",
		})
	}))
	defer srv.Close()

	bridge := newTestBridge(srv.URL)
	res, err := bridge.OrderSend(context.Background(), OrderRequest{
		Action: TradeActionDeal,
		Symbol: "XAUUSD",
		Volume: 0.05,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(RetcodeDone), res.Retcode)
	assert.Equal(t, int64(42), res.Order)
	assert.Equal(t, "Request executed", res.Comment)
}

func TestBridgeInitialize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/initialize", r.URL.Path)
		var req initializeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Login == 12345 {
			_ = json.NewEncoder(w).Encode(initializeResponse{Success: true})
			return
		}
		_ = json.NewEncoder(w).Encode(initializeResponse{Success: false, Error: "(10004, 'No connection')"})
	}))
	defer srv.Close()

	bridge := newTestBridge(srv.URL)
	require.NoError(t, bridge.Initialize(context.Background(), 12345, "Broker-Demo", "secret"))

	err := bridge.Initialize(context.Background(), 99999, "Broker-Demo", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No connection")
}
