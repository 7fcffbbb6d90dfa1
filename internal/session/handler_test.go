package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"metagate/internal/terminal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTerminal struct {
	terminal.DisabledAdapter
	initErr   error
	initCalls int
}

func (f *fakeTerminal) Initialize(ctx context.Context, login int64, server, password string) error {
	f.initCalls++
	return f.initErr
}

func postInit(t *testing.T, term terminal.Adapter, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	h := NewHandler(term, &sync.RWMutex{}, zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/init_metatrader", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Init(rec, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestInitMissingFields(t *testing.T) {
	term := &fakeTerminal{}
	rec, body := postInit(t, term, `{"login":12345}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields: server, password", body["message"])
	assert.Zero(t, term.initCalls)
}

func TestInitSuccess(t *testing.T) {
	term := &fakeTerminal{}
	rec, body := postInit(t, term, `{"login":12345,"server":"Broker-Demo","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "MetaTrader initialized successfully", body["message"])
	assert.Equal(t, 1, term.initCalls)
}

func TestInitFailureReportsError(t *testing.T) {
	term := &fakeTerminal{initErr: errors.New("initialize failed: (10004, 'No connection')")}
	rec, body := postInit(t, term, `{"login":12345,"server":"Broker-Demo","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "No connection")
}
