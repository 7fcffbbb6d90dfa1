package terminal

import (
	"context"
	"errors"
)

// Trade request constants, mirrored from the MT5 terminal protocol.
const (
	TradeActionDeal    = 1
	TradeActionPending = 5

	OrderTypeBuy       = 0
	OrderTypeSell      = 1
	OrderTypeBuyLimit  = 2
	OrderTypeSellLimit = 3

	OrderTimeGTC = 0

	OrderFillingFOK    = 0
	OrderFillingReturn = 2

	// RetcodeDone is the terminal's fill acknowledgment. Any other retcode
	// on a non-nil result is an explicit rejection.
	RetcodeDone = 10009
)

// ErrNotConnected marks every failure to reach the terminal: transport
// errors, timeouts, an uninitialized session. Callers branch on it to
// separate infrastructure failures from explicit broker rejections.
var ErrNotConnected = errors.New("check connection to metatrader")

type Tick struct {
	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
	Time int64   `json:"time"`
}

// RawPosition is the terminal's own position record, before normalization.
type RawPosition struct {
	Ticket       int64   `json:"ticket"`
	Symbol       string  `json:"symbol"`
	Volume       float64 `json:"volume"`
	Type         int     `json:"type"`
	Profit       float64 `json:"profit"`
	Time         int64   `json:"time"`
	PriceOpen    float64 `json:"price_open"`
	PriceCurrent float64 `json:"price_current"`
	Swap         float64 `json:"swap"`
}

type RawOrder struct {
	Ticket        int64   `json:"ticket"`
	Symbol        string  `json:"symbol"`
	VolumeCurrent float64 `json:"volume_current"`
	Type          int     `json:"type"`
	TimeSetup     int64   `json:"time_setup"`
	PriceOpen     float64 `json:"price_open"`
	PriceCurrent  float64 `json:"price_current"`
}

type AccountInfo struct {
	Balance     float64 `json:"balance"`
	Profit      float64 `json:"profit"`
	Equity      float64 `json:"equity"`
	Margin      float64 `json:"margin"`
	MarginFree  float64 `json:"margin_free"`
	MarginLevel float64 `json:"margin_level"`
}

// OrderRequest mirrors the terminal trade request structure.
type OrderRequest struct {
	Action      int     `json:"action"`
	Symbol      string  `json:"symbol"`
	Volume      float64 `json:"volume"`
	Type        int     `json:"type"`
	Price       float64 `json:"price,omitempty"`
	StopLoss    float64 `json:"sl,omitempty"`
	TakeProfit  float64 `json:"tp,omitempty"`
	Deviation   int     `json:"deviation"`
	Magic       int64   `json:"magic"`
	Position    int64   `json:"position,omitempty"`
	TypeTime    int     `json:"type_time"`
	TypeFilling int     `json:"type_filling"`
}

type OrderSendResult struct {
	Retcode uint32  `json:"retcode"`
	Deal    int64   `json:"deal"`
	Order   int64   `json:"order"`
	Volume  float64 `json:"volume"`
	Price   float64 `json:"price"`
	Bid     float64 `json:"bid"`
	Ask     float64 `json:"ask"`
	Comment string  `json:"comment"`
}

// Adapter is the session handle to one broker terminal connection.
// Every call is context-bounded; implementations must not block past
// their configured timeout.
//
// Positions and Orders return an error only when the terminal is
// unreachable; an account with no open trades yields an empty slice.
// OrderSend returns an error only for transport failure or terminal
// non-response; an explicit rejection comes back as a non-nil result
// with a non-Done retcode.
type Adapter interface {
	Initialize(ctx context.Context, login int64, server, password string) error
	SymbolTick(ctx context.Context, symbol string) (Tick, error)
	Positions(ctx context.Context) ([]RawPosition, error)
	Orders(ctx context.Context) ([]RawOrder, error)
	AccountInfo(ctx context.Context) (AccountInfo, error)
	OrderSend(ctx context.Context, req OrderRequest) (*OrderSendResult, error)
}
