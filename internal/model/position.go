package model

import (
	"encoding/json"
	"time"

	"metagate/internal/types"

	"github.com/shopspring/decimal"
)

const terminalTimeLayout = "2006-01-02 15:04:05"

// TerminalTime is a terminal timestamp already corrected for the
// terminal-vs-local clock offset. It serializes in the terminal's
// human-readable format rather than RFC 3339.
type TerminalTime time.Time

func (t TerminalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(terminalTimeLayout))
}

func (t *TerminalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(terminalTimeLayout, s)
	if err != nil {
		return err
	}
	*t = TerminalTime(parsed)
	return nil
}

func (t TerminalTime) String() string {
	return time.Time(t).Format(terminalTimeLayout)
}

// Position is a read-only snapshot of one open trade. Identity is the
// terminal ticket; the record is rebuilt from the terminal on every request.
type Position struct {
	Ticket       int64           `json:"Ticket"`
	Symbol       string          `json:"Symbol"`
	Volume       decimal.Decimal `json:"Volume"`
	Side         types.OrderSide `json:"Type"`
	Profit       decimal.Decimal `json:"Profit"`
	OpenedAt     TerminalTime    `json:"Time"`
	OpenPrice    decimal.Decimal `json:"Price Open"`
	CurrentPrice decimal.Decimal `json:"Current Price"`
	Swap         decimal.Decimal `json:"Swap"`
}

// PendingOrder is a resting limit order awaiting its trigger price.
type PendingOrder struct {
	Ticket       int64             `json:"Ticket"`
	Symbol       string            `json:"Symbol"`
	Volume       decimal.Decimal   `json:"Volume"`
	Type         types.PendingType `json:"Type"`
	SetupTime    TerminalTime      `json:"Time"`
	OpenPrice    decimal.Decimal   `json:"Price Open"`
	CurrentPrice decimal.Decimal   `json:"Current Price"`
}

// AggregatedExposure is the per-symbol reduction of the open position set.
// Buy volume adds to NetVolume, sell volume subtracts; TotalOpen sums
// unsigned volume across both sides.
type AggregatedExposure struct {
	Symbol      string          `json:"Symbol"`
	NetVolume   decimal.Decimal `json:"Net Volume"`
	TotalProfit decimal.Decimal `json:"Total Profit"`
	TotalOpen   decimal.Decimal `json:"Total Open"`
	TotalSwap   decimal.Decimal `json:"Total Swap"`
}

type BalanceInfo struct {
	Balance     float64 `json:"Balance"`
	Profit      float64 `json:"Profit"`
	Equity      float64 `json:"Equity"`
	Margin      float64 `json:"Margin"`
	MarginFree  float64 `json:"Margin_free"`
	MarginLevel float64 `json:"Margin_level"`
}

type PriceInfo struct {
	Bid float64 `json:"Bid"`
	Ask float64 `json:"Ask"`
}
