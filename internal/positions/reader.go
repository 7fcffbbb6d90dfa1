package positions

import (
	"context"
	"fmt"
	"time"

	"metagate/internal/model"
	"metagate/internal/terminal"
	"metagate/internal/types"

	"github.com/shopspring/decimal"
)

// offsetBucket absorbs small clock drift and tick-feed latency: the
// terminal-vs-local difference is floored to the nearest 30 seconds so the
// offset does not re-drift on every call.
const offsetBucket = 30 * time.Second

// Reader converts raw terminal records into normalized domain records.
// It caches nothing: every listing is a fresh terminal snapshot.
type Reader struct {
	term         terminal.Adapter
	offsetSymbol string
	now          func() time.Time
}

func NewReader(term terminal.Adapter, offsetSymbol string) *Reader {
	return &Reader{term: term, offsetSymbol: offsetSymbol, now: time.Now}
}

// clockOffset measures how far the terminal clock sits from local time,
// using the reference symbol's last tick as the terminal's notion of now.
func (r *Reader) clockOffset(ctx context.Context) (time.Duration, error) {
	tick, err := r.term.SymbolTick(ctx, r.offsetSymbol)
	if err != nil {
		return 0, err
	}
	serverTime := time.Unix(tick.Time, 0).UTC()
	localTime := r.now().UTC().Truncate(time.Second)
	diff := localTime.Sub(serverTime)
	rem := diff % offsetBucket
	if rem < 0 {
		rem += offsetBucket
	}
	return diff - rem, nil
}

// ListPositions returns the open position snapshot. An empty slice means
// no open positions; an error means the terminal could not be reached.
// Callers must branch on the two separately.
func (r *Reader) ListPositions(ctx context.Context) ([]model.Position, error) {
	raw, err := r.term.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	if len(raw) == 0 {
		return []model.Position{}, nil
	}
	offset, err := r.clockOffset(ctx)
	if err != nil {
		return nil, fmt.Errorf("clock offset: %w", err)
	}
	out := make([]model.Position, 0, len(raw))
	for _, p := range raw {
		side := types.OrderSideBuy
		if p.Type != terminal.OrderTypeBuy {
			side = types.OrderSideSell
		}
		out = append(out, model.Position{
			Ticket:       p.Ticket,
			Symbol:       p.Symbol,
			Volume:       money(p.Volume),
			Side:         side,
			Profit:       money(p.Profit),
			OpenedAt:     model.TerminalTime(time.Unix(p.Time, 0).UTC().Add(offset)),
			OpenPrice:    money(p.PriceOpen),
			CurrentPrice: money(p.PriceCurrent),
			Swap:         money(p.Swap),
		})
	}
	return out, nil
}

// ListOrders returns the pending order snapshot, same contract shape as
// ListPositions.
func (r *Reader) ListOrders(ctx context.Context) ([]model.PendingOrder, error) {
	raw, err := r.term.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(raw) == 0 {
		return []model.PendingOrder{}, nil
	}
	offset, err := r.clockOffset(ctx)
	if err != nil {
		return nil, fmt.Errorf("clock offset: %w", err)
	}
	out := make([]model.PendingOrder, 0, len(raw))
	for _, o := range raw {
		kind := types.PendingSellLimit
		if o.Type == terminal.OrderTypeBuyLimit {
			kind = types.PendingBuyLimit
		}
		out = append(out, model.PendingOrder{
			Ticket:       o.Ticket,
			Symbol:       o.Symbol,
			Volume:       money(o.VolumeCurrent),
			Type:         kind,
			SetupTime:    model.TerminalTime(time.Unix(o.TimeSetup, 0).UTC().Add(offset)),
			OpenPrice:    money(o.PriceOpen),
			CurrentPrice: money(o.PriceCurrent),
		})
	}
	return out, nil
}

// money rounds a raw terminal float to the gateway's 2-decimal exact
// representation before it enters any aggregation or comparison.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
