package terminal

import (
	"context"
	"fmt"
)

// DisabledAdapter is wired in when no bridge URL is configured. Every call
// fails as a connection failure so callers take their normal error path.
type DisabledAdapter struct{}

func NewDisabledAdapter() *DisabledAdapter {
	return &DisabledAdapter{}
}

var _ Adapter = (*DisabledAdapter)(nil)

func (a *DisabledAdapter) err() error {
	return fmt.Errorf("%w: terminal bridge not configured", ErrNotConnected)
}

func (a *DisabledAdapter) Initialize(ctx context.Context, login int64, server, password string) error {
	return a.err()
}

func (a *DisabledAdapter) SymbolTick(ctx context.Context, symbol string) (Tick, error) {
	return Tick{}, a.err()
}

func (a *DisabledAdapter) Positions(ctx context.Context) ([]RawPosition, error) {
	return nil, a.err()
}

func (a *DisabledAdapter) Orders(ctx context.Context) ([]RawOrder, error) {
	return nil, a.err()
}

func (a *DisabledAdapter) AccountInfo(ctx context.Context) (AccountInfo, error) {
	return AccountInfo{}, a.err()
}

func (a *DisabledAdapter) OrderSend(ctx context.Context, req OrderRequest) (*OrderSendResult, error) {
	return nil, a.err()
}
