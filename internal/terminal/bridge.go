package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BridgeConfig configures the HTTP client for the MT5 bridge process that
// fronts the terminal on the Windows host.
type BridgeConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimit      float64
	RateLimitBurst int
}

// Bridge talks to the terminal through its local REST bridge. One Bridge
// represents one account session.
type Bridge struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ Adapter = (*Bridge)(nil)

func NewBridge(cfg BridgeConfig, logger *zap.Logger) *Bridge {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)
	return &Bridge{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		logger:  logger,
	}
}

type initializeRequest struct {
	Login    int64  `json:"login"`
	Server   string `json:"server"`
	Password string `json:"password"`
}

type initializeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (b *Bridge) Initialize(ctx context.Context, login int64, server, password string) error {
	var out initializeResponse
	req := b.client.R().
		SetContext(ctx).
		SetBody(initializeRequest{Login: login, Server: server, Password: password}).
		SetResult(&out)
	if err := b.execute(ctx, req, resty.MethodPost, "/initialize"); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("initialize failed: %s", out.Error)
	}
	return nil
}

func (b *Bridge) SymbolTick(ctx context.Context, symbol string) (Tick, error) {
	var out Tick
	req := b.client.R().SetContext(ctx).SetResult(&out)
	if err := b.execute(ctx, req, resty.MethodGet, "/symbol_info_tick/"+symbol); err != nil {
		return Tick{}, err
	}
	return out, nil
}

func (b *Bridge) Positions(ctx context.Context) ([]RawPosition, error) {
	var out []RawPosition
	req := b.client.R().SetContext(ctx).SetResult(&out)
	if err := b.execute(ctx, req, resty.MethodGet, "/positions_get"); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Bridge) Orders(ctx context.Context) ([]RawOrder, error) {
	var out []RawOrder
	req := b.client.R().SetContext(ctx).SetResult(&out)
	if err := b.execute(ctx, req, resty.MethodGet, "/orders_get"); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Bridge) AccountInfo(ctx context.Context) (AccountInfo, error) {
	var out AccountInfo
	req := b.client.R().SetContext(ctx).SetResult(&out)
	if err := b.execute(ctx, req, resty.MethodGet, "/account_info"); err != nil {
		return AccountInfo{}, err
	}
	return out, nil
}

func (b *Bridge) OrderSend(ctx context.Context, order OrderRequest) (*OrderSendResult, error) {
	var out OrderSendResult
	req := b.client.R().
		SetContext(ctx).
		SetBody(order).
		SetResult(&out)
	if err := b.execute(ctx, req, resty.MethodPost, "/order_send"); err != nil {
		return nil, err
	}
	return &out, nil
}

// execute runs one bridge call behind the rate limiter. Transport errors
// and non-2xx responses both collapse into ErrNotConnected: the bridge has
// no failure modes of its own worth distinguishing from a dead terminal.
func (b *Bridge) execute(ctx context.Context, req *resty.Request, method, path string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		b.logger.Warn("bridge call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	if resp.IsError() {
		b.logger.Warn("bridge call rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("%w: bridge returned %d", ErrNotConnected, resp.StatusCode())
	}
	return nil
}
