package trading

import (
	"context"
	"fmt"
	"sync"

	"metagate/internal/model"
	"metagate/internal/positions"
	"metagate/internal/terminal"
	"metagate/internal/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultDeviation is the slippage tolerance, in points, applied when a
// request does not carry one.
const DefaultDeviation = 50

// Router turns trade intents into concrete terminal orders. The terminal is
// one serial account session, so every mutating operation holds the session
// guard exclusively: a position snapshot taken at the start of a close must
// still be valid at submission.
type Router struct {
	mu     *sync.RWMutex
	term   terminal.Adapter
	reader *positions.Reader
	logger *zap.Logger
}

func NewRouter(mu *sync.RWMutex, term terminal.Adapter, reader *positions.Reader, logger *zap.Logger) *Router {
	return &Router{mu: mu, term: term, reader: reader, logger: logger}
}

type CloseRequest struct {
	Symbol    string
	Ticket    int64
	Volume    decimal.Decimal
	Magic     int64
	Deviation int
}

type OpenRequest struct {
	Symbol     string
	Volume     decimal.Decimal
	Side       types.OrderSide
	Price      *decimal.Decimal
	TakeProfit *decimal.Decimal
	StopLoss   *decimal.Decimal
	Magic      int64
	Deviation  int
}

type PendingRequest struct {
	Symbol     string
	Volume     decimal.Decimal
	Side       types.OrderSide
	Price      decimal.Decimal
	TakeProfit *decimal.Decimal
	StopLoss   *decimal.Decimal
	Magic      int64
	Deviation  int
}

// Result is the success variant of a routing operation.
type Result struct {
	Success bool
	Message string
	Result  *terminal.OrderSendResult
}

// Close closes the position identified by ticket. A zero volume, or one
// exceeding the position's live remaining volume, closes it in full;
// anything smaller is a partial close for exactly the requested amount.
func (rt *Router) Close(ctx context.Context, req CloseRequest) (Result, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.close(ctx, req)
}

// close assumes the session guard is already held.
func (rt *Router) close(ctx context.Context, req CloseRequest) (Result, error) {
	pos, found, err := rt.lookupPosition(ctx, req.Ticket)
	if err != nil {
		return Result{}, connectionFailure()
	}
	if !found {
		return Result{}, &Error{Kind: FailNotFound, Message: "Position with this ticket not found"}
	}

	// Closing is submitting the opposite side at the opposing live price.
	tick, err := rt.term.SymbolTick(ctx, req.Symbol)
	if err != nil {
		return Result{}, connectionFailure()
	}
	orderType := terminal.OrderTypeSell
	price := tick.Bid
	if pos.Side == types.OrderSideSell {
		orderType = terminal.OrderTypeBuy
		price = tick.Ask
	}

	volume := req.Volume.Round(2)
	fullClose := volume.IsZero() || volume.GreaterThan(pos.Volume)
	sendVolume := volume
	if fullClose {
		sendVolume = pos.Volume
	}

	res, err := rt.term.OrderSend(ctx, terminal.OrderRequest{
		Action:    terminal.TradeActionDeal,
		Symbol:    req.Symbol,
		Position:  req.Ticket,
		Volume:    toFloat(sendVolume),
		Type:      orderType,
		Price:     price,
		Deviation: req.Deviation,
		Magic:     req.Magic,
	})
	if err != nil {
		return Result{}, connectionFailure()
	}
	if res.Retcode != terminal.RetcodeDone {
		return Result{}, &Error{
			Kind:    FailRejected,
			Message: "Failed to close position: " + res.Comment,
			Result:  res,
		}
	}
	rt.logger.Info("position closed",
		zap.Int64("ticket", req.Ticket),
		zap.String("symbol", req.Symbol),
		zap.String("volume", sendVolume.String()),
		zap.Bool("full", fullClose))
	if fullClose {
		return Result{Success: true, Message: "Position closed successfully", Result: res}, nil
	}
	return Result{Success: true, Message: "Position partial closed successfully", Result: res}, nil
}

// reduceOpposite nets the requested volume against existing opposite-side
// positions on the symbol, first-found-first-closed in listing order, and
// returns the volume still left to open as new exposure. Once the remainder
// hits zero no further positions are touched.
func (rt *Router) reduceOpposite(ctx context.Context, symbol string, volume decimal.Decimal, side types.OrderSide) (decimal.Decimal, error) {
	list, err := rt.reader.ListPositions(ctx)
	if err != nil {
		return decimal.Zero, connectionFailure()
	}
	remaining := volume.Round(2)
	for _, pos := range list {
		if pos.Symbol != symbol || pos.Side == side {
			continue
		}
		if pos.Volume.LessThanOrEqual(remaining) {
			if _, err := rt.close(ctx, CloseRequest{Symbol: symbol, Ticket: pos.Ticket, Deviation: DefaultDeviation}); err != nil {
				return decimal.Zero, err
			}
			remaining = remaining.Sub(pos.Volume)
			if remaining.IsZero() {
				return decimal.Zero, nil
			}
		} else {
			if _, err := rt.close(ctx, CloseRequest{Symbol: symbol, Ticket: pos.Ticket, Volume: remaining, Deviation: DefaultDeviation}); err != nil {
				return decimal.Zero, err
			}
			return decimal.Zero, nil
		}
	}
	return remaining, nil
}

// Open realizes a trade intent: existing opposite exposure is consumed 1:1
// first, and only the remainder becomes a new order. A supplied price turns
// the fill policy from return-unfilled into fill-or-kill.
func (rt *Router) Open(ctx context.Context, req OpenRequest) (Result, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	remaining, err := rt.reduceOpposite(ctx, req.Symbol, req.Volume, req.Side)
	if err != nil {
		return Result{}, asRouteError(err)
	}
	if remaining.IsZero() {
		rt.logger.Info("intent fully netted",
			zap.String("symbol", req.Symbol),
			zap.String("volume", req.Volume.String()))
		return Result{Success: true, Message: "Position done by close opposite positions"}, nil
	}

	tick, err := rt.term.SymbolTick(ctx, req.Symbol)
	if err != nil {
		return Result{}, connectionFailure()
	}

	order := terminal.OrderRequest{
		Action:      terminal.TradeActionDeal,
		Symbol:      req.Symbol,
		Volume:      toFloat(remaining),
		Type:        terminal.OrderTypeBuy,
		Price:       tick.Ask,
		Deviation:   req.Deviation,
		Magic:       req.Magic,
		TypeTime:    terminal.OrderTimeGTC,
		TypeFilling: terminal.OrderFillingReturn,
	}
	if req.Side == types.OrderSideSell {
		order.Type = terminal.OrderTypeSell
		order.Price = tick.Bid
	}
	if req.TakeProfit != nil {
		order.TakeProfit = toFloat(*req.TakeProfit)
	}
	if req.StopLoss != nil {
		order.StopLoss = toFloat(*req.StopLoss)
	}
	if req.Price != nil {
		order.Price = toFloat(*req.Price)
		order.TypeFilling = terminal.OrderFillingFOK
	}

	res, err := rt.term.OrderSend(ctx, order)
	if err != nil {
		return Result{}, connectionFailure()
	}
	if res.Retcode != terminal.RetcodeDone {
		netted := req.Volume.Sub(remaining)
		return Result{}, &Error{
			Kind:    FailRejected,
			Message: fmt.Sprintf("Failed to open position: %s (netted %s of %s)", res.Comment, netted.String(), req.Volume.String()),
			Result:  res,
		}
	}
	rt.logger.Info("position opened",
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.String("volume", remaining.String()))
	return Result{Success: true, Message: "Position opened successfully", Result: res}, nil
}

// PlacePending submits a resting limit order at the given price. Pending
// orders never interact with open positions, so there is no netting step.
func (rt *Router) PlacePending(ctx context.Context, req PendingRequest) (Result, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	order := terminal.OrderRequest{
		Action:      terminal.TradeActionPending,
		Symbol:      req.Symbol,
		Volume:      toFloat(req.Volume),
		Type:        terminal.OrderTypeBuyLimit,
		Price:       toFloat(req.Price),
		Deviation:   req.Deviation,
		Magic:       req.Magic,
		TypeTime:    terminal.OrderTimeGTC,
		TypeFilling: terminal.OrderFillingReturn,
	}
	if req.Side == types.OrderSideSell {
		order.Type = terminal.OrderTypeSellLimit
	}
	if req.TakeProfit != nil {
		order.TakeProfit = toFloat(*req.TakeProfit)
	}
	if req.StopLoss != nil {
		order.StopLoss = toFloat(*req.StopLoss)
	}

	res, err := rt.term.OrderSend(ctx, order)
	if err != nil {
		return Result{}, connectionFailure()
	}
	if res.Retcode != terminal.RetcodeDone {
		return Result{}, &Error{
			Kind:    FailRejected,
			Message: "Failed to place the order: " + res.Comment,
			Result:  res,
		}
	}
	rt.logger.Info("pending order placed",
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.String("price", req.Price.String()))
	return Result{Success: true, Message: "Order placed successfully", Result: res}, nil
}

// lookupPosition resolves a position's live side and volume by ticket from
// a fresh snapshot. found=false with a nil error means the terminal
// answered but no such ticket exists.
func (rt *Router) lookupPosition(ctx context.Context, ticket int64) (model.Position, bool, error) {
	list, err := rt.reader.ListPositions(ctx)
	if err != nil {
		return model.Position{}, false, err
	}
	for _, pos := range list {
		if pos.Ticket == ticket {
			return pos, true, nil
		}
	}
	return model.Position{}, false, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
