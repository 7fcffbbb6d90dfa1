package types

type OrderSide string

type PendingType string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

const (
	PendingBuyLimit  PendingType = "buy limit"
	PendingSellLimit PendingType = "sell limit"
)

func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}
