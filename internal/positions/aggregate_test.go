package positions

import (
	"math/rand"
	"testing"

	"metagate/internal/model"
	"metagate/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(ticket int64, symbol string, side types.OrderSide, volume, profit, swap string) model.Position {
	return model.Position{
		Ticket: ticket,
		Symbol: symbol,
		Side:   side,
		Volume: decimal.RequireFromString(volume),
		Profit: decimal.RequireFromString(profit),
		Swap:   decimal.RequireFromString(swap),
	}
}

func TestAggregateNetsBuyAndSell(t *testing.T) {
	list := []model.Position{
		pos(1, "XAUUSD", types.OrderSideBuy, "0.05", "12.50", "-0.30"),
		pos(2, "XAUUSD", types.OrderSideSell, "0.02", "-3.10", "0.00"),
		pos(3, "EURUSD", types.OrderSideSell, "1.00", "7.00", "-1.20"),
	}

	out := Aggregate(list)
	require.Len(t, out, 2)

	bySymbol := map[string]model.AggregatedExposure{}
	for _, agg := range out {
		bySymbol[agg.Symbol] = agg
	}

	gold := bySymbol["XAUUSD"]
	assert.Equal(t, "0.03", gold.NetVolume.String())
	assert.Equal(t, "0.07", gold.TotalOpen.String())
	assert.Equal(t, "9.4", gold.TotalProfit.String())
	assert.Equal(t, "-0.3", gold.TotalSwap.String())

	euro := bySymbol["EURUSD"]
	assert.Equal(t, "-1", euro.NetVolume.String())
	assert.Equal(t, "1", euro.TotalOpen.String())
}

func TestAggregateOrderIndependent(t *testing.T) {
	list := []model.Position{
		pos(1, "XAUUSD", types.OrderSideBuy, "0.05", "1.00", "0.10"),
		pos(2, "EURUSD", types.OrderSideSell, "0.50", "2.00", "0.20"),
		pos(3, "XAUUSD", types.OrderSideSell, "0.03", "3.00", "0.30"),
		pos(4, "GBPUSD", types.OrderSideBuy, "0.10", "4.00", "0.40"),
		pos(5, "EURUSD", types.OrderSideBuy, "0.25", "5.00", "0.50"),
	}

	want := map[string]model.AggregatedExposure{}
	for _, agg := range Aggregate(list) {
		want[agg.Symbol] = agg
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.Position, len(list))
		copy(shuffled, list)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := map[string]model.AggregatedExposure{}
		for _, agg := range Aggregate(shuffled) {
			got[agg.Symbol] = agg
		}
		require.Len(t, got, len(want))
		for symbol, w := range want {
			g := got[symbol]
			assert.True(t, w.NetVolume.Equal(g.NetVolume), "net volume for %s", symbol)
			assert.True(t, w.TotalOpen.Equal(g.TotalOpen), "total open for %s", symbol)
			assert.True(t, w.TotalProfit.Equal(g.TotalProfit), "total profit for %s", symbol)
			assert.True(t, w.TotalSwap.Equal(g.TotalSwap), "total swap for %s", symbol)
		}
	}
}

func TestAggregateTotalOpenSumsUnsignedVolume(t *testing.T) {
	list := []model.Position{
		pos(1, "XAUUSD", types.OrderSideBuy, "0.05", "0", "0"),
		pos(2, "XAUUSD", types.OrderSideSell, "0.05", "0", "0"),
		pos(3, "XAUUSD", types.OrderSideSell, "0.02", "0", "0"),
	}

	out := Aggregate(list)
	require.Len(t, out, 1)
	assert.Equal(t, "0.12", out[0].TotalOpen.String())
	assert.Equal(t, "-0.02", out[0].NetVolume.String())
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate([]model.Position{}))
}
