package positions

import (
	"metagate/internal/model"
	"metagate/internal/types"
)

// Aggregate reduces a position snapshot into per-symbol net exposure. It is
// a pure function of its input: no terminal calls, no shared state. Output
// order follows first occurrence of each symbol in the input; grouping, not
// ordering, is the contract.
func Aggregate(list []model.Position) []model.AggregatedExposure {
	index := make(map[string]int, len(list))
	out := make([]model.AggregatedExposure, 0, len(list))
	for _, p := range list {
		i, ok := index[p.Symbol]
		if !ok {
			i = len(out)
			index[p.Symbol] = i
			out = append(out, model.AggregatedExposure{Symbol: p.Symbol})
		}
		agg := &out[i]
		agg.TotalOpen = agg.TotalOpen.Add(p.Volume)
		if p.Side == types.OrderSideBuy {
			agg.NetVolume = agg.NetVolume.Add(p.Volume)
		} else {
			agg.NetVolume = agg.NetVolume.Sub(p.Volume)
		}
		agg.TotalProfit = agg.TotalProfit.Add(p.Profit)
		agg.TotalSwap = agg.TotalSwap.Add(p.Swap)
	}
	return out
}
