package matching

import (
	"code.pegsim.io/pegsim/libs/num"
)

// rollingAverage keeps the last N executed trade prices and volumes
// and yields their (optionally volume-weighted) mean. Before any trade
// has happened it reports a configured default price so valuations are
// always defined.
type rollingAverage struct {
	window   int
	weighted bool
	fallback num.Decimal

	prices  []num.Decimal
	volumes []num.Decimal
}

func newRollingAverage(window int, weighted bool) *rollingAverage {
	return &rollingAverage{
		window:   window,
		weighted: weighted,
		fallback: num.DecimalOne(),
	}
}

func (r *rollingAverage) observe(price, volume num.Decimal) {
	r.prices = append(r.prices, price)
	r.volumes = append(r.volumes, volume)
	if len(r.prices) > r.window {
		r.prices = r.prices[1:]
		r.volumes = r.volumes[1:]
	}
}

func (r *rollingAverage) value() num.Decimal {
	if len(r.prices) == 0 {
		return r.fallback
	}
	if r.weighted {
		totalValue, totalVolume := num.DecimalZero(), num.DecimalZero()
		for i := range r.prices {
			totalValue = totalValue.Add(r.prices[i].Mul(r.volumes[i]))
			totalVolume = totalVolume.Add(r.volumes[i])
		}
		if totalVolume.IsPositive() {
			return totalValue.Div(totalVolume)
		}
		return r.fallback
	}
	total := num.DecimalZero()
	for _, p := range r.prices {
		total = total.Add(p)
	}
	return total.Div(num.DecimalFromInt64(int64(len(r.prices))))
}
