// Package paper owns the ledger of simulated positions: opening, marking to
// market, and closing them at stop or target.
package paper

import (
	"math"
	"time"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/order"
)

// Status is the trade lifecycle state. OPEN transitions to CLOSED exactly
// once; CLOSED is terminal.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Trade is one simulated position in the ledger.
type Trade struct {
	ID         int
	Symbol     string
	Side       order.Side
	Style      string
	Lot        float64
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	OpenTime   time.Time
	CloseTime  time.Time // zero while open
	Status     Status
	LastPrice  float64
	PnL        float64
	PnLPct     float64
	RiskAmount float64
	GainAmount float64
}

// OpenParams describes a trade to open.
type OpenParams struct {
	Symbol     string
	Side       order.Side
	Style      string
	Lot        float64
	Entry      float64
	StopLoss   float64
	TakeProfit float64
}

func newTrade(id int, p OpenParams, now time.Time) Trade {
	riskPerUnit := math.Abs(p.Entry - p.StopLoss)
	var gainPerUnit float64
	if p.Side == order.Long {
		gainPerUnit = math.Max(p.TakeProfit-p.Entry, 0)
	} else {
		gainPerUnit = math.Max(p.Entry-p.TakeProfit, 0)
	}
	return Trade{
		ID:         id,
		Symbol:     p.Symbol,
		Side:       p.Side,
		Style:      p.Style,
		Lot:        p.Lot,
		Entry:      p.Entry,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
		OpenTime:   now,
		Status:     StatusOpen,
		LastPrice:  p.Entry,
		RiskAmount: riskPerUnit * p.Lot,
		GainAmount: gainPerUnit * p.Lot,
	}
}

// mark recomputes PnL against the observed price and reports whether the
// price reached the stop or target. When both are satisfied in the same
// observation the trade closes without recording which boundary hit first.
func (t *Trade) mark(price, capital float64) (hit bool) {
	if t.Side == order.Long {
		t.PnL = (price - t.Entry) * t.Lot
		hit = price >= t.TakeProfit || price <= t.StopLoss
	} else {
		t.PnL = (t.Entry - price) * t.Lot
		hit = price <= t.TakeProfit || price >= t.StopLoss
	}
	if capital > 0 {
		t.PnLPct = t.PnL / capital * 100
	} else {
		t.PnLPct = 0
	}
	t.LastPrice = price
	return hit
}
