// Package order converts strong signals into risk-sized directional order
// proposals.
package order

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/asset"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/config"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/metrics"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/record"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/scoring"
)

// Side enumerates proposal directions.
type Side string

const (
	// Long proposes buying at entry with the stop below.
	Long Side = "LONG"
	// Short proposes selling at entry with the stop above.
	Short Side = "SHORT"
)

// Proposal is a fully sized order idea. It is advisory only; nothing is sent
// to a venue.
type Proposal struct {
	Timestamp      time.Time
	Symbol         string
	Name           string
	Category       string
	Side           Side
	Entry          float64
	StopLoss       float64
	TakeProfit     float64
	RewardRisk     float64
	TechScore      int
	TechDecision   scoring.Decision
	CompositeScore float64
	ATR14          float64
	PositionSize   float64
	Notional       float64
	RiskAmount     float64
	ReasonShort    string
}

// Constructor builds and logs proposals using the configured account and
// stop/target parameters.
type Constructor struct {
	account  config.Account
	orders   config.Orders
	strength float64
	log      zerolog.Logger
	orderLog *record.OrderLog
}

// NewConstructor wires the order parameters. The order log may be nil when
// persistence is not wanted (tests, dry runs).
func NewConstructor(account config.Account, orders config.Orders, strength float64, log zerolog.Logger, orderLog *record.OrderLog) *Constructor {
	return &Constructor{
		account:  account,
		orders:   orders,
		strength: strength,
		log:      log,
		orderLog: orderLog,
	}
}

// Build returns a proposal when the technical score and composite score agree
// in sign and both clear the strength threshold, or (nil, nil) when there is
// no actionable signal or the risk geometry is degenerate. The only error
// path is a failed order-log append.
func (c *Constructor) Build(a asset.Asset, res scoring.Result, composite, lastClose, atr float64) (*Proposal, error) {
	if atr <= 0 || lastClose <= 0 {
		return nil, nil
	}

	var side Side
	switch {
	case float64(res.Score) >= c.strength && composite >= c.strength:
		side = Long
	case float64(res.Score) <= -c.strength && composite <= -c.strength:
		side = Short
	default:
		return nil, nil
	}

	macro := asset.MacroCategory(a.Category)
	stopDist := atr * c.orders.ATRMultiplier(macro)
	rr := c.orders.RewardRisk

	entry := lastClose
	var stop, target float64
	if side == Long {
		stop = entry - stopDist
		target = entry + stopDist*rr
	} else {
		stop = entry + stopDist
		target = entry - stopDist*rr
	}
	if stop <= 0 || target <= 0 {
		return nil, nil
	}

	distance := math.Abs(entry - stop)
	if distance <= 0 {
		return nil, nil
	}
	riskAmount := c.account.RiskAmount()
	size := riskAmount / distance
	notional := size * entry

	reason := "Technical decision: " + string(res.Decision)
	if len(res.Reasons) > 0 {
		reason = res.Reasons[0]
	}

	p := &Proposal{
		Timestamp:      time.Now().UTC(),
		Symbol:         a.Symbol,
		Name:           a.Name,
		Category:       a.Category,
		Side:           side,
		Entry:          entry,
		StopLoss:       stop,
		TakeProfit:     target,
		RewardRisk:     rr,
		TechScore:      res.Score,
		TechDecision:   res.Decision,
		CompositeScore: composite,
		ATR14:          atr,
		PositionSize:   size,
		Notional:       notional,
		RiskAmount:     riskAmount,
		ReasonShort:    reason,
	}

	if c.orderLog != nil {
		if err := c.orderLog.Append(record.OrderRecord{
			Timestamp:         p.Timestamp,
			Symbol:            p.Symbol,
			Name:              p.Name,
			Category:          p.Category,
			Side:              string(p.Side),
			Entry:             p.Entry,
			StopLoss:          p.StopLoss,
			TakeProfit:        p.TakeProfit,
			RewardRisk:        p.RewardRisk,
			TechnicalScore:    p.TechScore,
			TechnicalDecision: string(p.TechDecision),
			CompositeScore:    p.CompositeScore,
			ATR14:             p.ATR14,
			PositionSize:      p.PositionSize,
			Notional:          p.Notional,
			RiskAmount:        p.RiskAmount,
			ReasonShort:       p.ReasonShort,
		}); err != nil {
			return nil, err
		}
	}

	metrics.OrdersProposedTotal.WithLabelValues(p.Symbol, string(p.Side)).Inc()
	c.log.Info().
		Str("sym", p.Symbol).
		Str("side", string(p.Side)).
		Float64("entry", p.Entry).
		Float64("stop", p.StopLoss).
		Float64("target", p.TakeProfit).
		Float64("size", p.PositionSize).
		Msg("order proposal")
	return p, nil
}
