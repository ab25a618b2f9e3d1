// Package scoring reduces the latest indicator snapshot to an additive
// integer score, a reason trail, and a categorical decision.
package scoring

import (
	"fmt"
	"math"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/indicator"
)

// Decision buckets derived from the technical score.
type Decision string

const (
	StrongBuy  Decision = "STRONG_BUY"
	Buy        Decision = "BUY"
	HoldWait   Decision = "HOLD_WAIT"
	Sell       Decision = "SELL"
	StrongSell Decision = "STRONG_SELL"
	// NotAvailable marks assets whose analysis failed and were neutralized.
	NotAvailable Decision = "N/A"
)

// Bullish reports whether the decision belongs to the long side.
func (d Decision) Bullish() bool { return d == Buy || d == StrongBuy }

// Bearish reports whether the decision belongs to the short side.
func (d Decision) Bearish() bool { return d == Sell || d == StrongSell }

// FromScore maps a total score to its decision bucket. Monotonic in score.
func FromScore(score int) Decision {
	switch {
	case score >= 6:
		return StrongBuy
	case score >= 3:
		return Buy
	case score <= -6:
		return StrongSell
	case score <= -3:
		return Sell
	default:
		return HoldWait
	}
}

// Result carries the total score, the ordered reason trail, and the decision.
type Result struct {
	Score    int
	Reasons  []string
	Decision Decision
}

// rule contributes an integer delta and one human-readable reason.
// Commentary-only rules always return a zero delta.
type rule func(indicator.Snapshot) (int, string)

// ruleTable fixes the evaluation order; order affects only the reason list.
var ruleTable = []rule{
	rsiRule,
	shortTrendRule,
	longTrendRule,
	macdRule,
	bollingerRule,
	adxCommentRule,
	ichimokuCloudRule,
	kijunCommentRule,
}

// Score evaluates the rule table against one snapshot.
func Score(s indicator.Snapshot) Result {
	var total int
	reasons := make([]string, 0, len(ruleTable))
	for _, r := range ruleTable {
		delta, reason := r(s)
		total += delta
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}
	return Result{Score: total, Reasons: reasons, Decision: FromScore(total)}
}

func rsiRule(s indicator.Snapshot) (int, string) {
	switch {
	case s.RSI14 > 70:
		return -1, fmt.Sprintf("RSI %.1f (overbought).", s.RSI14)
	case s.RSI14 < 30:
		return 1, fmt.Sprintf("RSI %.1f (oversold, possible rebound).", s.RSI14)
	default:
		return 0, fmt.Sprintf("RSI %.1f (neutral zone).", s.RSI14)
	}
}

func shortTrendRule(s indicator.Snapshot) (int, string) {
	switch {
	case s.Close > s.EMA20 && s.Close > s.EMA50:
		return 1, "Price above EMA20 and EMA50 (short-term trend positive)."
	case s.Close < s.EMA20 && s.Close < s.EMA50:
		return -1, "Price below EMA20 and EMA50 (short-term trend weak)."
	default:
		return 0, "Price mixed against EMA20/EMA50 (uncertain short-term trend)."
	}
}

func longTrendRule(s indicator.Snapshot) (int, string) {
	switch {
	case s.Close > s.EMA200 && s.Close > s.SMA200:
		return 2, "Price above EMA200 and SMA200 (long-term trend positive)."
	case s.Close < s.EMA200 && s.Close < s.SMA200:
		return -2, "Price below EMA200 and SMA200 (long-term trend weak)."
	default:
		return 0, "Price near EMA200/SMA200 (long-term equilibrium zone)."
	}
}

func macdRule(s indicator.Snapshot) (int, string) {
	if s.MACD > s.MACDSignal {
		return 1, "MACD above signal (bullish momentum)."
	}
	return -1, "MACD below signal (bearish momentum)."
}

func bollingerRule(s indicator.Snapshot) (int, string) {
	switch {
	case s.Close < s.BBLower:
		return 1, "Price below lower Bollinger band (possible rebound)."
	case s.Close > s.BBUpper:
		return -1, "Price above upper Bollinger band (possible pullback)."
	default:
		return 0, ""
	}
}

func ichimokuCloudRule(s indicator.Snapshot) (int, string) {
	cloudTop := math.Max(s.SpanA, s.SpanB)
	cloudBottom := math.Min(s.SpanA, s.SpanB)
	switch {
	case s.Close > cloudTop:
		return 1, "Price above the Ichimoku cloud (bullish scenario)."
	case s.Close < cloudBottom:
		return -1, "Price below the Ichimoku cloud (bearish scenario)."
	default:
		return 0, "Price inside the Ichimoku cloud (indecision zone)."
	}
}

func adxCommentRule(s indicator.Snapshot) (int, string) {
	switch {
	case s.ADX14 < 20:
		return 0, fmt.Sprintf("ADX %.1f (weak/sideways trend).", s.ADX14)
	case s.ADX14 < 30:
		return 0, fmt.Sprintf("ADX %.1f (moderate trend).", s.ADX14)
	default:
		return 0, fmt.Sprintf("ADX %.1f (strong trend).", s.ADX14)
	}
}

func kijunCommentRule(s indicator.Snapshot) (int, string) {
	if s.Close > s.Kijun {
		return 0, "Price above the Kijun-sen (dynamic support)."
	}
	return 0, "Price below the Kijun-sen (dynamic resistance)."
}
