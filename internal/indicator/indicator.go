// Package indicator derives the technical series consumed by the scoring
// engine from an ordered daily bar sequence.
package indicator

import (
	"errors"
	"math"
	"time"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/market"
)

// ErrInsufficientHistory indicates the warm-up discard left no usable rows.
var ErrInsufficientHistory = errors.New("insufficient history for indicators")

// MinBars is the smallest input length that can produce output: the 200-bar
// simple moving average is the binding window.
const MinBars = 200

// neutralRSI stands in for RSI when the rolling average loss is zero and the
// gain/loss ratio is undefined.
const neutralRSI = 50.0

// Snapshot holds every derived value for one bar with full window history.
type Snapshot struct {
	Time       time.Time
	Close      float64
	EMA20      float64
	EMA50      float64
	EMA200     float64
	SMA200     float64
	RSI14      float64
	MACD       float64
	MACDSignal float64
	ATR14      float64
	ADX14      float64
	BBUpper    float64
	BBLower    float64
	Tenkan     float64
	Kijun      float64
	SpanA      float64
	SpanB      float64
}

// Compute derives all indicator series for one asset and drops every bar
// whose window history is incomplete, so the result is index-aligned to the
// tail of the input. Returns ErrInsufficientHistory when nothing survives.
func Compute(bars []market.Bar) ([]Snapshot, error) {
	if len(bars) == 0 {
		return nil, ErrInsufficientHistory
	}

	n := len(bars)
	close := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	for i, b := range bars {
		close[i] = b.Close
		high[i] = b.High
		low[i] = b.Low
	}

	rsi14 := rsi(close, 14)

	ema20 := ema(close, 20)
	ema50 := ema(close, 50)
	ema200 := ema(close, 200)
	sma200 := rollMean(close, 200)

	ema12 := ema(close, 12)
	ema26 := ema(close, 26)
	macd := make([]float64, n)
	for i := range macd {
		macd[i] = ema12[i] - ema26[i]
	}
	macdSignal := ema(macd, 9)

	tr := trueRange(high, low, close)
	atr14 := rollMean(tr, 14)
	adx14 := adx(high, low, tr, 14)

	bbMid := rollMean(close, 20)
	bbStd := rollStd(close, 20)
	bbUpper := make([]float64, n)
	bbLower := make([]float64, n)
	for i := range close {
		bbUpper[i] = bbMid[i] + 2*bbStd[i]
		bbLower[i] = bbMid[i] - 2*bbStd[i]
	}

	tenkan := midpoint(high, low, 9)
	kijun := midpoint(high, low, 26)
	spanARaw := make([]float64, n)
	for i := range spanARaw {
		spanARaw[i] = (tenkan[i] + kijun[i]) / 2
	}
	spanA := shift(spanARaw, 26)
	spanB := shift(midpoint(high, low, 52), 26)

	out := make([]Snapshot, 0, n)
	for i := 0; i < n; i++ {
		snap := Snapshot{
			Time:       bars[i].Time,
			Close:      close[i],
			EMA20:      ema20[i],
			EMA50:      ema50[i],
			EMA200:     ema200[i],
			SMA200:     sma200[i],
			RSI14:      rsi14[i],
			MACD:       macd[i],
			MACDSignal: macdSignal[i],
			ATR14:      atr14[i],
			ADX14:      adx14[i],
			BBUpper:    bbUpper[i],
			BBLower:    bbLower[i],
			Tenkan:     tenkan[i],
			Kijun:      kijun[i],
			SpanA:      spanA[i],
			SpanB:      spanB[i],
		}
		if snap.defined() {
			out = append(out, snap)
		}
	}

	if len(out) == 0 {
		return nil, ErrInsufficientHistory
	}
	return out, nil
}

func (s Snapshot) defined() bool {
	for _, v := range []float64{
		s.Close, s.EMA20, s.EMA50, s.EMA200, s.SMA200, s.RSI14,
		s.MACD, s.MACDSignal, s.ATR14, s.ADX14, s.BBUpper, s.BBLower,
		s.Tenkan, s.Kijun, s.SpanA, s.SpanB,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// rsi is the rolling-mean gain/loss oscillator. A zero rolling average loss
// leaves the ratio undefined; those bars report the neutral midpoint instead.
func rsi(close []float64, period int) []float64 {
	delta := diff(close)
	gain := make([]float64, len(delta))
	loss := make([]float64, len(delta))
	for i, d := range delta {
		if math.IsNaN(d) {
			gain[i] = math.NaN()
			loss[i] = math.NaN()
			continue
		}
		if d > 0 {
			gain[i] = d
		}
		if d < 0 {
			loss[i] = -d
		}
	}
	avgGain := rollMean(gain, period)
	avgLoss := rollMean(loss, period)

	out := nanSeries(len(close))
	for i := range out {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = neutralRSI
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|); the first
// bar has no previous close and uses the plain high-low range.
func trueRange(high, low, close []float64) []float64 {
	out := make([]float64, len(close))
	for i := range out {
		hl := high[i] - low[i]
		if i == 0 {
			out[i] = hl
			continue
		}
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// adx smooths directional movement by the raw true-range rolling sum. A zero
// +DI/-DI sum leaves DX undefined; it is pinned to zero rather than dividing.
func adx(high, low, tr []float64, period int) []float64 {
	n := len(high)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	trSum := rollSum(tr, period)
	plusSum := rollSum(plusDM, period)
	minusSum := rollSum(minusDM, period)

	dx := nanSeries(n)
	for i := range dx {
		if math.IsNaN(trSum[i]) || trSum[i] == 0 {
			continue
		}
		plusDI := 100 * plusSum[i] / trSum[i]
		minusDI := 100 * minusSum[i] / trSum[i]
		sum := math.Abs(plusDI + minusDI)
		if sum == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = math.Abs(plusDI-minusDI) / sum * 100
	}
	return rollMean(dx, period)
}

// midpoint is the Ichimoku-style (rolling high max + rolling low min)/2.
func midpoint(high, low []float64, window int) []float64 {
	hi := rollMax(high, window)
	lo := rollMin(low, window)
	out := nanSeries(len(high))
	for i := range out {
		out[i] = (hi[i] + lo[i]) / 2
	}
	return out
}
