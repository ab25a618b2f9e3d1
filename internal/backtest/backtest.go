// Package backtest measures how logged signals performed by looking up the
// close price at the signal date and again after each forward horizon.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/market"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/record"
)

// ForwardReturn holds the percentage return of one signal per horizon.
// Horizons with no usable entry or future close are simply absent.
type ForwardReturn struct {
	Record  record.SignalRecord
	Returns map[int]float64
}

// Stats aggregates the defined returns of one group at one horizon.
type Stats struct {
	Count   int
	Mean    float64
	Median  float64
	WinRate float64
}

// Evaluator resolves forward returns against a history provider.
type Evaluator struct {
	history  market.HistoryProvider
	horizons []int
	buffer   int
	log      zerolog.Logger
}

// NewEvaluator builds an evaluator. The buffer extends the fetched history
// past the longest horizon to cover weekends and holidays.
func NewEvaluator(history market.HistoryProvider, horizons []int, bufferDays int, log zerolog.Logger) *Evaluator {
	hs := append([]int(nil), horizons...)
	sort.Ints(hs)
	return &Evaluator{history: history, horizons: hs, buffer: bufferDays, log: log}
}

// Evaluate computes forward returns for every signal. History is fetched once
// per symbol; symbols whose history cannot be fetched contribute signals with
// no defined horizons.
func (e *Evaluator) Evaluate(ctx context.Context, signals []record.SignalRecord) []ForwardReturn {
	bySymbol := make(map[string][]int)
	for i, s := range signals {
		bySymbol[s.Symbol] = append(bySymbol[s.Symbol], i)
	}

	out := make([]ForwardReturn, len(signals))
	for i, s := range signals {
		out[i] = ForwardReturn{Record: s, Returns: map[int]float64{}}
	}

	maxHorizon := 0
	if len(e.horizons) > 0 {
		maxHorizon = e.horizons[len(e.horizons)-1]
	}

	for symbol, idxs := range bySymbol {
		from, to := signals[idxs[0]].SignalDate, signals[idxs[0]].SignalDate
		for _, i := range idxs[1:] {
			d := signals[i].SignalDate
			if d.Before(from) {
				from = d
			}
			if d.After(to) {
				to = d
			}
		}
		to = to.AddDate(0, 0, maxHorizon+e.buffer)

		bars, err := e.history.History(ctx, symbol, from, to)
		if err != nil {
			e.log.Warn().Err(err).Str("sym", symbol).Msg("history unavailable, skipping symbol")
			continue
		}
		for _, i := range idxs {
			out[i].Returns = e.returns(bars, signals[i].SignalDate)
		}
	}
	return out
}

// returns resolves the entry close at the first bar on or after the signal
// date and the future close at the first bar on or after date+h days.
func (e *Evaluator) returns(bars []market.Bar, date time.Time) map[int]float64 {
	res := make(map[int]float64, len(e.horizons))
	entry, ok := closeOnOrAfter(bars, date)
	if !ok || entry <= 0 {
		return res
	}
	for _, h := range e.horizons {
		future, ok := closeOnOrAfter(bars, date.AddDate(0, 0, h))
		if !ok {
			continue
		}
		res[h] = (future - entry) / entry * 100
	}
	return res
}

func closeOnOrAfter(bars []market.Bar, date time.Time) (float64, bool) {
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Time.Before(date) })
	if i == len(bars) {
		return 0, false
	}
	return bars[i].Close, true
}

// Summarize groups forward returns by decision and aggregates each horizon.
// Only defined returns enter the statistics.
func Summarize(frs []ForwardReturn, horizons []int) map[string]map[int]Stats {
	return summarize(frs, horizons, func(fr ForwardReturn) string { return fr.Record.TechDecision })
}

// SummarizeByMacro groups forward returns by macro-category instead.
func SummarizeByMacro(frs []ForwardReturn, horizons []int) map[string]map[int]Stats {
	return summarize(frs, horizons, func(fr ForwardReturn) string { return fr.Record.MacroCategory })
}

func summarize(frs []ForwardReturn, horizons []int, key func(ForwardReturn) string) map[string]map[int]Stats {
	grouped := make(map[string]map[int][]float64)
	for _, fr := range frs {
		k := key(fr)
		if grouped[k] == nil {
			grouped[k] = make(map[int][]float64)
		}
		for _, h := range horizons {
			if r, ok := fr.Returns[h]; ok {
				grouped[k][h] = append(grouped[k][h], r)
			}
		}
	}

	out := make(map[string]map[int]Stats, len(grouped))
	for k, byHorizon := range grouped {
		out[k] = make(map[int]Stats, len(horizons))
		for h, returns := range byHorizon {
			out[k][h] = stats(returns)
		}
	}
	return out
}

func stats(returns []float64) Stats {
	n := len(returns)
	if n == 0 {
		return Stats{}
	}
	sum := 0.0
	wins := 0
	for _, r := range returns {
		sum += r
		if r > 0 {
			wins++
		}
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return Stats{
		Count:   n,
		Mean:    sum / float64(n),
		Median:  median,
		WinRate: float64(wins) / float64(n) * 100,
	}
}

// Report renders one summary as a fixed-width text table. Groups with no
// defined returns at a horizon print "no data".
func Report(title string, summary map[string]map[int]Stats, horizons []int) string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := fmt.Sprintf("== %s ==\n", title)
	for _, k := range keys {
		out += fmt.Sprintf("%s:\n", k)
		for _, h := range horizons {
			s, ok := summary[k][h]
			if !ok || s.Count == 0 {
				out += fmt.Sprintf("  D+%d: no data\n", h)
				continue
			}
			out += fmt.Sprintf("  D+%d: n=%d mean=%.2f%% median=%.2f%% win=%.1f%%\n",
				h, s.Count, s.Mean, s.Median, s.WinRate)
		}
	}
	return out
}
