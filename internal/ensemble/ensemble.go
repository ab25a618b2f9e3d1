// Package ensemble runs the per-asset analysis pipeline across the universe
// and combines technical and news scores into one composite ranking.
package ensemble

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/asset"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/config"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/indicator"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/market"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/metrics"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/scoring"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/sentiment"
)

// Entry is the full analysis outcome for one asset. A failed analysis is
// neutralized in place: score 0, decision N/A, and the failure reason as the
// only entry in Tech.Reasons.
type Entry struct {
	Asset     asset.Asset
	Snapshot  indicator.Snapshot
	Tech      scoring.Result
	NewsScore float64
	Headlines []string
	Composite float64
}

// Failed reports whether this entry was neutralized by an analysis failure.
func (e Entry) Failed() bool { return e.Tech.Decision == scoring.NotAvailable }

// Combiner fans the analysis out over a bounded worker pool and weights the
// technical and news scores into the composite.
type Combiner struct {
	bars market.BarProvider
	news sentiment.Provider
	cfg  config.Ensemble
	log  zerolog.Logger
}

// NewCombiner wires the data providers to the ensemble settings.
func NewCombiner(bars market.BarProvider, news sentiment.Provider, cfg config.Ensemble, log zerolog.Logger) *Combiner {
	return &Combiner{bars: bars, news: news, cfg: cfg, log: log}
}

// AnalyzeOne runs the whole pipeline for a single asset. It never returns an
// error: data or history failures neutralize the entry so one bad symbol
// cannot sink the run.
func (c *Combiner) AnalyzeOne(ctx context.Context, a asset.Asset) Entry {
	bars, err := c.bars.Bars(ctx, a.Symbol, c.cfg.HistoryDays)
	if err != nil {
		return c.neutralize(a, "market", err)
	}
	snaps, err := indicator.Compute(bars)
	if err != nil {
		return c.neutralize(a, "indicator", err)
	}
	last := snaps[len(snaps)-1]
	tech := scoring.Score(last)

	newsScore, headlines, err := c.news.Score(ctx, a.Symbol)
	if err != nil {
		// News is best-effort: log, keep the neutral score the provider
		// degraded to, and carry on with the technical side.
		c.log.Warn().Err(err).Str("sym", a.Symbol).Msg("news scoring failed")
	}

	composite := c.cfg.TechWeight*float64(tech.Score) + c.cfg.NewsWeight*newsScore
	metrics.AssetsAnalyzedTotal.WithLabelValues(asset.MacroCategory(a.Category)).Inc()
	c.log.Debug().
		Str("sym", a.Symbol).
		Int("tech", tech.Score).
		Float64("news", newsScore).
		Float64("composite", composite).
		Str("decision", string(tech.Decision)).
		Msg("asset analyzed")

	return Entry{
		Asset:     a,
		Snapshot:  last,
		Tech:      tech,
		NewsScore: newsScore,
		Headlines: headlines,
		Composite: composite,
	}
}

func (c *Combiner) neutralize(a asset.Asset, stage string, err error) Entry {
	metrics.AnalysisFailuresTotal.WithLabelValues(stage).Inc()
	c.log.Warn().Err(err).Str("sym", a.Symbol).Str("stage", stage).Msg("analysis failed, neutralizing")
	return Entry{
		Asset: a,
		Tech: scoring.Result{
			Score:    0,
			Reasons:  []string{err.Error()},
			Decision: scoring.NotAvailable,
		},
		Headlines: []string{sentiment.Placeholder},
	}
}

// AnalyzeUniverse analyzes every asset concurrently over a pool of workers
// and returns entries in the input order.
func (c *Combiner) AnalyzeUniverse(ctx context.Context, assets []asset.Asset) []Entry {
	workers := c.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	entries := make([]Entry, len(assets))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entries[i] = c.AnalyzeOne(ctx, assets[i])
			}
		}()
	}
	for i := range assets {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Drain nothing further; pending assets stay neutralized.
			for j := i; j < len(assets); j++ {
				entries[j] = c.neutralize(assets[j], "market", ctx.Err())
			}
			close(jobs)
			wg.Wait()
			return entries
		}
	}
	close(jobs)
	wg.Wait()
	return entries
}

// TopLong returns at most n bullish entries, best composite first. Entries
// are selected by their technical decision, then ranked by composite score.
func TopLong(entries []Entry, n int) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Tech.Decision.Bullish() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Composite > out[j].Composite })
	return truncate(out, n)
}

// TopShort returns at most n bearish entries, most negative composite first.
func TopShort(entries []Entry, n int) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Tech.Decision.Bearish() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Composite < out[j].Composite })
	return truncate(out, n)
}

func truncate(entries []Entry, n int) []Entry {
	if n >= 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}
