// Binary ensemble runs one full analysis pass over the universe: fetch bars,
// score, rank, persist the run, propose orders, and open paper trades.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/advisor"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/asset"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/config"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/ensemble"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/market"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/metrics"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/order"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/paper"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/record"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/sentiment"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	offline := flag.Bool("offline", false, "use the synthetic market provider instead of live data")
	narrate := flag.Bool("narrate", false, "ask the narrator for a prose commentary")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var provider market.BarProvider
	if *offline {
		provider = market.NewStubProvider(time.Now().UTC().Truncate(24 * time.Hour))
	} else {
		provider = market.NewChartClient(cfg.Providers.ChartBaseURL, log)
	}

	var news sentiment.Provider = sentiment.NopProvider{}
	if cfg.Providers.NewsAPIKey != "" {
		news = sentiment.NewNewsClient(cfg.Providers.NewsBaseURL, cfg.Providers.NewsAPIKey, log)
	}

	universe := asset.Universe(cfg.Ensemble.UniverseFile)
	log.Info().Int("assets", len(universe)).Int("workers", cfg.Ensemble.Workers).Msg("analysis started")

	combiner := ensemble.NewCombiner(provider, news, cfg.Ensemble, log)
	entries := combiner.AnalyzeUniverse(ctx, universe)

	if err := os.MkdirAll(cfg.Logs.Dir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create logs dir")
	}
	if err := persistRun(cfg, entries); err != nil {
		log.Fatal().Err(err).Msg("persist run")
	}

	long := ensemble.TopLong(entries, cfg.Ensemble.TopN)
	short := ensemble.TopShort(entries, cfg.Ensemble.TopN)
	summary := advisor.TopSignalsSummary(long, short)
	fmt.Println(summary)

	if *narrate {
		narrator := advisor.NewOpenAIClient(cfg.Providers.OpenAIBaseURL, cfg.Providers.OpenAIAPIKey, cfg.Providers.OpenAIModel, log)
		commentary, err := narrator.Narrate(ctx, summary)
		if err != nil {
			log.Warn().Err(err).Msg("narration unavailable")
		} else {
			fmt.Println(commentary)
		}
	}

	if err := proposeAndOpen(cfg, log, append(long, short...)); err != nil {
		log.Fatal().Err(err).Msg("order proposals")
	}
	log.Info().Msg("analysis complete")
}

// loadConfig falls back to the built-in defaults when no config file exists.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default()
	}
	return config.Load(path)
}

func persistRun(cfg *config.Config, entries []ensemble.Entry) error {
	signalLog := record.NewSignalLog(cfg.Logs.Dir)
	rankingLog := record.NewRankingLog(filepath.Join(cfg.Logs.Dir, cfg.Logs.RankingFile))

	now := time.Now().UTC()
	rankings := make([]record.RankingRecord, 0, len(entries))
	for _, e := range entries {
		if err := signalLog.Append(record.SignalRecord{
			SignalDate:    now,
			Symbol:        e.Asset.Symbol,
			Name:          e.Asset.Name,
			Category:      e.Asset.Category,
			MacroCategory: asset.MacroCategory(e.Asset.Category),
			TechScore:     e.Tech.Score,
			TechDecision:  string(e.Tech.Decision),
			NewsScore:     e.NewsScore,
			EnsembleScore: e.Composite,
		}); err != nil {
			return err
		}
		rankings = append(rankings, record.RankingRecord{
			Timestamp:     now,
			Symbol:        e.Asset.Symbol,
			Name:          e.Asset.Name,
			Category:      e.Asset.Category,
			TechScore:     e.Tech.Score,
			NewsScore:     e.NewsScore,
			EnsembleScore: e.Composite,
			TechDecision:  string(e.Tech.Decision),
		})
	}
	return rankingLog.Write(rankings)
}

func proposeAndOpen(cfg *config.Config, log zerolog.Logger, candidates []ensemble.Entry) error {
	orderLog := record.NewOrderLog(filepath.Join(cfg.Logs.Dir, cfg.Logs.OrderFile))
	constructor := order.NewConstructor(cfg.Account, cfg.Orders, cfg.Ensemble.StrongSignal, log, orderLog)

	ledger, err := paper.NewLedger(&paper.CSVStore{Path: filepath.Join(cfg.Logs.Dir, cfg.Logs.TradesFile)}, log)
	if err != nil {
		return err
	}

	for _, e := range candidates {
		proposal, err := constructor.Build(e.Asset, e.Tech, e.Composite, e.Snapshot.Close, e.Snapshot.ATR14)
		if err != nil {
			return err
		}
		if proposal == nil {
			continue
		}
		if _, err := ledger.Open(paper.OpenParams{
			Symbol:     proposal.Symbol,
			Side:       proposal.Side,
			Style:      "SWING",
			Lot:        proposal.PositionSize,
			Entry:      proposal.Entry,
			StopLoss:   proposal.StopLoss,
			TakeProfit: proposal.TakeProfit,
		}); err != nil {
			return err
		}
	}
	return nil
}
