// Binary backtest replays the logged signals and reports their forward
// returns per decision and per macro-category.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/backtest"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/config"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/market"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/record"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	offline := flag.Bool("offline", false, "use the synthetic market provider instead of live data")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := util.NewLogger(cfg.App.LogLevel)

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	signals, err := record.LoadSignals(cfg.Logs.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("load signals")
	}
	if len(signals) == 0 {
		log.Info().Str("dir", cfg.Logs.Dir).Msg("no logged signals to evaluate")
		return
	}
	log.Info().Int("signals", len(signals)).Ints("horizons", cfg.Backtest.Horizons).Msg("evaluation started")

	var history market.HistoryProvider
	if *offline {
		history = market.NewStubProvider(time.Now().UTC().Truncate(24 * time.Hour))
	} else {
		history = market.NewChartClient(cfg.Providers.ChartBaseURL, log)
	}

	ev := backtest.NewEvaluator(history, cfg.Backtest.Horizons, cfg.Backtest.BufferDays, log)
	frs := ev.Evaluate(ctx, signals)

	fmt.Print(backtest.Report("forward returns by decision", backtest.Summarize(frs, cfg.Backtest.Horizons), cfg.Backtest.Horizons))
	fmt.Println()
	fmt.Print(backtest.Report("forward returns by macro-category", backtest.SummarizeByMacro(frs, cfg.Backtest.Horizons), cfg.Backtest.Horizons))
}

// loadConfig falls back to the built-in defaults when no config file exists.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default()
	}
	return config.Load(path)
}
