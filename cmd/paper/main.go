// Binary paper marks the open paper trades to market from the live price
// stream, closing them at stop or target.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/config"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/market"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/metrics"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/paper"
	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config")
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

	ledger, err := paper.NewLedger(&paper.CSVStore{Path: filepath.Join(cfg.Logs.Dir, cfg.Logs.TradesFile)}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load ledger")
	}

	symbols := ledger.Symbols()
	if len(symbols) == 0 {
		log.Info().Msg("no open trades, nothing to watch")
		return
	}
	log.Info().Strs("symbols", symbols).Msg("watching open trades")

	stream := market.NewPriceStream(cfg.Providers.StreamBaseURL, symbols, log)
	updates := make(chan market.PriceUpdate, 1024)

	go func() {
		if err := stream.Run(ctx, updates); err != nil {
			log.Error().Err(err).Msg("price stream stopped")
			cancel()
		}
	}()

	log.Info().Msg("paper engine started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case upd := <-updates:
			closed, err := ledger.UpdatePrice(upd.Symbol, upd.Price, cfg.Account.Size)
			if err != nil {
				log.Error().Err(err).Str("sym", upd.Symbol).Msg("ledger update failed")
				continue
			}
			for _, tr := range closed {
				log.Info().
					Int("id", tr.ID).
					Str("sym", tr.Symbol).
					Float64("pnl", tr.PnL).
					Float64("pnl_pct", tr.PnLPct).
					Msg("trade closed")
			}
		}
	}
}

// loadConfig falls back to the built-in defaults when no config file exists.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default()
	}
	return config.Load(path)
}
