// Package market provides OHLCV bar types and the data providers that feed
// the analysis pipeline and the paper-trade engine.
package market

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDataUnavailable indicates the provider returned no bars for a symbol.
var ErrDataUnavailable = errors.New("market data unavailable")

// Bar is one OHLCV observation for a fixed interval.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceUpdate is a single live price observation consumed by the paper engine.
type PriceUpdate struct {
	Symbol string
	Price  float64
	Ts     time.Time
}

// BarProvider returns the most recent daily bars for a symbol.
type BarProvider interface {
	Bars(ctx context.Context, symbol string, days int) ([]Bar, error)
}

// HistoryProvider returns daily bars for an explicit date range, used by the
// backtest evaluator.
type HistoryProvider interface {
	History(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error)
}

// Validate checks that bar timestamps are strictly increasing.
func Validate(bars []Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return fmt.Errorf("bar %d timestamp %s not after %s", i, bars[i].Time, bars[i-1].Time)
		}
	}
	return nil
}

// Closes extracts the close series from a bar sequence.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
