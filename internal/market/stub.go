package market

import (
	"context"
	"hash/fnv"
	"math"
	"time"
)

// StubProvider emits deterministic synthetic daily bars, useful for tests and
// offline runs. The series is a slow sine drift around a per-symbol base price
// so every indicator window fills without network access.
type StubProvider struct {
	Start time.Time
}

// NewStubProvider anchors the synthetic series so its last bar lands on the
// given day.
func NewStubProvider(end time.Time) *StubProvider {
	return &StubProvider{Start: end}
}

// Bars generates `days` synthetic daily bars ending at the anchor day.
func (s *StubProvider) Bars(_ context.Context, symbol string, days int) ([]Bar, error) {
	if days <= 0 {
		days = 365
	}
	end := s.Start
	if end.IsZero() {
		end = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return s.series(symbol, end.AddDate(0, 0, -days+1), days), nil
}

// History generates synthetic daily bars covering [from, to].
func (s *StubProvider) History(_ context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	days := int(to.Sub(from).Hours()/24) + 1
	if days <= 0 {
		return nil, ErrDataUnavailable
	}
	return s.series(symbol, from, days), nil
}

func (s *StubProvider) series(symbol string, start time.Time, days int) []Bar {
	base := 50.0 + float64(symbolSeed(symbol)%200)
	bars := make([]Bar, 0, days)
	for i := 0; i < days; i++ {
		drift := base * 0.25 * math.Sin(float64(i)/45.0)
		close := base + drift + float64(i)*0.05
		open := close - 0.4
		bars = append(bars, Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   open,
			High:   close + 1.2,
			Low:    open - 1.2,
			Close:  close,
			Volume: 1_000_000 + float64(i%7)*10_000,
		})
	}
	return bars
}

func symbolSeed(symbol string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum32()
}
