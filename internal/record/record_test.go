package record

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSignalLogAppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	log := NewSignalLog(dir)

	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	records := []SignalRecord{
		{SignalDate: day1, Symbol: "BTC-USD", Name: "Bitcoin", Category: "CRYPTO/MAJOR", MacroCategory: "CRYPTO", TechScore: 5, TechDecision: "BUY", NewsScore: 1.5, EnsembleScore: 3.95},
		{SignalDate: day1, Symbol: "AAPL", Name: "Apple", Category: "STOCK/TECH_MEGA", MacroCategory: "STOCK", TechScore: -4, TechDecision: "SELL", NewsScore: 0, EnsembleScore: -2.8},
		{SignalDate: day2, Symbol: "SPY", Name: "SPDR S&P 500", Category: "ETF/INDEX", MacroCategory: "ETF", TechScore: 0, TechDecision: "HOLD_WAIT", NewsScore: 0, EnsembleScore: 0},
	}
	for _, r := range records {
		if err := log.Append(r); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	// One file per calendar date.
	paths, _ := filepath.Glob(filepath.Join(dir, "signals_*.csv"))
	if len(paths) != 2 {
		t.Fatalf("expected 2 signal files, got %d", len(paths))
	}

	loaded, err := LoadSignals(dir)
	if err != nil {
		t.Fatalf("LoadSignals returned error: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 records, got %d", len(loaded))
	}
	byInfo := map[string]SignalRecord{}
	for _, r := range loaded {
		byInfo[r.Symbol] = r
	}
	btc := byInfo["BTC-USD"]
	if btc.TechScore != 5 || btc.TechDecision != "BUY" || btc.EnsembleScore != 3.95 {
		t.Fatalf("round trip mismatch: %+v", btc)
	}
	if !btc.SignalDate.Equal(day1) {
		t.Fatalf("signal date not taken from filename: %s", btc.SignalDate)
	}
}

func TestSignalLogHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	log := NewSignalLog(dir)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := log.Append(SignalRecord{SignalDate: day, Symbol: "BTC-USD", TechDecision: "BUY"}); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	file, err := os.Open(filepath.Join(dir, "signals_2026-03-02.csv"))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "signal_date" {
		t.Fatalf("expected header first, got %v", rows[0])
	}
	if rows[1][0] == "signal_date" {
		t.Fatalf("header repeated")
	}
}

func TestRankingLogRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking_log.csv")
	log := NewRankingLog(path)
	now := time.Now()

	if err := log.Write([]RankingRecord{
		{Timestamp: now, Symbol: "BTC-USD", TechScore: 5, EnsembleScore: 3.5, TechDecision: "BUY"},
		{Timestamp: now, Symbol: "ETH-USD", TechScore: 2, EnsembleScore: 1.4, TechDecision: "HOLD_WAIT"},
	}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := log.Write([]RankingRecord{
		{Timestamp: now, Symbol: "SPY", TechScore: -3, EnsembleScore: -2.1, TechDecision: "SELL"},
	}); err != nil {
		t.Fatalf("second Write returned error: %v", err)
	}

	file, _ := os.Open(path)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read ranking log: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row after rewrite, got %d", len(rows))
	}
	if rows[1][1] != "SPY" {
		t.Fatalf("unexpected surviving row: %v", rows[1])
	}
}

func TestOrderLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders_log.csv")
	log := NewOrderLog(path)

	rec := OrderRecord{
		Timestamp: time.Now(), Symbol: "BTC-USD", Name: "Bitcoin", Category: "CRYPTO/MAJOR",
		Side: "LONG", Entry: 100, StopLoss: 95, TakeProfit: 110, RewardRisk: 2,
		TechnicalScore: 6, TechnicalDecision: "STRONG_BUY", CompositeScore: 4.2, ATR14: 2,
		PositionSize: 20, Notional: 2000, RiskAmount: 100, ReasonShort: "Price above EMA20 and EMA50.",
	}
	if err := log.Append(rec); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := log.Append(rec); err != nil {
		t.Fatalf("second Append returned error: %v", err)
	}

	file, _ := os.Open(path)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read order log: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][4] != "LONG" || rows[1][5] != "100" {
		t.Fatalf("unexpected order row: %v", rows[1])
	}
}
