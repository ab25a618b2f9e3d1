package paper

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/order"
)

var csvHeader = []string{
	"id", "symbol", "side", "style", "lot", "entry", "stop_loss", "take_profit",
	"open_time", "close_time", "status", "last_price", "pnl", "pnl_pct",
	"risk_amount", "gain_amount",
}

// CSVStore persists the ledger as a single CSV file, rewritten in full on
// every save so the file always reflects the current snapshot.
type CSVStore struct {
	Path string
}

// Load reads the ledger file. A missing file yields an empty ledger.
func (s *CSVStore) Load() ([]Trade, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	trades := make([]Trade, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("read %s: row has %d fields, want %d", s.Path, len(row), len(csvHeader))
		}
		t, err := parseTrade(row)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.Path, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

// Save rewrites the ledger file with the given trades.
func (s *CSVStore) Save(trades []Trade) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	for _, t := range trades {
		closeTime := ""
		if !t.CloseTime.IsZero() {
			closeTime = t.CloseTime.Format(time.RFC3339)
		}
		row := []string{
			strconv.Itoa(t.ID),
			t.Symbol,
			string(t.Side),
			t.Style,
			formatFloat(t.Lot),
			formatFloat(t.Entry),
			formatFloat(t.StopLoss),
			formatFloat(t.TakeProfit),
			t.OpenTime.Format(time.RFC3339),
			closeTime,
			string(t.Status),
			formatFloat(t.LastPrice),
			formatFloat(t.PnL),
			formatFloat(t.PnLPct),
			formatFloat(t.RiskAmount),
			formatFloat(t.GainAmount),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", s.Path, err)
		}
	}
	w.Flush()
	return w.Error()
}

func parseTrade(row []string) (Trade, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Trade{}, fmt.Errorf("id %q: %w", row[0], err)
	}
	openTime, err := time.Parse(time.RFC3339, row[8])
	if err != nil {
		return Trade{}, fmt.Errorf("open_time %q: %w", row[8], err)
	}
	var closeTime time.Time
	if row[9] != "" {
		closeTime, err = time.Parse(time.RFC3339, row[9])
		if err != nil {
			return Trade{}, fmt.Errorf("close_time %q: %w", row[9], err)
		}
	}
	floats := make([]float64, 0, 8)
	for _, idx := range []int{4, 5, 6, 7, 11, 12, 13, 14, 15} {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return Trade{}, fmt.Errorf("column %s %q: %w", csvHeader[idx], row[idx], err)
		}
		floats = append(floats, v)
	}
	return Trade{
		ID:         id,
		Symbol:     row[1],
		Side:       order.Side(row[2]),
		Style:      row[3],
		Lot:        floats[0],
		Entry:      floats[1],
		StopLoss:   floats[2],
		TakeProfit: floats[3],
		OpenTime:   openTime,
		CloseTime:  closeTime,
		Status:     Status(row[10]),
		LastPrice:  floats[4],
		PnL:        floats[5],
		PnLPct:     floats[6],
		RiskAmount: floats[7],
		GainAmount: floats[8],
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
