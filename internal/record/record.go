// Package record persists signal, ranking, and order rows as CSV files.
// Appends are header-once and one atomic row per record, so a failed run
// never truncates or corrupts previously written rows.
package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// SignalRecord is one persisted ensemble signal, one file per calendar date.
type SignalRecord struct {
	SignalDate    time.Time
	Symbol        string
	Name          string
	Category      string
	MacroCategory string
	TechScore     int
	TechDecision  string
	NewsScore     float64
	EnsembleScore float64
}

// RankingRecord is one row of the per-run ranking snapshot.
type RankingRecord struct {
	Timestamp     time.Time
	Symbol        string
	Name          string
	Category      string
	TechScore     int
	NewsScore     float64
	EnsembleScore float64
	TechDecision  string
}

// OrderRecord is one accepted order proposal.
type OrderRecord struct {
	Timestamp         time.Time
	Symbol            string
	Name              string
	Category          string
	Side              string
	Entry             float64
	StopLoss          float64
	TakeProfit        float64
	RewardRisk        float64
	TechnicalScore    int
	TechnicalDecision string
	CompositeScore    float64
	ATR14             float64
	PositionSize      float64
	Notional          float64
	RiskAmount        float64
	ReasonShort       string
}

var signalHeader = []string{
	"signal_date", "symbol", "name", "category", "macro_category",
	"tech_score", "tech_decision", "news_score", "ensemble_score",
}

var rankingHeader = []string{
	"timestamp", "symbol", "name", "category",
	"tech_score", "news_score", "ensemble_score", "tech_decision",
}

var orderHeader = []string{
	"timestamp", "symbol", "name", "category", "side",
	"entry", "stop_loss", "take_profit", "reward_risk",
	"technical_score", "technical_decision", "composite_score", "atr14",
	"position_size", "notional", "risk_amount", "reason_short",
}

// appendCSV writes one row to path, creating the file with its header first
// when absent. The write is a single flushed append.
func appendCSV(mu *sync.Mutex, path string, header, row []string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}

	w := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush log: %w", err)
	}
	return nil
}

// SignalLog appends signal records into per-date files under a directory.
type SignalLog struct {
	mu  sync.Mutex
	dir string
}

// NewSignalLog targets the given log directory.
func NewSignalLog(dir string) *SignalLog {
	return &SignalLog{dir: dir}
}

func signalPath(dir string, date time.Time) string {
	return filepath.Join(dir, "signals_"+date.Format(dateLayout)+".csv")
}

// Append writes one signal row to the file for its signal date.
func (l *SignalLog) Append(r SignalRecord) error {
	row := []string{
		r.SignalDate.Format(dateLayout),
		r.Symbol,
		r.Name,
		r.Category,
		r.MacroCategory,
		strconv.Itoa(r.TechScore),
		r.TechDecision,
		formatFloat(r.NewsScore),
		formatFloat(r.EnsembleScore),
	}
	return appendCSV(&l.mu, signalPath(l.dir, r.SignalDate), signalHeader, row)
}

// LoadSignals reads every signals_YYYY-MM-DD.csv in the directory, taking the
// signal date from the filename. Files with unparsable names are skipped.
func LoadSignals(dir string) ([]SignalRecord, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "signals_*.csv"))
	if err != nil {
		return nil, err
	}
	var out []SignalRecord
	for _, path := range paths {
		name := filepath.Base(path)
		dateStr := name[len("signals_") : len(name)-len(".csv")]
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			continue
		}
		records, err := readSignalFile(path, date)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		out = append(out, records...)
	}
	return out, nil
}

func readSignalFile(path string, date time.Time) ([]SignalRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	var out []SignalRecord
	for i, row := range rows {
		if i == 0 || len(row) < len(signalHeader) {
			continue
		}
		techScore, _ := strconv.Atoi(row[5])
		newsScore, _ := strconv.ParseFloat(row[7], 64)
		ensembleScore, _ := strconv.ParseFloat(row[8], 64)
		out = append(out, SignalRecord{
			SignalDate:    date,
			Symbol:        row[1],
			Name:          row[2],
			Category:      row[3],
			MacroCategory: row[4],
			TechScore:     techScore,
			TechDecision:  row[6],
			NewsScore:     newsScore,
			EnsembleScore: ensembleScore,
		})
	}
	return out, nil
}

// RankingLog rewrites the full ranking snapshot each run.
type RankingLog struct {
	mu   sync.Mutex
	path string
}

// NewRankingLog targets the given file path.
func NewRankingLog(path string) *RankingLog {
	return &RankingLog{path: path}
}

// Write replaces the ranking file with the supplied rows.
func (l *RankingLog) Write(records []RankingRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("create ranking log: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(rankingHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			r.Symbol,
			r.Name,
			r.Category,
			strconv.Itoa(r.TechScore),
			formatFloat(r.NewsScore),
			formatFloat(r.EnsembleScore),
			r.TechDecision,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// OrderLog appends accepted order proposals, header written once.
type OrderLog struct {
	mu   sync.Mutex
	path string
}

// NewOrderLog targets the given file path.
func NewOrderLog(path string) *OrderLog {
	return &OrderLog{path: path}
}

// Append writes one order row.
func (l *OrderLog) Append(r OrderRecord) error {
	row := []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Symbol,
		r.Name,
		r.Category,
		r.Side,
		formatFloat(r.Entry),
		formatFloat(r.StopLoss),
		formatFloat(r.TakeProfit),
		formatFloat(r.RewardRisk),
		strconv.Itoa(r.TechnicalScore),
		r.TechnicalDecision,
		formatFloat(r.CompositeScore),
		formatFloat(r.ATR14),
		formatFloat(r.PositionSize),
		formatFloat(r.Notional),
		formatFloat(r.RiskAmount),
		r.ReasonShort,
	}
	return appendCSV(&l.mu, l.path, orderHeader, row)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
