package paper

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/metrics"
)

// Store persists the full ledger snapshot.
type Store interface {
	Load() ([]Trade, error)
	Save([]Trade) error
}

// Ledger is the single shared mutable store of the pipeline. Every mutation
// is a read-modify-write over the full snapshot under one lock, so concurrent
// price updates can never resurrect a just-closed trade.
type Ledger struct {
	mu     sync.Mutex
	store  Store
	trades []Trade
	nextID int
	log    zerolog.Logger
}

// NewLedger loads existing trades from the store and resumes id assignment
// above the highest persisted id.
func NewLedger(store Store, log zerolog.Logger) (*Ledger, error) {
	trades, err := store.Load()
	if err != nil {
		return nil, err
	}
	nextID := 1
	for _, t := range trades {
		if t.ID >= nextID {
			nextID = t.ID + 1
		}
	}
	return &Ledger{store: store, trades: trades, nextID: nextID, log: log}, nil
}

// Open creates a new OPEN trade at the entry price and persists the ledger.
func (l *Ledger) Open(p OpenParams) (Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := newTrade(l.nextID, p, time.Now().UTC())
	l.trades = append(l.trades, t)
	if err := l.store.Save(l.trades); err != nil {
		// Roll back so a failed save cannot leave a phantom trade in memory.
		l.trades = l.trades[:len(l.trades)-1]
		return Trade{}, err
	}
	l.nextID++

	metrics.TradesOpenedTotal.WithLabelValues(t.Symbol).Inc()
	l.log.Info().
		Int("id", t.ID).
		Str("sym", t.Symbol).
		Str("side", string(t.Side)).
		Float64("entry", t.Entry).
		Float64("lot", t.Lot).
		Msg("paper trade opened")
	return t, nil
}

// UpdatePrice marks every OPEN trade on the symbol to the observed price,
// closing those whose stop or target is reached. Trades on other symbols and
// CLOSED trades are untouched. Returns the trades closed by this update.
func (l *Ledger) UpdatePrice(symbol string, price, capital float64) ([]Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var closed []Trade
	changed := false
	for i := range l.trades {
		t := &l.trades[i]
		if t.Symbol != symbol || t.Status != StatusOpen {
			continue
		}
		changed = true
		if t.mark(price, capital) {
			t.Status = StatusClosed
			t.CloseTime = time.Now().UTC()
			closed = append(closed, *t)
			metrics.TradesClosedTotal.WithLabelValues(t.Symbol).Inc()
			l.log.Info().
				Int("id", t.ID).
				Str("sym", t.Symbol).
				Float64("price", price).
				Float64("pnl", t.PnL).
				Msg("paper trade closed")
		}
	}
	if changed {
		if err := l.store.Save(l.trades); err != nil {
			return closed, err
		}
	}
	return closed, nil
}

// Trades returns a copy of the full ledger.
func (l *Ledger) Trades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// OpenTrades returns a copy of the trades still OPEN.
func (l *Ledger) OpenTrades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Trade
	for _, t := range l.trades {
		if t.Status == StatusOpen {
			out = append(out, t)
		}
	}
	return out
}

// Symbols returns the distinct symbols with at least one OPEN trade.
func (l *Ledger) Symbols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, t := range l.trades {
		if t.Status != StatusOpen {
			continue
		}
		if _, ok := seen[t.Symbol]; ok {
			continue
		}
		seen[t.Symbol] = struct{}{}
		out = append(out, t.Symbol)
	}
	return out
}

// MemoryStore keeps the ledger in memory, for tests and dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	trades []Trade
}

// Load returns a copy of the stored trades.
func (s *MemoryStore) Load() ([]Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Trade, len(s.trades))
	copy(out, s.trades)
	return out, nil
}

// Save replaces the stored trades.
func (s *MemoryStore) Save(trades []Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = make([]Trade, len(trades))
	copy(s.trades, trades)
	return nil
}
