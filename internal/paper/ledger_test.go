package paper

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/d84hyxsgwb-cyber/ai-trading-agents/internal/order"
)

const eps = 1e-9

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := NewLedger(&MemoryStore{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	return l
}

func TestLedgerOpenAssignsMonotonicIDs(t *testing.T) {
	l := newTestLedger(t)
	for i := 1; i <= 3; i++ {
		tr, err := l.Open(OpenParams{Symbol: "BTC-USD", Side: order.Long, Lot: 1, Entry: 100, StopLoss: 95, TakeProfit: 110})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if tr.ID != i {
			t.Fatalf("trade %d: id = %d", i, tr.ID)
		}
		if tr.Status != StatusOpen {
			t.Fatalf("trade %d: status = %s", i, tr.Status)
		}
	}
}

func TestLedgerResumesIDsFromStore(t *testing.T) {
	store := &MemoryStore{}
	if err := store.Save([]Trade{{ID: 7, Symbol: "BTC-USD", Side: order.Long, Status: StatusClosed}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	l, err := NewLedger(store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	tr, err := l.Open(OpenParams{Symbol: "ETH-USD", Side: order.Long, Lot: 1, Entry: 10, StopLoss: 9, TakeProfit: 12})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tr.ID != 8 {
		t.Fatalf("id = %d, want 8", tr.ID)
	}
}

func TestLedgerClosesLongAtTarget(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Open(OpenParams{Symbol: "BTC-USD", Side: order.Long, Lot: 20, Entry: 100, StopLoss: 95, TakeProfit: 110}); err != nil {
		t.Fatalf("Open: %v", err)
	}

	closed, err := l.UpdatePrice("BTC-USD", 105, 10000)
	if err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if len(closed) != 0 {
		t.Fatalf("closed at 105: %d trades", len(closed))
	}

	closed, err = l.UpdatePrice("BTC-USD", 111, 10000)
	if err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if len(closed) != 1 {
		t.Fatalf("closed at 111: %d trades, want 1", len(closed))
	}
	tr := closed[0]
	if tr.Status != StatusClosed {
		t.Fatalf("status = %s", tr.Status)
	}
	if tr.PnL != 220 {
		t.Fatalf("pnl = %v, want 220", tr.PnL)
	}
	if math.Abs(tr.PnLPct-2.2) > eps {
		t.Fatalf("pnl_pct = %v, want 2.2", tr.PnLPct)
	}
	if tr.CloseTime.IsZero() {
		t.Fatal("close time not set")
	}
}

func TestLedgerClosesLongAtStop(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Open(OpenParams{Symbol: "BTC-USD", Side: order.Long, Lot: 20, Entry: 100, StopLoss: 95, TakeProfit: 110}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	closed, err := l.UpdatePrice("BTC-USD", 94, 10000)
	if err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if len(closed) != 1 {
		t.Fatalf("closed: %d trades, want 1", len(closed))
	}
	if closed[0].PnL != -120 {
		t.Fatalf("pnl = %v, want -120", closed[0].PnL)
	}
}

func TestLedgerClosesShortAtTarget(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Open(OpenParams{Symbol: "ETH-USD", Side: order.Short, Lot: 10, Entry: 100, StopLoss: 105, TakeProfit: 90}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	closed, err := l.UpdatePrice("ETH-USD", 89, 10000)
	if err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if len(closed) != 1 {
		t.Fatalf("closed: %d trades, want 1", len(closed))
	}
	if closed[0].PnL != 110 {
		t.Fatalf("pnl = %v, want 110", closed[0].PnL)
	}
}

func TestLedgerClosedTradesAreImmutable(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Open(OpenParams{Symbol: "BTC-USD", Side: order.Long, Lot: 20, Entry: 100, StopLoss: 95, TakeProfit: 110}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := l.UpdatePrice("BTC-USD", 111, 10000); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if _, err := l.UpdatePrice("BTC-USD", 50, 10000); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	trades := l.Trades()
	if len(trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(trades))
	}
	if trades[0].PnL != 220 {
		t.Fatalf("pnl after close mutated to %v", trades[0].PnL)
	}
	if trades[0].LastPrice != 111 {
		t.Fatalf("last price after close mutated to %v", trades[0].LastPrice)
	}
}

func TestLedgerUpdateIgnoresOtherSymbols(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Open(OpenParams{Symbol: "BTC-USD", Side: order.Long, Lot: 20, Entry: 100, StopLoss: 95, TakeProfit: 110}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	closed, err := l.UpdatePrice("ETH-USD", 1, 10000)
	if err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if len(closed) != 0 {
		t.Fatalf("closed: %d trades, want 0", len(closed))
	}
	open := l.OpenTrades()
	if len(open) != 1 || open[0].LastPrice != 100 {
		t.Fatalf("open trade touched: %+v", open)
	}
}

func TestLedgerMarksWithoutClosing(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Open(OpenParams{Symbol: "BTC-USD", Side: order.Long, Lot: 20, Entry: 100, StopLoss: 95, TakeProfit: 110}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := l.UpdatePrice("BTC-USD", 102, 0); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	open := l.OpenTrades()
	if len(open) != 1 {
		t.Fatalf("open trades = %d, want 1", len(open))
	}
	if open[0].PnL != 40 {
		t.Fatalf("pnl = %v, want 40", open[0].PnL)
	}
	if open[0].PnLPct != 0 {
		t.Fatalf("pnl_pct with zero capital = %v, want 0", open[0].PnLPct)
	}
}

func TestLedgerSymbols(t *testing.T) {
	l := newTestLedger(t)
	for _, sym := range []string{"BTC-USD", "BTC-USD", "ETH-USD"} {
		if _, err := l.Open(OpenParams{Symbol: sym, Side: order.Long, Lot: 1, Entry: 100, StopLoss: 95, TakeProfit: 110}); err != nil {
			t.Fatalf("Open: %v", err)
		}
	}
	syms := l.Symbols()
	if len(syms) != 2 {
		t.Fatalf("symbols = %v, want 2 entries", syms)
	}
}

func TestNewTradeRiskAndGain(t *testing.T) {
	tr := newTrade(1, OpenParams{Symbol: "BTC-USD", Side: order.Long, Lot: 20, Entry: 100, StopLoss: 95, TakeProfit: 110}, time.Now())
	if tr.RiskAmount != 100 {
		t.Fatalf("risk = %v, want 100", tr.RiskAmount)
	}
	if tr.GainAmount != 200 {
		t.Fatalf("gain = %v, want 200", tr.GainAmount)
	}
	short := newTrade(2, OpenParams{Symbol: "BTC-USD", Side: order.Short, Lot: 10, Entry: 100, StopLoss: 105, TakeProfit: 90}, time.Now())
	if short.RiskAmount != 50 {
		t.Fatalf("short risk = %v, want 50", short.RiskAmount)
	}
	if short.GainAmount != 100 {
		t.Fatalf("short gain = %v, want 100", short.GainAmount)
	}
}
