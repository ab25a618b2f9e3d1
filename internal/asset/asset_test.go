package asset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMacroCategory(t *testing.T) {
	cases := map[string]string{
		"CRYPTO/MAJOR":    MacroCrypto,
		"CRYPTO/MEME":     MacroCrypto,
		"STOCK/TECH_MEGA": MacroStock,
		"ETF/INDEX":       MacroETF,
		"BOND/GOV":        MacroOther,
		"":                MacroOther,
		"crypto/defi":     MacroCrypto,
	}
	for in, want := range cases {
		if got := MacroCategory(in); got != want {
			t.Fatalf("MacroCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.txt")
	content := "# comment line\n\nBTC-USD  # Bitcoin\neth-usd\n  \nAAPL extra tokens\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write universe file: %v", err)
	}

	symbols := LoadSymbols(path, []string{"SPY"})
	want := []string{"BTC-USD", "ETH-USD", "AAPL"}
	if len(symbols) != len(want) {
		t.Fatalf("expected %d symbols, got %v", len(want), symbols)
	}
	for i, sym := range want {
		if symbols[i] != sym {
			t.Fatalf("symbol %d = %q, want %q", i, symbols[i], sym)
		}
	}
}

func TestLoadSymbolsFallsBack(t *testing.T) {
	symbols := LoadSymbols(filepath.Join(t.TempDir(), "missing.txt"), []string{"SPY"})
	if len(symbols) != 1 || symbols[0] != "SPY" {
		t.Fatalf("expected fallback list, got %v", symbols)
	}
}

func TestFilterByMacro(t *testing.T) {
	etfs := FilterByMacro(DefaultUniverse, MacroETF)
	if len(etfs) == 0 {
		t.Fatalf("expected ETF entries in default universe")
	}
	for _, a := range etfs {
		if MacroCategory(a.Category) != MacroETF {
			t.Fatalf("unexpected category %s in ETF filter", a.Category)
		}
	}
}

func TestUniverseResolvesKnownAndUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.txt")
	if err := os.WriteFile(path, []byte("BTC-USD\nFOO-USD\nACME\n"), 0o644); err != nil {
		t.Fatalf("write universe file: %v", err)
	}

	assets := Universe(path)
	if len(assets) != 3 {
		t.Fatalf("assets = %v", assets)
	}
	if assets[0].Name != "Bitcoin" {
		t.Fatalf("known asset not enriched: %+v", assets[0])
	}
	if MacroCategory(assets[1].Category) != MacroCrypto {
		t.Fatalf("FOO-USD category = %s", assets[1].Category)
	}
	if MacroCategory(assets[2].Category) != MacroStock {
		t.Fatalf("ACME category = %s", assets[2].Category)
	}
}

func TestUniverseDefaultsWithoutPath(t *testing.T) {
	assets := Universe("")
	if len(assets) != len(DefaultUniverse) {
		t.Fatalf("assets = %d, want %d", len(assets), len(DefaultUniverse))
	}
}
