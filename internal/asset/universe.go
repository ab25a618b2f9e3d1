package asset

import (
	"bufio"
	"os"
	"strings"
)

// DefaultUniverse is the built-in multi-asset universe used when no universe
// file is configured.
var DefaultUniverse = []Asset{
	// Crypto majors
	{Symbol: "BTC-USD", Name: "Bitcoin", Category: "CRYPTO/MAJOR"},
	{Symbol: "ETH-USD", Name: "Ethereum", Category: "CRYPTO/MAJOR"},
	{Symbol: "SOL-USD", Name: "Solana", Category: "CRYPTO/MAJOR"},
	{Symbol: "BNB-USD", Name: "BNB", Category: "CRYPTO/MAJOR"},
	{Symbol: "XRP-USD", Name: "XRP", Category: "CRYPTO/MAJOR"},
	{Symbol: "ADA-USD", Name: "Cardano", Category: "CRYPTO/MAJOR"},
	{Symbol: "AVAX-USD", Name: "Avalanche", Category: "CRYPTO/MAJOR"},
	{Symbol: "DOGE-USD", Name: "Dogecoin", Category: "CRYPTO/MAJOR"},
	{Symbol: "LINK-USD", Name: "Chainlink", Category: "CRYPTO/INFRA"},
	{Symbol: "UNI-USD", Name: "Uniswap", Category: "CRYPTO/DEFI"},
	{Symbol: "AAVE-USD", Name: "Aave", Category: "CRYPTO/DEFI"},
	{Symbol: "SHIB-USD", Name: "Shiba Inu", Category: "CRYPTO/MEME"},
	// Mega-cap stocks
	{Symbol: "AAPL", Name: "Apple", Category: "STOCK/TECH_MEGA"},
	{Symbol: "MSFT", Name: "Microsoft", Category: "STOCK/TECH_MEGA"},
	{Symbol: "GOOGL", Name: "Alphabet", Category: "STOCK/TECH_MEGA"},
	{Symbol: "AMZN", Name: "Amazon", Category: "STOCK/TECH_MEGA"},
	{Symbol: "META", Name: "Meta Platforms", Category: "STOCK/TECH_MEGA"},
	{Symbol: "NVDA", Name: "NVIDIA", Category: "STOCK/TECH_MEGA"},
	{Symbol: "TSLA", Name: "Tesla", Category: "STOCK/AUTO"},
	{Symbol: "JPM", Name: "JPMorgan Chase", Category: "STOCK/FINANCE"},
	// Index and sector ETFs
	{Symbol: "SPY", Name: "SPDR S&P 500", Category: "ETF/INDEX"},
	{Symbol: "QQQ", Name: "Invesco Nasdaq 100", Category: "ETF/INDEX"},
	{Symbol: "VTI", Name: "Vanguard Total US Market", Category: "ETF/INDEX"},
	{Symbol: "IWM", Name: "iShares Russell 2000", Category: "ETF/INDEX"},
	{Symbol: "XLK", Name: "Technology Select Sector", Category: "ETF/SECTOR"},
	{Symbol: "XLF", Name: "Financial Select Sector", Category: "ETF/SECTOR"},
	{Symbol: "GLD", Name: "SPDR Gold Shares", Category: "ETF/COMMODITY"},
}

// LoadSymbols reads one ticker per line from a universe file. Blank lines and
// lines starting with '#' are skipped, inline comments are cut, and only the
// first whitespace-separated token is kept, uppercased. The fallback list is
// returned when the file is missing or yields no symbols.
func LoadSymbols(path string, fallback []string) []string {
	file, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer file.Close()

	var symbols []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		symbols = append(symbols, strings.ToUpper(fields[0]))
	}
	if len(symbols) == 0 {
		return fallback
	}
	return symbols
}

// Universe resolves the working asset list. With no path it is the built-in
// universe; otherwise the file's symbols are matched against the built-in
// list and unknown tickers get a category guessed from their shape.
func Universe(path string) []Asset {
	if strings.TrimSpace(path) == "" {
		return DefaultUniverse
	}
	known := make(map[string]Asset, len(DefaultUniverse))
	var fallback []string
	for _, a := range DefaultUniverse {
		known[a.Symbol] = a
		fallback = append(fallback, a.Symbol)
	}
	symbols := LoadSymbols(path, fallback)
	out := make([]Asset, 0, len(symbols))
	for _, s := range symbols {
		if a, ok := known[s]; ok {
			out = append(out, a)
			continue
		}
		category := "STOCK/OTHER"
		if strings.HasSuffix(s, "-USD") {
			category = "CRYPTO/OTHER"
		}
		out = append(out, Asset{Symbol: s, Name: s, Category: category})
	}
	return out
}

// FilterByMacro returns the subset of assets whose macro-category matches.
func FilterByMacro(assets []Asset, macro string) []Asset {
	var out []Asset
	for _, a := range assets {
		if MacroCategory(a.Category) == macro {
			out = append(out, a)
		}
	}
	return out
}
