// Package asset defines the instrument universe the agents analyze and the
// category taxonomy shared by logging and backtesting.
package asset

import "strings"

// Asset identifies one tradable instrument in the universe.
type Asset struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// Macro-categories derived from the finer category string.
const (
	MacroCrypto = "CRYPTO"
	MacroStock  = "STOCK"
	MacroETF    = "ETF"
	MacroOther  = "OTHER"
)

// MacroCategory collapses a fine category such as "CRYPTO/MAJOR" or
// "STOCK/TECH_MEGA" into its coarse asset class by prefix.
func MacroCategory(category string) string {
	cu := strings.ToUpper(strings.TrimSpace(category))
	switch {
	case strings.HasPrefix(cu, MacroCrypto):
		return MacroCrypto
	case strings.HasPrefix(cu, MacroStock):
		return MacroStock
	case strings.HasPrefix(cu, MacroETF):
		return MacroETF
	default:
		return MacroOther
	}
}
