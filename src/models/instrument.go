package models

// Symbols with a fixed meaning in the ledger. SymbolProduct is the
// placeholder the front-ends send for trades of manufactured stock, where the
// physical movement is tracked on the product row instead of a vault balance.
const (
	SymbolCash     = "TRY"
	SymbolFineGold = "GA"
	SymbolProduct  = "ÜRÜN"
)

// InstrumentKind classifies a trade symbol so the ledger can dispatch
// structurally instead of comparing strings at every branch.
type InstrumentKind int

const (
	// KindCash is the settlement currency itself.
	KindCash InstrumentKind = iota
	// KindCommodity is a physical tradable held as a vault balance
	// (currencies, fine gold, coin types).
	KindCommodity
	// KindManufactured is the placeholder for product trades; stock moves
	// on the product row, not in the vault.
	KindManufactured
)

// KindOf derives the instrument kind of a trade symbol.
func KindOf(symbol string) InstrumentKind {
	switch symbol {
	case SymbolCash:
		return KindCash
	case SymbolProduct:
		return KindManufactured
	default:
		return KindCommodity
	}
}

// CurrencyLike reports whether the symbol is quoted like a currency, with
// two-decimal prices and tight margins.
func CurrencyLike(symbol string) bool {
	return symbol == "USD" || symbol == "EUR"
}

// VaultSymbols are the balances the shop may hold; vault adjustments outside
// this set are rejected.
var VaultSymbols = []string{"TRY", "USD", "EUR", "GA", "C22", "CEYREK", "YARIM", "TAM", "ATA"}

// ValidVaultSymbol reports whether s is an adjustable vault balance.
func ValidVaultSymbol(s string) bool {
	for _, v := range VaultSymbols {
		if v == s {
			return true
		}
	}
	return false
}
