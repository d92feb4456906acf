package services

import (
	"database/sql"
	"fmt"

	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

// suggestionWindow is how many of the most recent trades the margin analysis
// looks at.
const suggestionWindow = 15

type marginServiceImpl struct {
	db     *sql.DB
	prices PriceService
}

func NewMarginService(db *sql.DB, prices PriceService) MarginService {
	return &marginServiceImpl{db: db, prices: prices}
}

// SmartPrices applies the configured offsets to the live quotes: the shop
// buys below the market buy and sells above the market sell. Symbols without
// a margin row get zero offsets; missing quote sides count as zero. The call
// never fails on unknown symbols.
func (s *marginServiceImpl) SmartPrices() (map[string]models.SmartPrice, error) {
	quotes := s.prices.GetQuotes()
	margins, err := model.MarginsBySymbol(s.db)
	if err != nil {
		return nil, fmt.Errorf("error loading margins: %w", err)
	}

	result := make(map[string]models.SmartPrice, len(quotes))
	for sym, q := range quotes {
		m := margins[sym]
		result[sym] = models.SmartPrice{
			SuggestedBuy:  utils.RoundFloat(q.BuyOrZero()-m.BuyMargin, 2),
			SuggestedSell: utils.RoundFloat(q.SellOrZero()+m.SellMargin, 2),
		}
	}
	return result, nil
}

// Suggestions studies the shop's recent sell-side pricing habit per symbol
// and flags symbols whose observed margin has drifted away from the
// configured one. Output is advisory only; applying a suggestion is a
// separate, explicit margin update.
func (s *marginServiceImpl) Suggestions() ([]models.MarginSuggestion, error) {
	quotes := s.prices.GetQuotes()
	txs, err := model.RecentTransactions(s.db, suggestionWindow)
	if err != nil {
		return nil, fmt.Errorf("error loading recent transactions: %w", err)
	}
	margins, err := model.MarginsBySymbol(s.db)
	if err != nil {
		return nil, fmt.Errorf("error loading margins: %w", err)
	}

	sellMargins := make(map[string][]float64)
	for _, tx := range txs {
		if tx.Side == models.SideInitial {
			continue
		}
		sym := tx.Symbol
		if sym == "" {
			sym = models.SymbolFineGold
		}
		q, ok := quotes[sym]
		if !ok {
			q = quotes[models.SymbolFineGold]
		}
		if tx.Side == models.SideSell {
			sellMargins[sym] = append(sellMargins[sym], tx.UnitPrice-q.BuyOrZero())
		}
	}

	var suggestions []models.MarginSuggestion
	for sym, observed := range sellMargins {
		if len(observed) == 0 {
			continue
		}
		threshold := 1.0
		if models.CurrencyLike(sym) {
			threshold = 0.1
		}

		var sum float64
		for _, v := range observed {
			sum += v
		}
		avg := sum / float64(len(observed))

		configured := margins[sym].SellMargin
		diff := avg - configured
		if diff < 0 {
			diff = -diff
		}
		if diff > threshold {
			suggestions = append(suggestions, models.MarginSuggestion{
				Symbol:    sym,
				Type:      "Satış",
				Suggested: utils.RoundFloat(avg, 2),
				Message:   fmt.Sprintf("%s için tarzınız %.2f TL marja kaymış.", sym, utils.RoundFloat(avg, 2)),
			})
		}
	}
	return suggestions, nil
}

func (s *marginServiceImpl) Margins() ([]models.Margin, error) {
	return model.ListMargins(s.db)
}

func (s *marginServiceImpl) UpdateMargin(m models.Margin) error {
	if m.Symbol == "" {
		return fmt.Errorf("%w: missing symbol", ErrValidation)
	}
	return model.UpsertMargin(s.db, m)
}
