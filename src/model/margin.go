package model

import (
	"database/sql"

	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
)

// ListMargins returns the configured per-symbol margin offsets.
func ListMargins(db *sql.DB) ([]models.Margin, error) {
	rows, err := db.Query(`SELECT id, symbol, buy_margin, sell_margin FROM margins ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var margins []models.Margin
	for rows.Next() {
		var m models.Margin
		if err := rows.Scan(&m.ID, &m.Symbol, &m.BuyMargin, &m.SellMargin); err != nil {
			return nil, err
		}
		margins = append(margins, m)
	}
	return margins, rows.Err()
}

// MarginsBySymbol returns the margin table keyed by symbol. Symbols without a
// row default to zero offsets.
func MarginsBySymbol(db *sql.DB) (map[string]models.Margin, error) {
	margins, err := ListMargins(db)
	if err != nil {
		return nil, err
	}
	bySymbol := make(map[string]models.Margin, len(margins))
	for _, m := range margins {
		bySymbol[m.Symbol] = m
	}
	return bySymbol, nil
}

// UpsertMargin creates or replaces the offsets for one symbol. Buy and sell
// margins are independently editable but stored on one row.
func UpsertMargin(db *sql.DB, m models.Margin) error {
	_, err := db.Exec(`
		INSERT INTO margins (symbol, buy_margin, sell_margin) VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET buy_margin = excluded.buy_margin, sell_margin = excluded.sell_margin`,
		m.Symbol, m.BuyMargin, m.SellMargin)
	return err
}
