package model

import (
	"database/sql"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
)

// ListVault returns every vault balance row, including zero and negative ones.
func ListVault(db *sql.DB) ([]models.Vault, error) {
	rows, err := db.Query(`SELECT id, symbol, balance, last_updated FROM vault ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []models.Vault
	for rows.Next() {
		var v models.Vault
		if err := rows.Scan(&v.ID, &v.Symbol, &v.Balance, &v.LastUpdated); err != nil {
			return nil, err
		}
		balances = append(balances, v)
	}
	return balances, rows.Err()
}

// VaultBalances returns the balances keyed by symbol. Missing symbols are
// simply absent; callers treat them as zero.
func VaultBalances(db *sql.DB) (map[string]float64, error) {
	rows, err := db.Query(`SELECT symbol, balance FROM vault`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var balance float64
		if err := rows.Scan(&symbol, &balance); err != nil {
			return nil, err
		}
		balances[symbol] = balance
	}
	return balances, rows.Err()
}

// AdjustVaultTx adds delta to the balance of symbol inside an open database
// transaction, creating the row at zero first if the symbol was never held.
// Returns the new balance.
func AdjustVaultTx(tx *sql.Tx, symbol string, delta float64) (float64, error) {
	_, err := tx.Exec(`INSERT INTO vault (symbol, balance) VALUES (?, 0) ON CONFLICT(symbol) DO NOTHING`, symbol)
	if err != nil {
		return 0, err
	}
	_, err = tx.Exec(`UPDATE vault SET balance = balance + ?, last_updated = ? WHERE symbol = ?`, delta, time.Now(), symbol)
	if err != nil {
		return 0, err
	}
	var balance float64
	err = tx.QueryRow(`SELECT balance FROM vault WHERE symbol = ?`, symbol).Scan(&balance)
	return balance, err
}
