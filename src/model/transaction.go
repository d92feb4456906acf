package model

import (
	"database/sql"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
)

const transactionColumns = `id, side, COALESCE(symbol, ''), qty, unit_price, total_price, payment_type, customer_id, product_id, ts`

func scanTransaction(row interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	var customerID, productID sql.NullInt64
	err := row.Scan(&t.ID, &t.Side, &t.Symbol, &t.Qty, &t.UnitPrice, &t.TotalPrice, &t.PaymentType, &customerID, &productID, &t.Timestamp)
	if customerID.Valid {
		t.CustomerID = &customerID.Int64
	}
	if productID.Valid {
		t.ProductID = &productID.Int64
	}
	return t, err
}

// InsertTransactionTx appends one ledger entry inside an open database
// transaction and fills in its ID and timestamp. Entries are never updated
// or deleted afterwards.
func InsertTransactionTx(tx *sql.Tx, t *models.Transaction) error {
	t.Timestamp = time.Now()
	res, err := tx.Exec(`
		INSERT INTO transactions (side, symbol, qty, unit_price, total_price, payment_type, customer_id, product_id, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Side, t.Symbol, t.Qty, t.UnitPrice, t.TotalPrice, t.PaymentType, t.CustomerID, t.ProductID, t.Timestamp)
	if err != nil {
		return err
	}
	t.ID, err = res.LastInsertId()
	return err
}

func collectTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ListTransactions returns ledger entries newest first. A zero since lists
// everything; otherwise only entries at or after since are returned.
func ListTransactions(db *sql.DB, since time.Time) ([]models.Transaction, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if since.IsZero() {
		rows, err = db.Query(`SELECT ` + transactionColumns + ` FROM transactions ORDER BY ts DESC, id DESC`)
	} else {
		rows, err = db.Query(`SELECT `+transactionColumns+` FROM transactions WHERE ts >= ? ORDER BY ts DESC, id DESC`, since)
	}
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

// RecentTransactions returns the newest limit ledger entries.
func RecentTransactions(db *sql.DB, limit int) ([]models.Transaction, error) {
	rows, err := db.Query(`SELECT `+transactionColumns+` FROM transactions ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}
