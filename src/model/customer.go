package model

import (
	"database/sql"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
)

const customerColumns = `id, full_name, phone, COALESCE(email, ''), COALESCE(address, ''), balance_try, balance_gold, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Address, &c.BalanceTRY, &c.BalanceGold, &c.CreatedAt)
	return c, err
}

// ListCustomers returns all running accounts.
func ListCustomers(db *sql.DB) ([]models.Customer, error) {
	rows, err := db.Query(`SELECT ` + customerColumns + ` FROM customers ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// GetCustomerByID fetches one customer; sql.ErrNoRows passes through so
// callers can map it to a not-found error.
func GetCustomerByID(db *sql.DB, id int64) (models.Customer, error) {
	row := db.QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	return scanCustomer(row)
}

// CustomerExistsTx checks for the customer inside an open database transaction.
func CustomerExistsTx(tx *sql.Tx, id int64) (bool, error) {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM customers WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// CreateCustomer inserts a new running account with zero balances.
func CreateCustomer(db *sql.DB, c *models.Customer) error {
	c.CreatedAt = time.Now()
	res, err := db.Exec(`
		INSERT INTO customers (full_name, phone, email, address, balance_try, balance_gold, created_at)
		VALUES (?, ?, ?, ?, 0, 0, ?)`,
		c.FullName, c.Phone, c.Email, c.Address, c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

// CountCustomers returns the number of running accounts, used for the
// free-tier customer cap.
func CountCustomers(db *sql.DB) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}
