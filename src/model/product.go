package model

import (
	"database/sql"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
)

const productColumns = `id, name, COALESCE(category, ''), weight, purity, labor_cost, stock_qty, created_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Weight, &p.Purity, &p.LaborCost, &p.StockQty, &p.CreatedAt)
	return p, err
}

// ListProductsInStock returns products with stock_qty > 0; sold-out items
// stay in the table for history but drop out of listings.
func ListProductsInStock(db *sql.DB) ([]models.Product, error) {
	rows, err := db.Query(`SELECT ` + productColumns + ` FROM products WHERE stock_qty > 0 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProductByID fetches one product regardless of stock level.
func GetProductByID(db *sql.DB, id int64) (models.Product, error) {
	row := db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// ProductCategories returns every product's category keyed by ID, including
// sold-out items, so report code can label sales without per-row lookups.
func ProductCategories(db *sql.DB) (map[int64]string, error) {
	rows, err := db.Query(`SELECT id, COALESCE(category, '') FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make(map[int64]string)
	for rows.Next() {
		var id int64
		var category string
		if err := rows.Scan(&id, &category); err != nil {
			return nil, err
		}
		categories[id] = category
	}
	return categories, rows.Err()
}

// ProductExistsTx checks for the product inside an open database transaction.
func ProductExistsTx(tx *sql.Tx, id int64) (bool, error) {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM products WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// CreateProduct inserts a new manufactured item.
func CreateProduct(db *sql.DB, p *models.Product) error {
	if p.Purity == 0 {
		p.Purity = 0.916
	}
	p.CreatedAt = time.Now()
	res, err := db.Exec(`
		INSERT INTO products (name, category, weight, purity, labor_cost, stock_qty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Category, p.Weight, p.Purity, p.LaborCost, p.StockQty, p.CreatedAt)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// AdjustStockTx moves stock_qty by delta inside an open database transaction.
// Stock may go negative: no sufficiency check is performed before a sale
// decrements it, matching how the shop records short sales.
func AdjustStockTx(tx *sql.Tx, productID int64, delta int64) error {
	_, err := tx.Exec(`UPDATE products SET stock_qty = stock_qty + ? WHERE id = ?`, delta, productID)
	return err
}
