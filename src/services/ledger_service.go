package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
)

type ledgerServiceImpl struct {
	db *sql.DB
}

// NewLedgerService creates the single ledger shared by every caller. All
// balance mutations in the system go through it.
func NewLedgerService(db *sql.DB) LedgerService {
	return &ledgerServiceImpl{db: db}
}

// RecordTransaction appends the trade to the ledger and settles it across
// vault, customer, and product stock in one database transaction. A failure
// at any step rolls back every step; partial application never commits.
//
// Settlement rules:
//   - Debt with a customer: the customer's running balance absorbs the value
//     (gold grams for the fine-gold symbol, TRY otherwise). If the symbol is
//     a physical commodity its vault balance still moves, since the goods
//     change hands even though cash settlement is deferred.
//   - Cash, or Debt without a customer reference (kept as a fallback, not
//     rejected): the cash balance moves by the total price, and for
//     commodity symbols the commodity balance moves by the quantity.
//     Manufactured-product trades touch cash only; their physical movement
//     is already on the product row.
func (s *ledgerServiceImpl) RecordTransaction(t *models.Transaction) error {
	if t.Side != models.SideBuy && t.Side != models.SideSell {
		return fmt.Errorf("%w: unrecognized side %q", ErrValidation, t.Side)
	}
	if t.PaymentType == "" {
		t.PaymentType = models.PaymentCash
	}
	if t.PaymentType != models.PaymentCash && t.PaymentType != models.PaymentDebt {
		return fmt.Errorf("%w: unrecognized payment type %q", ErrValidation, t.PaymentType)
	}
	if t.Qty < 0 {
		return fmt.Errorf("%w: negative qty %v", ErrValidation, t.Qty)
	}
	if t.Symbol == "" {
		return fmt.Errorf("%w: missing symbol", ErrValidation)
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	if t.CustomerID != nil {
		exists, err := model.CustomerExistsTx(dbTx, *t.CustomerID)
		if err != nil {
			return fmt.Errorf("error checking customer %d: %w", *t.CustomerID, err)
		}
		if !exists {
			return fmt.Errorf("%w: customer %d", ErrNotFound, *t.CustomerID)
		}
	}
	if t.ProductID != nil {
		exists, err := model.ProductExistsTx(dbTx, *t.ProductID)
		if err != nil {
			return fmt.Errorf("error checking product %d: %w", *t.ProductID, err)
		}
		if !exists {
			return fmt.Errorf("%w: product %d", ErrNotFound, *t.ProductID)
		}
	}

	if err := model.InsertTransactionTx(dbTx, t); err != nil {
		return fmt.Errorf("error inserting transaction: %w", err)
	}

	// Stock moves in integer units regardless of how settlement happens.
	// No sufficiency check: a sale may push stock negative.
	if t.ProductID != nil {
		delta := int64(t.Qty)
		if t.Side == models.SideSell {
			delta = -delta
		}
		if err := model.AdjustStockTx(dbTx, *t.ProductID, delta); err != nil {
			return fmt.Errorf("error adjusting stock for product %d: %w", *t.ProductID, err)
		}
	}

	// m is +1 when the shop sells, -1 when it buys.
	m := -1.0
	if t.Side == models.SideSell {
		m = 1.0
	}

	kind := models.KindOf(t.Symbol)

	if t.PaymentType == models.PaymentDebt && t.CustomerID != nil {
		if t.Symbol == models.SymbolFineGold {
			_, err = dbTx.Exec(`UPDATE customers SET balance_gold = balance_gold + ? WHERE id = ?`, t.Qty*m, *t.CustomerID)
		} else {
			_, err = dbTx.Exec(`UPDATE customers SET balance_try = balance_try + ? WHERE id = ?`, t.TotalPrice*m, *t.CustomerID)
		}
		if err != nil {
			return fmt.Errorf("error updating customer balance: %w", err)
		}

		if kind == models.KindCommodity {
			if _, err := model.AdjustVaultTx(dbTx, t.Symbol, t.Qty*(-m)); err != nil {
				return fmt.Errorf("error adjusting vault %s: %w", t.Symbol, err)
			}
		}
	} else {
		if _, err := model.AdjustVaultTx(dbTx, models.SymbolCash, t.TotalPrice*m); err != nil {
			return fmt.Errorf("error adjusting cash vault: %w", err)
		}
		if kind != models.KindManufactured {
			if _, err := model.AdjustVaultTx(dbTx, t.Symbol, t.Qty*(-m)); err != nil {
				return fmt.Errorf("error adjusting vault %s: %w", t.Symbol, err)
			}
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	logger.L.Info("Transaction recorded",
		"id", t.ID, "side", t.Side, "symbol", t.Symbol,
		"qty", t.Qty, "total", t.TotalPrice, "payment", t.PaymentType)
	return nil
}

// SettleCustomer applies a manual cash movement against a customer's running
// TRY balance. Collect means the customer paid the shop; disburse means the
// shop paid the customer. Returns the new TRY balance.
func (s *ledgerServiceImpl) SettleCustomer(customerID int64, amount float64, direction string) (float64, error) {
	var custDelta, vaultDelta float64
	switch direction {
	case DirectionCollect:
		custDelta, vaultDelta = -amount, amount
	case DirectionDisburse:
		custDelta, vaultDelta = amount, -amount
	default:
		return 0, fmt.Errorf("%w: unrecognized direction %q", ErrValidation, direction)
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	exists, err := model.CustomerExistsTx(dbTx, customerID)
	if err != nil {
		return 0, fmt.Errorf("error checking customer %d: %w", customerID, err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: customer %d", ErrNotFound, customerID)
	}

	if _, err := dbTx.Exec(`UPDATE customers SET balance_try = balance_try + ? WHERE id = ?`, custDelta, customerID); err != nil {
		return 0, fmt.Errorf("error updating customer balance: %w", err)
	}
	if _, err := model.AdjustVaultTx(dbTx, models.SymbolCash, vaultDelta); err != nil {
		return 0, fmt.Errorf("error adjusting cash vault: %w", err)
	}

	var newBalance float64
	if err := dbTx.QueryRow(`SELECT balance_try FROM customers WHERE id = ?`, customerID).Scan(&newBalance); err != nil {
		return 0, fmt.Errorf("error reading customer balance: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing settlement: %w", err)
	}

	logger.L.Info("Customer settlement applied",
		"customerID", customerID, "amount", amount, "direction", direction, "newBalance", newBalance)
	return newBalance, nil
}

// AdjustVault applies an opening-stock or recount correction to one vault
// balance. The correction is written to the ledger as an "initial" entry so
// the balance change stays traceable.
func (s *ledgerServiceImpl) AdjustVault(symbol string, amount float64) (float64, error) {
	if !models.ValidVaultSymbol(symbol) {
		return 0, fmt.Errorf("%w: invalid symbol %q", ErrValidation, symbol)
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	entry := &models.Transaction{
		Side:        models.SideInitial,
		Symbol:      symbol,
		Qty:         amount,
		PaymentType: models.PaymentCash,
	}
	if err := model.InsertTransactionTx(dbTx, entry); err != nil {
		return 0, fmt.Errorf("error inserting adjustment entry: %w", err)
	}

	newBalance, err := model.AdjustVaultTx(dbTx, symbol, amount)
	if err != nil {
		return 0, fmt.Errorf("error adjusting vault %s: %w", symbol, err)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing adjustment: %w", err)
	}

	logger.L.Info("Vault adjusted", "symbol", symbol, "amount", amount, "newBalance", newBalance)
	return newBalance, nil
}

// ListTransactions returns ledger entries newest first, optionally limited
// to those at or after since.
func (s *ledgerServiceImpl) ListTransactions(since time.Time) ([]models.Transaction, error) {
	return model.ListTransactions(s.db, since)
}
