package database

import (
	"database/sql"
	stdlog "log"

	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateCustomerTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT DEFAULT 'cashier',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS vault (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL UNIQUE,
		balance REAL NOT NULL DEFAULT 0,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		email TEXT,
		address TEXT,
		balance_try REAL NOT NULL DEFAULT 0,
		balance_gold REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT,
		weight REAL NOT NULL DEFAULT 0,
		purity REAL NOT NULL DEFAULT 0.916,
		labor_cost REAL NOT NULL DEFAULT 0,
		stock_qty INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		side TEXT NOT NULL,
		symbol TEXT,
		qty REAL NOT NULL DEFAULT 0,
		unit_price REAL NOT NULL DEFAULT 0,
		total_price REAL NOT NULL DEFAULT 0,
		payment_type TEXT NOT NULL DEFAULT 'Cash',
		customer_id INTEGER,
		product_id INTEGER,
		ts TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(customer_id) REFERENCES customers(id),
		FOREIGN KEY(product_id) REFERENCES products(id)
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_ts ON transactions(ts);

	CREATE TABLE IF NOT EXISTS margins (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL UNIQUE,
		buy_margin REAL NOT NULL DEFAULT 0,
		sell_margin REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL UNIQUE,
		value TEXT
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateCustomerTable backfills columns added after the first release
// (gold running balance, address). Databases created fresh get them from the
// CREATE TABLE statement and need no work here.
func migrateCustomerTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='customers'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'customers' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'customers' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'customers' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'customers' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(customers)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'customers'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'customers': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'customers'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'customers': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'customers'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'customers': %v", err)
		}
		return
	}

	if _, ok := columnExists["balance_gold"]; !ok {
		_, err := DB.Exec("ALTER TABLE customers ADD COLUMN balance_gold REAL NOT NULL DEFAULT 0")
		if err != nil {
			logger.L.Error("Error adding 'balance_gold' column to 'customers' table", "error", err)
		} else {
			logger.L.Info("Added 'balance_gold' column to 'customers' table")
		}
	}

	if _, ok := columnExists["address"]; !ok {
		_, err := DB.Exec("ALTER TABLE customers ADD COLUMN address TEXT")
		if err != nil {
			logger.L.Error("Error adding 'address' column to 'customers' table", "error", err)
		} else {
			logger.L.Info("Added 'address' column to 'customers' table")
		}
	}
}
