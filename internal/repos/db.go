package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	// Demo company, users and stock (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates all tables. Exported so test fixtures can build
// in-memory databases without the seed data.
func EnsureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('ADMIN','TELLER')),
  branch TEXT NOT NULL DEFAULT '',
  company_name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_company ON users(company_name);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Products (goods and services)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  name TEXT NOT NULL,
  kind TEXT NOT NULL CHECK (kind IN ('product','service')),
  unit_price NUMERIC NOT NULL CHECK (unit_price >= 0),
  purchase_price NUMERIC NOT NULL DEFAULT 0,
  unit_purchase_price NUMERIC NOT NULL DEFAULT 0,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  min_qty INTEGER NOT NULL DEFAULT 0,
  max_qty INTEGER NOT NULL DEFAULT 0,
  available_value NUMERIC NOT NULL DEFAULT 0,
  unit TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_company ON products(company_name);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));

-- Customers (deduplicated by phone within a company)
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  id_number TEXT NOT NULL DEFAULT '',
  credit_score INTEGER NOT NULL DEFAULT 600,
  UNIQUE(company_name, phone)
);

-- Sales (immutable once written)
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  branch TEXT NOT NULL,
  teller_id TEXT NOT NULL,
  teller_name TEXT NOT NULL DEFAULT '',
  customer_id TEXT NOT NULL DEFAULT '',
  customer_name TEXT NOT NULL DEFAULT '',
  payment_type TEXT NOT NULL CHECK (payment_type IN ('Cash','Bank','Credit')),
  total NUMERIC NOT NULL,
  amount_paid NUMERIC NOT NULL DEFAULT 0,
  change NUMERIC NOT NULL DEFAULT 0,
  bank NUMERIC NOT NULL DEFAULT 0,
  credit NUMERIC NOT NULL DEFAULT 0,
  due_date TEXT NOT NULL DEFAULT '',
  idempotency_key TEXT NOT NULL UNIQUE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sales_company_branch ON sales(company_name, branch);
CREATE INDEX IF NOT EXISTS idx_sales_teller ON sales(teller_id);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);

CREATE TABLE IF NOT EXISTS sale_items(
  sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  unit_price NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL,
  PRIMARY KEY (sale_id, product_id)
);

-- Credit ledger (append on credit sale, paid_amount/score updated on payment)
CREATE TABLE IF NOT EXISTS credits(
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  branch TEXT NOT NULL DEFAULT '',
  sale_id TEXT NOT NULL REFERENCES sales(id),
  customer_id TEXT NOT NULL,
  name TEXT NOT NULL,
  amount_due NUMERIC NOT NULL,
  paid_amount NUMERIC NOT NULL DEFAULT 0,
  due_date TEXT NOT NULL,
  credit_score INTEGER NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_credits_company ON credits(company_name);
CREATE INDEX IF NOT EXISTS idx_credits_customer ON credits(customer_id);

-- Cash-in reconciliation log (append-only)
CREATE TABLE IF NOT EXISTS cash_ins(
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  branch TEXT NOT NULL,
  teller_id TEXT NOT NULL,
  teller_name TEXT NOT NULL DEFAULT '',
  cash NUMERIC NOT NULL DEFAULT 0,
  bank NUMERIC NOT NULL DEFAULT 0,
  credit NUMERIC NOT NULL DEFAULT 0,
  expected_cash_in NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL CHECK (status IN ('underpaid','overpaid','exact')),
  admin_id TEXT NOT NULL,
  date TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cashins_company_date ON cash_ins(company_name, date);

-- Drawings (stock write-offs, mirrored into expenses)
CREATE TABLE IF NOT EXISTS drawings(
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  branch TEXT NOT NULL DEFAULT '',
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  subtotal NUMERIC NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  drawn_by_id TEXT NOT NULL,
  drawn_by_name TEXT NOT NULL DEFAULT '',
  date TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS expenses(
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  branch TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  amount NUMERIC NOT NULL CHECK (amount >= 0),
  kind TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_expenses_company_date ON expenses(company_name, created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products/customers")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,company_name,name,kind,unit_price,purchase_price,unit_purchase_price,qty,min_qty,max_qty,unit) VALUES
	  ('maize-10kg','Demo Trading','Maize Meal 10kg','product',89.99,1400.00,70.00,40,10,100,'bag'),
	  ('oil-2l','Demo Trading','Cooking Oil 2L','product',64.50,980.00,49.00,25,8,60,'bottle'),
	  ('bread-700g','Demo Trading','Brown Bread 700g','product',17.00,260.00,13.00,60,20,120,'loaf'),
	  ('airtime-any','Demo Trading','Airtime Voucher','service',10.00,0,0,0,0,0,'')`)
	tx.MustExec(`UPDATE products SET available_value = 5000 WHERE id = 'airtime-any'`)

	tx.MustExec(`INSERT INTO customers(id,company_name,name,phone,id_number,credit_score) VALUES
	  ('cust-nomsa','Demo Trading','Nomsa Dlamini','+27821234567','8501015009087',640),
	  ('cust-sipho','Demo Trading','Sipho Khumalo','+27837654321','9003125800083',560)`)

	return tx.Commit()
}

// seedUsers ensures one admin and two tellers exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Branch, Company, Hash string
	}
	mk := func(id, email, name, role, branch, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Branch: branch, Company: "Demo Trading", Hash: string(h)}
	}

	users := []u{
		mk("u-owner", "owner@demo.test", "Owner", "ADMIN", "", "Passw0rd!"),
		mk("u-thandi", "thandi@demo.test", "Thandi", "TELLER", "Main Street", "Passw0rd!"),
		mk("u-bongani", "bongani@demo.test", "Bongani", "TELLER", "Taxi Rank", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,branch,company_name)
			VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role, x.Branch, x.Company); err != nil {
			return err
		}
	}

	return tx.Commit()
}
