package repos

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the SQLite file, applies the schema and seeds demo data
// into an empty database. One pooled connection keeps a single writer and
// keeps ":memory:" databases alive for the life of the handle.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Operators are idempotent; safe to run every start.
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Store hands out transactions over the shared handle.
type Store struct{ DB *sqlx.DB }

func NewStore(db *sqlx.DB) *Store { return &Store{DB: db} }

// WithTx runs fn inside one transaction. The transaction is committed when
// fn returns nil and rolled back on every other exit path, panics included.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Inventory (category is a plain column, no lookup table)
CREATE TABLE IF NOT EXISTS inventory(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  brand TEXT,
  product TEXT,
  category TEXT,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  mrp REAL NOT NULL CHECK (mrp >= 0),
  purchase_rate REAL NOT NULL CHECK (purchase_rate >= 0),
  wholesale_rate REAL NOT NULL CHECK (wholesale_rate >= 0),
  retail_rate REAL NOT NULL CHECK (retail_rate >= 0),
  hotel_rate REAL NOT NULL CHECK (hotel_rate >= 0),
  UNIQUE (brand, product)
);
CREATE INDEX IF NOT EXISTS idx_inventory_stock    ON inventory(stock);
CREATE INDEX IF NOT EXISTS idx_inventory_category ON inventory(category);

-- Customers (credit tracking)
CREATE TABLE IF NOT EXISTS customers(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  mobile TEXT NOT NULL,
  customer_type TEXT NOT NULL CHECK (customer_type IN ('WHOLESALE','RETAIL','HOTEL-LINE')),
  bill_amount REAL NOT NULL DEFAULT 0.0,
  paid_amount REAL NOT NULL DEFAULT 0.0,
  unpaid_amount REAL NOT NULL DEFAULT 0.0 CHECK (unpaid_amount >= 0)
);
CREATE INDEX IF NOT EXISTS idx_customers_mobile ON customers(mobile);

-- Bills
CREATE TABLE IF NOT EXISTS bills(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL REFERENCES customers(id),
  total_items INTEGER NOT NULL,
  bill_amount REAL NOT NULL,
  tax_amount REAL NOT NULL DEFAULT 0.0,
  discount_amount REAL NOT NULL DEFAULT 0.0,
  total_amount REAL NOT NULL,
  profit_earned REAL NOT NULL DEFAULT 0.0,
  payment_method TEXT NOT NULL CHECK (payment_method IN ('UPI','CASH','CREDIT','CARD')),
  payment_date TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('SUCCESSFUL','PENDING'))
);
CREATE INDEX IF NOT EXISTS idx_bills_customer     ON bills(customer_id);
CREATE INDEX IF NOT EXISTS idx_bills_payment_date ON bills(payment_date);

CREATE TABLE IF NOT EXISTS bill_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  bill_id INTEGER NOT NULL REFERENCES bills(id),
  product_name TEXT NOT NULL,           -- snapshot, not a foreign key
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  price REAL NOT NULL,
  unit_profit REAL NOT NULL DEFAULT 0.0
);
CREATE INDEX IF NOT EXISTS idx_bill_items_bill ON bill_items(bill_id);

-- Store profile; reserved, nothing populates it
CREATE TABLE IF NOT EXISTS settings(
  user_id INTEGER NOT NULL PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  store_name TEXT NOT NULL
);

-- Operators & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('STAFF','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM customers`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo inventory/customers")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO inventory
	  (brand, product, category, stock, mrp, purchase_rate, wholesale_rate, retail_rate, hotel_rate) VALUES
	  ('Samsung','Galaxy S25','Electronics',15,75000.00,60000.00,65000.00,70000.00,68000.00),
	  ('Kwality','Milk Pouch','Groceries',200,60.00,45.00,50.00,55.00,52.00),
	  ('Hindustan','Coffee Jar','Groceries',40,450.00,300.00,350.00,400.00,380.00),
	  ('Levi''s','Jeans Blue','Apparel',55,2500.00,1500.00,1800.00,2200.00,2000.00)`); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT OR IGNORE INTO customers
	  (name, mobile, customer_type, bill_amount, paid_amount, unpaid_amount) VALUES
	  ('Om Khebade','9876543210','RETAIL',1000.0,500.0,500.0),
	  ('Prajwal Deshmukh','9988776655','WHOLESALE',0.0,0.0,0.0),
	  ('Akshay Hotel','9000011111','HOTEL-LINE',2500.0,0.0,2500.0)`); err != nil {
		return err
	}

	return tx.Commit()
}

// seedUsers ensures one STAFF and one ADMIN operator exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}, err
	}

	var users []u
	for _, s := range [][4]string{
		{"u-admin", "admin@storeledger.test", "Admin", "ADMIN"},
		{"u-cashier", "cashier@storeledger.test", "Cashier", "STAFF"},
	} {
		x, err := mk(s[0], s[1], s[2], s[3], "Passw0rd!")
		if err != nil {
			return err
		}
		users = append(users, x)
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
