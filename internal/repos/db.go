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

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog/inventory if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure demo users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Suppliers
CREATE TABLE IF NOT EXISTS suppliers(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT,
  sku TEXT NOT NULL UNIQUE,
  price NUMERIC NOT NULL CHECK (price > 0),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

CREATE TABLE IF NOT EXISTS product_suppliers(
  product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  supplier_id TEXT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
  supplier_price NUMERIC NOT NULL CHECK (supplier_price >= 0),
  is_primary INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (product_id, supplier_id)
);

-- Inventory ledger: one row per product. The CHECK keeps the ledger
-- invariant (0 <= reserved <= on_hand) enforced at the store even if a
-- buggy statement slips past the guarded updates.
CREATE TABLE IF NOT EXISTS inventory(
  product_id TEXT PRIMARY KEY REFERENCES products(id) ON DELETE CASCADE,
  on_hand  INTEGER NOT NULL DEFAULT 0,
  reserved INTEGER NOT NULL DEFAULT 0,
  reorder_level INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT,
  CHECK (on_hand >= 0 AND reserved >= 0 AND reserved <= on_hand)
);

-- Carts: one per user, created with the user
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'PENDING',
  subtotal NUMERIC NOT NULL CHECK (subtotal >= 0),
  shipping_cost NUMERIC NOT NULL DEFAULT 0 CHECK (shipping_cost >= 0),
  tax_amount NUMERIC NOT NULL DEFAULT 0 CHECK (tax_amount >= 0),
  total_amount NUMERIC NOT NULL CHECK (total_amount >= 0),
  shipping_address TEXT NOT NULL,
  shipping_phone TEXT NOT NULL,
  notes TEXT,
  order_date TEXT DEFAULT CURRENT_TIMESTAMP,
  shipped_date TEXT,
  delivered_date TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_user   ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  unit_price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  phone TEXT DEFAULT '',
  address TEXT DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
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
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products/suppliers/inventory")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,description) VALUES
	  ('electronics','Electronics','Computers, peripherals and accessories'),
	  ('office','Office Supplies','Everyday office consumables'),
	  ('furniture','Furniture','Desks, chairs and storage')`)

	tx.MustExec(`INSERT INTO suppliers(id,name,email,phone,address) VALUES
	  ('sup-acme','Acme Wholesale','sales@acme.test','301-555-0101','12 Depot Rd, Laurel MD'),
	  ('sup-nord','Nordic Imports','orders@nordic.test','301-555-0188','4 Harbor Way, Baltimore MD')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,sku,price) VALUES
	  ('kb-mech-87','electronics','Mechanical Keyboard 87-key','Tenkeyless, brown switches','SKU-KB-087',89.99),
	  ('mon-27-qhd','electronics','27in QHD Monitor','2560x1440 IPS panel','SKU-MON-27',249.00),
	  ('chair-ergo','furniture','Ergonomic Task Chair','Adjustable lumbar support','SKU-CH-001',179.50),
	  ('paper-a4','office','A4 Copy Paper (500)','80gsm, ream of 500','SKU-PA-500',6.49)`)

	tx.MustExec(`INSERT INTO product_suppliers(product_id,supplier_id,supplier_price,is_primary) VALUES
	  ('kb-mech-87','sup-acme',52.00,1),
	  ('mon-27-qhd','sup-acme',170.00,1),
	  ('mon-27-qhd','sup-nord',165.50,0),
	  ('chair-ergo','sup-nord',98.00,1),
	  ('paper-a4','sup-acme',3.10,1)`)

	tx.MustExec(`INSERT INTO inventory(product_id,on_hand,reserved,reorder_level) VALUES
	  ('kb-mech-87',25,0,5),
	  ('mon-27-qhd',10,0,3),
	  ('chair-ergo',4,0,2),
	  ('paper-a4',200,0,40)`)

	return tx.Commit()
}

// seedUsers ensures a demo USER and one ADMIN exist (idempotent). Each user
// gets a cart at creation; there is no lazy or hook-based cart creation.
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-dana", "dana@stockroom.test", "Dana", "USER", "Passw0rd!"),
		mk("u-admin", "admin@stockroom.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO carts(id,user_id)
			SELECT 'cart-'||?, ?
			WHERE NOT EXISTS (SELECT 1 FROM carts WHERE user_id = ?)
		`, x.ID, x.ID, x.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
