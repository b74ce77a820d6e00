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
	// One connection keeps :memory: databases coherent and makes the
	// foreign_keys pragma hold for every statement.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo accounts/farms/products if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users (farmers and buyers; role is fixed at registration)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('FARMER','BUYER')),
  phone TEXT,
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

-- Farmer profiles: at most one per user
CREATE TABLE IF NOT EXISTS farmer_profiles(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  farm_name TEXT NOT NULL,
  description TEXT,
  address TEXT,
  lat REAL NOT NULL DEFAULT 0,
  lng REAL NOT NULL DEFAULT 0,
  delivery_radius_km REAL NOT NULL DEFAULT 0 CHECK (delivery_radius_km >= 0),
  offers_pickup INTEGER NOT NULL DEFAULT 1,
  offers_delivery INTEGER NOT NULL DEFAULT 0,
  practices TEXT,
  certifications TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL REFERENCES farmer_profiles(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  category TEXT,
  unit TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  available_qty INTEGER NOT NULL DEFAULT 0 CHECK (available_qty >= 0),
  min_order_qty INTEGER NOT NULL DEFAULT 1 CHECK (min_order_qty >= 0),
  is_available INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_farmer   ON products(farmer_id);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL REFERENCES users(id),
  farmer_id TEXT NOT NULL REFERENCES farmer_profiles(id),
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','confirmed','ready','completed','cancelled')),
  total_amount NUMERIC NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
  delivery_method TEXT NOT NULL CHECK (delivery_method IN ('pickup','delivery')),
  delivery_address TEXT,
  requested_date TEXT,
  notes TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer  ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_farmer ON orders(farmer_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Line items: unit_price snapshotted at order time; no update path
CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  unit_price NUMERIC NOT NULL CHECK (unit_price >= 0),
  subtotal NUMERIC NOT NULL CHECK (subtotal >= 0)
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

-- Append-only order audit trail; status present iff status_change
CREATE TABLE IF NOT EXISTS order_events(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  actor_id TEXT NOT NULL REFERENCES users(id),
  event_type TEXT NOT NULL CHECK (event_type IN ('status_change','note','location_update')),
  status TEXT CHECK (status IS NULL OR status IN ('pending','confirmed','ready','completed','cancelled')),
  note TEXT,
  lat REAL,
  lng REAL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  CHECK ((event_type = 'status_change') = (status IS NOT NULL))
);
CREATE INDEX IF NOT EXISTS idx_order_events_order ON order_events(order_id);

-- Reviews: one per (buyer, order)
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL REFERENCES farmer_profiles(id) ON DELETE CASCADE,
  buyer_id TEXT NOT NULL REFERENCES users(id),
  order_id TEXT NULL REFERENCES orders(id),
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(buyer_id, order_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_farmer ON reviews(farmer_id);

-- Favorites: one per (buyer, farmer)
CREATE TABLE IF NOT EXISTS favorites(
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  farmer_id TEXT NOT NULL REFERENCES farmer_profiles(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(buyer_id, farmer_id)
);

-- Direct messages
CREATE TABLE IF NOT EXISTS messages(
  id TEXT PRIMARY KEY,
  sender_id TEXT NOT NULL REFERENCES users(id),
  recipient_id TEXT NOT NULL REFERENCES users(id),
  content TEXT NOT NULL,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id);
CREATE INDEX IF NOT EXISTS idx_messages_sender    ON messages(sender_id);

-- Notifications: written only by server-side producers
CREATE TABLE IF NOT EXISTS notifications(
  id TEXT PRIMARY KEY,
  recipient_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  type TEXT NOT NULL CHECK (type IN ('order_created','order_status_changed','favorited')),
  title TEXT NOT NULL,
  message TEXT,
  meta TEXT,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedIfEmpty inserts demo users, farms and products on first start.
func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/farms/products")

	mkHash := func(raw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return string(h)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO users(id,email,name,password_hash,role,phone) VALUES
	  ('u-greta','greta@farmstand.test','Greta','`+mkHash("Passw0rd!")+`','FARMER','555-0101'),
	  ('u-hank','hank@farmstand.test','Hank','`+mkHash("Passw0rd!")+`','FARMER','555-0102'),
	  ('u-bea','bea@farmstand.test','Bea','`+mkHash("Passw0rd!")+`','BUYER','555-0201'),
	  ('u-ben','ben@farmstand.test','Ben','`+mkHash("Passw0rd!")+`','BUYER','555-0202')`)

	tx.MustExec(`INSERT INTO farmer_profiles
	  (id,user_id,farm_name,description,address,lat,lng,delivery_radius_km,offers_pickup,offers_delivery,practices,certifications) VALUES
	  ('f-greenacre','u-greta','Green Acre Farm','Small organic vegetable farm','12 Orchard Ln',38.9897,-76.9378,25,1,1,'organic,no-till','USDA Organic'),
	  ('f-hillside','u-hank','Hillside Dairy','Grass-fed dairy and eggs','89 Ridge Rd',39.0458,-76.6413,15,1,0,'pasture-raised','')`)

	tx.MustExec(`INSERT INTO products(id,farmer_id,name,category,unit,price,available_qty,min_order_qty) VALUES
	  ('p-tomatoes','f-greenacre','Heirloom Tomatoes','vegetables','lb',3.00,40,1),
	  ('p-kale','f-greenacre','Curly Kale','vegetables','bunch',5.00,25,1),
	  ('p-eggs','f-hillside','Pastured Eggs','dairy-eggs','dozen',6.50,30,1),
	  ('p-milk','f-hillside','Whole Milk','dairy-eggs','half-gallon',4.25,18,2)`)

	return tx.Commit()
}
