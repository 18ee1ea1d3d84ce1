package postgres

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
	id          SERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(10,2) NOT NULL,
	category    TEXT NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	available   BOOLEAN NOT NULL DEFAULT TRUE,
	spicy       BOOLEAN NOT NULL DEFAULT FALSE,
	vegetarian  BOOLEAN NOT NULL DEFAULT FALSE,
	rating      NUMERIC(3,1) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS orders (
	id                   TEXT PRIMARY KEY,
	order_number         TEXT NOT NULL,
	customer_name        TEXT NOT NULL,
	customer_phone       TEXT NOT NULL,
	customer_email       TEXT NOT NULL DEFAULT '',
	total_amount         NUMERIC(10,2) NOT NULL,
	order_type           TEXT NOT NULL,
	table_number         TEXT,
	delivery_address     TEXT,
	special_instructions TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL,
	payment_status       TEXT NOT NULL,
	estimated_time       INT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
	id       SERIAL PRIMARY KEY,
	order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	item_id  INT NOT NULL,
	name     TEXT NOT NULL,
	quantity INT NOT NULL,
	price    NUMERIC(10,2) NOT NULL,
	total    NUMERIC(10,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS tables (
	id        SERIAL PRIMARY KEY,
	number    TEXT NOT NULL UNIQUE,
	seats     INT NOT NULL,
	available BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	phone         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates the tables on first run.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, schema)
	return err
}
