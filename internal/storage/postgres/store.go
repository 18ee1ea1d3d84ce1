// Package postgres implements the storage interfaces on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/common/db"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage"
)

type Store struct {
	conn *db.Conn
}

var _ storage.MenuStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.TableStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

func New(conn *db.Conn) *Store { return &Store{conn: conn} }

// MenuStore --------------------------------------------------------------

func (s *Store) CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO menu_items (name, description, price, category, image, available, spicy, vegetarian, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, item.Name, item.Description, item.Price, item.Category, item.Image,
		item.Available, item.Spicy, item.Vegetarian, item.Rating).Scan(&item.ID)
	if err != nil {
		return domain.MenuItem{}, apperr.Internalf(err, "insert menu item")
	}
	return item, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	tag, err := s.conn.Exec(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, category = $5, image = $6,
		    available = $7, spicy = $8, vegetarian = $9, rating = $10
		WHERE id = $1
	`, item.ID, item.Name, item.Description, item.Price, item.Category, item.Image,
		item.Available, item.Spicy, item.Vegetarian, item.Rating)
	if err != nil {
		return domain.MenuItem{}, apperr.Internalf(err, "update menu item")
	}
	if tag.RowsAffected() == 0 {
		return domain.MenuItem{}, apperr.NotFoundf("menu item %d not found", item.ID)
	}
	return item, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id int) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := s.conn.QueryRow(ctx, `
		SELECT id, name, description, price, category, image, available, spicy, vegetarian, rating
		FROM menu_items WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.Image, &item.Available, &item.Spicy, &item.Vegetarian, &item.Rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, apperr.NotFoundf("menu item %d not found", id)
	}
	if err != nil {
		return domain.MenuItem{}, apperr.Internalf(err, "get menu item")
	}
	return item, nil
}

func (s *Store) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, name, description, price, category, image, available, spicy, vegetarian, rating
		FROM menu_items ORDER BY id
	`)
	if err != nil {
		return nil, apperr.Internalf(err, "list menu items")
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
			&item.Image, &item.Available, &item.Spicy, &item.Vegetarian, &item.Rating); err != nil {
			return nil, apperr.Internalf(err, "scan menu item")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) DeleteMenuItem(ctx context.Context, id int) (domain.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if _, err := s.conn.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id); err != nil {
		return domain.MenuItem{}, apperr.Internalf(err, "delete menu item")
	}
	return item, nil
}

// OrderStore -------------------------------------------------------------

func (s *Store) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return domain.Order{}, apperr.Internalf(err, "begin tx")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, customer_name, customer_phone, customer_email,
			total_amount, order_type, table_number, delivery_address, special_instructions,
			status, payment_status, estimated_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, o.ID, o.Number, o.CustomerName, o.CustomerPhone, o.CustomerEmail,
		o.TotalAmount, o.Type, o.TableNumber, o.DeliveryAddress, o.SpecialInstructions,
		o.Status, o.PaymentStatus, o.EstimatedTime, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return domain.Order{}, apperr.Internalf(err, "insert order")
	}
	for _, line := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, item_id, name, quantity, price, total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, o.ID, line.ItemID, line.Name, line.Quantity, line.Price, line.Total)
		if err != nil {
			return domain.Order{}, apperr.Internalf(err, "insert order item")
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, apperr.Internalf(err, "commit order")
	}
	return o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	tag, err := s.conn.Exec(ctx, `
		UPDATE orders
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1
	`, o.ID, o.Status, o.PaymentStatus, o.UpdatedAt)
	if err != nil {
		return domain.Order{}, apperr.Internalf(err, "update order")
	}
	if tag.RowsAffected() == 0 {
		return domain.Order{}, apperr.NotFoundf("order %s not found", o.ID)
	}
	return o, nil
}

const orderColumns = `id, order_number, customer_name, customer_phone, customer_email,
	total_amount, order_type, table_number, delivery_address, special_instructions,
	status, payment_status, estimated_time, created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.TotalAmount, &o.Type, &o.TableNumber, &o.DeliveryAddress, &o.SpecialInstructions,
		&o.Status, &o.PaymentStatus, &o.EstimatedTime, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (s *Store) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	o, err := scanOrder(s.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, apperr.NotFoundf("order %s not found", id)
	}
	if err != nil {
		return domain.Order{}, apperr.Internalf(err, "get order")
	}
	if err := s.loadItems(ctx, &o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.conn.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, apperr.Internalf(err, "list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperr.Internalf(err, "scan order")
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internalf(err, "list orders")
	}
	for i := range orders {
		if err := s.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Store) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := s.conn.Query(ctx, `
		SELECT item_id, name, quantity, price, total
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, o.ID)
	if err != nil {
		return apperr.Internalf(err, "load order items")
	}
	defer rows.Close()

	o.Items = o.Items[:0]
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ItemID, &line.Name, &line.Quantity, &line.Price, &line.Total); err != nil {
			return apperr.Internalf(err, "scan order item")
		}
		o.Items = append(o.Items, line)
	}
	return rows.Err()
}

// TableStore -------------------------------------------------------------

func (s *Store) CreateTable(ctx context.Context, t domain.Table) (domain.Table, error) {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO tables (number, seats, available) VALUES ($1, $2, $3)
		ON CONFLICT (number) DO NOTHING
		RETURNING id
	`, t.Number, t.Seats, t.Available).Scan(&t.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, apperr.Conflictf("table %s already exists", t.Number)
	}
	if err != nil {
		return domain.Table{}, apperr.Internalf(err, "insert table")
	}
	return t, nil
}

func (s *Store) UpdateTable(ctx context.Context, t domain.Table) (domain.Table, error) {
	tag, err := s.conn.Exec(ctx, `
		UPDATE tables SET seats = $2, available = $3 WHERE number = $1
	`, t.Number, t.Seats, t.Available)
	if err != nil {
		return domain.Table{}, apperr.Internalf(err, "update table")
	}
	if tag.RowsAffected() == 0 {
		return domain.Table{}, apperr.NotFoundf("table %s not found", t.Number)
	}
	return t, nil
}

func (s *Store) GetTableByNumber(ctx context.Context, number string) (domain.Table, error) {
	var t domain.Table
	err := s.conn.QueryRow(ctx, `
		SELECT id, number, seats, available FROM tables WHERE number = $1
	`, number).Scan(&t.ID, &t.Number, &t.Seats, &t.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, apperr.NotFoundf("table %s not found", number)
	}
	if err != nil {
		return domain.Table{}, apperr.Internalf(err, "get table")
	}
	return t, nil
}

func (s *Store) ListTables(ctx context.Context) ([]domain.Table, error) {
	rows, err := s.conn.Query(ctx, `SELECT id, number, seats, available FROM tables ORDER BY id`)
	if err != nil {
		return nil, apperr.Internalf(err, "list tables")
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Seats, &t.Available); err != nil {
			return nil, apperr.Internalf(err, "scan table")
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	tag, err := s.conn.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, role, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = $3 OR phone = $4)
	`, u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return domain.User{}, apperr.Internalf(err, "insert user")
	}
	if tag.RowsAffected() == 0 {
		return domain.User{}, apperr.Conflictf("user with this email or phone already exists")
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, err := s.scanUser(s.conn.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, role, created_at FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, apperr.NotFoundf("user %s not found", id)
	}
	if err != nil {
		return domain.User{}, apperr.Internalf(err, "get user")
	}
	return u, nil
}

func (s *Store) FindUserByEmailOrPhone(ctx context.Context, email, phone string) (domain.User, error) {
	u, err := s.scanUser(s.conn.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, role, created_at
		FROM users
		WHERE ($1 <> '' AND email = $1) OR ($2 <> '' AND phone = $2)
		LIMIT 1
	`, email, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return domain.User{}, apperr.Internalf(err, "find user")
	}
	return u, nil
}

func (s *Store) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}
