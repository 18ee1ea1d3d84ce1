// Package storage defines per-entity store interfaces so persistence backends
// can be swapped without touching the services.
package storage

import (
	"context"

	"restaurant-ordering/internal/domain"
)

// MenuStore persists catalog entries. CreateMenuItem assigns the next integer
// id from a store-owned counter.
type MenuStore interface {
	CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (domain.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int) (domain.MenuItem, error)
}

// OrderStore persists orders with their line-item snapshots.
type OrderStore interface {
	CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	UpdateOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// TableStore persists the table registry. Tables are addressed by their
// human-readable number.
type TableStore interface {
	CreateTable(ctx context.Context, t domain.Table) (domain.Table, error)
	UpdateTable(ctx context.Context, t domain.Table) (domain.Table, error)
	GetTableByNumber(ctx context.Context, number string) (domain.Table, error)
	ListTables(ctx context.Context) ([]domain.Table, error)
}

// UserStore persists user accounts. FindUserByEmailOrPhone matches either
// field and backs the email+phone uniqueness check.
type UserStore interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	FindUserByEmailOrPhone(ctx context.Context, email, phone string) (domain.User, error)
}
