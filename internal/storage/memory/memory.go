// Package memory is the default in-memory implementation of the storage
// interfaces. It is safe for concurrent use; state lives for the lifetime of
// the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	menu       map[int]domain.MenuItem
	menuNextID int

	orders   map[string]domain.Order
	orderIDs []string // insertion order, drives tie-breaking in read paths

	tables       map[string]domain.Table
	tablesNextID int

	users       map[string]domain.User
	userByEmail map[string]string
	userByPhone map[string]string
}

var _ storage.MenuStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.TableStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		menu:         make(map[int]domain.MenuItem),
		menuNextID:   1,
		orders:       make(map[string]domain.Order),
		tables:       make(map[string]domain.Table),
		tablesNextID: 1,
		users:        make(map[string]domain.User),
		userByEmail:  make(map[string]string),
		userByPhone:  make(map[string]string),
	}
}

// MenuStore --------------------------------------------------------------

func (s *Store) CreateMenuItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.menuNextID
	s.menuNextID++
	s.menu[item.ID] = item
	return item, nil
}

func (s *Store) UpdateMenuItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menu[item.ID]; !ok {
		return domain.MenuItem{}, apperr.NotFoundf("menu item %d not found", item.ID)
	}
	s.menu[item.ID] = item
	return item, nil
}

func (s *Store) GetMenuItem(_ context.Context, id int) (domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.menu[id]
	if !ok {
		return domain.MenuItem{}, apperr.NotFoundf("menu item %d not found", id)
	}
	return item, nil
}

func (s *Store) ListMenuItems(_ context.Context) ([]domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.MenuItem, 0, len(s.menu))
	for _, item := range s.menu {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id int) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.menu[id]
	if !ok {
		return domain.MenuItem{}, apperr.NotFoundf("menu item %d not found", id)
	}
	delete(s.menu, id)
	return item, nil
}

// OrderStore -------------------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if _, exists := s.orders[o.ID]; exists {
		return domain.Order{}, apperr.Conflictf("order %s already exists", o.ID)
	}
	o.Items = cloneLines(o.Items)
	s.orders[o.ID] = o
	s.orderIDs = append(s.orderIDs, o.ID)
	return cloneOrder(o), nil
}

func (s *Store) UpdateOrder(_ context.Context, o domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.orders[o.ID]
	if !ok {
		return domain.Order{}, apperr.NotFoundf("order %s not found", o.ID)
	}
	o.CreatedAt = original.CreatedAt
	o.Items = cloneLines(o.Items)
	s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) GetOrder(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, apperr.NotFoundf("order %s not found", id)
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		orders = append(orders, cloneOrder(s.orders[id]))
	}
	return orders, nil
}

// TableStore -------------------------------------------------------------

func (s *Store) CreateTable(_ context.Context, t domain.Table) (domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[t.Number]; exists {
		return domain.Table{}, apperr.Conflictf("table %s already exists", t.Number)
	}
	if t.ID == 0 {
		t.ID = s.tablesNextID
	}
	if t.ID >= s.tablesNextID {
		s.tablesNextID = t.ID + 1
	}
	s.tables[t.Number] = t
	return t, nil
}

func (s *Store) UpdateTable(_ context.Context, t domain.Table) (domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[t.Number]; !ok {
		return domain.Table{}, apperr.NotFoundf("table %s not found", t.Number)
	}
	s.tables[t.Number] = t
	return t, nil
}

func (s *Store) GetTableByNumber(_ context.Context, number string) (domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[number]
	if !ok {
		return domain.Table{}, apperr.NotFoundf("table %s not found", number)
	}
	return t, nil
}

func (s *Store) ListTables(_ context.Context) ([]domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tables := make([]domain.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].ID < tables[j].ID })
	return tables, nil
}

// UserStore --------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, taken := s.userByEmail[u.Email]; taken {
		return domain.User{}, apperr.Conflictf("user with this email or phone already exists")
	}
	if _, taken := s.userByPhone[u.Phone]; taken {
		return domain.User{}, apperr.Conflictf("user with this email or phone already exists")
	}
	s.users[u.ID] = u
	s.userByEmail[u.Email] = u.ID
	s.userByPhone[u.Phone] = u.ID
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return domain.User{}, apperr.NotFoundf("user %s not found", id)
	}
	return u, nil
}

func (s *Store) FindUserByEmailOrPhone(_ context.Context, email, phone string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if email != "" {
		if id, ok := s.userByEmail[email]; ok {
			return s.users[id], nil
		}
	}
	if phone != "" {
		if id, ok := s.userByPhone[phone]; ok {
			return s.users[id], nil
		}
	}
	return domain.User{}, apperr.NotFoundf("user not found")
}

// Clone helpers ----------------------------------------------------------

func cloneLines(lines []domain.OrderLine) []domain.OrderLine {
	if lines == nil {
		return nil
	}
	out := make([]domain.OrderLine, len(lines))
	copy(out, lines)
	return out
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = cloneLines(o.Items)
	if o.TableNumber != nil {
		n := *o.TableNumber
		o.TableNumber = &n
	}
	if o.DeliveryAddress != nil {
		a := *o.DeliveryAddress
		o.DeliveryAddress = &a
	}
	return o
}
