// Package menu implements catalog management and read operations.
package menu

import (
	"context"
	"strings"
	"sync"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage"
)

const (
	placeholderImage = "https://images.unsplash.com/photo-1551782450-17144efb9c50?w=400&h=300&fit=crop"
	defaultRating    = 4.0
)

type Service struct {
	store  storage.MenuStore
	orders storage.OrderStore
	// ordersLock serializes Delete with order creation; the active-order scan
	// must not run while an order referencing the item is mid-creation.
	ordersLock sync.Locker
	log        *logger.Logger
}

// New builds the catalog service. ordersLock is the order engine's lock
// (order.Service.Locker()); pass nil when no engine shares the store.
func New(store storage.MenuStore, orders storage.OrderStore, ordersLock sync.Locker, log *logger.Logger) *Service {
	if ordersLock == nil {
		ordersLock = nopLocker{}
	}
	if log == nil {
		log = logger.New("menu")
	}
	return &Service{store: store, orders: orders, ordersLock: ordersLock, log: log}
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

type Filter struct {
	Category   string
	Vegetarian bool
	Available  bool
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.MenuItem, error) {
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	filtered := items[:0]
	for _, item := range items {
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if f.Vegetarian && !item.Vegetarian {
			continue
		}
		if f.Available && !item.Available {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (s *Service) Get(ctx context.Context, id int) (domain.MenuItem, error) {
	return s.store.GetMenuItem(ctx, id)
}

// Categories returns the distinct category labels in catalog order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories, nil
}

// Search matches the query case-insensitively against name, description and
// category.
func (s *Service) Search(ctx context.Context, query string) ([]domain.MenuItem, error) {
	items, err := s.store.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	results := make([]domain.MenuItem, 0)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Description), q) ||
			strings.Contains(strings.ToLower(item.Category), q) {
			results = append(results, item)
		}
	}
	return results, nil
}

type AddParams struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
	Available   *bool
	Vegetarian  bool
	Spicy       bool
}

// Add creates a catalog entry with the next id and the standard defaults.
func (s *Service) Add(ctx context.Context, p AddParams) (domain.MenuItem, error) {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Category) == "" || p.Price <= 0 {
		return domain.MenuItem{}, apperr.Validationf("name, price, and category are required")
	}
	item := domain.MenuItem{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Available:   true,
		Vegetarian:  p.Vegetarian,
		Spicy:       p.Spicy,
		Rating:      defaultRating,
	}
	if item.Image == "" {
		item.Image = placeholderImage
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
	created, err := s.store.CreateMenuItem(ctx, item)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.log.Info("menu_item_added", map[string]any{"id": created.ID, "name": created.Name})
	return created, nil
}

type Patch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
	Available   *bool
	Vegetarian  *bool
	Spicy       *bool
	Rating      *float64
}

// Update merges the supplied fields into the existing record.
func (s *Service) Update(ctx context.Context, id int, p Patch) (domain.MenuItem, error) {
	item, err := s.store.GetMenuItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
	if p.Vegetarian != nil {
		item.Vegetarian = *p.Vegetarian
	}
	if p.Spicy != nil {
		item.Spicy = *p.Spicy
	}
	if p.Rating != nil {
		item.Rating = *p.Rating
	}
	return s.store.UpdateMenuItem(ctx, item)
}

// Delete removes a catalog entry unless it appears in an order that is not
// completed or cancelled.
func (s *Service) Delete(ctx context.Context, id int) (domain.MenuItem, error) {
	s.ordersLock.Lock()
	defer s.ordersLock.Unlock()

	if _, err := s.store.GetMenuItem(ctx, id); err != nil {
		return domain.MenuItem{}, err
	}
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return domain.MenuItem{}, err
	}
	for _, o := range orders {
		if o.Status.Terminal() {
			continue
		}
		for _, line := range o.Items {
			if line.ItemID == id {
				return domain.MenuItem{}, apperr.Conflictf("cannot delete menu item that is in active orders")
			}
		}
	}
	deleted, err := s.store.DeleteMenuItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.log.Info("menu_item_deleted", map[string]any{"id": id})
	return deleted, nil
}
