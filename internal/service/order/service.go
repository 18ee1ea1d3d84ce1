// Package order implements the order engine: creation with catalog
// validation and price snapshotting, status and payment transitions, and the
// coupled table-availability side effects.
package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/metrics"
	"restaurant-ordering/internal/notify"
	"restaurant-ordering/internal/storage"
)

// EstimatedMinutes is the fixed preparation estimate attached to new orders.
const EstimatedMinutes = 30

type Service struct {
	menu   storage.MenuStore
	orders storage.OrderStore
	tables storage.TableStore
	events notify.Publisher
	log    *logger.Logger

	// mu serializes mutating operations so item resolution, order persistence
	// and table availability changes act as one unit.
	mu sync.Mutex
}

func New(menu storage.MenuStore, orders storage.OrderStore, tables storage.TableStore, events notify.Publisher, log *logger.Logger) *Service {
	if events == nil {
		events = notify.Nop{}
	}
	if log == nil {
		log = logger.New("order")
	}
	return &Service{menu: menu, orders: orders, tables: tables, events: events, log: log}
}

// Locker exposes the mutex guarding order creation. Catalog operations whose
// checks depend on order state take it so they cannot interleave with an
// in-flight creation.
func (s *Service) Locker() sync.Locker { return &s.mu }

type LineParams struct {
	ItemID   int
	Quantity int
}

type CreateParams struct {
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       string
	Items               []LineParams
	OrderType           string
	TableNumber         string
	DeliveryAddress     string
	SpecialInstructions string
}

// Create validates the request against the catalog, snapshots prices into
// line items and persists the order. For dine-in orders naming a table, the
// table is reserved as part of the same operation; an unknown table fails the
// whole creation.
func (s *Service) Create(ctx context.Context, p CreateParams) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(p.CustomerName) == "" || strings.TrimSpace(p.CustomerPhone) == "" || len(p.Items) == 0 {
		return domain.Order{}, apperr.Validationf("customer name, phone, and at least one item are required")
	}

	orderType := domain.OrderType(p.OrderType)
	if p.OrderType == "" {
		orderType = domain.DineIn
	}
	if !orderType.Valid() {
		return domain.Order{}, apperr.Validationf("invalid order type %q", p.OrderType)
	}

	lines := make([]domain.OrderLine, 0, len(p.Items))
	var total float64
	for _, req := range p.Items {
		if req.Quantity <= 0 {
			return domain.Order{}, apperr.Validationf("invalid quantity for menu item %d", req.ItemID)
		}
		item, err := s.menu.GetMenuItem(ctx, req.ItemID)
		if err != nil {
			if apperr.Is(err, apperr.NotFound) {
				return domain.Order{}, apperr.NotFoundf("menu item with ID %d not found", req.ItemID)
			}
			return domain.Order{}, err
		}
		if !item.Available {
			return domain.Order{}, apperr.Unavailablef("%s is not available", item.Name)
		}
		lineTotal := item.Price * float64(req.Quantity)
		lines = append(lines, domain.OrderLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: req.Quantity,
			Price:    item.Price,
			Total:    lineTotal,
		})
		total += lineTotal
	}

	var tableNumber *string
	var reserved *domain.Table
	if orderType == domain.DineIn && p.TableNumber != "" {
		table, err := s.tables.GetTableByNumber(ctx, p.TableNumber)
		if err != nil {
			return domain.Order{}, err
		}
		tableNumber = &table.Number
		table.Available = false
		if _, err := s.tables.UpdateTable(ctx, table); err != nil {
			return domain.Order{}, err
		}
		reserved = &table
	}

	var deliveryAddress *string
	if orderType == domain.Delivery && p.DeliveryAddress != "" {
		deliveryAddress = &p.DeliveryAddress
	}

	now := time.Now().UTC()
	o := domain.Order{
		Number:              newOrderNumber(now),
		CustomerName:        p.CustomerName,
		CustomerPhone:       p.CustomerPhone,
		CustomerEmail:       p.CustomerEmail,
		Items:               lines,
		TotalAmount:         total,
		Type:                orderType,
		TableNumber:         tableNumber,
		DeliveryAddress:     deliveryAddress,
		SpecialInstructions: p.SpecialInstructions,
		Status:              domain.StatusPending,
		PaymentStatus:       domain.PaymentPending,
		EstimatedTime:       EstimatedMinutes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.orders.CreateOrder(ctx, o)
	if err != nil {
		if reserved != nil {
			reserved.Available = true
			if _, ferr := s.tables.UpdateTable(ctx, *reserved); ferr != nil {
				s.log.Error("table_release_failed", ferr, map[string]any{"table": reserved.Number})
			}
		}
		return domain.Order{}, err
	}

	metrics.OrdersCreated.WithLabelValues(string(orderType)).Inc()
	s.log.Info("order_created", map[string]any{
		"order_number": created.Number,
		"order_type":   string(created.Type),
		"total_amount": created.TotalAmount,
	})
	s.events.OrderCreated(ctx, created)
	return created, nil
}

// newOrderNumber derives the display code from the last six digits of the
// creation time in milliseconds. Order identity is the uuid, not this code.
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD%06d", now.UnixMilli()%1_000_000)
}

// UpdateStatus moves the order to the target status. Any status can follow
// any other status. Entering completed or cancelled frees the order's table
// if it still exists.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		return domain.Order{}, apperr.Validationf("invalid status. Must be one of: %s", joinStatuses())
	}
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	previous := o.Status
	o.Status = status
	o.UpdatedAt = time.Now().UTC()

	updated, err := s.orders.UpdateOrder(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}

	if status.Terminal() && updated.TableNumber != nil {
		table, err := s.tables.GetTableByNumber(ctx, *updated.TableNumber)
		if err == nil {
			table.Available = true
			if _, err := s.tables.UpdateTable(ctx, table); err != nil {
				s.log.Error("table_release_failed", err, map[string]any{"table": table.Number})
			}
		}
	}

	s.log.Info("order_status_updated", map[string]any{
		"order_number": updated.Number,
		"from":         string(previous),
		"to":           string(status),
	})
	s.events.OrderStatusChanged(ctx, updated, previous)
	return updated, nil
}

// UpdatePayment sets the payment status. No linkage with order status is
// enforced.
func (s *Service) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		return domain.Order{}, apperr.Validationf("invalid payment status. Must be one of: %s", joinPaymentStatuses())
	}
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	o.PaymentStatus = status
	o.UpdatedAt = time.Now().UTC()
	return s.orders.UpdateOrder(ctx, o)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

type Filter struct {
	Status string
	Phone  string
}

// List returns orders newest-first, optionally filtered by exact status and
// phone substring.
func (s *Service) List(ctx context.Context, f Filter) ([]domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	filtered := orders[:0]
	for _, o := range orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.Phone != "" && !strings.Contains(o.CustomerPhone, f.Phone) {
			continue
		}
		filtered = append(filtered, o)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// ListForCustomer returns the orders placed with the given phone or email.
func (s *Service) ListForCustomer(ctx context.Context, phone, email string) ([]domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Order, 0)
	for _, o := range orders {
		if (phone != "" && o.CustomerPhone == phone) || (email != "" && o.CustomerEmail == email) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

func joinStatuses() string {
	parts := make([]string, len(domain.OrderStatuses))
	for i, s := range domain.OrderStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func joinPaymentStatuses() string {
	parts := make([]string, len(domain.PaymentStatuses))
	for i, s := range domain.PaymentStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
