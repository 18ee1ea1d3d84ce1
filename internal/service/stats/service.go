// Package stats derives read-only summaries from order, catalog and table
// state.
package stats

import (
	"context"
	"sort"
	"time"

	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage"
)

const topCategories = 5

type Service struct {
	orders storage.OrderStore
	menu   storage.MenuStore
	tables storage.TableStore
}

func New(orders storage.OrderStore, menu storage.MenuStore, tables storage.TableStore) *Service {
	return &Service{orders: orders, menu: menu, tables: tables}
}

// Snapshot computes the current statistics. It never fails on an empty data
// set; the average is zero when no orders exist.
func (s *Service) Snapshot(ctx context.Context) (domain.Stats, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	tables, err := s.tables.ListTables(ctx)
	if err != nil {
		return domain.Stats{}, err
	}

	var st domain.Stats
	st.TotalOrders = len(orders)
	st.TotalTables = len(tables)
	for _, t := range tables {
		if t.Available {
			st.AvailableTables++
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, o := range orders {
		switch o.Status {
		case domain.StatusPending:
			st.PendingOrders++
		case domain.StatusPreparing:
			st.PreparingOrders++
		case domain.StatusReady:
			st.ReadyOrders++
		}
		if o.CreatedAt.UTC().Truncate(24 * time.Hour).Equal(today) {
			st.TodayOrders++
		}
		st.TotalRevenue += o.TotalAmount
	}
	if len(orders) > 0 {
		st.AverageOrderValue = st.TotalRevenue / float64(len(orders))
	}

	categories, err := s.popularCategories(ctx, orders)
	if err != nil {
		return domain.Stats{}, err
	}
	st.PopularCategories = categories
	return st, nil
}

// popularCategories ranks categories by cumulative ordered quantity. Lines
// whose item no longer exists in the catalog are skipped. Ties keep
// first-seen order.
func (s *Service) popularCategories(ctx context.Context, orders []domain.Order) ([]domain.CategoryCount, error) {
	items, err := s.menu.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	categoryOf := make(map[int]string, len(items))
	for _, item := range items {
		categoryOf[item.ID] = item.Category
	}

	counts := make(map[string]int)
	ordered := make([]string, 0)
	for _, o := range orders {
		for _, line := range o.Items {
			category, ok := categoryOf[line.ItemID]
			if !ok {
				continue
			}
			if _, seen := counts[category]; !seen {
				ordered = append(ordered, category)
			}
			counts[category] += line.Quantity
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return counts[ordered[i]] > counts[ordered[j]]
	})
	if len(ordered) > topCategories {
		ordered = ordered[:topCategories]
	}
	result := make([]domain.CategoryCount, 0, len(ordered))
	for _, category := range ordered {
		result = append(result, domain.CategoryCount{Category: category, Count: counts[category]})
	}
	return result, nil
}
