package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage/memory"
)

func TestSnapshotEmpty(t *testing.T) {
	store := memory.New()
	require.NoError(t, memory.Seed(store))
	svc := New(store, store, store)

	st, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalOrders)
	assert.Equal(t, 0.0, st.TotalRevenue)
	assert.Equal(t, 0.0, st.AverageOrderValue)
	assert.Equal(t, 5, st.TotalTables)
	assert.Equal(t, 5, st.AvailableTables)
	assert.Empty(t, st.PopularCategories)
}

func TestSnapshotCountsAndRevenue(t *testing.T) {
	store := memory.New()
	require.NoError(t, memory.Seed(store))
	svc := New(store, store, store)
	ctx := context.Background()

	now := time.Now().UTC()
	yesterday := now.Add(-48 * time.Hour)
	seed := []domain.Order{
		{Number: "ORD000001", CustomerName: "A", CustomerPhone: "1", TotalAmount: 1000, Status: domain.StatusPending, CreatedAt: now,
			Items: []domain.OrderLine{{ItemID: 1, Quantity: 2}}},
		{Number: "ORD000002", CustomerName: "B", CustomerPhone: "2", TotalAmount: 2000, Status: domain.StatusPreparing, CreatedAt: now,
			Items: []domain.OrderLine{{ItemID: 2, Quantity: 1}}},
		{Number: "ORD000003", CustomerName: "C", CustomerPhone: "3", TotalAmount: 3000, Status: domain.StatusReady, CreatedAt: yesterday,
			Items: []domain.OrderLine{{ItemID: 1, Quantity: 1}}},
		{Number: "ORD000004", CustomerName: "D", CustomerPhone: "4", TotalAmount: 2000, Status: domain.StatusCompleted, CreatedAt: yesterday,
			Items: []domain.OrderLine{{ItemID: 7, Quantity: 1}}},
	}
	for _, o := range seed {
		o.Type = domain.DineIn
		o.PaymentStatus = domain.PaymentPending
		_, err := store.CreateOrder(ctx, o)
		require.NoError(t, err)
	}

	st, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, st.TotalOrders)
	assert.Equal(t, 1, st.PendingOrders)
	assert.Equal(t, 1, st.PreparingOrders)
	assert.Equal(t, 1, st.ReadyOrders)
	assert.Equal(t, 2, st.TodayOrders)
	assert.Equal(t, 8000.0, st.TotalRevenue)
	assert.Equal(t, 2000.0, st.AverageOrderValue)

	// Item 1 is Main Course (qty 3), item 2 and 7 are Italian (qty 2).
	require.Len(t, st.PopularCategories, 2)
	assert.Equal(t, domain.CategoryCount{Category: "Main Course", Count: 3}, st.PopularCategories[0])
	assert.Equal(t, domain.CategoryCount{Category: "Italian", Count: 2}, st.PopularCategories[1])
}

func TestTodayOrdersExcludesFutureDates(t *testing.T) {
	store := memory.New()
	require.NoError(t, memory.Seed(store))
	svc := New(store, store, store)
	ctx := context.Background()

	now := time.Now().UTC()
	for i, created := range []time.Time{now, now.Add(48 * time.Hour)} {
		_, err := store.CreateOrder(ctx, domain.Order{
			Number: fmt.Sprintf("ORD%06d", i+1), CustomerName: "A", CustomerPhone: "1",
			Type: domain.DineIn, Status: domain.StatusPending, PaymentStatus: domain.PaymentPending,
			TotalAmount: 1000, CreatedAt: created,
		})
		require.NoError(t, err)
	}

	st, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalOrders)
	assert.Equal(t, 1, st.TodayOrders)
}

func TestPopularCategoriesSkipsDeletedItemsAndCapsAtFive(t *testing.T) {
	store := memory.New()
	require.NoError(t, memory.Seed(store))
	svc := New(store, store, store)
	ctx := context.Background()

	// One line per distinct category, plus a line for an id not in the catalog.
	lines := []domain.OrderLine{
		{ItemID: 1, Quantity: 7}, // Main Course
		{ItemID: 2, Quantity: 6}, // Italian
		{ItemID: 3, Quantity: 5}, // Fast Food
		{ItemID: 4, Quantity: 4}, // Salads
		{ItemID: 5, Quantity: 3}, // Desserts
		{ItemID: 6, Quantity: 2}, // Grills
		{ItemID: 99, Quantity: 50},
	}
	_, err := store.CreateOrder(ctx, domain.Order{
		Number: "ORD000001", CustomerName: "A", CustomerPhone: "1",
		Type: domain.DineIn, Status: domain.StatusPending, PaymentStatus: domain.PaymentPending,
		Items: lines, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	st, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, st.PopularCategories, 5)
	assert.Equal(t, "Main Course", st.PopularCategories[0].Category)
	assert.Equal(t, "Desserts", st.PopularCategories[4].Category)
	for _, c := range st.PopularCategories {
		assert.NotEqual(t, "Grills", c.Category)
	}
}
