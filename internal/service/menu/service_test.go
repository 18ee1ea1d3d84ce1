package menu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/service/order"
	"restaurant-ordering/internal/storage/memory"
)

func newFixture(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, memory.Seed(store))
	return New(store, store, nil, nil), store
}

func TestListFilters(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 8)

	mains, err := svc.List(ctx, Filter{Category: "Main Course"})
	require.NoError(t, err)
	for _, item := range mains {
		assert.Equal(t, "Main Course", item.Category)
	}
	assert.NotEmpty(t, mains)

	veg, err := svc.List(ctx, Filter{Vegetarian: true})
	require.NoError(t, err)
	for _, item := range veg {
		assert.True(t, item.Vegetarian)
	}
	assert.NotEmpty(t, veg)
}

func TestCategoriesKeepCatalogOrder(t *testing.T) {
	svc, _ := newFixture(t)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, categories)
	seen := make(map[string]bool)
	for _, c := range categories {
		assert.False(t, seen[c], "category %s repeated", c)
		seen[c] = true
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	results, err := svc.Search(ctx, "BIRYANI")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	none, err := svc.Search(ctx, "sushi")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAddAppliesDefaults(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	created, err := svc.Add(ctx, AddParams{Name: "Chai", Price: 150, Category: "Drinks"})
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)
	assert.True(t, created.Available)
	assert.Equal(t, defaultRating, created.Rating)
	assert.Equal(t, placeholderImage, created.Image)

	hidden := false
	created, err = svc.Add(ctx, AddParams{Name: "Special", Price: 900, Category: "Main Course", Available: &hidden})
	require.NoError(t, err)
	assert.False(t, created.Available)

	_, err = svc.Add(ctx, AddParams{Name: "", Price: 100, Category: "Drinks"})
	assert.True(t, apperr.Is(err, apperr.Validation))
	_, err = svc.Add(ctx, AddParams{Name: "Free", Price: 0, Category: "Drinks"})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestUpdateMergesOnlySuppliedFields(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	before, err := svc.Get(ctx, 1)
	require.NoError(t, err)

	price := 2000.0
	updated, err := svc.Update(ctx, 1, Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.Price)
	assert.Equal(t, before.Name, updated.Name)
	assert.Equal(t, before.Category, updated.Category)

	_, err = svc.Update(ctx, 999, Patch{Price: &price})
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestDeleteBlockedByActiveOrder(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	o, err := store.CreateOrder(ctx, domain.Order{
		Number:        "ORD000001",
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []domain.OrderLine{{ItemID: 1, Name: "x", Quantity: 1, Price: 1800, Total: 1800}},
		TotalAmount:   1800,
		Type:          domain.DineIn,
		Status:        domain.StatusPreparing,
		PaymentStatus: domain.PaymentPending,
	})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, 1)
	assert.True(t, apperr.Is(err, apperr.Conflict))

	o.Status = domain.StatusCompleted
	_, err = store.UpdateOrder(ctx, o)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted.ID)

	_, err = svc.Get(ctx, 1)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

// gateOrderStore parks CreateOrder between the engine's item resolution and
// the persist so the test controls when the order lands.
type gateOrderStore struct {
	*memory.Store
	entered chan struct{}
	release chan struct{}
}

func (g *gateOrderStore) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	close(g.entered)
	<-g.release
	return g.Store.CreateOrder(ctx, o)
}

func TestDeleteWaitsForInFlightOrderCreation(t *testing.T) {
	store := memory.New()
	require.NoError(t, memory.Seed(store))
	gate := &gateOrderStore{Store: store, entered: make(chan struct{}), release: make(chan struct{})}
	engine := order.New(store, gate, store, nil, nil)
	svc := New(store, gate, engine.Locker(), nil)
	ctx := context.Background()

	createErr := make(chan error, 1)
	go func() {
		_, err := engine.Create(ctx, order.CreateParams{
			CustomerName:  "Amina",
			CustomerPhone: "0712",
			Items:         []order.LineParams{{ItemID: 1, Quantity: 1}},
		})
		createErr <- err
	}()
	<-gate.entered

	deleteErr := make(chan error, 1)
	go func() {
		_, err := svc.Delete(ctx, 1)
		deleteErr <- err
	}()

	// The delete must block while the order referencing item 1 is mid-creation.
	select {
	case err := <-deleteErr:
		t.Fatalf("delete finished during order creation: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(gate.release)
	require.NoError(t, <-createErr)
	assert.True(t, apperr.Is(<-deleteErr, apperr.Conflict))

	// The persisted order's item is still in the catalog.
	_, err := svc.Get(ctx, 1)
	require.NoError(t, err)
}
