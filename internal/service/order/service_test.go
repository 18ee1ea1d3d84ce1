package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/storage/memory"
)

func newFixture(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	_, err := store.CreateMenuItem(ctx, domain.MenuItem{Name: "Chicken Biryani", Price: 1800, Category: "Main Course", Available: true})
	require.NoError(t, err)
	_, err = store.CreateMenuItem(ctx, domain.MenuItem{Name: "Mango Lassi", Price: 500, Category: "Drinks", Available: false})
	require.NoError(t, err)

	for _, tbl := range []domain.Table{
		{Number: "T01", Seats: 2, Available: true},
		{Number: "T02", Seats: 4, Available: true},
	} {
		_, err := store.CreateTable(ctx, tbl)
		require.NoError(t, err)
	}
	return New(store, store, store, nil, nil), store
}

func TestCreateComputesTotalAndSnapshotsPrices(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712345678",
		Items:         []LineParams{{ItemID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3600.0, o.TotalAmount)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
	assert.Equal(t, EstimatedMinutes, o.EstimatedTime)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 1800.0, o.Items[0].Price)
	assert.Equal(t, 3600.0, o.Items[0].Total)

	// A later price change must not affect the persisted order.
	item, err := store.GetMenuItem(ctx, 1)
	require.NoError(t, err)
	item.Price = 9999
	_, err = store.UpdateMenuItem(ctx, item)
	require.NoError(t, err)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 3600.0, got.TotalAmount)
	assert.Equal(t, 1800.0, got.Items[0].Price)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	cases := []CreateParams{
		{CustomerPhone: "0712", Items: []LineParams{{ItemID: 1, Quantity: 1}}},
		{CustomerName: "Amina", Items: []LineParams{{ItemID: 1, Quantity: 1}}},
		{CustomerName: "Amina", CustomerPhone: "0712"},
	}
	for _, p := range cases {
		_, err := svc.Create(ctx, p)
		assert.True(t, apperr.Is(err, apperr.Validation), "params %+v", p)
	}

	orders, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateUnknownItemFailsWithoutPersisting(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 1, Quantity: 1}, {ItemID: 99, Quantity: 1}},
	})
	assert.True(t, apperr.Is(err, apperr.NotFound))

	orders, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateUnavailableItemFailsWithoutPersisting(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 2, Quantity: 1}},
	})
	assert.True(t, apperr.Is(err, apperr.Unavailable))

	orders, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateDineInReservesTable(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 1, Quantity: 1}},
		OrderType:     "dine-in",
		TableNumber:   "T02",
	})
	require.NoError(t, err)
	require.NotNil(t, o.TableNumber)
	assert.Equal(t, "T02", *o.TableNumber)

	tbl, err := store.GetTableByNumber(ctx, "T02")
	require.NoError(t, err)
	assert.False(t, tbl.Available)

	// Cancelling frees the table again.
	_, err = svc.UpdateStatus(ctx, o.ID, domain.StatusCancelled)
	require.NoError(t, err)
	tbl, err = store.GetTableByNumber(ctx, "T02")
	require.NoError(t, err)
	assert.True(t, tbl.Available)
}

func TestCreateDineInUnknownTableFails(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 1, Quantity: 1}},
		OrderType:     "dine-in",
		TableNumber:   "T99",
	})
	assert.True(t, apperr.Is(err, apperr.NotFound))

	orders, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateDefaultsToDineInAndRejectsBadType(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DineIn, o.Type)
	assert.Nil(t, o.TableNumber)

	_, err = svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 1, Quantity: 1}},
		OrderType:     "drive-through",
	})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 1, Quantity: 0}},
	})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "whatever", "burnt")
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, err = svc.UpdateStatus(ctx, "missing-id", domain.StatusConfirmed)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestNonTerminalStatusKeepsTableReserved(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 1, Quantity: 1}},
		OrderType:     "dine-in",
		TableNumber:   "T01",
	})
	require.NoError(t, err)

	for _, status := range []domain.OrderStatus{
		domain.StatusConfirmed, domain.StatusPreparing, domain.StatusReady, domain.StatusDelivered,
	} {
		_, err := svc.UpdateStatus(ctx, o.ID, status)
		require.NoError(t, err)
		tbl, err := store.GetTableByNumber(ctx, "T01")
		require.NoError(t, err)
		assert.False(t, tbl.Available, "status %s must keep the table reserved", status)
	}

	_, err = svc.UpdateStatus(ctx, o.ID, domain.StatusCompleted)
	require.NoError(t, err)
	tbl, err := store.GetTableByNumber(ctx, "T01")
	require.NoError(t, err)
	assert.True(t, tbl.Available)
}

func TestUpdatePaymentIndependentOfStatus(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateParams{
		CustomerName:  "Amina",
		CustomerPhone: "0712",
		Items:         []LineParams{{ItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, o.ID, domain.StatusCancelled)
	require.NoError(t, err)

	updated, err := svc.UpdatePayment(ctx, o.ID, domain.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	_, err = svc.UpdatePayment(ctx, o.ID, "store-credit")
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestListFiltersAndSortsNewestFirst(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateParams{
		CustomerName: "Amina", CustomerPhone: "0712345678",
		Items: []LineParams{{ItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateParams{
		CustomerName: "Brian", CustomerPhone: "0799000111",
		Items: []LineParams{{ItemID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].CreatedAt.Before(all[1].CreatedAt))

	byPhone, err := svc.List(ctx, Filter{Phone: "0712"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, first.ID, byPhone[0].ID)

	_, err = svc.UpdateStatus(ctx, second.ID, domain.StatusPreparing)
	require.NoError(t, err)
	preparing, err := svc.List(ctx, Filter{Status: "preparing"})
	require.NoError(t, err)
	require.Len(t, preparing, 1)
	assert.Equal(t, second.ID, preparing[0].ID)
}

func TestListForCustomerMatchesPhoneOrEmail(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{
		CustomerName: "Amina", CustomerPhone: "0712345678", CustomerEmail: "amina@example.com",
		Items: []LineParams{{ItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{
		CustomerName: "Brian", CustomerPhone: "0799000111",
		Items: []LineParams{{ItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	orders, err := svc.ListForCustomer(ctx, "0712345678", "other@example.com")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = svc.ListForCustomer(ctx, "none", "amina@example.com")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
