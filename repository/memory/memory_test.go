package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
)

func TestProducts_UniqueCodeAndStockRules(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	id, err := repos.Products.Insert(ctx, &models.Product{Code: "A", Name: "Arroz", Stock: 5})
	require.NoError(t, err)

	_, err = repos.Products.Insert(ctx, &models.Product{Code: "A", Name: "Other"})
	var dup *apperr.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "code", dup.Field)
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)

	ok, err := repos.Products.AdjustStock(ctx, id, -6)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repos.Products.AdjustStock(ctx, id, -5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Products.CompareAndSetStock(ctx, id, 3, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repos.Products.CompareAndSetStock(ctx, id, 0, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := repos.Products.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
}

func TestProducts_UpdateKeepsStock(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	p := &models.Product{Code: "A", Name: "Arroz", Stock: 7}
	_, err := repos.Products.Insert(ctx, p)
	require.NoError(t, err)

	edited := *p
	edited.Name = "Arroz integral"
	edited.Stock = 999
	ok, err := repos.Products.Update(ctx, &edited)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repos.Products.FindByCode(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Arroz integral", got.Name)
	assert.Equal(t, 7, got.Stock)
}

func TestProducts_Queries(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	today := time.Date(2031, 3, 15, 10, 0, 0, 0, time.Local)

	for _, p := range []models.Product{
		{Code: "A", Name: "A", Stock: 1, StockMin: 5, ValidityDate: "14/03/2031"},
		{Code: "B", Name: "B", Stock: 10, StockMin: 5, ValidityDate: "15/03/2031"},
		{Code: "C", Name: "C", Stock: 3, StockMin: 2},
	} {
		p := p
		_, err := repos.Products.Insert(ctx, &p)
		require.NoError(t, err)
	}

	below, err := repos.Products.StockBelow(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, below, 2)

	under, err := repos.Products.BelowMinimum(ctx)
	require.NoError(t, err)
	require.Len(t, under, 1)
	assert.Equal(t, "A", under[0].Code)

	expired, err := repos.Products.ExpiredAsOf(ctx, today)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "A", expired[0].Code)

	missing, err := repos.Products.FindByCode(ctx, "Z")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCustomers_AppendPurchaseIsIsolated(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	c := &models.Customer{Name: "Ana", Document: "123"}
	id, err := repos.Customers.Insert(ctx, c)
	require.NoError(t, err)

	_, err = repos.Customers.Insert(ctx, &models.Customer{Name: "Bia", Document: "123"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)

	ok, err := repos.Customers.AppendPurchase(ctx, id, models.PurchaseEntry{SaleID: "s1", Total: 10})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repos.Customers.FindByDocument(ctx, "123")
	require.NoError(t, err)
	require.Len(t, got.PurchaseHistory, 1)

	got.PurchaseHistory[0].Total = 0
	again, err := repos.Customers.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.PurchaseHistory[0].Total)

	again.PurchaseHistory = nil
	ok, err = repos.Customers.Update(ctx, again)
	require.NoError(t, err)
	require.True(t, ok)
	kept, err := repos.Customers.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, kept.PurchaseHistory, 1)
}

func TestSales_RangeAndLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	day := time.Date(2031, 3, 15, 12, 0, 0, 0, time.Local)

	ids, err := repos.Sales.InsertLines(ctx, []models.Sale{
		{SaleID: "s1", Timestamp: day, ProductCode: "A", Quantity: 2},
		{SaleID: "s1", Timestamp: day, ProductCode: "B", Quantity: 1},
		{SaleID: "s2", Timestamp: day.AddDate(0, 0, 2), ProductCode: "A", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	lines, err := repos.Sales.InRange(ctx, day.Add(-time.Hour), day.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	all, err := repos.Sales.InRange(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ok, err := repos.Sales.MarkStockRestored(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	basket, err := repos.Sales.BySaleID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, basket, 2)
	assert.True(t, basket[0].StockRestored)

	n, err := repos.Sales.DeleteBySaleID(ctx, "s1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repos.Sales.DeleteBySaleID(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReservations_KeyAndDay(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	day := time.Date(2031, 3, 15, 0, 0, 0, 0, time.Local)

	for _, r := range []models.Reservation{
		{VenueID: "v1", Date: day, HourStart: "16:00", HourEnd: "17:00"},
		{VenueID: "v1", Date: day, HourStart: "14:00", HourEnd: "15:30"},
		{VenueID: "v1", Date: day.AddDate(0, 0, 1), HourStart: "14:00", HourEnd: "15:30"},
		{VenueID: "v2", Date: day, HourStart: "14:00", HourEnd: "15:30"},
	} {
		r := r
		_, err := repos.Reservations.Insert(ctx, &r)
		require.NoError(t, err)
	}

	sameDay, err := repos.Reservations.ForVenueDate(ctx, "v1", day.Add(13*time.Hour))
	require.NoError(t, err)
	require.Len(t, sameDay, 2)
	assert.Equal(t, "14:00", sameDay[0].HourStart)

	found, err := repos.Reservations.FindByKey(ctx, models.ReservationKey{VenueID: "v1", Date: day, HourStart: "14:00", HourEnd: "15:30"})
	require.NoError(t, err)
	require.NotNil(t, found)

	ok, err := repos.Reservations.Delete(ctx, found.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	gone, err := repos.Reservations.FindByKey(ctx, models.ReservationKey{VenueID: "v1", Date: day, HourStart: "14:00", HourEnd: "15:30"})
	require.NoError(t, err)
	assert.Nil(t, gone)
}
