package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/balcao/backend/models"
	"github.com/balcao/backend/repository"
	"github.com/balcao/backend/repository/memory"
)

var march15 = time.Date(2031, 3, 15, 0, 0, 0, 0, time.Local)

func seedSales(t *testing.T, repos repository.Repositories, lines ...models.Sale) {
	t.Helper()
	_, err := repos.Sales.InsertLines(context.Background(), lines)
	require.NoError(t, err)
}

func TestSales_Totals(t *testing.T) {
	repos := memory.New().Repositories()
	seedSales(t, repos,
		models.Sale{SaleID: "s1", Timestamp: march15.Add(10 * time.Hour), ProductName: "A", UnitPrice: 10, Quantity: 2, Subtotal: 20, PaymentMethod: "pix"},
		models.Sale{SaleID: "s1", Timestamp: march15.Add(10 * time.Hour), ProductName: "B", SupplierName: "Sul", UnitPrice: 30, UnitCost: 20, Quantity: 1, Subtotal: 30, PaymentMethod: "pix"},
	)

	report, err := NewAggregator(repos, zap.NewNop()).Sales(context.Background(), FilterSpec{DateFrom: march15, DateTo: march15})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Footer.RowCount)
	assert.InDelta(t, 50.0, report.Footer.SumRevenue, 1e-9)
	assert.InDelta(t, 20.0, report.Footer.SumCost, 1e-9)
	assert.InDelta(t, 30.0, report.Footer.Profit, 1e-9)
	assert.Equal(t, NotAvailable, report.Rows[0].Supplier)
	assert.Equal(t, NotAvailable, report.Rows[0].Customer)
	assert.InDelta(t, 10.0, report.Rows[1].Profit, 1e-9)
	assert.Len(t, report.ToRows(), 2)
	assert.Zero(t, report.Skipped)
}

func TestSales_DateBoundsAreWholeDays(t *testing.T) {
	repos := memory.New().Repositories()
	seedSales(t, repos,
		models.Sale{Timestamp: march15, ProductName: "first instant", Quantity: 1},
		models.Sale{Timestamp: march15.AddDate(0, 0, 1).Add(-time.Millisecond), ProductName: "last instant", Quantity: 1},
		models.Sale{Timestamp: march15.AddDate(0, 0, 1), ProductName: "next day", Quantity: 1},
		models.Sale{Timestamp: march15.Add(-time.Millisecond), ProductName: "day before", Quantity: 1},
	)

	report, err := NewAggregator(repos, nil).Sales(context.Background(), FilterSpec{DateFrom: march15.Add(15 * time.Hour), DateTo: march15})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "first instant", report.Rows[0].Product)
	assert.Equal(t, "last instant", report.Rows[1].Product)
}

func TestSales_Filters(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	_, err := repos.Customers.Insert(ctx, &models.Customer{Name: "Maria Souza", Document: "111"})
	require.NoError(t, err)
	seedSales(t, repos,
		models.Sale{Timestamp: march15, CustomerDocument: "111", ProductName: "Arroz Tipo 1", SupplierName: "Camil", PaymentMethod: "Dinheiro", Quantity: 1, Subtotal: 5},
		models.Sale{Timestamp: march15, CustomerDocument: "999", ProductName: "Feijao", SupplierName: "Kicaldo", PaymentMethod: "Pix", Quantity: 1, Subtotal: 7},
	)
	agg := NewAggregator(repos, nil)

	tests := []struct {
		name   string
		filter FilterSpec
		want   []string
	}{
		{"no filter", FilterSpec{}, []string{"Arroz Tipo 1", "Feijao"}},
		{"customer", FilterSpec{Customer: "maria"}, []string{"Arroz Tipo 1"}},
		{"unknown customer is N/A", FilterSpec{Customer: "n/a"}, []string{"Feijao"}},
		{"product", FilterSpec{Product: "TIPO"}, []string{"Arroz Tipo 1"}},
		{"supplier", FilterSpec{Supplier: "kical"}, []string{"Feijao"}},
		{"payment", FilterSpec{PaymentMethod: "din"}, []string{"Arroz Tipo 1"}},
		{"venue does not apply", FilterSpec{Venue: "quadra"}, []string{"Arroz Tipo 1", "Feijao"}},
		{"nothing matches", FilterSpec{Product: "cafe"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := agg.Sales(ctx, tt.filter)
			require.NoError(t, err)
			var got []string
			for _, r := range report.Rows {
				got = append(got, r.Product)
			}
			assert.ElementsMatch(t, tt.want, got)
			assert.Equal(t, len(tt.want), report.Footer.RowCount)
		})
	}
}

func TestSales_CountsUnreadableRecords(t *testing.T) {
	repos := memory.New().Repositories()
	seedSales(t, repos,
		models.Sale{Timestamp: march15, ProductName: "A", Quantity: 1, Subtotal: 3},
		models.Sale{ProductName: "broken"},
	)

	report, err := NewAggregator(repos, nil).Sales(context.Background(), FilterSpec{})
	require.NoError(t, err)
	assert.Len(t, report.Rows, 1)
	assert.Equal(t, 1, report.Skipped)
}

func seedReservation(t *testing.T, repos repository.Repositories, r models.Reservation) {
	t.Helper()
	_, err := repos.Reservations.Insert(context.Background(), &r)
	require.NoError(t, err)
}

func TestReservations_VenueRowAndItems(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	customerID, err := repos.Customers.Insert(ctx, &models.Customer{Name: "Joao", Document: "1"})
	require.NoError(t, err)
	supplierID, err := repos.Suppliers.Insert(ctx, &models.Supplier{Name: "Ambev"})
	require.NoError(t, err)
	productID, err := repos.Products.Insert(ctx, &models.Product{Code: "C", Name: "Cerveja", SupplierID: supplierID.Hex()})
	require.NoError(t, err)

	seedReservation(t, repos, models.Reservation{
		VenueName: "Quadra Society", Date: march15, HourStart: "14:00", HourEnd: "15:30",
		CustomerID: customerID.Hex(), PaymentMethod: "Pix", VenueCharge: 120,
		ConsumedItems: []models.ConsumedItem{
			{ProductID: productID.Hex(), Name: "Cerveja", Quantity: 2, UnitSalePrice: 8, UnitCostPrice: 4},
			{ProductID: "gone", Name: "Gelo", SupplierName: "Polar", Quantity: 1, UnitSalePrice: 5},
		},
	})
	seedReservation(t, repos, models.Reservation{
		VenueName: "Quadra Areia", Date: march15.AddDate(0, 0, 1), HourStart: "08:00", HourEnd: "09:00",
		CustomerID: "missing", VenueCharge: 0,
	})

	agg := NewAggregator(repos, nil)
	report, err := agg.Reservations(ctx, FilterSpec{})
	require.NoError(t, err)

	require.Len(t, report.Rows, 3)
	venueRow := report.Rows[0]
	assert.Equal(t, VenueProduct, venueRow.Product)
	assert.Equal(t, 1, venueRow.Quantity)
	assert.InDelta(t, 120.0, venueRow.UnitPrice, 1e-9)
	assert.Zero(t, venueRow.UnitCost)
	assert.Equal(t, "Joao", venueRow.Customer)

	assert.Equal(t, "Ambev", report.Rows[1].Supplier)
	assert.InDelta(t, 16.0, report.Rows[1].LineRevenue, 1e-9)
	assert.InDelta(t, 8.0, report.Rows[1].LineCost, 1e-9)
	assert.Equal(t, "Polar", report.Rows[2].Supplier)

	assert.InDelta(t, 141.0, report.Footer.SumRevenue, 1e-9)
	assert.InDelta(t, 8.0, report.Footer.SumCost, 1e-9)
	assert.InDelta(t, 133.0, report.Footer.Profit, 1e-9)

	byProduct, err := agg.Reservations(ctx, FilterSpec{Product: "gelo"})
	require.NoError(t, err)
	require.Len(t, byProduct.Rows, 2)
	assert.Equal(t, VenueProduct, byProduct.Rows[0].Product)
	assert.Equal(t, "Gelo", byProduct.Rows[1].Product)

	byVenue, err := agg.Reservations(ctx, FilterSpec{Venue: "areia"})
	require.NoError(t, err)
	assert.Empty(t, byVenue.Rows)

	byPayment, err := agg.Reservations(ctx, FilterSpec{PaymentMethod: "dinheiro"})
	require.NoError(t, err)
	assert.Empty(t, byPayment.Rows)
}

func TestReservations_SkipsUnreadable(t *testing.T) {
	repos := memory.New().Repositories()
	seedReservation(t, repos, models.Reservation{VenueName: "Q", Date: march15, HourStart: "25:00", HourEnd: "26:00", VenueCharge: 10})
	seedReservation(t, repos, models.Reservation{VenueName: "Q", HourStart: "10:00", HourEnd: "11:00", VenueCharge: 10})
	seedReservation(t, repos, models.Reservation{VenueName: "Q", Date: march15, HourStart: "10:00", HourEnd: "11:00", VenueCharge: 10})

	report, err := NewAggregator(repos, nil).Reservations(context.Background(), FilterSpec{})
	require.NoError(t, err)
	assert.Len(t, report.Rows, 1)
	assert.Equal(t, 2, report.Skipped)
}

func TestTable(t *testing.T) {
	repos := memory.New().Repositories()
	seedReservation(t, repos, models.Reservation{VenueName: "Q", Date: march15, HourStart: "10:00", HourEnd: "11:00", VenueCharge: 50})

	report, err := NewAggregator(repos, nil).Reservations(context.Background(), FilterSpec{})
	require.NoError(t, err)
	table := report.Table()

	require.Len(t, table.Rows, 1)
	assert.Equal(t, len(table.Columns), len(table.Rows[0]))
	assert.Equal(t, "Venue", table.Columns[1])
	assert.Equal(t, "Q", table.Rows[0][1])
	assert.Equal(t, 1, table.Rows[0][6])
	assert.Equal(t, 50.0, table.Rows[0][10])

	sales := (&Report{Kind: KindSales, Rows: []Row{{Product: "A"}}}).Table()
	assert.Equal(t, len(sales.Columns), len(sales.Rows[0]))
	assert.Equal(t, "Customer", sales.Columns[1])
}
