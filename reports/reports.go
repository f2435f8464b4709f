// Package reports joins sales and reservations to customers and suppliers
// and produces flat rows with cost, revenue and profit totals. It never
// writes.
package reports

import (
	"context"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/balcao/backend/pricing"
	"github.com/balcao/backend/repository"
)

const (
	// NotAvailable stands in for a customer or supplier that cannot be resolved.
	NotAvailable = "N/A"
	// VenueProduct names the synthetic row carrying a reservation's venue charge.
	VenueProduct = "VenueReservation"
)

type Kind string

const (
	KindSales        Kind = "sales"
	KindReservations Kind = "reservations"
)

type Row struct {
	Date          time.Time `json:"date"`
	Venue         string    `json:"venue,omitempty"`
	Customer      string    `json:"customer"`
	Supplier      string    `json:"supplier,omitempty"`
	Product       string    `json:"product"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Quantity      int       `json:"qty"`
	UnitCost      float64   `json:"unit_cost"`
	UnitPrice     float64   `json:"unit_price"`
	LineCost      float64   `json:"line_cost"`
	LineRevenue   float64   `json:"line_revenue"`
	Profit        float64   `json:"profit"`
}

type Footer struct {
	RowCount   int     `json:"row_count"`
	SumCost    float64 `json:"sum_cost"`
	SumRevenue float64 `json:"sum_revenue"`
	Profit     float64 `json:"profit"`
}

// Report is the outcome of one aggregation. Skipped counts stored records
// that could not be read and were left out.
type Report struct {
	Kind    Kind   `json:"kind"`
	Rows    []Row  `json:"rows"`
	Footer  Footer `json:"footer"`
	Skipped int    `json:"skipped"`
}

// ToRows hands the rows to an export writer.
func (r *Report) ToRows() []Row {
	return r.Rows
}

func (r *Report) add(row Row) {
	row.LineCost = float64(row.Quantity) * row.UnitCost
	row.Profit = row.LineRevenue - row.LineCost
	r.Rows = append(r.Rows, row)
}

func (r *Report) finish() {
	slices.SortStableFunc(r.Rows, func(a, b Row) int { return a.Date.Compare(b.Date) })
	f := Footer{RowCount: len(r.Rows)}
	for _, row := range r.Rows {
		f.SumCost += row.LineCost
		f.SumRevenue += row.LineRevenue
	}
	f.Profit = f.SumRevenue - f.SumCost
	r.Footer = f
}

type Aggregator struct {
	repos repository.Repositories
	log   *zap.Logger
}

func NewAggregator(repos repository.Repositories, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{repos: repos, log: log}
}

// Sales builds one row per stored sale line. Product and supplier come from
// the snapshots on the line; the customer is resolved by document. The venue
// filter does not apply to sales.
func (a *Aggregator) Sales(ctx context.Context, f FilterSpec) (*Report, error) {
	from, to := f.Bounds()
	lines, err := a.repos.Sales.InRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	names := newResolver(a.repos)
	report := &Report{Kind: KindSales, Rows: []Row{}}
	for _, l := range lines {
		if l.Timestamp.IsZero() {
			report.Skipped++
			continue
		}
		if !f.inRange(l.Timestamp) {
			continue
		}
		customer, err := names.customerByDocument(ctx, l.CustomerDocument)
		if err != nil {
			return nil, err
		}
		supplier := orNA(l.SupplierName)
		if !contains(customer, f.Customer) || !contains(l.ProductName, f.Product) ||
			!contains(supplier, f.Supplier) || !contains(l.PaymentMethod, f.PaymentMethod) {
			continue
		}
		report.add(Row{
			Date:          l.Timestamp,
			Customer:      customer,
			Supplier:      supplier,
			Product:       l.ProductName,
			PaymentMethod: l.PaymentMethod,
			Quantity:      l.Quantity,
			UnitCost:      l.UnitCost,
			UnitPrice:     l.UnitPrice,
			LineRevenue:   l.Subtotal,
		})
	}
	a.finish(report)
	return report, nil
}

// Reservations builds one row per consumed item plus a VenueReservation row
// for every reservation with a positive venue charge. The synthetic row
// ignores the product and supplier filters.
func (a *Aggregator) Reservations(ctx context.Context, f FilterSpec) (*Report, error) {
	from, to := f.Bounds()
	stored, err := a.repos.Reservations.InRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	names := newResolver(a.repos)
	report := &Report{Kind: KindReservations, Rows: []Row{}}
	for _, r := range stored {
		if r.Date.IsZero() {
			report.Skipped++
			continue
		}
		if _, err := pricing.ParseWindow(r.HourStart, r.HourEnd); err != nil {
			report.Skipped++
			continue
		}
		if !f.inRange(r.Date) {
			continue
		}
		customer, err := names.customerByID(ctx, r.CustomerID)
		if err != nil {
			return nil, err
		}
		if !contains(customer, f.Customer) || !contains(r.VenueName, f.Venue) ||
			!contains(r.PaymentMethod, f.PaymentMethod) {
			continue
		}

		if r.VenueCharge > 0 {
			report.add(Row{
				Date:          r.Date,
				Venue:         r.VenueName,
				Customer:      customer,
				Supplier:      NotAvailable,
				Product:       VenueProduct,
				PaymentMethod: r.PaymentMethod,
				Quantity:      1,
				UnitPrice:     r.VenueCharge,
				LineRevenue:   r.VenueCharge,
			})
		}
		for _, item := range r.ConsumedItems {
			supplier := item.SupplierName
			if supplier == "" {
				if supplier, err = names.supplierOfProduct(ctx, item.ProductID); err != nil {
					return nil, err
				}
			}
			supplier = orNA(supplier)
			if !contains(item.Name, f.Product) || !contains(supplier, f.Supplier) {
				continue
			}
			report.add(Row{
				Date:          r.Date,
				Venue:         r.VenueName,
				Customer:      customer,
				Supplier:      supplier,
				Product:       item.Name,
				PaymentMethod: r.PaymentMethod,
				Quantity:      item.Quantity,
				UnitCost:      item.UnitCostPrice,
				UnitPrice:     item.UnitSalePrice,
				LineRevenue:   float64(item.Quantity) * item.UnitSalePrice,
			})
		}
	}
	a.finish(report)
	return report, nil
}

func (a *Aggregator) finish(r *Report) {
	r.finish()
	if r.Skipped > 0 {
		a.log.Warn("report skipped unreadable records", zap.String("kind", string(r.Kind)), zap.Int("skipped", r.Skipped))
	}
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// resolver memoizes the lookups one report needs.
type resolver struct {
	repos     repository.Repositories
	customers map[string]string
	suppliers map[string]string
}

func newResolver(repos repository.Repositories) *resolver {
	return &resolver{repos: repos, customers: map[string]string{}, suppliers: map[string]string{}}
}

func (r *resolver) customerByDocument(ctx context.Context, document string) (string, error) {
	if document == "" {
		return NotAvailable, nil
	}
	if name, ok := r.customers["doc:"+document]; ok {
		return name, nil
	}
	c, err := r.repos.Customers.FindByDocument(ctx, document)
	if err != nil {
		return "", err
	}
	name := NotAvailable
	if c != nil {
		name = c.Name
	}
	r.customers["doc:"+document] = name
	return name, nil
}

func (r *resolver) customerByID(ctx context.Context, hex string) (string, error) {
	if name, ok := r.customers["id:"+hex]; ok {
		return name, nil
	}
	name := NotAvailable
	if id, err := primitive.ObjectIDFromHex(hex); err == nil {
		c, err := r.repos.Customers.FindByID(ctx, id)
		if err != nil {
			return "", err
		}
		if c != nil {
			name = c.Name
		}
	}
	r.customers["id:"+hex] = name
	return name, nil
}

// supplierOfProduct follows product -> supplier for records stored without a
// supplier snapshot. Returns "" when either side is gone.
func (r *resolver) supplierOfProduct(ctx context.Context, productHex string) (string, error) {
	if name, ok := r.suppliers[productHex]; ok {
		return name, nil
	}
	name, err := r.lookupSupplier(ctx, productHex)
	if err != nil {
		return "", err
	}
	r.suppliers[productHex] = name
	return name, nil
}

func (r *resolver) lookupSupplier(ctx context.Context, productHex string) (string, error) {
	productID, err := primitive.ObjectIDFromHex(productHex)
	if err != nil {
		return "", nil
	}
	p, err := r.repos.Products.FindByID(ctx, productID)
	if err != nil || p == nil {
		return "", err
	}
	supplierID, err := primitive.ObjectIDFromHex(p.SupplierID)
	if err != nil {
		return "", nil
	}
	s, err := r.repos.Suppliers.FindByID(ctx, supplierID)
	if err != nil || s == nil {
		return "", err
	}
	return s.Name, nil
}
