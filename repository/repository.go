// Package repository defines typed access to the eight document collections
// and implements it on MongoDB. Lookups return (nil, nil) when nothing
// matches; mutations touch a single record and report whether one was
// affected. Business rules live in the callers.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/balcao/backend/models"
)

const (
	CollectionProducts     = "products"
	CollectionCustomers    = "customers"
	CollectionEmployees    = "employees"
	CollectionUsers        = "users"
	CollectionSuppliers    = "suppliers"
	CollectionVenues       = "venues"
	CollectionSales        = "sales"
	CollectionReservations = "reservations"
)

type Products interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByCode(ctx context.Context, code string) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) (primitive.ObjectID, error)
	// Update replaces every admin-editable field. Stock is left untouched.
	Update(ctx context.Context, p *models.Product) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)

	StockBelow(ctx context.Context, threshold int) ([]models.Product, error)
	BelowMinimum(ctx context.Context) ([]models.Product, error)
	ExpiredAsOf(ctx context.Context, today time.Time) ([]models.Product, error)

	// AdjustStock adds delta to stock only when the result stays >= 0.
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (bool, error)
	// CompareAndSetStock writes next only while stock still equals expected.
	CompareAndSetStock(ctx context.Context, id primitive.ObjectID, expected, next int) (bool, error)
}

type Customers interface {
	List(ctx context.Context) ([]models.Customer, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	FindByDocument(ctx context.Context, document string) (*models.Customer, error)
	Insert(ctx context.Context, c *models.Customer) (primitive.ObjectID, error)
	// Update leaves purchase_history untouched.
	Update(ctx context.Context, c *models.Customer) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	AppendPurchase(ctx context.Context, id primitive.ObjectID, entry models.PurchaseEntry) (bool, error)
}

type Suppliers interface {
	List(ctx context.Context) ([]models.Supplier, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error)
	FindByDocument(ctx context.Context, document string) (*models.Supplier, error)
	Insert(ctx context.Context, s *models.Supplier) (primitive.ObjectID, error)
	Update(ctx context.Context, s *models.Supplier) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type Employees interface {
	List(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	Insert(ctx context.Context, e *models.Employee) (primitive.ObjectID, error)
	Update(ctx context.Context, e *models.Employee) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type Users interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	Update(ctx context.Context, u *models.User) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type Venues interface {
	List(ctx context.Context) ([]models.Venue, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Venue, error)
	FindByName(ctx context.Context, name string) (*models.Venue, error)
	Insert(ctx context.Context, v *models.Venue) (primitive.ObjectID, error)
	Update(ctx context.Context, v *models.Venue) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type Sales interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Sale, error)
	BySaleID(ctx context.Context, saleID string) ([]models.Sale, error)
	// InsertLines writes all lines in order and returns the ids of the lines
	// that were written, even when a later line fails.
	InsertLines(ctx context.Context, lines []models.Sale) ([]primitive.ObjectID, error)
	// InRange streams lines with from <= timestamp <= to. A zero bound is
	// open. Documents that cannot be decoded come back with a zero Timestamp.
	InRange(ctx context.Context, from, to time.Time) ([]models.Sale, error)
	MarkStockRestored(ctx context.Context, saleID string) (bool, error)
	DeleteBySaleID(ctx context.Context, saleID string) (int64, error)
}

type Reservations interface {
	List(ctx context.Context) ([]models.Reservation, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reservation, error)
	FindByKey(ctx context.Context, key models.ReservationKey) (*models.Reservation, error)
	ForVenueDate(ctx context.Context, venueID string, date time.Time) ([]models.Reservation, error)
	// InRange has the same bound and decoding rules as Sales.InRange, on the
	// reservation date.
	InRange(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	Insert(ctx context.Context, r *models.Reservation) (primitive.ObjectID, error)
	MarkStockRestored(ctx context.Context, id primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Transactor runs fn as one unit when the store supports multi-document
// transactions and simply calls it otherwise.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether a failed fn leaves no writes behind.
	Atomic() bool
}

// Repositories bundles every collection behind one value.
type Repositories struct {
	Products     Products
	Customers    Customers
	Suppliers    Suppliers
	Employees    Employees
	Users        Users
	Venues       Venues
	Sales        Sales
	Reservations Reservations
	Tx           Transactor
}

// DayBounds returns local midnight of day and midnight of the next day.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := models.CalendarDay(day)
	return start, start.AddDate(0, 0, 1)
}
