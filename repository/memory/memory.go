// Package memory keeps every collection in process memory behind one lock.
// It backs the test suites and the STORE_DRIVER=memory demo mode.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/balcao/backend/models"
	"github.com/balcao/backend/repository"
)

type DB struct {
	mu           sync.RWMutex
	products     map[primitive.ObjectID]models.Product
	customers    map[primitive.ObjectID]models.Customer
	suppliers    map[primitive.ObjectID]models.Supplier
	employees    map[primitive.ObjectID]models.Employee
	users        map[primitive.ObjectID]models.User
	venues       map[primitive.ObjectID]models.Venue
	sales        []models.Sale
	reservations map[primitive.ObjectID]models.Reservation
}

func New() *DB {
	return &DB{
		products:     map[primitive.ObjectID]models.Product{},
		customers:    map[primitive.ObjectID]models.Customer{},
		suppliers:    map[primitive.ObjectID]models.Supplier{},
		employees:    map[primitive.ObjectID]models.Employee{},
		users:        map[primitive.ObjectID]models.User{},
		venues:       map[primitive.ObjectID]models.Venue{},
		reservations: map[primitive.ObjectID]models.Reservation{},
	}
}

func (db *DB) Repositories() repository.Repositories {
	return repository.Repositories{
		Products:     &Products{db: db},
		Customers:    &Customers{db: db},
		Suppliers:    &Suppliers{db: db},
		Employees:    &Employees{db: db},
		Users:        &Users{db: db},
		Venues:       &Venues{db: db},
		Sales:        &Sales{db: db},
		Reservations: &Reservations{db: db},
		Tx:           passthrough{},
	}
}

type passthrough struct{}

func (passthrough) Atomic() bool { return false }

func (passthrough) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func sorted[T any](m map[primitive.ObjectID]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(key(a), key(b)) })
	return out
}

func find[T any](m map[primitive.ObjectID]T, match func(T) bool) *T {
	for _, v := range m {
		if match(v) {
			found := v
			return &found
		}
	}
	return nil
}

func assignID(id *primitive.ObjectID) primitive.ObjectID {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	return *id
}

func cloneCustomer(c models.Customer) models.Customer {
	c.PurchaseHistory = slices.Clone(c.PurchaseHistory)
	for i := range c.PurchaseHistory {
		c.PurchaseHistory[i].Items = slices.Clone(c.PurchaseHistory[i].Items)
	}
	return c
}

func cloneReservation(r models.Reservation) models.Reservation {
	r.ConsumedItems = slices.Clone(r.ConsumedItems)
	return r
}
