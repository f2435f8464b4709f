package memory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
)

type Customers struct {
	db *DB
}

func (r *Customers) List(_ context.Context) ([]models.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := sorted(r.db.customers, func(c models.Customer) string { return c.Name })
	for i := range out {
		out[i] = cloneCustomer(out[i])
	}
	return out, nil
}

func (r *Customers) FindByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.customers[id]
	if !ok {
		return nil, nil
	}
	c = cloneCustomer(c)
	return &c, nil
}

func (r *Customers) FindByDocument(_ context.Context, document string) (*models.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c := find(r.db.customers, func(c models.Customer) bool { return c.Document == document })
	if c == nil {
		return nil, nil
	}
	clone := cloneCustomer(*c)
	return &clone, nil
}

func (r *Customers) documentTaken(document string, except primitive.ObjectID) bool {
	return find(r.db.customers, func(c models.Customer) bool { return c.Document == document && c.ID != except }) != nil
}

func (r *Customers) Insert(_ context.Context, c *models.Customer) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.documentTaken(c.Document, primitive.NilObjectID) {
		return primitive.NilObjectID, &apperr.DuplicateKeyError{Entity: "customer", Field: "document", Value: c.Document}
	}
	id := assignID(&c.ID)
	r.db.customers[id] = cloneCustomer(*c)
	return id, nil
}

func (r *Customers) Update(_ context.Context, c *models.Customer) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	current, ok := r.db.customers[c.ID]
	if !ok {
		return false, nil
	}
	if r.documentTaken(c.Document, c.ID) {
		return false, &apperr.DuplicateKeyError{Entity: "customer", Field: "document", Value: c.Document}
	}
	next := *c
	next.PurchaseHistory = current.PurchaseHistory
	r.db.customers[c.ID] = next
	return true, nil
}

func (r *Customers) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.customers[id]; !ok {
		return false, nil
	}
	delete(r.db.customers, id)
	return true, nil
}

func (r *Customers) AppendPurchase(_ context.Context, id primitive.ObjectID, entry models.PurchaseEntry) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.customers[id]
	if !ok {
		return false, nil
	}
	c = cloneCustomer(c)
	c.PurchaseHistory = append(c.PurchaseHistory, entry)
	r.db.customers[id] = c
	return true, nil
}

type Suppliers struct {
	db *DB
}

func (r *Suppliers) List(_ context.Context) ([]models.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sorted(r.db.suppliers, func(s models.Supplier) string { return s.Name }), nil
}

func (r *Suppliers) FindByID(_ context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *Suppliers) FindByDocument(_ context.Context, document string) (*models.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return find(r.db.suppliers, func(s models.Supplier) bool { return s.Document == document }), nil
}

func (r *Suppliers) Insert(_ context.Context, s *models.Supplier) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id := assignID(&s.ID)
	r.db.suppliers[id] = *s
	return id, nil
}

func (r *Suppliers) Update(_ context.Context, s *models.Supplier) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.suppliers[s.ID]; !ok {
		return false, nil
	}
	r.db.suppliers[s.ID] = *s
	return true, nil
}

func (r *Suppliers) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.suppliers[id]; !ok {
		return false, nil
	}
	delete(r.db.suppliers, id)
	return true, nil
}

type Employees struct {
	db *DB
}

func (r *Employees) List(_ context.Context) ([]models.Employee, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sorted(r.db.employees, func(e models.Employee) string { return e.Name }), nil
}

func (r *Employees) FindByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	e, ok := r.db.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *Employees) FindByEmployeeID(_ context.Context, employeeID string) (*models.Employee, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return find(r.db.employees, func(e models.Employee) bool { return e.EmployeeID == employeeID }), nil
}

func (r *Employees) taken(employeeID string, except primitive.ObjectID) bool {
	return find(r.db.employees, func(e models.Employee) bool { return e.EmployeeID == employeeID && e.ID != except }) != nil
}

func (r *Employees) Insert(_ context.Context, e *models.Employee) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.taken(e.EmployeeID, primitive.NilObjectID) {
		return primitive.NilObjectID, &apperr.DuplicateKeyError{Entity: "employee", Field: "employee_id", Value: e.EmployeeID}
	}
	id := assignID(&e.ID)
	r.db.employees[id] = *e
	return id, nil
}

func (r *Employees) Update(_ context.Context, e *models.Employee) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.employees[e.ID]; !ok {
		return false, nil
	}
	if r.taken(e.EmployeeID, e.ID) {
		return false, &apperr.DuplicateKeyError{Entity: "employee", Field: "employee_id", Value: e.EmployeeID}
	}
	r.db.employees[e.ID] = *e
	return true, nil
}

func (r *Employees) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.employees[id]; !ok {
		return false, nil
	}
	delete(r.db.employees, id)
	return true, nil
}

type Users struct {
	db *DB
}

func (r *Users) List(_ context.Context) ([]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sorted(r.db.users, func(u models.User) string { return u.Username }), nil
}

func (r *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *Users) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return find(r.db.users, func(u models.User) bool { return u.Username == username }), nil
}

func (r *Users) taken(username string, except primitive.ObjectID) bool {
	return find(r.db.users, func(u models.User) bool { return u.Username == username && u.ID != except }) != nil
}

func (r *Users) Insert(_ context.Context, u *models.User) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.taken(u.Username, primitive.NilObjectID) {
		return primitive.NilObjectID, &apperr.DuplicateKeyError{Entity: "user", Field: "username", Value: u.Username}
	}
	id := assignID(&u.ID)
	r.db.users[id] = *u
	return id, nil
}

func (r *Users) Update(_ context.Context, u *models.User) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return false, nil
	}
	if r.taken(u.Username, u.ID) {
		return false, &apperr.DuplicateKeyError{Entity: "user", Field: "username", Value: u.Username}
	}
	r.db.users[u.ID] = *u
	return true, nil
}

func (r *Users) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return false, nil
	}
	delete(r.db.users, id)
	return true, nil
}

type Venues struct {
	db *DB
}

func (r *Venues) List(_ context.Context) ([]models.Venue, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sorted(r.db.venues, func(v models.Venue) string { return v.Name }), nil
}

func (r *Venues) FindByID(_ context.Context, id primitive.ObjectID) (*models.Venue, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	v, ok := r.db.venues[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *Venues) FindByName(_ context.Context, name string) (*models.Venue, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return find(r.db.venues, func(v models.Venue) bool { return v.Name == name }), nil
}

func (r *Venues) Insert(_ context.Context, v *models.Venue) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id := assignID(&v.ID)
	r.db.venues[id] = *v
	return id, nil
}

func (r *Venues) Update(_ context.Context, v *models.Venue) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.venues[v.ID]; !ok {
		return false, nil
	}
	r.db.venues[v.ID] = *v
	return true, nil
}

func (r *Venues) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.venues[id]; !ok {
		return false, nil
	}
	delete(r.db.venues, id)
	return true, nil
}
