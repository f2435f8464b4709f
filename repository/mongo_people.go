package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/balcao/backend/models"
)

type customerRepo struct {
	c collection[models.Customer]
}

func (r *customerRepo) List(ctx context.Context) ([]models.Customer, error) {
	return r.c.find(ctx, bson.M{}, byName())
}

func (r *customerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *customerRepo) FindByDocument(ctx context.Context, document string) (*models.Customer, error) {
	return r.c.findOne(ctx, bson.M{"document": document})
}

func (r *customerRepo) Insert(ctx context.Context, c *models.Customer) (primitive.ObjectID, error) {
	id, err := r.c.insert(ctx, c, "document", c.Document)
	if err != nil {
		return id, err
	}
	c.ID = id
	return id, nil
}

func (r *customerRepo) Update(ctx context.Context, c *models.Customer) (bool, error) {
	update := bson.M{"$set": bson.M{
		"code":          c.Code,
		"name":          c.Name,
		"document":      c.Document,
		"phone":         c.Phone,
		"email":         c.Email,
		"address":       c.Address,
		"customer_type": c.CustomerType,
	}}
	return r.c.updateOne(ctx, bson.M{"_id": c.ID}, update, "document", c.Document)
}

func (r *customerRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.c.deleteByID(ctx, id)
}

// AppendPurchase pushes onto purchase_history without rewriting the list.
func (r *customerRepo) AppendPurchase(ctx context.Context, id primitive.ObjectID, entry models.PurchaseEntry) (bool, error) {
	update := bson.M{"$push": bson.M{"purchase_history": entry}}
	return r.c.updateOne(ctx, bson.M{"_id": id}, update, "", "")
}

type supplierRepo struct {
	c collection[models.Supplier]
}

func (r *supplierRepo) List(ctx context.Context) ([]models.Supplier, error) {
	return r.c.find(ctx, bson.M{}, byName())
}

func (r *supplierRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *supplierRepo) FindByDocument(ctx context.Context, document string) (*models.Supplier, error) {
	return r.c.findOne(ctx, bson.M{"document": document})
}

func (r *supplierRepo) Insert(ctx context.Context, s *models.Supplier) (primitive.ObjectID, error) {
	id, err := r.c.insert(ctx, s, "document", s.Document)
	if err != nil {
		return id, err
	}
	s.ID = id
	return id, nil
}

func (r *supplierRepo) Update(ctx context.Context, s *models.Supplier) (bool, error) {
	update := bson.M{"$set": bson.M{
		"name":     s.Name,
		"document": s.Document,
		"phone":    s.Phone,
		"email":    s.Email,
		"address":  s.Address,
	}}
	return r.c.updateOne(ctx, bson.M{"_id": s.ID}, update, "document", s.Document)
}

func (r *supplierRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.c.deleteByID(ctx, id)
}

type employeeRepo struct {
	c collection[models.Employee]
}

func (r *employeeRepo) List(ctx context.Context) ([]models.Employee, error) {
	return r.c.find(ctx, bson.M{}, byName())
}

func (r *employeeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *employeeRepo) FindByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error) {
	return r.c.findOne(ctx, bson.M{"employee_id": employeeID})
}

func (r *employeeRepo) Insert(ctx context.Context, e *models.Employee) (primitive.ObjectID, error) {
	id, err := r.c.insert(ctx, e, "employee_id", e.EmployeeID)
	if err != nil {
		return id, err
	}
	e.ID = id
	return id, nil
}

func (r *employeeRepo) Update(ctx context.Context, e *models.Employee) (bool, error) {
	update := bson.M{"$set": bson.M{
		"employee_id": e.EmployeeID,
		"name":        e.Name,
		"document":    e.Document,
		"position":    e.Position,
		"phone":       e.Phone,
		"email":       e.Email,
		"hired_at":    e.HiredAt,
	}}
	return r.c.updateOne(ctx, bson.M{"_id": e.ID}, update, "employee_id", e.EmployeeID)
}

func (r *employeeRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.c.deleteByID(ctx, id)
}

type userRepo struct {
	c collection[models.User]
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	return r.c.find(ctx, bson.M{})
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.c.findOne(ctx, bson.M{"username": username})
}

func (r *userRepo) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	id, err := r.c.insert(ctx, u, "username", u.Username)
	if err != nil {
		return id, err
	}
	u.ID = id
	return id, nil
}

func (r *userRepo) Update(ctx context.Context, u *models.User) (bool, error) {
	update := bson.M{"$set": bson.M{
		"username":    u.Username,
		"password":    u.Password,
		"role":        u.Role,
		"employee_id": u.EmployeeID,
	}}
	return r.c.updateOne(ctx, bson.M{"_id": u.ID}, update, "username", u.Username)
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.c.deleteByID(ctx, id)
}

type venueRepo struct {
	c collection[models.Venue]
}

func (r *venueRepo) List(ctx context.Context) ([]models.Venue, error) {
	return r.c.find(ctx, bson.M{}, byName())
}

func (r *venueRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Venue, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *venueRepo) FindByName(ctx context.Context, name string) (*models.Venue, error) {
	return r.c.findOne(ctx, bson.M{"name": name})
}

func (r *venueRepo) Insert(ctx context.Context, v *models.Venue) (primitive.ObjectID, error) {
	id, err := r.c.insert(ctx, v, "name", v.Name)
	if err != nil {
		return id, err
	}
	v.ID = id
	return id, nil
}

func (r *venueRepo) Update(ctx context.Context, v *models.Venue) (bool, error) {
	update := bson.M{"$set": bson.M{
		"name":        v.Name,
		"type":        v.Type,
		"hourly_rate": v.HourlyRate,
	}}
	return r.c.updateOne(ctx, bson.M{"_id": v.ID}, update, "name", v.Name)
}

func (r *venueRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.c.deleteByID(ctx, id)
}
