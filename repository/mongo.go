package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
)

// Mongo serves every collection from one database.
type Mongo struct {
	db              *mongo.Database
	useTransactions bool
}

func NewMongo(db *mongo.Database, useTransactions bool) *Mongo {
	return &Mongo{db: db, useTransactions: useTransactions}
}

func (m *Mongo) Repositories() Repositories {
	return Repositories{
		Products:     &productRepo{c: newCollection[models.Product](m.db, CollectionProducts, "product")},
		Customers:    &customerRepo{c: newCollection[models.Customer](m.db, CollectionCustomers, "customer")},
		Suppliers:    &supplierRepo{c: newCollection[models.Supplier](m.db, CollectionSuppliers, "supplier")},
		Employees:    &employeeRepo{c: newCollection[models.Employee](m.db, CollectionEmployees, "employee")},
		Users:        &userRepo{c: newCollection[models.User](m.db, CollectionUsers, "user")},
		Venues:       &venueRepo{c: newCollection[models.Venue](m.db, CollectionVenues, "venue")},
		Sales:        &saleRepo{c: newCollection[models.Sale](m.db, CollectionSales, "sale")},
		Reservations: &reservationRepo{c: newCollection[models.Reservation](m.db, CollectionReservations, "reservation")},
		Tx:           &mongoTransactor{client: m.db.Client(), enabled: m.useTransactions},
	}
}

// EnsureIndexes creates the unique business-key indexes and the indexes the
// range and venue/date queries rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		CollectionProducts:  {{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique}},
		CollectionCustomers: {{Keys: bson.D{{Key: "document", Value: 1}}, Options: unique}},
		CollectionUsers:     {{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique}},
		CollectionEmployees: {{Keys: bson.D{{Key: "employee_id", Value: 1}}, Options: unique}},
		CollectionSales: {
			{Keys: bson.D{{Key: "sale_id", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
		CollectionReservations: {
			{Keys: bson.D{{Key: "venue_id", Value: 1}, {Key: "date", Value: 1}}},
		},
	}
	for name, idx := range specs {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return apperr.Storage("create indexes on "+name, err)
		}
	}
	return nil
}

type mongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

func (t *mongoTransactor) Atomic() bool { return t.enabled }

func (t *mongoTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}
	sess, err := t.client.StartSession()
	if err != nil {
		return apperr.Storage("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// collection wraps the CRUD calls every repository shares. T is the BSON
// document shape stored in the collection.
type collection[T any] struct {
	coll   *mongo.Collection
	entity string
}

func newCollection[T any](db *mongo.Database, name, entity string) collection[T] {
	return collection[T]{coll: db.Collection(name), entity: entity}
}

func (c collection[T]) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, apperr.Storage("find "+c.entity, err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperr.Storage("decode "+c.entity, err)
		}
		out = append(out, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.Storage("iterate "+c.entity, err)
	}
	return out, nil
}

// scan is find for report streams: a document that fails to decode is
// handed to broken instead of aborting the scan.
func (c collection[T]) scan(ctx context.Context, filter interface{}, broken func(id primitive.ObjectID) T, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, apperr.Storage("find "+c.entity, err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			id, _ := cursor.Current.Lookup("_id").ObjectIDOK()
			out = append(out, broken(id))
			continue
		}
		out = append(out, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperr.Storage("iterate "+c.entity, err)
	}
	return out, nil
}

func (c collection[T]) findOne(ctx context.Context, filter interface{}) (*T, error) {
	var doc T
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("find "+c.entity, err)
	}
	return &doc, nil
}

func (c collection[T]) insert(ctx context.Context, doc interface{}, keyField, keyValue string) (primitive.ObjectID, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, &apperr.DuplicateKeyError{Entity: c.entity, Field: keyField, Value: keyValue}
		}
		return primitive.NilObjectID, apperr.Storage("insert "+c.entity, err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (c collection[T]) updateOne(ctx context.Context, filter, update interface{}, keyField, keyValue string) (bool, error) {
	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, &apperr.DuplicateKeyError{Entity: c.entity, Field: keyField, Value: keyValue}
		}
		return false, apperr.Storage("update "+c.entity, err)
	}
	return res.MatchedCount > 0, nil
}

func (c collection[T]) deleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, apperr.Storage("delete "+c.entity, err)
	}
	return res.DeletedCount > 0, nil
}

// rangeFilter builds an inclusive filter on field; zero bounds are open.
func rangeFilter(field string, from, to time.Time) bson.M {
	bounds := bson.M{}
	if !from.IsZero() {
		bounds["$gte"] = from
	}
	if !to.IsZero() {
		bounds["$lte"] = to
	}
	if len(bounds) == 0 {
		return bson.M{}
	}
	return bson.M{field: bounds}
}
