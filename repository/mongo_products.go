package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/balcao/backend/models"
)

type productRepo struct {
	c collection[models.Product]
}

func byName() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
}

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	return r.c.find(ctx, bson.M{}, byName())
}

func (r *productRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	return r.c.findOne(ctx, bson.M{"code": code})
}

func (r *productRepo) Insert(ctx context.Context, p *models.Product) (primitive.ObjectID, error) {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	id, err := r.c.insert(ctx, p, "code", p.Code)
	if err != nil {
		return id, err
	}
	p.ID = id
	return id, nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) (bool, error) {
	update := bson.M{"$set": bson.M{
		"code":            p.Code,
		"name":            p.Name,
		"category":        p.Category,
		"unit_price":      p.UnitPrice,
		"cost_price":      p.CostPrice,
		"stock_min":       p.StockMin,
		"supplier_id":     p.SupplierID,
		"validity_date":   p.ValidityDate,
		"unit_of_measure": p.Unit,
		"updated_at":      time.Now(),
	}}
	return r.c.updateOne(ctx, bson.M{"_id": p.ID}, update, "code", p.Code)
}

func (r *productRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.c.deleteByID(ctx, id)
}

func (r *productRepo) StockBelow(ctx context.Context, threshold int) ([]models.Product, error) {
	return r.c.find(ctx, bson.M{"stock": bson.M{"$lt": threshold}}, byName())
}

func (r *productRepo) BelowMinimum(ctx context.Context) ([]models.Product, error) {
	filter := bson.M{"$expr": bson.M{"$lt": bson.A{"$stock", "$stock_min"}}}
	return r.c.find(ctx, filter, byName())
}

// ExpiredAsOf cannot push the comparison down: validity_date is a legacy
// dd/MM/yyyy string.
func (r *productRepo) ExpiredAsOf(ctx context.Context, today time.Time) ([]models.Product, error) {
	candidates, err := r.c.find(ctx, bson.M{"validity_date": bson.M{"$exists": true, "$ne": ""}}, byName())
	if err != nil {
		return nil, err
	}
	expired := []models.Product{}
	for _, p := range candidates {
		if p.ExpiredAsOf(today) {
			expired = append(expired, p)
		}
	}
	return expired, nil
}

func (r *productRepo) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) (bool, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
	return r.c.updateOne(ctx, filter, update, "", "")
}

func (r *productRepo) CompareAndSetStock(ctx context.Context, id primitive.ObjectID, expected, next int) (bool, error) {
	filter := bson.M{"_id": id, "stock": expected}
	update := bson.M{"$set": bson.M{"stock": next, "updated_at": time.Now()}}
	return r.c.updateOne(ctx, filter, update, "", "")
}
