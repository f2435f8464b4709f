package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
)

type Products struct {
	db *DB
}

func productName(p models.Product) string { return p.Name }

func (r *Products) List(_ context.Context) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return sorted(r.db.products, productName), nil
}

func (r *Products) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *Products) FindByCode(_ context.Context, code string) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return find(r.db.products, func(p models.Product) bool { return p.Code == code }), nil
}

func (r *Products) codeTaken(code string, except primitive.ObjectID) bool {
	return find(r.db.products, func(p models.Product) bool { return p.Code == code && p.ID != except }) != nil
}

func (r *Products) Insert(_ context.Context, p *models.Product) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.codeTaken(p.Code, primitive.NilObjectID) {
		return primitive.NilObjectID, &apperr.DuplicateKeyError{Entity: "product", Field: "code", Value: p.Code}
	}
	id := assignID(&p.ID)
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.db.products[id] = *p
	return id, nil
}

func (r *Products) Update(_ context.Context, p *models.Product) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	current, ok := r.db.products[p.ID]
	if !ok {
		return false, nil
	}
	if r.codeTaken(p.Code, p.ID) {
		return false, &apperr.DuplicateKeyError{Entity: "product", Field: "code", Value: p.Code}
	}
	next := *p
	next.Stock = current.Stock
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = time.Now()
	r.db.products[p.ID] = next
	return true, nil
}

func (r *Products) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[id]; !ok {
		return false, nil
	}
	delete(r.db.products, id)
	return true, nil
}

func (r *Products) filter(match func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range sorted(r.db.products, productName) {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Products) StockBelow(_ context.Context, threshold int) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.filter(func(p models.Product) bool { return p.Stock < threshold }), nil
}

func (r *Products) BelowMinimum(_ context.Context) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.filter(func(p models.Product) bool { return p.Stock < p.StockMin }), nil
}

func (r *Products) ExpiredAsOf(_ context.Context, today time.Time) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.filter(func(p models.Product) bool { return p.ExpiredAsOf(today) }), nil
}

func (r *Products) AdjustStock(_ context.Context, id primitive.ObjectID, delta int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	r.db.products[id] = p
	return true, nil
}

func (r *Products) CompareAndSetStock(_ context.Context, id primitive.ObjectID, expected, next int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok || p.Stock != expected {
		return false, nil
	}
	p.Stock = next
	p.UpdatedAt = time.Now()
	r.db.products[id] = p
	return true, nil
}
