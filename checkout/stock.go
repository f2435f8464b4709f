package checkout

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
)

// demand is the quantity a unit needs from one product, summed over every
// line naming it.
type demand struct {
	product models.Product
	qty     int
}

// demands keeps products in first-seen order.
type demands struct {
	order []primitive.ObjectID
	byID  map[primitive.ObjectID]*demand
}

func newDemands() *demands {
	return &demands{byID: map[primitive.ObjectID]*demand{}}
}

func (d *demands) add(p models.Product, qty int) {
	if existing, ok := d.byID[p.ID]; ok {
		existing.qty += qty
		return
	}
	d.order = append(d.order, p.ID)
	d.byID[p.ID] = &demand{product: p, qty: qty}
}

func (d *demands) each(fn func(*demand) error) error {
	for _, id := range d.order {
		if err := fn(d.byID[id]); err != nil {
			return err
		}
	}
	return nil
}

// validate checks every product covers its total demand before anything is
// written.
func (d *demands) validate() error {
	return d.each(func(dm *demand) error {
		if dm.product.Stock < dm.qty {
			return &apperr.InsufficientStockError{Code: dm.product.Code, Available: dm.product.Stock, Requested: dm.qty}
		}
		return nil
	})
}

// movement is one applied stock change, kept so it can be reversed.
type movement struct {
	id   primitive.ObjectID
	code string
	qty  int
}

// take removes qty units of p using the configured guard.
func (c *Coordinator) take(ctx context.Context, p models.Product, qty int) error {
	var (
		ok  bool
		err error
	)
	if c.mode == ModeCAS {
		ok, err = c.repos.Products.CompareAndSetStock(ctx, p.ID, p.Stock, p.Stock-qty)
	} else {
		ok, err = c.repos.Products.AdjustStock(ctx, p.ID, -qty)
	}
	if err != nil {
		return err
	}
	if !ok {
		if c.mode == ModeCAS {
			return fmt.Errorf("%w: product %s", apperr.ErrStockChanged, p.Code)
		}
		available := 0
		if current, _ := c.repos.Products.FindByID(ctx, p.ID); current != nil {
			available = current.Stock
		}
		return &apperr.InsufficientStockError{Code: p.Code, Available: available, Requested: qty}
	}
	c.recordMove("out", qty)
	return nil
}

// takeAll decrements every demand once. On failure the movements already
// applied are returned so the caller can reverse them.
func (c *Coordinator) takeAll(ctx context.Context, d *demands) ([]movement, error) {
	done := make([]movement, 0, len(d.order))
	err := d.each(func(dm *demand) error {
		if err := c.take(ctx, dm.product, dm.qty); err != nil {
			return err
		}
		done = append(done, movement{id: dm.product.ID, code: dm.product.Code, qty: dm.qty})
		return nil
	})
	return done, err
}

// give puts qty units back. A product deleted since the commit is skipped.
func (c *Coordinator) give(ctx context.Context, m movement) error {
	ok, err := c.repos.Products.AdjustStock(ctx, m.id, m.qty)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Warn("stock not restored: product no longer exists",
			zap.String("product_id", m.id.Hex()), zap.String("product_code", m.code), zap.Int("quantity", m.qty))
		return nil
	}
	c.recordMove("in", m.qty)
	return nil
}

// giveAll restores movements in order and reports the ones applied.
func (c *Coordinator) giveAll(ctx context.Context, moves []movement) ([]movement, error) {
	done := make([]movement, 0, len(moves))
	for _, m := range moves {
		if err := c.give(ctx, m); err != nil {
			return done, err
		}
		done = append(done, m)
	}
	return done, nil
}

// undoTakes reverses decrements after a failed commit.
func (c *Coordinator) undoTakes(ctx context.Context, moves []movement) {
	if !c.compensating() {
		return
	}
	for _, m := range moves {
		if err := c.give(ctx, m); err != nil {
			c.log.Error("compensation failed: stock not restored",
				zap.String("product_code", m.code), zap.Int("quantity", m.qty), zap.Error(err))
		}
	}
}

// undoGives reverses increments after a failed reversal.
func (c *Coordinator) undoGives(ctx context.Context, moves []movement) {
	if !c.compensating() {
		return
	}
	for _, m := range moves {
		ok, err := c.repos.Products.AdjustStock(ctx, m.id, -m.qty)
		if err == nil && ok {
			c.recordMove("out", m.qty)
			continue
		}
		c.log.Error("compensation failed: restored stock not taken back",
			zap.String("product_code", m.code), zap.Int("quantity", m.qty), zap.Error(err))
	}
}

// Restock adds qty units to a product. It is the admin's way of receiving
// goods; no other path outside checkout writes stock.
func (c *Coordinator) Restock(ctx context.Context, productID string, qty int) (*models.Product, error) {
	id, err := parseID(productID, apperr.ErrUnknownProduct)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: restock quantity %d", apperr.ErrInvalidNumber, qty)
	}

	var restocked *models.Product
	err = c.unit(ctx, "restock", func(ctx context.Context) error {
		ok, err := c.repos.Products.AdjustStock(ctx, id, qty)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", apperr.ErrUnknownProduct, productID)
		}
		c.recordMove("in", qty)
		restocked, err = c.repos.Products.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.log.Info("product restocked", zap.String("product_id", productID), zap.Int("quantity", qty))
	return restocked, nil
}
