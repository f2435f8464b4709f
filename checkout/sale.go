package checkout

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
	"github.com/balcao/backend/pricing"
)

type pricedLine struct {
	product models.Product
	qty     int
}

// CommitSale validates the basket, writes one sale line per basket line
// under a shared sale id, decrements stock once per product and appends the
// purchase to the customer's history. A failed commit leaves no sale lines
// and no stock change behind.
func (c *Coordinator) CommitSale(ctx context.Context, b models.Basket) (*models.SaleReceipt, error) {
	if len(b.Lines) == 0 {
		return nil, apperr.Missing("lines")
	}
	if strings.TrimSpace(b.PaymentMethod) == "" {
		return nil, apperr.Missing("payment_method")
	}
	for _, l := range b.Lines {
		if strings.TrimSpace(l.ProductCode) == "" {
			return nil, apperr.Missing("product_code")
		}
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity %d for %s", apperr.ErrInvalidNumber, l.Quantity, l.ProductCode)
		}
	}

	var receipt *models.SaleReceipt
	err := c.unit(ctx, "sale", func(ctx context.Context) error {
		var err error
		receipt, err = c.commitSale(ctx, b)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.appendHistory(ctx, b, receipt)
	c.log.Info("sale committed",
		zap.String("sale_id", receipt.SaleID),
		zap.Int("lines", len(receipt.Lines)),
		zap.Float64("total", receipt.Total))
	return receipt, nil
}

func (c *Coordinator) commitSale(ctx context.Context, b models.Basket) (*models.SaleReceipt, error) {
	lines, need, err := c.resolveBasket(ctx, b)
	if err != nil {
		return nil, err
	}
	if err := need.validate(); err != nil {
		return nil, err
	}

	subtotals := make([]float64, len(lines))
	for i, l := range lines {
		subtotals[i] = float64(l.qty) * l.product.UnitPrice
	}
	gross := pricing.Sum(subtotals)
	discount := pricing.ClampDiscount(b.DiscountAmount, gross)
	adjusted := pricing.Prorate(subtotals, discount)

	suppliers, err := c.supplierNames(ctx, lines)
	if err != nil {
		return nil, err
	}

	saleID := c.newSaleID()
	ts := b.Timestamp
	if ts.IsZero() {
		ts = c.now()
	}
	records := make([]models.Sale, len(lines))
	for i, l := range lines {
		records[i] = models.Sale{
			SaleID:           saleID,
			Timestamp:        ts,
			CashierID:        b.CashierID,
			CustomerDocument: b.CustomerDocument,
			ProductID:        l.product.ID.Hex(),
			ProductCode:      l.product.Code,
			ProductName:      l.product.Name,
			SupplierName:     suppliers[l.product.SupplierID],
			UnitPrice:        l.product.UnitPrice,
			UnitCost:         l.product.CostPrice,
			Quantity:         l.qty,
			Subtotal:         adjusted[i],
			PaymentMethod:    b.PaymentMethod,
			Discount:         discount,
		}
	}

	ids, err := c.repos.Sales.InsertLines(ctx, records)
	if err != nil {
		if len(ids) > 0 {
			c.dropLines(ctx, saleID)
		}
		return nil, err
	}
	for i := range records {
		records[i].ID = ids[i]
	}

	moved, err := c.takeAll(ctx, need)
	if err != nil {
		c.undoTakes(ctx, moved)
		c.dropLines(ctx, saleID)
		return nil, err
	}

	return &models.SaleReceipt{
		SaleID:   saleID,
		LineIDs:  ids,
		Lines:    records,
		Gross:    gross,
		Discount: discount,
		Total:    gross - discount,
	}, nil
}

func (c *Coordinator) resolveBasket(ctx context.Context, b models.Basket) ([]pricedLine, *demands, error) {
	lines := make([]pricedLine, len(b.Lines))
	need := newDemands()
	cache := map[string]*models.Product{}
	for i, l := range b.Lines {
		code := strings.TrimSpace(l.ProductCode)
		p, ok := cache[code]
		if !ok {
			var err error
			p, err = c.repos.Products.FindByCode(ctx, code)
			if err != nil {
				return nil, nil, err
			}
			if p == nil {
				return nil, nil, fmt.Errorf("%w: %s", apperr.ErrUnknownProduct, code)
			}
			cache[code] = p
		}
		lines[i] = pricedLine{product: *p, qty: l.Quantity}
		need.add(*p, l.Quantity)
	}
	return lines, need, nil
}

// supplierNames snapshots supplier names keyed by the products' supplier_id.
// Unknown or malformed references map to "".
func (c *Coordinator) supplierNames(ctx context.Context, lines []pricedLine) (map[string]string, error) {
	names := map[string]string{}
	for _, l := range lines {
		ref := l.product.SupplierID
		if _, seen := names[ref]; seen || ref == "" {
			continue
		}
		names[ref] = ""
		id, err := primitive.ObjectIDFromHex(ref)
		if err != nil {
			continue
		}
		s, err := c.repos.Suppliers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			names[ref] = s.Name
		}
	}
	return names, nil
}

func (c *Coordinator) dropLines(ctx context.Context, saleID string) {
	if !c.compensating() {
		return
	}
	if _, err := c.repos.Sales.DeleteBySaleID(ctx, saleID); err != nil {
		c.log.Error("compensation failed: sale lines left behind", zap.String("sale_id", saleID), zap.Error(err))
	}
}

// appendHistory is best effort: the sale is already committed.
func (c *Coordinator) appendHistory(ctx context.Context, b models.Basket, r *models.SaleReceipt) {
	doc := strings.TrimSpace(b.CustomerDocument)
	if doc == "" {
		return
	}
	customer, err := c.repos.Customers.FindByDocument(ctx, doc)
	if err != nil {
		c.log.Warn("purchase history not updated", zap.String("sale_id", r.SaleID), zap.Error(err))
		return
	}
	if customer == nil {
		return
	}

	items := make([]models.PurchaseItem, len(r.Lines))
	for i, l := range r.Lines {
		items[i] = models.PurchaseItem{
			Code:      l.ProductCode,
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
	}
	entry := models.PurchaseEntry{
		SaleID:        r.SaleID,
		Date:          r.Lines[0].Timestamp,
		Items:         items,
		Total:         r.Total,
		PaymentMethod: b.PaymentMethod,
		Discount:      r.Discount,
	}
	if _, err := c.repos.Customers.AppendPurchase(ctx, customer.ID, entry); err != nil {
		c.log.Warn("purchase history not updated",
			zap.String("sale_id", r.SaleID), zap.String("customer_id", customer.ID.Hex()), zap.Error(err))
	}
}

// VoidSale puts back the stock of every line of saleID and deletes the lines.
// It returns false when no line carries saleID. A retry after a failed delete
// does not restore stock twice.
func (c *Coordinator) VoidSale(ctx context.Context, saleID string) (bool, error) {
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return false, apperr.Missing("sale_id")
	}

	voided := false
	err := c.unit(ctx, "void_sale", func(ctx context.Context) error {
		lines, err := c.repos.Sales.BySaleID(ctx, saleID)
		if err != nil || len(lines) == 0 {
			return err
		}

		if !alreadyRestored(lines) {
			moves := saleMovements(lines, c.log)
			restored, err := c.giveAll(ctx, moves)
			if err != nil {
				c.undoGives(ctx, restored)
				return err
			}
			if _, err := c.repos.Sales.MarkStockRestored(ctx, saleID); err != nil {
				c.undoGives(ctx, restored)
				return err
			}
		}

		if _, err := c.repos.Sales.DeleteBySaleID(ctx, saleID); err != nil {
			return c.partial("sale "+saleID, err)
		}
		voided = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if voided {
		c.log.Info("sale voided", zap.String("sale_id", saleID))
	}
	return voided, nil
}

func alreadyRestored(lines []models.Sale) bool {
	for _, l := range lines {
		if l.StockRestored {
			return true
		}
	}
	return false
}

// saleMovements sums line quantities per product. Lines whose product id is
// not an ObjectID cannot be restored and are logged.
func saleMovements(lines []models.Sale, log *zap.Logger) []movement {
	var moves []movement
	index := map[primitive.ObjectID]int{}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		id, err := primitive.ObjectIDFromHex(l.ProductID)
		if err != nil {
			log.Warn("sale line has no usable product id",
				zap.String("sale_id", l.SaleID), zap.String("product_code", l.ProductCode))
			continue
		}
		if i, ok := index[id]; ok {
			moves[i].qty += l.Quantity
			continue
		}
		index[id] = len(moves)
		moves = append(moves, movement{id: id, code: l.ProductCode, qty: l.Quantity})
	}
	return moves
}
