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

// CommitReservation books a venue window, takes the consumed items out of
// stock and stores the reservation with venue and product snapshots.
func (c *Coordinator) CommitReservation(ctx context.Context, d models.ReservationDraft) (*models.Reservation, error) {
	switch {
	case strings.TrimSpace(d.VenueID) == "":
		return nil, apperr.Missing("venue_id")
	case strings.TrimSpace(d.CustomerID) == "":
		return nil, apperr.Missing("customer_id")
	case d.Date.IsZero():
		return nil, apperr.Missing("date")
	}
	for _, item := range d.ConsumedItems {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, apperr.Missing("product_id")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity %d for %s", apperr.ErrInvalidNumber, item.Quantity, item.ProductID)
		}
	}

	var stored *models.Reservation
	err := c.unit(ctx, "reservation", func(ctx context.Context) error {
		var err error
		stored, err = c.commitReservation(ctx, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.log.Info("reservation committed",
		zap.String("reservation_id", stored.ID.Hex()),
		zap.String("venue", stored.VenueName),
		zap.String("window", stored.HourStart+"-"+stored.HourEnd),
		zap.Float64("grand_total", stored.GrandTotal))
	return stored, nil
}

func (c *Coordinator) commitReservation(ctx context.Context, d models.ReservationDraft) (*models.Reservation, error) {
	venueID, err := parseID(d.VenueID, apperr.ErrUnknownVenue)
	if err != nil {
		return nil, err
	}
	venue, err := c.repos.Venues.FindByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrUnknownVenue, d.VenueID)
	}
	customerID, err := parseID(d.CustomerID, apperr.ErrUnknownCustomer)
	if err != nil {
		return nil, err
	}
	customer, err := c.repos.Customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrUnknownCustomer, d.CustomerID)
	}

	window, err := pricing.ParseWindow(d.HourStart, d.HourEnd)
	if err != nil {
		return nil, err
	}
	charge, err := pricing.VenueCharge(window, venue.HourlyRate)
	if err != nil {
		return nil, err
	}

	day := models.CalendarDay(d.Date)
	if err := c.conflicts.Check(ctx, d.VenueID, day, window); err != nil {
		return nil, err
	}

	products, need, err := c.resolveItems(ctx, d.ConsumedItems)
	if err != nil {
		return nil, err
	}
	if err := need.validate(); err != nil {
		return nil, err
	}
	suppliers, err := c.supplierNames(ctx, products)
	if err != nil {
		return nil, err
	}

	items := make([]models.ConsumedItem, len(products))
	grand := charge
	for i, l := range products {
		items[i] = models.ConsumedItem{
			ProductID:     l.product.ID.Hex(),
			Name:          l.product.Name,
			SupplierName:  suppliers[l.product.SupplierID],
			Quantity:      l.qty,
			UnitSalePrice: l.product.UnitPrice,
			UnitCostPrice: l.product.CostPrice,
		}
		grand += float64(l.qty) * l.product.UnitPrice
	}

	moved, err := c.takeAll(ctx, need)
	if err != nil {
		c.undoTakes(ctx, moved)
		return nil, err
	}

	start, end := window.Normalize()
	r := &models.Reservation{
		VenueID:       d.VenueID,
		VenueName:     venue.Name,
		VenueType:     venue.Type,
		Date:          day,
		HourStart:     start,
		HourEnd:       end,
		CustomerID:    d.CustomerID,
		PaymentMethod: d.PaymentMethod,
		VenueCharge:   charge,
		ConsumedItems: items,
		GrandTotal:    grand,
		Status:        models.ReservationActive,
		CreatedAt:     c.now(),
	}
	if _, err := c.repos.Reservations.Insert(ctx, r); err != nil {
		c.undoTakes(ctx, moved)
		return nil, err
	}
	return r, nil
}

func (c *Coordinator) resolveItems(ctx context.Context, items []models.DraftItem) ([]pricedLine, *demands, error) {
	lines := make([]pricedLine, len(items))
	need := newDemands()
	cache := map[string]*models.Product{}
	for i, item := range items {
		ref := strings.TrimSpace(item.ProductID)
		p, ok := cache[ref]
		if !ok {
			id, err := parseID(ref, apperr.ErrUnknownProduct)
			if err != nil {
				return nil, nil, err
			}
			p, err = c.repos.Products.FindByID(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			if p == nil {
				return nil, nil, fmt.Errorf("%w: %s", apperr.ErrUnknownProduct, ref)
			}
			cache[ref] = p
		}
		lines[i] = pricedLine{product: *p, qty: item.Quantity}
		need.add(*p, item.Quantity)
	}
	return lines, need, nil
}

// CancelReservation puts the consumed items back into stock and deletes the
// reservation identified by key. It returns false when no reservation
// matches. If the delete fails after stock was restored the error wraps
// apperr.ErrPartialCancellation and a retry only attempts the delete.
func (c *Coordinator) CancelReservation(ctx context.Context, key models.ReservationKey) (bool, error) {
	if strings.TrimSpace(key.VenueID) == "" {
		return false, apperr.Missing("venue_id")
	}
	if key.Date.IsZero() {
		return false, apperr.Missing("date")
	}
	window, err := pricing.ParseWindow(key.HourStart, key.HourEnd)
	if err != nil {
		return false, err
	}
	key.HourStart, key.HourEnd = window.Normalize()

	var cancelled *models.Reservation
	err = c.unit(ctx, "cancel_reservation", func(ctx context.Context) error {
		r, err := c.repos.Reservations.FindByKey(ctx, key)
		if err != nil || r == nil {
			return err
		}

		if !r.StockRestored {
			moves := reservationMovements(r, c.log)
			restored, err := c.giveAll(ctx, moves)
			if err != nil {
				c.undoGives(ctx, restored)
				return err
			}
			if _, err := c.repos.Reservations.MarkStockRestored(ctx, r.ID); err != nil {
				c.undoGives(ctx, restored)
				return err
			}
		}

		if _, err := c.repos.Reservations.Delete(ctx, r.ID); err != nil {
			return c.partial("reservation "+r.ID.Hex(), err)
		}
		r.Status = models.ReservationCancelled
		cancelled = r
		return nil
	})
	if err != nil {
		return false, err
	}
	if cancelled == nil {
		return false, nil
	}
	c.log.Info("reservation cancelled",
		zap.String("reservation_id", cancelled.ID.Hex()),
		zap.String("venue_id", cancelled.VenueID),
		zap.String("window", cancelled.HourStart+"-"+cancelled.HourEnd))
	return true, nil
}

func reservationMovements(r *models.Reservation, log *zap.Logger) []movement {
	var moves []movement
	for _, item := range r.ConsumedItems {
		if item.Quantity <= 0 {
			continue
		}
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			log.Warn("consumed item has no usable product id",
				zap.String("reservation_id", r.ID.Hex()), zap.String("product_id", item.ProductID))
			continue
		}
		moves = append(moves, movement{id: id, code: item.Name, qty: item.Quantity})
	}
	return moves
}
