package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/balcao/backend/models"
	"github.com/balcao/backend/repository"
)

type Sales struct {
	db *DB
}

func (r *Sales) FindByID(_ context.Context, id primitive.ObjectID) (*models.Sale, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, s := range r.db.sales {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

func (r *Sales) BySaleID(_ context.Context, saleID string) ([]models.Sale, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []models.Sale{}
	for _, s := range r.db.sales {
		if s.SaleID == saleID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Sales) InsertLines(_ context.Context, lines []models.Sale) ([]primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ids := make([]primitive.ObjectID, len(lines))
	for i := range lines {
		ids[i] = assignID(&lines[i].ID)
		r.db.sales = append(r.db.sales, lines[i])
	}
	return ids, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

func (r *Sales) InRange(_ context.Context, from, to time.Time) ([]models.Sale, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []models.Sale{}
	for _, s := range r.db.sales {
		if inRange(s.Timestamp, from, to) {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Sale) int { return a.Timestamp.Compare(b.Timestamp) })
	return out, nil
}

func (r *Sales) MarkStockRestored(_ context.Context, saleID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	matched := false
	for i := range r.db.sales {
		if r.db.sales[i].SaleID == saleID {
			r.db.sales[i].StockRestored = true
			matched = true
		}
	}
	return matched, nil
}

func (r *Sales) DeleteBySaleID(_ context.Context, saleID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	before := len(r.db.sales)
	r.db.sales = slices.DeleteFunc(r.db.sales, func(s models.Sale) bool { return s.SaleID == saleID })
	return int64(before - len(r.db.sales)), nil
}

type Reservations struct {
	db *DB
}

func byDateAndStart(a, b models.Reservation) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.HourStart, b.HourStart)
}

func (r *Reservations) collect(match func(models.Reservation) bool) []models.Reservation {
	out := []models.Reservation{}
	for _, res := range r.db.reservations {
		if match(res) {
			out = append(out, cloneReservation(res))
		}
	}
	slices.SortFunc(out, byDateAndStart)
	return out
}

func (r *Reservations) List(_ context.Context) ([]models.Reservation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.collect(func(models.Reservation) bool { return true }), nil
}

func (r *Reservations) FindByID(_ context.Context, id primitive.ObjectID) (*models.Reservation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res, ok := r.db.reservations[id]
	if !ok {
		return nil, nil
	}
	res = cloneReservation(res)
	return &res, nil
}

func onDay(t, day time.Time) bool {
	start, end := repository.DayBounds(day)
	return !t.Before(start) && t.Before(end)
}

func (r *Reservations) FindByKey(_ context.Context, key models.ReservationKey) (*models.Reservation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	found := r.collect(func(res models.Reservation) bool {
		return res.VenueID == key.VenueID && onDay(res.Date, key.Date) &&
			res.HourStart == key.HourStart && res.HourEnd == key.HourEnd
	})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *Reservations) ForVenueDate(_ context.Context, venueID string, date time.Time) ([]models.Reservation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.collect(func(res models.Reservation) bool {
		return res.VenueID == venueID && onDay(res.Date, date)
	}), nil
}

func (r *Reservations) InRange(_ context.Context, from, to time.Time) ([]models.Reservation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.collect(func(res models.Reservation) bool { return inRange(res.Date, from, to) }), nil
}

func (r *Reservations) Insert(_ context.Context, res *models.Reservation) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id := assignID(&res.ID)
	r.db.reservations[id] = cloneReservation(*res)
	return id, nil
}

func (r *Reservations) MarkStockRestored(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	res, ok := r.db.reservations[id]
	if !ok {
		return false, nil
	}
	res.StockRestored = true
	r.db.reservations[id] = res
	return true, nil
}

func (r *Reservations) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reservations[id]; !ok {
		return false, nil
	}
	delete(r.db.reservations, id)
	return true, nil
}
