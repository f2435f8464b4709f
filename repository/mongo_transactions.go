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

type saleRepo struct {
	c collection[models.Sale]
}

func (r *saleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Sale, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *saleRepo) BySaleID(ctx context.Context, saleID string) ([]models.Sale, error) {
	return r.c.find(ctx, bson.M{"sale_id": saleID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *saleRepo) InsertLines(ctx context.Context, lines []models.Sale) ([]primitive.ObjectID, error) {
	docs := make([]interface{}, len(lines))
	for i := range lines {
		if lines[i].ID.IsZero() {
			lines[i].ID = primitive.NewObjectID()
		}
		docs[i] = lines[i]
	}

	_, err := r.c.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		ids := make([]primitive.ObjectID, len(lines))
		for i := range lines {
			ids[i] = lines[i].ID
		}
		return ids, nil
	}

	// Ordered inserts stop at the first failing document; everything before
	// it was written.
	written := 0
	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) && len(bulkErr.WriteErrors) > 0 {
		written = bulkErr.WriteErrors[0].Index
	}
	ids := make([]primitive.ObjectID, written)
	for i := 0; i < written; i++ {
		ids[i] = lines[i].ID
	}
	return ids, apperr.Storage("insert sale lines", err)
}

func (r *saleRepo) InRange(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	return r.c.scan(ctx, rangeFilter("timestamp", from, to), func(id primitive.ObjectID) models.Sale {
		return models.Sale{ID: id}
	}, opts)
}

func (r *saleRepo) MarkStockRestored(ctx context.Context, saleID string) (bool, error) {
	res, err := r.c.coll.UpdateMany(ctx, bson.M{"sale_id": saleID}, bson.M{"$set": bson.M{"stock_restored": true}})
	if err != nil {
		return false, apperr.Storage("mark sale restored", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *saleRepo) DeleteBySaleID(ctx context.Context, saleID string) (int64, error) {
	res, err := r.c.coll.DeleteMany(ctx, bson.M{"sale_id": saleID})
	if err != nil {
		return 0, apperr.Storage("delete sale lines", err)
	}
	return res.DeletedCount, nil
}

type reservationRepo struct {
	c collection[models.Reservation]
}

func byDateAndStart() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "hour_start", Value: 1}})
}

func (r *reservationRepo) List(ctx context.Context) ([]models.Reservation, error) {
	return r.c.find(ctx, bson.M{}, byDateAndStart())
}

func (r *reservationRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reservation, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *reservationRepo) FindByKey(ctx context.Context, key models.ReservationKey) (*models.Reservation, error) {
	start, end := DayBounds(key.Date)
	return r.c.findOne(ctx, bson.M{
		"venue_id":   key.VenueID,
		"date":       bson.M{"$gte": start, "$lt": end},
		"hour_start": key.HourStart,
		"hour_end":   key.HourEnd,
	})
}

func (r *reservationRepo) ForVenueDate(ctx context.Context, venueID string, date time.Time) ([]models.Reservation, error) {
	start, end := DayBounds(date)
	return r.c.find(ctx, bson.M{
		"venue_id": venueID,
		"date":     bson.M{"$gte": start, "$lt": end},
	}, byDateAndStart())
}

func (r *reservationRepo) InRange(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	return r.c.scan(ctx, rangeFilter("date", from, to), func(id primitive.ObjectID) models.Reservation {
		return models.Reservation{ID: id}
	}, byDateAndStart())
}

func (r *reservationRepo) Insert(ctx context.Context, res *models.Reservation) (primitive.ObjectID, error) {
	id, err := r.c.insert(ctx, res, "", "")
	if err != nil {
		return id, err
	}
	res.ID = id
	return id, nil
}

func (r *reservationRepo) MarkStockRestored(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.c.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"stock_restored": true}}, "", "")
}

func (r *reservationRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return r.c.deleteByID(ctx, id)
}
