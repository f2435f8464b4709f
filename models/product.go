package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidityLayout is the legacy dd/MM/yyyy layout of products.validity_date.
const ValidityLayout = "02/01/2006"

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code         string             `bson:"code" json:"code" binding:"required"`
	Name         string             `bson:"name" json:"name" binding:"required"`
	Category     string             `bson:"category" json:"category"`
	UnitPrice    float64            `bson:"unit_price" json:"unit_price" binding:"gte=0"`
	CostPrice    float64            `bson:"cost_price,omitempty" json:"cost_price,omitempty" binding:"gte=0"`
	Stock        int                `bson:"stock" json:"stock" binding:"gte=0"`
	StockMin     int                `bson:"stock_min" json:"stock_min" binding:"gte=0"`
	SupplierID   string             `bson:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	ValidityDate string             `bson:"validity_date,omitempty" json:"validity_date,omitempty"`
	Unit         string             `bson:"unit_of_measure" json:"unit_of_measure"`
	CreatedAt    time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt    time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Validity parses the legacy validity string. ok is false when the product
// carries no validity date.
func (p Product) Validity() (day time.Time, ok bool, err error) {
	raw := strings.TrimSpace(p.ValidityDate)
	if raw == "" {
		return time.Time{}, false, nil
	}
	day, err = time.ParseInLocation(ValidityLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, false, err
	}
	return day, true, nil
}

// ExpiredAsOf reports whether the validity date lies strictly before today.
// Products without a parseable validity never expire.
func (p Product) ExpiredAsOf(today time.Time) bool {
	day, ok, err := p.Validity()
	if err != nil || !ok {
		return false
	}
	y, m, d := today.Date()
	return day.Before(time.Date(y, m, d, 0, 0, 0, 0, day.Location()))
}

type Supplier struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name" binding:"required"`
	Document string             `bson:"document" json:"document"`
	Phone    string             `bson:"phone" json:"phone"`
	Email    string             `bson:"email" json:"email"`
	Address  string             `bson:"address" json:"address"`
}
