package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the ISO calendar layout used on the wire for reservation dates.
const DateLayout = "2006-01-02"

const (
	ReservationActive    = "active"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	VenueID       string             `bson:"venue_id" json:"venue_id"`
	VenueName     string             `bson:"venue_name" json:"venue_name"`
	VenueType     string             `bson:"venue_type" json:"venue_type"`
	Date          time.Time          `bson:"date" json:"date"`
	HourStart     string             `bson:"hour_start" json:"hour_start"`
	HourEnd       string             `bson:"hour_end" json:"hour_end"`
	CustomerID    string             `bson:"customer_id" json:"customer_id"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	VenueCharge   float64            `bson:"venue_charge" json:"venue_charge"`
	ConsumedItems []ConsumedItem     `bson:"consumed_items" json:"consumed_items"`
	GrandTotal    float64            `bson:"grand_total" json:"grand_total"`
	Status        string             `bson:"status" json:"status"`
	StockRestored bool               `bson:"stock_restored,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

type ConsumedItem struct {
	ProductID     string  `bson:"product_id" json:"product_id"`
	Name          string  `bson:"name" json:"name"`
	SupplierName  string  `bson:"supplier_name,omitempty" json:"supplier_name,omitempty"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	UnitSalePrice float64 `bson:"unit_sale_price" json:"unit_sale_price"`
	UnitCostPrice float64 `bson:"unit_cost_price" json:"unit_cost_price"`
}

// ReservationDraft is an uncommitted reservation.
type ReservationDraft struct {
	VenueID       string
	CustomerID    string
	Date          time.Time
	HourStart     string
	HourEnd       string
	PaymentMethod string
	ConsumedItems []DraftItem
}

type DraftItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ReservationKey identifies a reservation the way the operator sees it.
type ReservationKey struct {
	VenueID   string
	Date      time.Time
	HourStart string
	HourEnd   string
}

// CalendarDay truncates t to local midnight of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
