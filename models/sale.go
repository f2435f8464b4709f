package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sale is one persisted basket line. Lines of the same basket share SaleID
// and carry snapshots of the product and supplier taken at sale time.
type Sale struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SaleID           string             `bson:"sale_id" json:"sale_id"`
	Timestamp        time.Time          `bson:"timestamp" json:"timestamp"`
	CashierID        string             `bson:"cashier_id,omitempty" json:"cashier_id,omitempty"`
	CustomerDocument string             `bson:"customer_document,omitempty" json:"customer_document,omitempty"`
	ProductID        string             `bson:"product_id" json:"product_id"`
	ProductCode      string             `bson:"product_code" json:"product_code"`
	ProductName      string             `bson:"product_name" json:"product_name"`
	SupplierName     string             `bson:"supplier_name,omitempty" json:"supplier_name,omitempty"`
	UnitPrice        float64            `bson:"unit_price" json:"unit_price"`
	UnitCost         float64            `bson:"unit_cost,omitempty" json:"unit_cost,omitempty"`
	Quantity         int                `bson:"quantity" json:"quantity"`
	Subtotal         float64            `bson:"subtotal" json:"subtotal"`
	PaymentMethod    string             `bson:"payment_method" json:"payment_method"`
	Discount         float64            `bson:"discount" json:"discount"`
	StockRestored    bool               `bson:"stock_restored,omitempty" json:"-"`
}

// Basket is an uncommitted sale assembled by the operator.
type Basket struct {
	CashierID        string       `json:"cashier_id"`
	CustomerDocument string       `json:"customer_document,omitempty"`
	PaymentMethod    string       `json:"payment_method" binding:"required"`
	DiscountAmount   float64      `json:"discount_amount"`
	Lines            []BasketLine `json:"lines"`
	Timestamp        time.Time    `json:"timestamp,omitempty"`
}

type BasketLine struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// SaleReceipt is what a committed basket hands back to the operator.
type SaleReceipt struct {
	SaleID   string               `json:"sale_id"`
	LineIDs  []primitive.ObjectID `json:"line_ids"`
	Lines    []Sale               `json:"lines"`
	Gross    float64              `json:"gross"`
	Discount float64              `json:"discount"`
	Total    float64              `json:"total"`
}
