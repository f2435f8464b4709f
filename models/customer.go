package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Customer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code            string             `bson:"code,omitempty" json:"code,omitempty"`
	Name            string             `bson:"name" json:"name" binding:"required"`
	Document        string             `bson:"document" json:"document" binding:"required"` // CPF/CNPJ
	Phone           string             `bson:"phone" json:"phone"`
	Email           string             `bson:"email" json:"email"`
	Address         string             `bson:"address" json:"address"`
	CustomerType    string             `bson:"customer_type,omitempty" json:"customer_type,omitempty"`
	PurchaseHistory []PurchaseEntry    `bson:"purchase_history,omitempty" json:"purchase_history,omitempty"`
}

// PurchaseEntry is appended to a customer's history for every completed sale.
type PurchaseEntry struct {
	SaleID        string         `bson:"sale_id" json:"sale_id"`
	Date          time.Time      `bson:"date" json:"date"`
	Items         []PurchaseItem `bson:"items" json:"items"`
	Total         float64        `bson:"total" json:"total"`
	PaymentMethod string         `bson:"payment_method" json:"payment_method"`
	Discount      float64        `bson:"discount" json:"discount"`
}

type PurchaseItem struct {
	Code      string  `bson:"code" json:"code"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
	Subtotal  float64 `bson:"subtotal" json:"subtotal"`
}
