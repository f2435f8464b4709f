package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

type Employee struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EmployeeID string             `bson:"employee_id" json:"employee_id" binding:"required"`
	Name       string             `bson:"name" json:"name" binding:"required"`
	Document   string             `bson:"document" json:"document"`
	Position   string             `bson:"position" json:"position"`
	Phone      string             `bson:"phone" json:"phone"`
	Email      string             `bson:"email" json:"email"`
	HiredAt    time.Time          `bson:"hired_at,omitempty" json:"hired_at,omitempty"`
}

// User is the login credential paired with an Employee. Password holds a
// bcrypt hash and is never serialized to JSON.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username   string             `bson:"username" json:"username" binding:"required"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role" binding:"required"`
	EmployeeID string             `bson:"employee_id" json:"employee_id"`
}
