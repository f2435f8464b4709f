package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Venue struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name" binding:"required"`
	Type       string             `bson:"type" json:"type"`
	HourlyRate float64            `bson:"hourly_rate" json:"hourly_rate" binding:"gte=0"`
}
