package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User defines user structure.
// Phone is the natural key of a user; storage keeps it unique.
// Profile holds any other fields of the record as they were submitted.
type User struct {
	ID           bson.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Phone        string         `json:"phone,omitempty" bson:"phone,omitempty" validate:"required,phone"`
	RegisteredAt time.Time      `json:"register_at,omitempty" bson:"register_at,omitempty"`
	LastLogin    *time.Time     `json:"last_login,omitempty" bson:"last_login,omitempty"`
	Profile      map[string]any `json:"profile,omitempty" bson:"profile,omitempty"`
}

// Validate checks the record before it is persisted.
// It returns *MissingFieldError or *FormatValidationError.
func (u *User) Validate() error {
	return translate(validate.Struct(u), "")
}
