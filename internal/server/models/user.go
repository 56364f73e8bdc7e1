// Package models defines the persistent entities of the expense tracker.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. PasswordHash and VerificationCode are never
// serialized to JSON responses.
//
// Expenses holds the ids of the Expense documents owned by this user, in the
// order they were added. Ownership is exclusive and tracked only here; the
// Expense document carries no back-reference.
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username         string               `bson:"username" json:"username"`
	Email            string               `bson:"email" json:"email"`
	PasswordHash     string               `bson:"password" json:"-"`
	Income           float64              `bson:"income" json:"income"`
	IsVerified       bool                 `bson:"isVerified" json:"isVerified"`
	VerificationCode string               `bson:"verificationCode,omitempty" json:"-"`
	Expenses         []primitive.ObjectID `bson:"expenses" json:"expenses"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
}
