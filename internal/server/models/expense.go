package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Expense is a single spending record. Its lifecycle is driven entirely by
// the owning user's expense list.
type Expense struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Cost        float64            `bson:"cost" json:"cost"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// ExpenseInput is the payload for creating an expense.
type ExpenseInput struct {
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
}
