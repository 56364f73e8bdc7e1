// Package expenses provides persistence for Expense documents.
package expenses

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
)

// Repository is the narrow store interface the expense ledger depends on.
type Repository interface {
	// Insert stores a new expense and returns it with its assigned id.
	Insert(ctx context.Context, expense *models.Expense) (*models.Expense, error)

	// InsertMany stores a batch of expenses and returns them with ids.
	InsertMany(ctx context.Context, batch []models.Expense) ([]models.Expense, error)

	// GetByIDs returns the expenses whose ids are in the given set. Missing
	// ids are simply absent from the result; the caller decides how to treat
	// dangling references.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Expense, error)

	// Delete removes an expense, or returns common.ErrorNotFound.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DeleteMany removes every expense in the given id set. Missing ids are
	// not an error.
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) error
}
