// Package users provides persistence for User documents.
package users

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
)

// Repository is the narrow store interface the user directory depends on.
// Implementations must guarantee per-document atomicity for every method;
// AttachExpenses and DetachExpense in particular must be atomic set updates,
// never application-level read-modify-write.
type Repository interface {
	// Create inserts the user and returns it with its assigned id.
	// A unique-constraint violation yields common.ErrorDuplicate.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error

	// UpdateIncome sets the income field and returns the updated user.
	UpdateIncome(ctx context.Context, id primitive.ObjectID, income float64) (*models.User, error)

	// SetVerificationCode stores a new pending verification code.
	SetVerificationCode(ctx context.Context, id primitive.ObjectID, code string) error

	// ConfirmVerification atomically matches the pending code, marks the user
	// verified and clears the code. It reports whether a document matched, so
	// a second call with the same code cannot succeed.
	ConfirmVerification(ctx context.Context, id primitive.ObjectID, code string) (bool, error)

	// AttachExpenses appends the given expense ids to the user's list with an
	// atomic set update (duplicates are impossible by construction).
	AttachExpenses(ctx context.Context, id primitive.ObjectID, expenseIDs []primitive.ObjectID) error

	// DetachExpense removes an expense id from the user's list. Removing an
	// absent member is not an error.
	DetachExpense(ctx context.Context, id, expenseID primitive.ObjectID) error

	// Delete removes the user document, or returns common.ErrorNotFound.
	Delete(ctx context.Context, id primitive.ObjectID) error
}
