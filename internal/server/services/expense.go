package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thecloudydeveloper/expense-tracker/internal/common"
	"github.com/thecloudydeveloper/expense-tracker/internal/logging"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
	expensesrepo "github.com/thecloudydeveloper/expense-tracker/internal/server/repositories/expenses"
	usersrepo "github.com/thecloudydeveloper/expense-tracker/internal/server/repositories/users"
)

// ExpenseService owns Expense entities and the link to the owning user's
// expense list. The store gives per-document atomicity but no cross-document
// transactions, so every operation that touches both collections follows the
// same discipline: write the expense document first, attach/detach with an
// atomic set update, and compensate when the second step fails.
type ExpenseService struct {
	repo   expensesrepo.Repository
	users  usersrepo.Repository
	logger logging.Logger
}

func NewExpenseService(repo expensesrepo.Repository, users usersrepo.Repository, logger logging.Logger) *ExpenseService {
	return &ExpenseService{
		repo:   repo,
		users:  users,
		logger: logger.With("module", "expenses"),
	}
}

// AddExpense creates an expense and appends it to the owner's list. If the
// attach step fails the freshly created document is deleted again; if that
// compensation fails too, the call fails loudly with common.ErrorPartialWrite
// so the orphan is never silent.
func (s *ExpenseService) AddExpense(ctx context.Context, userID string, input models.ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}

	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	expense, err := s.repo.Insert(ctx, &models.Expense{
		Name:        strings.TrimSpace(input.Name),
		Cost:        input.Cost,
		Description: strings.TrimSpace(input.Description),
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.AttachExpenses(ctx, uid, []primitive.ObjectID{expense.ID}); err != nil {
		return nil, s.compensate(ctx, []primitive.ObjectID{expense.ID}, err)
	}

	return expense, nil
}

// AddExpenses is the bulk variant. The whole batch is validated up front and
// rejected on any invalid member; nothing is written for a rejected batch.
// Insert and attach then follow the same compensation policy as AddExpense.
func (s *ExpenseService) AddExpenses(ctx context.Context, userID string, inputs []models.ExpenseInput) ([]models.Expense, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no expenses provided", common.ErrorValidation)
	}
	for i, input := range inputs {
		if err := validateExpenseInput(input); err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
	}

	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	batch := make([]models.Expense, len(inputs))
	for i, input := range inputs {
		batch[i] = models.Expense{
			Name:        strings.TrimSpace(input.Name),
			Cost:        input.Cost,
			Description: strings.TrimSpace(input.Description),
		}
	}

	inserted, err := s.repo.InsertMany(ctx, batch)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(inserted))
	for i := range inserted {
		ids[i] = inserted[i].ID
	}

	if err := s.users.AttachExpenses(ctx, uid, ids); err != nil {
		return nil, s.compensate(ctx, ids, err)
	}

	return inserted, nil
}

// DeleteExpense removes the expense document and detaches its id from the
// owner's list. Detaching is idempotent: removing an absent member is not an
// error.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, userID string) error {
	eid, err := parseID(expenseID)
	if err != nil {
		return err
	}
	uid, err := parseID(userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, eid); err != nil {
		return err
	}

	if err := s.users.DetachExpense(ctx, uid, eid); err != nil {
		// The expense document is gone; a failed detach leaves a dangling id
		// in the user's list. List reads skip dangling ids, but the fault is
		// still surfaced loudly.
		s.logger.Error(ctx, "expense deleted but not detached", "expense_id", expenseID, "user_id", userID, "error", err.Error())
		return fmt.Errorf("%w: expense %s deleted but still referenced", common.ErrorPartialWrite, expenseID)
	}

	return nil
}

// ListExpenses resolves every id in the user's list to its expense record,
// preserving add order. A dangling reference is a consistency fault; it is
// skipped and logged rather than failing the read path.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.GetByIDs(ctx, user.Expenses)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Expense, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}

	resolved := make([]models.Expense, 0, len(user.Expenses))
	for _, id := range user.Expenses {
		e, ok := byID[id]
		if !ok {
			s.logger.Warn(ctx, "dangling expense reference skipped", "user_id", userID, "expense_id", id.Hex())
			continue
		}
		resolved = append(resolved, e)
	}

	return resolved, nil
}

// compensate deletes expenses that were inserted but could not be attached.
// When the cleanup succeeds the original attach error is returned; when it
// fails the orphan is reported as a partial write.
func (s *ExpenseService) compensate(ctx context.Context, ids []primitive.ObjectID, attachErr error) error {
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		s.logger.Error(ctx, "orphaned expenses could not be cleaned up", "count", len(ids), "error", err.Error())
		return fmt.Errorf("%w: expense created but not attached", common.ErrorPartialWrite)
	}
	return fmt.Errorf("attaching expenses: %w", attachErr)
}

func validateExpenseInput(input models.ExpenseInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: expense name must not be empty", common.ErrorValidation)
	}
	if input.Cost < 0 {
		return fmt.Errorf("%w: expense cost must not be negative", common.ErrorValidation)
	}
	return nil
}
