package rest

import (
	"context"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thecloudydeveloper/expense-tracker/internal/common"
	"github.com/thecloudydeveloper/expense-tracker/internal/logging"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/config"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/services"
)

// stubUsersRepo is a minimal in-memory users store for driving the router.
type stubUsersRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.User
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{byID: make(map[primitive.ObjectID]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Expenses = append([]primitive.ObjectID(nil), u.Expenses...)
	return &c
}

func (r *stubUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, common.ErrorDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *stubUsersRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUsersRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUsersRepo) UpdateIncome(ctx context.Context, id primitive.ObjectID, income float64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Income = income
	return cloneUser(u), nil
}

func (r *stubUsersRepo) SetVerificationCode(ctx context.Context, id primitive.ObjectID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.VerificationCode = code
	return nil
}

func (r *stubUsersRepo) ConfirmVerification(ctx context.Context, id primitive.ObjectID, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.VerificationCode == "" || u.VerificationCode != code {
		return false, nil
	}
	u.IsVerified = true
	u.VerificationCode = ""
	return true, nil
}

func (r *stubUsersRepo) AttachExpenses(ctx context.Context, id primitive.ObjectID, expenseIDs []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	for _, eid := range expenseIDs {
		present := false
		for _, existing := range u.Expenses {
			if existing == eid {
				present = true
				break
			}
		}
		if !present {
			u.Expenses = append(u.Expenses, eid)
		}
	}
	return nil
}

func (r *stubUsersRepo) DetachExpense(ctx context.Context, id, expenseID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	kept := u.Expenses[:0]
	for _, eid := range u.Expenses {
		if eid != expenseID {
			kept = append(kept, eid)
		}
	}
	u.Expenses = kept
	return nil
}

func (r *stubUsersRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// stubExpensesRepo is a minimal in-memory expenses store.
type stubExpensesRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Expense
}

func newStubExpensesRepo() *stubExpensesRepo {
	return &stubExpensesRepo{byID: make(map[primitive.ObjectID]models.Expense)}
}

func (r *stubExpensesRepo) Insert(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expense.ID = primitive.NewObjectID()
	r.byID[expense.ID] = *expense
	return expense, nil
}

func (r *stubExpensesRepo) InsertMany(ctx context.Context, batch []models.Expense) ([]models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range batch {
		batch[i].ID = primitive.NewObjectID()
		r.byID[batch[i].ID] = batch[i]
	}
	return batch, nil
}

func (r *stubExpensesRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Expense{}
	for _, id := range ids {
		if e, ok := r.byID[id]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *stubExpensesRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubExpensesRepo) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.byID, id)
	}
	return nil
}

// captureNotifier records the verification codes handed to the mail queue.
type captureNotifier struct {
	mu    sync.Mutex
	codes map[string]string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{codes: make(map[string]string)}
}

func (n *captureNotifier) Enqueue(ctx context.Context, toEmail, code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[toEmail] = code
}

func (n *captureNotifier) codeFor(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.BcryptCost = 4
	return cfg
}

func newTestServer(notifier services.Notifier) *Server {
	cfg := testConfig()
	logger := logging.NewJSONLogger(io.Discard)
	usersRepo := newStubUsersRepo()
	expensesRepo := newStubExpensesRepo()
	userSvc := services.NewUserService(usersRepo, expensesRepo, notifier, logger, cfg)
	expenseSvc := services.NewExpenseService(expensesRepo, usersRepo, logger)
	return NewServer(cfg, logger, userSvc, expenseSvc)
}
