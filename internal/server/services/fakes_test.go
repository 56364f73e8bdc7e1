package services

import (
	"context"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thecloudydeveloper/expense-tracker/internal/common"
	"github.com/thecloudydeveloper/expense-tracker/internal/logging"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard)
}

// memUsersRepo is an in-memory users.Repository with the same per-document
// atomicity guarantees as the real store: attach/detach hold the lock for
// the whole update, mirroring $addToSet/$pull.
type memUsersRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.User

	attachErr error
	detachErr error
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byID: make(map[primitive.ObjectID]*models.User)}
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Expenses = append([]primitive.ObjectID(nil), u.Expenses...)
	return &c
}

func (r *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, common.ErrorDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	r.byID[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (r *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *memUsersRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUsersRepo) UpdateIncome(ctx context.Context, id primitive.ObjectID, income float64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Income = income
	return copyUser(u), nil
}

func (r *memUsersRepo) SetVerificationCode(ctx context.Context, id primitive.ObjectID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.VerificationCode = code
	return nil
}

func (r *memUsersRepo) ConfirmVerification(ctx context.Context, id primitive.ObjectID, code string) (bool, error) {
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

func (r *memUsersRepo) AttachExpenses(ctx context.Context, id primitive.ObjectID, expenseIDs []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attachErr != nil {
		return r.attachErr
	}
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

func (r *memUsersRepo) DetachExpense(ctx context.Context, id, expenseID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detachErr != nil {
		return r.detachErr
	}
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

func (r *memUsersRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// memExpensesRepo is an in-memory expenses.Repository.
type memExpensesRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Expense

	insertErr     error
	deleteManyErr error
}

func newMemExpensesRepo() *memExpensesRepo {
	return &memExpensesRepo{byID: make(map[primitive.ObjectID]models.Expense)}
}

func (r *memExpensesRepo) Insert(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	expense.ID = primitive.NewObjectID()
	r.byID[expense.ID] = *expense
	return expense, nil
}

func (r *memExpensesRepo) InsertMany(ctx context.Context, batch []models.Expense) ([]models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	for i := range batch {
		batch[i].ID = primitive.NewObjectID()
		r.byID[batch[i].ID] = batch[i]
	}
	return batch, nil
}

func (r *memExpensesRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Expense, error) {
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

func (r *memExpensesRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memExpensesRepo) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteManyErr != nil {
		return r.deleteManyErr
	}
	for _, id := range ids {
		delete(r.byID, id)
	}
	return nil
}

func (r *memExpensesRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// fakeNotifier records queued verification mails.
type fakeNotifier struct {
	mu    sync.Mutex
	mails []queuedMail
}

type queuedMail struct {
	toEmail string
	code    string
}

func (n *fakeNotifier) Enqueue(ctx context.Context, toEmail, code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mails = append(n.mails, queuedMail{toEmail: toEmail, code: code})
}

func (n *fakeNotifier) last() (queuedMail, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.mails) == 0 {
		return queuedMail{}, false
	}
	return n.mails[len(n.mails)-1], true
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.mails)
}
