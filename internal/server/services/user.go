// Package services contains the business logic of the expense tracker: the
// user directory and the expense ledger.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thecloudydeveloper/expense-tracker/internal/common"
	"github.com/thecloudydeveloper/expense-tracker/internal/logging"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/auth"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/config"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/models"
	expensesrepo "github.com/thecloudydeveloper/expense-tracker/internal/server/repositories/expenses"
	usersrepo "github.com/thecloudydeveloper/expense-tracker/internal/server/repositories/users"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// Notifier queues a verification mail without blocking the caller.
type Notifier interface {
	Enqueue(ctx context.Context, toEmail, code string)
}

// UserService owns User entities: registration, authentication, password
// changes, income, the email-verification state machine, and account
// deletion (which cascades to owned expenses).
type UserService struct {
	repo          usersrepo.Repository
	expenses      expensesrepo.Repository
	notifier      Notifier
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
}

func NewUserService(repo usersrepo.Repository, expenses expensesrepo.Repository, notifier Notifier, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		repo:          repo,
		expenses:      expenses,
		notifier:      notifier,
		logger:        logger.With("module", "users"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		bcryptCost:    cfg.BcryptCost,
	}
}

// Register creates an unverified user, persists it, and queues the
// verification mail. The mail is best-effort: its failure never rolls back
// the user record.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if len(username) < minUsernameLength {
		return nil, fmt.Errorf("%w: username must be at least %d characters", common.ErrorValidation, minUsernameLength)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	code := common.GenerateVerificationCode()
	user := &models.User{
		Username:         username,
		Email:            email,
		PasswordHash:     hash,
		Income:           0,
		IsVerified:       false,
		VerificationCode: code,
		Expenses:         []primitive.ObjectID{},
		CreatedAt:        time.Now(),
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID.Hex(), "username", user.Username)
	s.notifier.Enqueue(ctx, user.Email, code)

	return user, nil
}

// Login verifies the credentials and returns a signed token plus the user.
// An unknown email and a wrong password are indistinguishable to the caller,
// so a failed login never reveals whether the account exists.
// Sensitive fields are excluded from serialization by the model itself.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("issuing token: %w", err)
	}

	return token, user, nil
}

// FindByEmail returns the user with the given email, or common.ErrorNotFound.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// ChangePassword verifies the current password and replaces it with a new
// hash. Identity is proven by email plus current password, so the operation
// needs no bearer token.
func (s *UserService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return common.ErrorInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, user.ID, hash)
}

// UpdateIncome sets the user's income and returns the updated user.
func (s *UserService) UpdateIncome(ctx context.Context, userID string, income float64) (*models.User, error) {
	if income < 0 {
		return nil, fmt.Errorf("%w: income must not be negative", common.ErrorValidation)
	}

	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdateIncome(ctx, id, income)
}

// GetIncome returns the user's income.
func (s *UserService) GetIncome(ctx context.Context, userID string) (float64, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Income, nil
}

// VerifyEmail matches the submitted code against the pending one. The match
// is a single conditional store update, so the code can only ever be
// consumed once: a second call with the same code fails with
// common.ErrorInvalidCode.
func (s *UserService) VerifyEmail(ctx context.Context, userID, submittedCode string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}

	if submittedCode != "" {
		matched, err := s.repo.ConfirmVerification(ctx, id, submittedCode)
		if err != nil {
			return err
		}
		if matched {
			s.logger.Info(ctx, "email verified", "user_id", userID)
			return nil
		}
	}

	// Distinguish a missing user from a wrong or already-consumed code.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return common.ErrorInvalidCode
}

// ResendVerificationCode regenerates the pending code, persists it, and
// queues a new mail with the same best-effort semantics as registration.
func (s *UserService) ResendVerificationCode(ctx context.Context, userID string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	code := common.GenerateVerificationCode()
	if err := s.repo.SetVerificationCode(ctx, id, code); err != nil {
		return err
	}

	s.notifier.Enqueue(ctx, user.Email, code)
	return nil
}

// DeleteUser removes the user and every expense it owns. Expenses go first:
// if their deletion fails the user record is left intact and no reference
// dangles.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.expenses.DeleteMany(ctx, user.Expenses); err != nil {
		return fmt.Errorf("cascading expense delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "user_id", userID, "expenses_removed", len(user.Expenses))
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", common.ErrorValidation, id)
	}
	return oid, nil
}
