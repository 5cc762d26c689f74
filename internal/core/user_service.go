package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/koek1/budget-app/internal/db"
	"github.com/koek1/budget-app/internal/models"
)

// Custom errors for the UserService
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// userService implements the UserService interface on top of the users collection.
type userService struct {
	store      db.Store
	bcryptCost int
}

// NewUserService creates a new UserService instance.
func NewUserService(store db.Store, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		store:      store,
		bcryptCost: bcryptCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUser(rec db.Record) (*models.User, error) {
	var user models.User
	if err := decodeRecord(rec, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new account with the default currency and a zero budget.
// The existence check and the create are not atomic; two concurrent
// registrations of one email may both succeed.
func (s *userService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	existing, err := s.store.FindOne(ctx, db.UsersCollection, db.Criteria{db.Eq("email", email)})
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rec, err := s.store.Create(ctx, db.UsersCollection, db.Record{
		"name":          strings.TrimSpace(name),
		"email":         email,
		"password":      string(hash),
		"currency":      models.DefaultCurrency,
		"monthlyBudget": 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return toUser(rec)
}

// FindByEmail looks a user up case-insensitively.
func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	rec, err := s.store.FindOne(ctx, db.UsersCollection, db.Criteria{db.Eq("email", normalizeEmail(email))})
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: email '%s'", ErrUserNotFound, email)
	}
	return toUser(rec)
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	rec, err := s.store.FindByID(ctx, db.UsersCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID '%s': %w", userID, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
	}
	return toUser(rec)
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// VerifyPassword compares candidate against the user's stored hash.
func (s *userService) VerifyPassword(user *models.User, candidate string) bool {
	if user == nil || user.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// Update saves the user's mutable fields. Password must already be a hash.
func (s *userService) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%w: missing user ID", ErrUserNotFound)
	}
	rec, err := s.store.Update(ctx, db.UsersCollection, user.ID, db.Record{
		"name":          user.Name,
		"email":         normalizeEmail(user.Email),
		"password":      user.Password,
		"currency":      user.Currency,
		"monthlyBudget": user.MonthlyBudget,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user '%s': %w", user.ID, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, user.ID)
	}
	return toUser(rec)
}
