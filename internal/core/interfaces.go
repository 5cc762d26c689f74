package core

import (
	"context"

	"github.com/koek1/budget-app/internal/models"
)

// UserService defines the interface for account operations.
type UserService interface {
	// Register creates an account. The email is lowercased and the password bcrypt-hashed.
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// Authenticate returns the user for valid credentials, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	VerifyPassword(user *models.User, candidate string) bool
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

// TransactionService defines the interface for transaction operations.
// Every method is scoped to the owning user.
type TransactionService interface {
	List(ctx context.Context, userID string) ([]*models.Transaction, error)
	Create(ctx context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error)
	Get(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, userID, transactionID string, req models.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	// ListBetween returns the user's transactions dated within period, oldest first.
	ListBetween(ctx context.Context, userID string, period ReportPeriod) ([]*models.Transaction, error)
}

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(userID string) (string, error)
	// Parse returns the user ID carried by a valid token.
	Parse(token string) (string, error)
}

// ExportService builds reports over a user's transactions.
type ExportService interface {
	Summary(ctx context.Context, userID string, period ReportPeriod) (*ReportSummary, error)
	// Workbook renders the report as an .xlsx document.
	Workbook(ctx context.Context, userID string, period ReportPeriod) ([]byte, error)
}
