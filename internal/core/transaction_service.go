package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/koek1/budget-app/internal/db"
	"github.com/koek1/budget-app/internal/models"
)

// Custom errors for the TransactionService
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

// transactionService implements the TransactionService interface on top of
// the transactions collection.
type transactionService struct {
	store db.Store
	now   func() time.Time
}

// NewTransactionService creates a new TransactionService instance.
func NewTransactionService(store db.Store) TransactionService {
	return &transactionService{store: store, now: time.Now}
}

func toTransaction(rec db.Record) (*models.Transaction, error) {
	var t models.Transaction
	if err := decodeRecord(rec, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func toTransactions(records []db.Record) ([]*models.Transaction, error) {
	out := make([]*models.Transaction, 0, len(records))
	for _, rec := range records {
		t, err := toTransaction(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// owned matches a transaction by id within one user's records.
func owned(userID, transactionID string) db.Criteria {
	return db.Criteria{db.Eq(db.FieldID, transactionID), db.Eq("userId", userID)}
}

func validateTransaction(kind string, amount float64) error {
	if !models.IsValidTransactionType(kind) {
		return fmt.Errorf("%w: type must be income or expense (got %q)", ErrInvalidTransaction, kind)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive (got %v)", ErrInvalidTransaction, amount)
	}
	return nil
}

// List returns the user's transactions, newest first.
func (s *transactionService) List(ctx context.Context, userID string) ([]*models.Transaction, error) {
	records, err := s.store.Find(ctx, db.TransactionsCollection, db.Criteria{db.Eq("userId", userID)})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user '%s': %w", userID, err)
	}
	transactions, err := toTransactions(records)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	return transactions, nil
}

// Create records a transaction. Date defaults to now and IsSynced to true.
func (s *transactionService) Create(ctx context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if err := validateTransaction(req.Type, req.Amount); err != nil {
		return nil, err
	}

	date := s.now()
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.Time
	}
	isSynced := true
	if req.IsSynced != nil {
		isSynced = *req.IsSynced
	}

	rec, err := s.store.Create(ctx, db.TransactionsCollection, db.Record{
		"userId":      userID,
		"amount":      req.Amount,
		"type":        req.Type,
		"category":    req.Category,
		"description": req.Description,
		"date":        date,
		"isSynced":    isSynced,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return toTransaction(rec)
}

func (s *transactionService) Get(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	rec, err := s.store.FindOne(ctx, db.TransactionsCollection, owned(userID, transactionID))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction '%s': %w", transactionID, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrTransactionNotFound, transactionID)
	}
	return toTransaction(rec)
}

// Update applies the provided fields. The owner and id of a transaction never change.
func (s *transactionService) Update(ctx context.Context, userID, transactionID string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	current, err := s.Get(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	patch := db.Record{}
	kind, amount := current.Type, current.Amount
	if req.Amount != nil {
		amount = *req.Amount
		patch["amount"] = amount
	}
	if req.Type != nil {
		kind = *req.Type
		patch["type"] = kind
	}
	if req.Category != nil {
		patch["category"] = *req.Category
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Date != nil && !req.Date.IsZero() {
		patch["date"] = req.Date.Time
	}
	if req.IsSynced != nil {
		patch["isSynced"] = *req.IsSynced
	}
	if err := validateTransaction(kind, amount); err != nil {
		return nil, err
	}

	rec, err := s.store.Update(ctx, db.TransactionsCollection, current.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction '%s': %w", transactionID, err)
	}
	if rec == nil {
		// Deleted between the ownership check and the write.
		return nil, fmt.Errorf("%w: '%s'", ErrTransactionNotFound, transactionID)
	}
	return toTransaction(rec)
}

// Delete removes the transaction and returns it as it was.
func (s *transactionService) Delete(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	rec, err := s.store.FindOneAndDelete(ctx, db.TransactionsCollection, owned(userID, transactionID))
	if err != nil {
		return nil, fmt.Errorf("failed to delete transaction '%s': %w", transactionID, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrTransactionNotFound, transactionID)
	}
	return toTransaction(rec)
}

func (s *transactionService) ListBetween(ctx context.Context, userID string, period ReportPeriod) ([]*models.Transaction, error) {
	criteria := db.Criteria{
		db.Eq("userId", userID),
		db.Between("date", period.Start, period.End),
	}
	if period.Type != "" && period.Type != models.ReportTypeAll {
		criteria = append(criteria, db.Eq("type", period.Type))
	}

	records, err := s.store.Find(ctx, db.TransactionsCollection, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user '%s': %w", userID, err)
	}
	transactions, err := toTransactions(records)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})
	return transactions, nil
}
