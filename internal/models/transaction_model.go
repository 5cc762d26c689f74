package models

import "time"

// Transaction kinds.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// ReportTypeAll selects both kinds in reports.
const ReportTypeAll = "all"

// Transaction is a single income or expense entry owned by a user.
type Transaction struct {
	ID          string    `json:"id" mapstructure:"id"`
	UserID      string    `json:"userId" mapstructure:"userId"`
	Amount      float64   `json:"amount" mapstructure:"amount"`
	Type        string    `json:"type" mapstructure:"type"` // "income" or "expense"
	Category    string    `json:"category" mapstructure:"category"`
	Description string    `json:"description" mapstructure:"description"`
	Date        time.Time `json:"date" mapstructure:"date"`
	IsSynced    bool      `json:"isSynced" mapstructure:"isSynced"`
	CreatedAt   time.Time `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" mapstructure:"updatedAt"`
}

// IsValidTransactionType reports whether t names a transaction kind.
func IsValidTransactionType(t string) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}
