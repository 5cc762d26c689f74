package models

import "time"

// DefaultCurrency is the currency symbol assigned to new users.
const DefaultCurrency = "R"

// User represents a registered account.
type User struct {
	ID            string    `json:"id" mapstructure:"id"`
	Name          string    `json:"name" mapstructure:"name"`
	Email         string    `json:"email" mapstructure:"email"` // Always stored lowercased
	Password      string    `json:"-" mapstructure:"password"`  // bcrypt hash, never serialized
	Currency      string    `json:"currency" mapstructure:"currency"`
	MonthlyBudget float64   `json:"monthlyBudget" mapstructure:"monthlyBudget"`
	CreatedAt     time.Time `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" mapstructure:"updatedAt"`
}
