package models

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateTransactionRequest represents the request body for recording a transaction.
// Date and IsSynced are pointers so that absent values can take their defaults.
type CreateTransactionRequest struct {
	Amount      float64       `json:"amount" binding:"required,gt=0"`
	Type        string        `json:"type" binding:"required,oneof=income expense"`
	Category    string        `json:"category" binding:"required"`
	Description string        `json:"description"`
	Date        *FlexibleTime `json:"date,omitempty"`
	IsSynced    *bool         `json:"isSynced,omitempty"`
}

// UpdateTransactionRequest represents the request body for editing a transaction.
// Pointers distinguish fields not provided from zero values.
type UpdateTransactionRequest struct {
	Amount      *float64      `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Type        *string       `json:"type,omitempty" binding:"omitempty,oneof=income expense"`
	Category    *string       `json:"category,omitempty"`
	Description *string       `json:"description,omitempty"`
	Date        *FlexibleTime `json:"date,omitempty"`
	IsSynced    *bool         `json:"isSynced,omitempty"`
}

// ReportRequest selects the transactions covered by an export.
// StartDate and EndDate take any format ParseFlexibleTime accepts.
type ReportRequest struct {
	StartDate  string `json:"startDate" form:"startDate"`
	EndDate    string `json:"endDate" form:"endDate"`
	ReportType string `json:"reportType" form:"reportType"` // "all", "income" or "expense"
}
