package api

import "github.com/koek1/budget-app/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message
	Details string `json:"details,omitempty"` // More specific details, if safe to share
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Currency      string  `json:"currency"`
	MonthlyBudget float64 `json:"monthlyBudget"`
	Token         string  `json:"token"`
}

func newLoginResponse(user *models.User, token string) LoginResponse {
	return LoginResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Currency:      user.Currency,
		MonthlyBudget: user.MonthlyBudget,
		Token:         token,
	}
}
