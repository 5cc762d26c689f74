package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koek1/budget-app/internal/middleware"
)

// currentUserID returns the authenticated user's ID, answering 401 when the
// auth middleware did not set one.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return "", false
	}
	return userID, true
}
