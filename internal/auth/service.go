package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// AuthService looks up user contexts for the middleware.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// GetUserContext retrieves the stored context for a user ID. Returns
// gorm.ErrRecordNotFound when the user is unknown.
func (as *AuthService) GetUserContext(userID string) (*UserContext, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is empty")
	}

	var userCtx UserContext
	result := as.db.Where("user_id = ?", userID).First(&userCtx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Debug("user context not found", "user_id", userID)
			return nil, result.Error
		}
		slog.Error("failed to fetch user context from database",
			"user_id", userID,
			"error", result.Error,
		)
		return nil, fmt.Errorf("failed to fetch user context: %w", result.Error)
	}

	return &userCtx, nil
}
