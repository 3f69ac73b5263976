// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobboard-backend/internal/model"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; instead returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("user information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("failed to assert type")
	}
	return user, nil
}

// CreateAdmin creates an admin user with the given credentials in the provided database.
func CreateAdmin(db *gorm.DB, name, email, password string) (model.User, error) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := model.User{
		Name:     name,
		Email:    model.NormalizeEmail(email),
		Password: hashedPassword,
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return model.User{}, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}
