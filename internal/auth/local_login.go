package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

// LocalAuthHandler holds dependencies of the register and login handlers.
type LocalAuthHandler struct {
	DB     *database.DBinstanceStruct
	Tokens *TokenManager
	Logger *zap.Logger
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler.
func NewLocalAuthHandler(db *database.DBinstanceStruct, tokens *TokenManager, logger *zap.Logger) *LocalAuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalAuthHandler{
		DB:     db,
		Tokens: tokens,
		Logger: logger,
	}
}

type registerInfo struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type loginInfo struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const invalidCredentials = "Invalid credentials"

// RegisterHandler creates an account and returns a session token.
// @Summary Register a new user
// @Description Email must not already be registered. Role defaults to jobseeker.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be 'jobseeker', 'employer' or 'admin'"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} utilities.ErrorResponse "Missing fields, invalid role or email already registered"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	info.Name = strings.TrimSpace(info.Name)
	info.Email = model.NormalizeEmail(info.Email)

	if info.Name == "" || info.Email == "" || info.Password == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Name, email, and password are required.",
		})
		return
	}

	if info.Role == "" {
		info.Role = model.RoleJobseeker
	}
	if !info.Role.Valid() {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: fmt.Sprintf("Role (%s) is not valid", info.Role),
		})
		return
	}

	var existing model.User
	err := lh.DB.Where("email = ?", info.Email).First(&existing).Error

	switch {
	case err == nil:
		LogAuthAttempt(lh.Logger, zap.InfoLevel, "Register", AuthFail, info.Email, "email already registered")
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "User already exists",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: "Database error",
			Error:   err.Error(),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: "Failed to hash password",
			Error:   err.Error(),
		})
		return
	}

	user := model.User{
		Name:     info.Name,
		Email:    info.Email,
		Password: hashedPassword,
		Role:     info.Role,
	}
	if err := lh.DB.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			LogAuthAttempt(lh.Logger, zap.InfoLevel, "Register", AuthFail, info.Email, "email already registered")
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Message: "User already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: "Failed to create user",
			Error:   err.Error(),
		})
		return
	}

	token, _, err := lh.Tokens.GenerateStandardToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: "Failed to generate access token",
			Error:   err.Error(),
		})
		return
	}

	LogAuthAttempt(lh.Logger, zap.InfoLevel, "Register", AuthSuccess, user.Email, "")
	c.JSON(http.StatusCreated, model.AuthResponse{
		Token: token,
		User:  user.Public(),
	})
}

// LoginHandler verifies email and password and returns a session token.
// Unknown email and wrong password produce the same response.
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} utilities.ErrorResponse "Malformed body"
// @Failure 401 {object} utilities.ErrorResponse "Email not registered or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}

	email := model.NormalizeEmail(info.Email)

	var user model.User
	err := lh.DB.Where("email = ?", email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt(lh.Logger, zap.InfoLevel, "Login", AuthFail, email, "unknown email")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Message: invalidCredentials,
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: "Database error",
			Error:   err.Error(),
		})
		return
	}

	if !utilities.VerifyPassword(info.Password, user.Password) {
		LogAuthAttempt(lh.Logger, zap.InfoLevel, "Login", AuthFail, email, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Message: invalidCredentials,
		})
		return
	}

	token, _, err := lh.Tokens.GenerateStandardToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Message: "Failed to generate access token",
			Error:   err.Error(),
		})
		return
	}

	LogAuthAttempt(lh.Logger, zap.InfoLevel, "Login", AuthSuccess, email, "")
	c.JSON(http.StatusOK, model.AuthResponse{
		Token: token,
		User:  user.Public(),
	})
}
