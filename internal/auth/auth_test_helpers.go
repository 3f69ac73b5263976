package auth

import (
	"fmt"
	"net/http"
	"testing"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/testutil"
)

// TestSecret is the signing secret used by test token managers.
const TestSecret = "test-jwt-secret"

// GetAccessToken is a helper function to obtain an access token for a user by simulating a login API call.
// It returns the access token as a string and any error encountered during the process.
func GetAccessToken(
	t *testing.T,
	db *database.DBinstanceStruct,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewLocalAuthHandler(db, NewTokenManager(TestSecret), nil)
	rec, resp, err := testutil.CallHandler(handler.LoginHandler, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	token, ok := resp["token"].(string)
	if !ok {
		return "", fmt.Errorf("login Failed: no token in response: %s", rec.Body.String())
	}
	return token, nil
}
