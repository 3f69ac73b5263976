package auth

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Auth attempt outcomes
const (
	AuthSuccess = "Success"
	AuthFail    = "Fail"
)

// LogAuthAttempt records an authentication attempt.
// authType is Register, Login or Logout; identifier is usually the email.
func LogAuthAttempt(logger *zap.Logger, level zapcore.Level, authType, status, identifier, message string) {
	if logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("auth_type", authType),
		zap.String("status", status),
	}
	if identifier != "" {
		fields = append(fields, zap.String("identifier", identifier))
	}
	if message != "" {
		fields = append(fields, zap.String("detail", message))
	}

	if ce := logger.Check(level, "auth attempt"); ce != nil {
		ce.Write(fields...)
	}
}
