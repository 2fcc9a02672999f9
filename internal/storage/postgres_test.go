package storage

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
)

func TestUniqueViolation_MapsUserConstraints(t *testing.T) {
	emailErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"}
	assert.ErrorIs(t, uniqueViolation(emailErr), apperrors.ErrEmailTaken)

	usernameErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_username_key"}
	assert.ErrorIs(t, uniqueViolation(usernameErr), apperrors.ErrUsernameTaken)

	// Ошибка доходит обернутой через Scan
	wrapped := fmt.Errorf("ошибка создания пользователя: %w", emailErr)
	assert.ErrorIs(t, uniqueViolation(wrapped), apperrors.ErrEmailTaken)
}

func TestUniqueViolation_OtherErrorsPassThrough(t *testing.T) {
	otherConstraint := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "chat_messages_pkey"}
	assert.NoError(t, uniqueViolation(otherConstraint))

	otherCode := &pgconn.PgError{Code: "23503", ConstraintName: "users_email_key"}
	assert.NoError(t, uniqueViolation(otherCode))

	assert.NoError(t, uniqueViolation(fmt.Errorf("connection refused")))
}

// Повторная регистрация должна отдавать клиенту 400, а не 500
func TestUniqueViolation_StatusCode(t *testing.T) {
	err := uniqueViolation(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}
