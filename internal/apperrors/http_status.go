package apperrors

import (
	"errors"
	"net/http"
)

// HTTPStatus переводит код доменной ошибки в HTTP-статус.
// Неклассифицированные ошибки считаются внутренними.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument, CodeFailedPrecondition, CodeAlreadyExists:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает человекочитаемый текст ошибки без технических деталей
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
