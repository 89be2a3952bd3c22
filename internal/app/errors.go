package app

import (
	"errors"
	"fmt"
	"net/http"

	"chunker/api/internal/auth"
	"chunker/api/internal/translation"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	switch {
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	case errors.Is(err, auth.ErrMissingScope):
		return http.StatusForbidden, "FORBIDDEN", "Forbidden", nil
	case errors.Is(err, translation.ErrUnsupportedLanguage):
		return http.StatusUnprocessableEntity, "UNSUPPORTED_LANGUAGE", err.Error(), nil
	case errors.Is(err, translation.ErrNoEngines):
		return http.StatusServiceUnavailable, "TRANSLATION_UNAVAILABLE", "No translation engine configured", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
