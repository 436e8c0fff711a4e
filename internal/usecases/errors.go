package usecases

import (
	"errors"
	"net/http"

	domainerrors "p2p-lending.backend/internal/domain/errors"
)

// badRequest classifies a business-rule violation. The sentinel stays reachable through errors.Is.
func badRequest(key string, sentinel error) *domainerrors.AppError {
	return domainerrors.NewAppError(http.StatusBadRequest, key, sentinel.Error(), sentinel)
}

func notFound(key string) *domainerrors.AppError {
	return domainerrors.NotFound(key, "resource not found")
}

// internal wraps an unexpected failure unless it is already classified
func internal(err error) error {
	if _, ok := domainerrors.As(err); ok {
		return err
	}
	return domainerrors.InternalError(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, domainerrors.ErrNotFound)
}
