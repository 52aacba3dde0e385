package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fitquest/fitquest-api/internal/models"
)

// httpError translates the domain error taxonomy to HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, models.ErrNotUnlocked), errors.Is(err, models.ErrAlreadyClaimed), errors.Is(err, models.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, models.ErrStoreUnavailable):
		return huma.Error503ServiceUnavailable(err.Error())
	}
	return huma.Error500InternalServerError(err.Error())
}
