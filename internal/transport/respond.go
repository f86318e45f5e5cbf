package transport

import (
	"errors"
	"net/http"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/middleware"

	"go.uber.org/zap"
)

// respondServiceError maps the error taxonomy onto HTTP status codes:
// NotFound → 404, InvalidArgument → 400, Conflict → 409, anything
// else → 500 with the detail kept out of the response.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes and validates a JSON request body, writing the
// appropriate 400 response itself. Returns false when the request was
// rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
