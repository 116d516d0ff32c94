package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/httputil"
	"github.com/stocktrail/stocktrail/internal/metrics"
	"github.com/stocktrail/stocktrail/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeInternalError      = "internal_error"
	ErrCodePartialFailure     = "partial_failure"
	ErrCodeStorageUnavailable = "storage_unavailable"
	ErrCodeValidationError    = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// validationErrors are caller-fixable input errors mapped to 400.
var validationErrors = []error{
	models.ErrMissingName,
	models.ErrNegativeQuantity,
	models.ErrNonPositiveAmount,
	models.ErrUnknownDirection,
	models.ErrEmptySizeName,
	models.ErrSizeTotalMismatch,
	models.ErrSizeNotTracked,
	models.ErrSizeRequired,
	models.ErrValueTooLong,
}

// respondLedgerError maps a ledger error to its HTTP status and code.
// Every error kind surfaces distinctly; in particular a partial failure
// is never reported as a generic internal error.
func respondLedgerError(c *gin.Context, log *logrus.Logger, err error, op string) {
	switch {
	case errors.Is(err, models.ErrItemNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
	case errors.Is(err, models.ErrDuplicateName):
		respondError(c, http.StatusConflict, ErrCodeConflict, "item name already in use")
	case errors.Is(err, models.ErrVersionConflict):
		respondError(c, http.StatusConflict, ErrCodeConflict, "item was modified concurrently, retry with a fresh read")
	case models.IsPartialFailure(err):
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodePartialFailure, "state changed but the audit record was not written")
	case errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn(op)
		respondError(c, http.StatusServiceUnavailable, ErrCodeStorageUnavailable, "storage unavailable, retry later")
	case isValidationError(err):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	default:
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

func isValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}

	return false
}
