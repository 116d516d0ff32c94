package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/stocktrail/stocktrail/internal/httputil"
	"github.com/stocktrail/stocktrail/internal/metrics"
)

// respondError writes a standardized JSON error response and counts it.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}
