package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/models"
)

// SummaryHandler serves windowed aggregation endpoints.
type SummaryHandler struct {
	repo SummaryRepository
	log  *logrus.Logger
}

// NewSummaryHandler creates a SummaryHandler.
func NewSummaryHandler(repo SummaryRepository, log *logrus.Logger) *SummaryHandler {
	return &SummaryHandler{repo: repo, log: log}
}

// resolveWindow resolves period presets or explicit from/to parameters
// into a closed window. Presets win when both are present.
func resolveWindow(c *gin.Context) (from, to time.Time, ok bool) {
	period := models.Period(c.DefaultQuery("period", string(models.PeriodCustom)))

	if from, to, ok = period.Window(time.Now()); ok {
		return from, to, true
	}

	if period != models.PeriodCustom {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown period: "+string(period))
		return time.Time{}, time.Time{}, false
	}

	fromPtr, err := parseTimeParam(c.Query("from"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return time.Time{}, time.Time{}, false
	}

	toPtr, err := parseTimeParam(c.Query("to"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return time.Time{}, time.Time{}, false
	}

	if fromPtr == nil || toPtr == nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "custom period requires from and to")
		return time.Time{}, time.Time{}, false
	}

	if toPtr.Before(*fromPtr) {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "to must not precede from")
		return time.Time{}, time.Time{}, false
	}

	return *fromPtr, *toPtr, true
}

// Get handles GET /api/v1/summary.
func (h *SummaryHandler) Get(c *gin.Context) {
	from, to, ok := resolveWindow(c)
	if !ok {
		return
	}

	topLimit := parseInt(c.DefaultQuery("top", "10"), 10)

	summary, err := h.repo.Summarize(c.Request.Context(), from, to, topLimit)
	if err != nil {
		h.log.WithError(err).Error("failed to compute summary")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DrillDown handles GET /api/v1/summary/transactions: the transactions
// behind a ranking entry, scoped to the window and one key.
func (h *SummaryHandler) DrillDown(c *gin.Context) {
	from, to, ok := resolveWindow(c)
	if !ok {
		return
	}

	f := models.TransactionFilter{
		ItemID: c.Query("item_id"),
		Actor:  c.Query("actor"),
		From:   &from,
		To:     &to,
		Limit:  parseInt(c.Query("limit"), 50),
		Offset: parseOffset(c.Query("offset")),
	}

	if f.ItemID == "" && f.Actor == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "item_id or actor is required")
		return
	}

	entries, hasMore, err := h.repo.DrillDown(c.Request.Context(), f)
	if err != nil {
		h.log.WithError(err).Error("failed to query drill-down")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to query transactions")
		return
	}

	if entries == nil {
		entries = []models.Transaction{}
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date": from,
		"end_date":   to,
		"data":       entries,
		"has_more":   hasMore,
	})
}
