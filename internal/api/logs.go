package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/models"
)

// LogHandler serves audit log endpoints.
type LogHandler struct {
	repo AuditRepository
	log  *logrus.Logger
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(repo AuditRepository, log *logrus.Logger) *LogHandler {
	return &LogHandler{repo: repo, log: log}
}

// Query handles GET /api/v1/logs.
func (h *LogHandler) Query(c *gin.Context) {
	f := models.TransactionFilter{
		ItemID: c.Query("item_id"),
		Actor:  c.Query("actor"),
		Kind:   models.TxKind(c.Query("kind")),
		Limit:  parseInt(c.Query("limit"), 50),
		Offset: parseOffset(c.Query("offset")),
	}

	var err error

	if f.From, err = parseTimeParam(c.Query("from")); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	if f.To, err = parseTimeParam(c.Query("to")); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	entries, hasMore, err := h.repo.QueryTransactions(c.Request.Context(), f)
	if err != nil {
		h.log.WithError(err).Error("failed to query audit log")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to query audit log")
		return
	}

	if entries == nil {
		entries = []models.Transaction{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     entries,
		"has_more": hasMore,
	})
}

// Clear handles DELETE /api/v1/logs. The wipe is itself recorded as a
// SYSTEM event attributed to the acting admin.
func (h *LogHandler) Clear(c *gin.Context) {
	actor := getActor(c)
	if actor == "" {
		return
	}

	deleted, err := h.repo.ClearTransactions(c.Request.Context(), actor)
	if err != nil {
		h.log.WithError(err).Error("failed to clear audit log")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to clear audit log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
