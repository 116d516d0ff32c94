package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/models"
)

// ItemHandler serves item CRUD and quantity adjustment endpoints.
type ItemHandler struct {
	repo LedgerRepository
	log  *logrus.Logger
}

// NewItemHandler creates an ItemHandler with the given service and logger.
func NewItemHandler(repo LedgerRepository, log *logrus.Logger) *ItemHandler {
	return &ItemHandler{repo: repo, log: log}
}

// List handles GET /api/v1/items.
func (h *ItemHandler) List(c *gin.Context) {
	nameFilter := c.Query("name")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	items, hasMore, err := h.repo.ListItems(c.Request.Context(), nameFilter, limit, offset)
	if err != nil {
		respondLedgerError(c, h.log, err, "listing items")

		return
	}

	if items == nil {
		items = []models.Item{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "has_more": hasMore})
}

// Get handles GET /api/v1/items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID := c.Param("id")
	if err := validatePathID(itemID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	item, err := h.repo.GetItem(c.Request.Context(), itemID)
	if err != nil {
		respondLedgerError(c, h.log, err, "getting item")

		return
	}

	c.JSON(http.StatusOK, item)
}

// Create handles POST /api/v1/items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	item, err := h.repo.CreateItem(c.Request.Context(), actor, req)
	if err != nil {
		respondLedgerError(c, h.log, err, "creating item")

		return
	}

	c.JSON(http.StatusCreated, item)
}

// CreateBatch handles POST /api/v1/items/batch.
func (h *ItemHandler) CreateBatch(c *gin.Context) {
	var req struct {
		Items []models.CreateItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if len(req.Items) == 0 {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "items must not be empty")

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	items, err := h.repo.CreateItems(c.Request.Context(), actor, req.Items)
	if err != nil {
		respondLedgerError(c, h.log, err, "creating items")

		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": items})
}

// Update handles PUT /api/v1/items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	itemID := c.Param("id")
	if err := validatePathID(itemID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	item, err := h.repo.UpdateItem(c.Request.Context(), actor, itemID, req)
	if err != nil {
		respondLedgerError(c, h.log, err, "updating item")

		return
	}

	c.JSON(http.StatusOK, item)
}

// Adjust handles POST /api/v1/items/:id/adjust.
func (h *ItemHandler) Adjust(c *gin.Context) {
	itemID := c.Param("id")
	if err := validatePathID(itemID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	item, applied, err := h.repo.AdjustQuantity(c.Request.Context(), actor, itemID, req)
	if err != nil {
		respondLedgerError(c, h.log, err, "adjusting quantity")

		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item, "applied": applied})
}

// Delete handles DELETE /api/v1/items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID := c.Param("id")
	if err := validatePathID(itemID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	if err := h.repo.DeleteItem(c.Request.Context(), actor, itemID); err != nil {
		respondLedgerError(c, h.log, err, "deleting item")

		return
	}

	c.Status(http.StatusNoContent)
}
