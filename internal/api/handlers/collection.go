package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

// Maximum quantity allowed per collection item
const maxQuantity = 9999

type CollectionHandler struct {
	collection store.CollectionStore
	catalog    store.CatalogStore
}

func NewCollectionHandler(collection store.CollectionStore, catalog store.CatalogStore) *CollectionHandler {
	return &CollectionHandler{
		collection: collection,
		catalog:    catalog,
	}
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	items, err := h.collection.ListItems(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToCollection always creates a new item. Items are physical copies that
// carry their own grade history, so stacks are never merged.
func (h *CollectionHandler) AddToCollection(c *gin.Context) {
	var req models.AddToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	card, err := h.catalog.GetCard(ctx, req.CardID)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "card not found"})
			return
		}
		respondError(c, err)
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if msg := validateQuantity(quantity); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	condition := req.Condition
	if condition == "" {
		condition = models.ConditionNearMint
	}
	if !condition.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid condition"})
		return
	}
	if req.PurchasePrice != nil && *req.PurchasePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_price must not be negative"})
		return
	}

	item := &models.CollectionItem{
		UserID:        currentUser(c),
		CardID:        card.ID,
		Quantity:      quantity,
		Condition:     condition,
		PurchasePrice: req.PurchasePrice,
		Notes:         req.Notes,
		AddedAt:       time.Now(),
	}
	if err := h.collection.AddItem(ctx, item); err != nil {
		respondError(c, err)
		return
	}
	item.Card = *card
	c.JSON(http.StatusCreated, item)
}

func (h *CollectionHandler) UpdateCollectionItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	item, err := h.collection.GetItem(ctx, currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Quantity != nil {
		if msg := validateQuantity(*req.Quantity); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		item.Quantity = *req.Quantity
	}
	if req.Condition != nil {
		if !req.Condition.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid condition"})
			return
		}
		item.Condition = *req.Condition
	}
	if req.PurchasePrice != nil {
		if *req.PurchasePrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_price must not be negative"})
			return
		}
		item.PurchasePrice = req.PurchasePrice
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := h.collection.UpdateItem(ctx, item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CollectionHandler) DeleteCollectionItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.collection.DeleteItem(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func validateQuantity(q int) string {
	if q <= 0 {
		return "quantity must be positive"
	}
	if q > maxQuantity {
		return "quantity exceeds maximum allowed (9999)"
	}
	return ""
}
