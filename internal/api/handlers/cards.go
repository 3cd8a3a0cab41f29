package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/services"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

type CardHandler struct {
	catalog      store.CatalogStore
	priceService *services.PriceService
}

func NewCardHandler(catalog store.CatalogStore, prices *services.PriceService) *CardHandler {
	return &CardHandler{
		catalog:      catalog,
		priceService: prices,
	}
}

// ListCards browses the catalog with optional set, rarity and name filters.
func (h *CardHandler) ListCards(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := models.CardFilter{
		SetCode: c.Query("set"),
		Search:  c.Query("search"),
		Page:    page,
		Limit:   limit,
	}
	if r := c.Query("rarity"); r != "" {
		filter.Rarity = models.NormalizeRarity(r)
		if filter.Rarity == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown rarity"})
			return
		}
	}

	result, err := h.catalog.SearchCards(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.catalog.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"card": card}
	latest, err := h.priceService.LatestPrice(c.Request.Context(), card.ID)
	switch {
	case err == nil:
		resp["latest_price"] = latest
	case !isNotFound(err):
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCardChart returns price history for ?range= (d, w, m, 3m, 6m, y, all).
func (h *CardHandler) GetCardChart(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.catalog.GetCard(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	chart, err := h.priceService.History(ctx, c.Param("id"), c.Query("range"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}
