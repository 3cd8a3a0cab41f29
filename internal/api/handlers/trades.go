package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/services"
)

type TradeHandler struct {
	trades *services.TradeService
}

func NewTradeHandler(trades *services.TradeService) *TradeHandler {
	return &TradeHandler{trades: trades}
}

func (h *TradeHandler) CreateIntent(c *gin.Context) {
	var req models.CreateTradeIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.trades.CreateIntent(c.Request.Context(), currentUser(c), req.CardID, req.IntentType)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "card not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

func (h *TradeHandler) ListIntents(c *gin.Context) {
	intents, err := h.trades.ListIntents(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intents)
}

func (h *TradeHandler) DeleteIntent(c *gin.Context) {
	deleted, err := h.trades.DeleteIntent(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "trade intent not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *TradeHandler) GetMatches(c *gin.Context) {
	matches, err := h.trades.FindMatches(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}
