package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-portfolio/internal/services"
)

// Upper bound on ?limit= for the leaderboard
const maxTopLimit = 100

type ROIHandler struct {
	engine       *services.ROIEngine
	defaultLimit int
}

func NewROIHandler(engine *services.ROIEngine, defaultLimit int) *ROIHandler {
	return &ROIHandler{
		engine:       engine,
		defaultLimit: defaultLimit,
	}
}

// GetTop ranks cards by their latest ROI signal.
func (h *ROIHandler) GetTop(c *gin.Context) {
	limit := h.defaultLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxTopLimit)
	}

	signals, err := h.engine.TopROI(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, signals)
}

func (h *ROIHandler) GetCard(c *gin.Context) {
	signal, err := h.engine.CardROI(c.Request.Context(), c.Param("cardId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if signal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no ROI data for card"})
		return
	}
	c.JSON(http.StatusOK, signal)
}

// ComputeAll recomputes ROI for the whole catalog.
func (h *ROIHandler) ComputeAll(c *gin.Context) {
	result, err := h.engine.ComputeAllROI(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
