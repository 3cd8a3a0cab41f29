package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/services"
)

type ScanHandler struct {
	scanner *services.ScannerService
}

func NewScanHandler(scanner *services.ScannerService) *ScanHandler {
	return &ScanHandler{scanner: scanner}
}

// Scan identifies a card from hints or raw text. A confident match is added to
// the caller's collection; an ambiguous one returns candidates for /scan/confirm.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var resp *models.ScanResponse
	var err error
	if req.Text != "" {
		resp, err = h.scanner.ScanText(c.Request.Context(), currentUser(c), req.Text)
	} else {
		resp, err = h.scanner.ScanAndCollect(c.Request.Context(), currentUser(c), req.ScanHints)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScanHandler) Confirm(c *gin.Context) {
	var req models.ConfirmScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.scanner.ConfirmScan(c.Request.Context(), currentUser(c), req.CardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}
