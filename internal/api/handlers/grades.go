package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-portfolio/internal/services"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

type GradeHandler struct {
	preGrade      *services.PreGradeService
	collection    store.CollectionStore
	maxUploadSize int64
}

func NewGradeHandler(preGrade *services.PreGradeService, collection store.CollectionStore, maxUploadSize int64) *GradeHandler {
	return &GradeHandler{
		preGrade:      preGrade,
		collection:    collection,
		maxUploadSize: maxUploadSize,
	}
}

// PreGrade accepts a multipart form with collection_item_id and image.
func (h *GradeHandler) PreGrade(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	itemID, err := strconv.ParseUint(c.PostForm("collection_item_id"), 10, 64)
	if err != nil || itemID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collection_item_id is required"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.collection.GetItem(ctx, currentUser(c), uint(itemID)); err != nil {
		respondError(c, err)
		return
	}

	report, err := h.preGrade.PreGrade(ctx, uint(itemID), image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *GradeHandler) GetGrades(c *gin.Context) {
	itemID, ok := parseID(c, "collectionItemId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.collection.GetItem(ctx, currentUser(c), itemID); err != nil {
		respondError(c, err)
		return
	}

	grades, err := h.preGrade.GradeHistory(ctx, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grades)
}
