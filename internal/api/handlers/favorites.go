package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

type FavoritesHandler struct {
	favorites store.FavoriteStore
	catalog   store.CatalogStore
	prices    store.PriceStore
}

func NewFavoritesHandler(favorites store.FavoriteStore, catalog store.CatalogStore, prices store.PriceStore) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favorites,
		catalog:   catalog,
		prices:    prices,
	}
}

// GetFavorites lists the user's favorites with each card's latest price
func (h *FavoritesHandler) GetFavorites(c *gin.Context) {
	ctx := c.Request.Context()
	favorites, err := h.favorites.ListFavorites(ctx, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]models.FavoriteView, 0, len(favorites))
	for _, fav := range favorites {
		view := models.FavoriteView{Favorite: fav}
		latest, err := h.prices.LatestPrice(ctx, fav.CardID)
		switch {
		case err == nil:
			price := latest.PriceUSD
			view.CurrentPrice = &price
		case !isNotFound(err):
			respondError(c, err)
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// AddFavorite is idempotent: 201 when newly favorited, 200 when it already was
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	ctx := c.Request.Context()
	card, err := h.catalog.GetCard(ctx, c.Param("cardId"))
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		respondError(c, err)
		return
	}

	created, err := h.favorites.AddFavorite(ctx, &models.Favorite{
		ID:        uuid.NewString(),
		UserID:    currentUser(c),
		CardID:    card.ID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"favorited": true})
}

func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	if err := h.favorites.RemoveFavorite(c.Request.Context(), currentUser(c), c.Param("cardId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": false})
}
