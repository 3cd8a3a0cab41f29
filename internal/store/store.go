// Package store defines the persistence interfaces the scoring services read and
// write through. SQLStore (gorm/sqlite) is the production implementation;
// MemoryStore backs unit tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/codyseavey/tcg-portfolio/internal/models"
)

// ErrNotFound is returned when a point lookup has no row
var ErrNotFound = errors.New("store: not found")

// CatalogStore serves the read-only card catalog.
type CatalogStore interface {
	// ListCards returns every catalog card ordered by set code, number, then id.
	ListCards(ctx context.Context) ([]models.Card, error)

	// GetCard returns ErrNotFound when the id is unknown.
	GetCard(ctx context.Context, id string) (*models.Card, error)

	SearchCards(ctx context.Context, filter models.CardFilter) (*models.CardSearchResult, error)
}

// PriceStore reads and appends raw price observations.
type PriceStore interface {
	// LatestPrice returns the newest observation for a card, or ErrNotFound.
	LatestPrice(ctx context.Context, cardID string) (*models.PriceSnapshot, error)

	// PriceHistory returns observations on or after since (zero means all), oldest first.
	PriceHistory(ctx context.Context, cardID string, since time.Time) ([]models.PriceSnapshot, error)

	// InsertPrices appends all snapshots in one transaction.
	InsertPrices(ctx context.Context, prices []models.PriceSnapshot) error
}

// GradeStore persists pre-grade results.
type GradeStore interface {
	// SaveGradeResult writes the result and its measurement atomically.
	SaveGradeResult(ctx context.Context, result *models.GradeResult, measurement *models.GradeMeasurement) error

	// GradeHistory returns results for a collection item, newest first, with measurements attached.
	GradeHistory(ctx context.Context, collectionItemID uint) ([]models.GradeResult, error)
}

// ROISignalStore is the append-only ROI history.
type ROISignalStore interface {
	AppendROISignal(ctx context.Context, signal *models.ROISignal) error

	// LatestROISignal returns ErrNotFound when the card has no history.
	LatestROISignal(ctx context.Context, cardID string) (*models.ROISignalView, error)

	// TopROISignals ranks the newest signal of each card by ROI, highest first.
	TopROISignals(ctx context.Context, limit int) ([]models.ROISignalView, error)
}

// TradeIntentStore holds trade intents. Returned intents have Card populated;
// OppositeIntents also populates User.
type TradeIntentStore interface {
	// EnsureUser creates a placeholder user row (username = id) if none exists.
	EnsureUser(ctx context.Context, userID string) error

	CreateIntent(ctx context.Context, intent *models.TradeIntent) error

	// ActiveIntentsByUser returns the user's active intents, newest first.
	ActiveIntentsByUser(ctx context.Context, userID string) ([]models.TradeIntent, error)

	// OppositeIntents returns active intents on cardID with the given direction
	// held by anyone other than excludeUserID, oldest first.
	OppositeIntents(ctx context.Context, cardID string, intentType models.IntentType, excludeUserID string) ([]models.TradeIntent, error)

	DeleteIntent(ctx context.Context, id, userID string) (bool, error)
}

// CollectionStore holds user collection items. Returned items have Card populated.
type CollectionStore interface {
	ListItems(ctx context.Context, userID string) ([]models.CollectionItem, error)

	// GetItem returns ErrNotFound if the item does not exist or belongs to another user.
	GetItem(ctx context.Context, userID string, id uint) (*models.CollectionItem, error)

	AddItem(ctx context.Context, item *models.CollectionItem) error
	UpdateItem(ctx context.Context, item *models.CollectionItem) error
	DeleteItem(ctx context.Context, userID string, id uint) (bool, error)
}

// FavoriteStore holds each user's watched cards. Returned favorites have Card populated.
type FavoriteStore interface {
	// ListFavorites returns the user's favorites, newest first.
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)

	// AddFavorite inserts fav unless the user already favorites that card;
	// created reports whether a row was written.
	AddFavorite(ctx context.Context, fav *models.Favorite) (created bool, err error)

	// RemoveFavorite succeeds whether or not the favorite existed.
	RemoveFavorite(ctx context.Context, userID, cardID string) error
}

// Store is the full persistence surface.
type Store interface {
	CatalogStore
	PriceStore
	GradeStore
	ROISignalStore
	TradeIntentStore
	CollectionStore
	FavoriteStore
}
