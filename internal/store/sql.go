package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/tcg-portfolio/internal/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// SQLStore implements Store on top of gorm.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB exposes the underlying handle for health checks and seeding.
func (s *SQLStore) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *SQLStore) ListCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	err := s.db.WithContext(ctx).Order("set_code ASC, number ASC, id ASC").Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (s *SQLStore) GetCard(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	if err := s.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &card, nil
}

func (s *SQLStore) SearchCards(ctx context.Context, filter models.CardFilter) (*models.CardSearchResult, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	query := s.db.WithContext(ctx).Model(&models.Card{})
	if filter.SetCode != "" {
		query = query.Where("set_code = ?", filter.SetCode)
	}
	if filter.Rarity != "" {
		query = query.Where("rarity = ?", filter.Rarity)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+escapeLike(filter.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count cards: %w", err)
	}

	var cards []models.Card
	err := query.Order("set_code ASC, number ASC, id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}

	return &models.CardSearchResult{
		Cards:      cards,
		Pagination: newPagination(page, limit, total),
	}, nil
}

func (s *SQLStore) LatestPrice(ctx context.Context, cardID string) (*models.PriceSnapshot, error) {
	var snap models.PriceSnapshot
	err := s.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("snapshot_date DESC, created_at DESC").
		First(&snap).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &snap, nil
}

func (s *SQLStore) PriceHistory(ctx context.Context, cardID string, since time.Time) ([]models.PriceSnapshot, error) {
	query := s.db.WithContext(ctx).Where("card_id = ?", cardID)
	if !since.IsZero() {
		query = query.Where("snapshot_date >= ?", since)
	}

	var snaps []models.PriceSnapshot
	if err := query.Order("snapshot_date ASC, created_at ASC").Find(&snaps).Error; err != nil {
		return nil, fmt.Errorf("price history for %s: %w", cardID, err)
	}
	return snaps, nil
}

func (s *SQLStore) InsertPrices(ctx context.Context, prices []models.PriceSnapshot) error {
	if len(prices) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(prices, 200).Error; err != nil {
			return fmt.Errorf("insert prices: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) SaveGradeResult(ctx context.Context, result *models.GradeResult, measurement *models.GradeMeasurement) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(result).Error; err != nil {
			return fmt.Errorf("save grade result: %w", err)
		}
		measurement.GradeResultID = result.ID
		if err := tx.Create(measurement).Error; err != nil {
			return fmt.Errorf("save grade measurement: %w", err)
		}
		result.Measurement = measurement
		return nil
	})
}

func (s *SQLStore) GradeHistory(ctx context.Context, collectionItemID uint) ([]models.GradeResult, error) {
	var results []models.GradeResult
	err := s.db.WithContext(ctx).
		Preload("Measurement").
		Where("collection_item_id = ?", collectionItemID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("grade history: %w", err)
	}
	return results, nil
}

func (s *SQLStore) AppendROISignal(ctx context.Context, signal *models.ROISignal) error {
	if err := s.db.WithContext(ctx).Create(signal).Error; err != nil {
		return fmt.Errorf("append roi signal: %w", err)
	}
	return nil
}

// latestSignalSQL selects the newest signal per card; rowid breaks created_at ties
// within a single batch run.
const latestSignalSQL = `
	SELECT rs.*, c.name AS name, c.set_code AS set_code, c.rarity AS rarity
	FROM roi_signals rs
	JOIN cards c ON c.id = rs.card_id
	WHERE rs.rowid = (
		SELECT rs2.rowid FROM roi_signals rs2
		WHERE rs2.card_id = rs.card_id
		ORDER BY rs2.created_at DESC, rs2.rowid DESC
		LIMIT 1
	)`

func (s *SQLStore) LatestROISignal(ctx context.Context, cardID string) (*models.ROISignalView, error) {
	var views []models.ROISignalView
	err := s.db.WithContext(ctx).
		Raw(latestSignalSQL+" AND rs.card_id = ?", cardID).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("latest roi signal: %w", err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (s *SQLStore) TopROISignals(ctx context.Context, limit int) ([]models.ROISignalView, error) {
	var views []models.ROISignalView
	err := s.db.WithContext(ctx).
		Raw(latestSignalSQL+" ORDER BY rs.roi_percentage DESC, rs.card_id ASC LIMIT ?", limit).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("top roi signals: %w", err)
	}
	return views, nil
}

func (s *SQLStore) EnsureUser(ctx context.Context, userID string) error {
	user := models.User{ID: userID, Username: userID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return nil
}

func (s *SQLStore) CreateIntent(ctx context.Context, intent *models.TradeIntent) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(intent).Error; err != nil {
		return fmt.Errorf("create trade intent: %w", err)
	}
	return nil
}

func (s *SQLStore) ActiveIntentsByUser(ctx context.Context, userID string) ([]models.TradeIntent, error) {
	var intents []models.TradeIntent
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ? AND status = ?", userID, models.IntentStatusActive).
		Order("created_at DESC").
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("list trade intents: %w", err)
	}
	return intents, nil
}

func (s *SQLStore) OppositeIntents(ctx context.Context, cardID string, intentType models.IntentType, excludeUserID string) ([]models.TradeIntent, error) {
	var intents []models.TradeIntent
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Card").
		Where("card_id = ? AND intent_type = ? AND status = ? AND user_id <> ?",
			cardID, intentType, models.IntentStatusActive, excludeUserID).
		Order("created_at ASC").
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("find opposite intents: %w", err)
	}
	return intents, nil
}

func (s *SQLStore) DeleteIntent(ctx context.Context, id, userID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.TradeIntent{})
	if result.Error != nil {
		return false, fmt.Errorf("delete trade intent: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *SQLStore) ListItems(ctx context.Context, userID string) ([]models.CollectionItem, error) {
	var items []models.CollectionItem
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	return items, nil
}

func (s *SQLStore) GetItem(ctx context.Context, userID string, id uint) (*models.CollectionItem, error) {
	var item models.CollectionItem
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *SQLStore) AddItem(ctx context.Context, item *models.CollectionItem) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("add collection item: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateItem(ctx context.Context, item *models.CollectionItem) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return fmt.Errorf("update collection item: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteItem(ctx context.Context, userID string, id uint) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CollectionItem{})
	if result.Error != nil {
		return false, fmt.Errorf("delete collection item: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *SQLStore) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

func (s *SQLStore) AddFavorite(ctx context.Context, fav *models.Favorite) (bool, error) {
	result := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fav)
	if result.Error != nil {
		return false, fmt.Errorf("add favorite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *SQLStore) RemoveFavorite(ctx context.Context, userID, cardID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func newPagination(page, limit int, total int64) models.Pagination {
	return models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

// escapeLike lowercases s and drops LIKE wildcards.
func escapeLike(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(strings.ToLower(s))
}
