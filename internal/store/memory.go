package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/codyseavey/tcg-portfolio/internal/models"
)

// MemoryStore is an in-process Store used by unit tests. Slices keep insertion
// order so "newest" means "last appended".
type MemoryStore struct {
	mu sync.RWMutex

	users        map[string]models.User
	cards        []models.Card
	prices       []models.PriceSnapshot
	grades       []models.GradeResult
	measurements map[string]models.GradeMeasurement
	signals      []models.ROISignal
	intents      []models.TradeIntent
	items        []models.CollectionItem
	favorites    []models.Favorite
	nextItemID   uint

	failures map[string]error
	calls    map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]models.User),
		measurements: make(map[string]models.GradeMeasurement),
		failures:     make(map[string]error),
		calls:        make(map[string]int),
		nextItemID:   1,
	}
}

// AddUser registers a user so intents can resolve their owner.
func (m *MemoryStore) AddUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// AddCards appends catalog cards.
func (m *MemoryStore) AddCards(cards ...models.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards = append(m.cards, cards...)
}

// Fail makes the named method return err until cleared with a nil err.
func (m *MemoryStore) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

// Calls reports how many times the named method was called.
func (m *MemoryStore) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// Signals returns a copy of the ROI signal log.
func (m *MemoryStore) Signals() []models.ROISignal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ROISignal(nil), m.signals...)
}

// Prices returns a copy of every stored price snapshot.
func (m *MemoryStore) Prices() []models.PriceSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.PriceSnapshot(nil), m.prices...)
}

// enter records the call and returns any injected failure. Caller holds mu.
func (m *MemoryStore) enter(method string) error {
	m.calls[method]++
	return m.failures[method]
}

func (m *MemoryStore) cardByID(id string) (models.Card, bool) {
	for _, c := range m.cards {
		if c.ID == id {
			return c, true
		}
	}
	return models.Card{}, false
}

func (m *MemoryStore) ListCards(ctx context.Context) ([]models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListCards"); err != nil {
		return nil, err
	}
	cards := append([]models.Card(nil), m.cards...)
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].SetCode != cards[j].SetCode {
			return cards[i].SetCode < cards[j].SetCode
		}
		if cards[i].Number != cards[j].Number {
			return cards[i].Number < cards[j].Number
		}
		return cards[i].ID < cards[j].ID
	})
	return cards, nil
}

func (m *MemoryStore) GetCard(ctx context.Context, id string) (*models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetCard"); err != nil {
		return nil, err
	}
	c, ok := m.cardByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) SearchCards(ctx context.Context, filter models.CardFilter) (*models.CardSearchResult, error) {
	all, err := m.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	page, limit := normalizePage(filter.Page, filter.Limit)

	matched := []models.Card{}
	for _, c := range all {
		if filter.SetCode != "" && c.SetCode != filter.SetCode {
			continue
		}
		if filter.Rarity != "" && c.Rarity != filter.Rarity {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), escapeLike(filter.Search)) {
			continue
		}
		matched = append(matched, c)
	}

	start := min((page-1)*limit, len(matched))
	end := min(start+limit, len(matched))
	return &models.CardSearchResult{
		Cards:      matched[start:end],
		Pagination: newPagination(page, limit, int64(len(matched))),
	}, nil
}

func (m *MemoryStore) LatestPrice(ctx context.Context, cardID string) (*models.PriceSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("LatestPrice"); err != nil {
		return nil, err
	}
	var latest *models.PriceSnapshot
	for i := range m.prices {
		p := m.prices[i]
		if p.CardID != cardID {
			continue
		}
		if latest == nil || !p.SnapshotDate.Before(latest.SnapshotDate) {
			latest = &p
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) PriceHistory(ctx context.Context, cardID string, since time.Time) ([]models.PriceSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("PriceHistory"); err != nil {
		return nil, err
	}
	var out []models.PriceSnapshot
	for _, p := range m.prices {
		if p.CardID == cardID && (since.IsZero() || !p.SnapshotDate.Before(since)) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SnapshotDate.Before(out[j].SnapshotDate)
	})
	return out, nil
}

func (m *MemoryStore) InsertPrices(ctx context.Context, prices []models.PriceSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("InsertPrices"); err != nil {
		return err
	}
	m.prices = append(m.prices, prices...)
	return nil
}

func (m *MemoryStore) SaveGradeResult(ctx context.Context, result *models.GradeResult, measurement *models.GradeMeasurement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("SaveGradeResult"); err != nil {
		return err
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	measurement.GradeResultID = result.ID
	stored := *result
	stored.Measurement = nil
	m.grades = append(m.grades, stored)
	m.measurements[result.ID] = *measurement
	result.Measurement = measurement
	return nil
}

func (m *MemoryStore) GradeHistory(ctx context.Context, collectionItemID uint) ([]models.GradeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GradeHistory"); err != nil {
		return nil, err
	}
	out := []models.GradeResult{}
	for i := len(m.grades) - 1; i >= 0; i-- {
		g := m.grades[i]
		if g.CollectionItemID != collectionItemID {
			continue
		}
		if meas, ok := m.measurements[g.ID]; ok {
			g.Measurement = &meas
		}
		out = append(out, g)
	}
	return out, nil
}

func (m *MemoryStore) AppendROISignal(ctx context.Context, signal *models.ROISignal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("AppendROISignal"); err != nil {
		return err
	}
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now()
	}
	m.signals = append(m.signals, *signal)
	return nil
}

// latestSignals returns the last appended signal per card. Caller holds mu.
func (m *MemoryStore) latestSignals() []models.ROISignalView {
	seen := make(map[string]bool)
	views := []models.ROISignalView{}
	for i := len(m.signals) - 1; i >= 0; i-- {
		sig := m.signals[i]
		if seen[sig.CardID] {
			continue
		}
		seen[sig.CardID] = true
		card, ok := m.cardByID(sig.CardID)
		if !ok {
			continue
		}
		views = append(views, models.ROISignalView{
			ROISignal: sig,
			Name:      card.Name,
			SetCode:   card.SetCode,
			Rarity:    card.Rarity,
		})
	}
	return views
}

func (m *MemoryStore) LatestROISignal(ctx context.Context, cardID string) (*models.ROISignalView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("LatestROISignal"); err != nil {
		return nil, err
	}
	for _, v := range m.latestSignals() {
		if v.CardID == cardID {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) TopROISignals(ctx context.Context, limit int) ([]models.ROISignalView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("TopROISignals"); err != nil {
		return nil, err
	}
	views := m.latestSignals()
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].ROIPercentage != views[j].ROIPercentage {
			return views[i].ROIPercentage > views[j].ROIPercentage
		}
		return views[i].CardID < views[j].CardID
	})
	if limit >= 0 && len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

func (m *MemoryStore) EnsureUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("EnsureUser"); err != nil {
		return err
	}
	if _, ok := m.users[userID]; !ok {
		m.users[userID] = models.User{ID: userID, Username: userID, CreatedAt: time.Now()}
	}
	return nil
}

func (m *MemoryStore) CreateIntent(ctx context.Context, intent *models.TradeIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateIntent"); err != nil {
		return err
	}
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now()
	}
	if intent.Status == "" {
		intent.Status = models.IntentStatusActive
	}
	stored := *intent
	stored.User = models.User{}
	stored.Card = models.Card{}
	m.intents = append(m.intents, stored)
	return nil
}

func (m *MemoryStore) ActiveIntentsByUser(ctx context.Context, userID string) ([]models.TradeIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ActiveIntentsByUser"); err != nil {
		return nil, err
	}
	out := []models.TradeIntent{}
	for i := len(m.intents) - 1; i >= 0; i-- {
		in := m.intents[i]
		if in.UserID != userID || in.Status != models.IntentStatusActive {
			continue
		}
		in.Card, _ = m.cardByID(in.CardID)
		out = append(out, in)
	}
	return out, nil
}

func (m *MemoryStore) OppositeIntents(ctx context.Context, cardID string, intentType models.IntentType, excludeUserID string) ([]models.TradeIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("OppositeIntents"); err != nil {
		return nil, err
	}
	var out []models.TradeIntent
	for _, in := range m.intents {
		if in.CardID != cardID || in.IntentType != intentType ||
			in.Status != models.IntentStatusActive || in.UserID == excludeUserID {
			continue
		}
		in.User = m.users[in.UserID]
		in.Card, _ = m.cardByID(in.CardID)
		out = append(out, in)
	}
	return out, nil
}

func (m *MemoryStore) DeleteIntent(ctx context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteIntent"); err != nil {
		return false, err
	}
	for i, in := range m.intents {
		if in.ID == id && in.UserID == userID {
			m.intents = append(m.intents[:i], m.intents[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListItems(ctx context.Context, userID string) ([]models.CollectionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListItems"); err != nil {
		return nil, err
	}
	out := []models.CollectionItem{}
	for i := len(m.items) - 1; i >= 0; i-- {
		it := m.items[i]
		if it.UserID != userID {
			continue
		}
		it.Card, _ = m.cardByID(it.CardID)
		out = append(out, it)
	}
	return out, nil
}

func (m *MemoryStore) GetItem(ctx context.Context, userID string, id uint) (*models.CollectionItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetItem"); err != nil {
		return nil, err
	}
	for _, it := range m.items {
		if it.ID == id && it.UserID == userID {
			it.Card, _ = m.cardByID(it.CardID)
			return &it, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) AddItem(ctx context.Context, item *models.CollectionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("AddItem"); err != nil {
		return err
	}
	if item.ID == 0 {
		item.ID = m.nextItemID
		m.nextItemID++
	} else if item.ID >= m.nextItemID {
		m.nextItemID = item.ID + 1
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Condition == "" {
		item.Condition = models.ConditionNearMint
	}
	stored := *item
	stored.Card = models.Card{}
	m.items = append(m.items, stored)
	return nil
}

func (m *MemoryStore) UpdateItem(ctx context.Context, item *models.CollectionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateItem"); err != nil {
		return err
	}
	for i := range m.items {
		if m.items[i].ID == item.ID {
			stored := *item
			stored.Card = models.Card{}
			m.items[i] = stored
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteItem(ctx context.Context, userID string, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteItem"); err != nil {
		return false, err
	}
	for i, it := range m.items {
		if it.ID == id && it.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListFavorites"); err != nil {
		return nil, err
	}
	out := []models.Favorite{}
	for i := len(m.favorites) - 1; i >= 0; i-- {
		fav := m.favorites[i]
		if fav.UserID != userID {
			continue
		}
		fav.Card, _ = m.cardByID(fav.CardID)
		out = append(out, fav)
	}
	return out, nil
}

func (m *MemoryStore) AddFavorite(ctx context.Context, fav *models.Favorite) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("AddFavorite"); err != nil {
		return false, err
	}
	for _, existing := range m.favorites {
		if existing.UserID == fav.UserID && existing.CardID == fav.CardID {
			return false, nil
		}
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now()
	}
	stored := *fav
	stored.Card = models.Card{}
	m.favorites = append(m.favorites, stored)
	return true, nil
}

func (m *MemoryStore) RemoveFavorite(ctx context.Context, userID, cardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("RemoveFavorite"); err != nil {
		return err
	}
	kept := m.favorites[:0]
	for _, fav := range m.favorites {
		if fav.UserID != userID || fav.CardID != cardID {
			kept = append(kept, fav)
		}
	}
	m.favorites = kept
	return nil
}
