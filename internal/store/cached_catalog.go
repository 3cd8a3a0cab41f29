package store

import (
	"context"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codyseavey/tcg-portfolio/internal/models"
)

// CachedCatalog fronts a CatalogStore with an LRU of cards by id. Catalog rows
// are reference data and never change after seeding, so entries are not invalidated.
// Full listings and searches always go to the backing store.
type CachedCatalog struct {
	CatalogStore
	cards *lru.Cache[string, models.Card]
}

func NewCachedCatalog(backing CatalogStore, size int) *CachedCatalog {
	cache, err := lru.New[string, models.Card](size)
	if err != nil {
		log.Printf("Catalog cache: disabled (%v)", err)
	}
	return &CachedCatalog{CatalogStore: backing, cards: cache}
}

func (c *CachedCatalog) GetCard(ctx context.Context, id string) (*models.Card, error) {
	if c.cards != nil {
		if card, ok := c.cards.Get(id); ok {
			return &card, nil
		}
	}

	card, err := c.CatalogStore.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.cards != nil {
		c.cards.Add(id, *card)
	}
	return card, nil
}

// Len reports the number of cached cards.
func (c *CachedCatalog) Len() int {
	if c.cards == nil {
		return 0
	}
	return c.cards.Len()
}

type cachedStore struct {
	Store
	catalog *CachedCatalog
}

func (s cachedStore) GetCard(ctx context.Context, id string) (*models.Card, error) {
	return s.catalog.GetCard(ctx, id)
}

// WithCatalogCache returns s with card lookups served through a CachedCatalog.
func WithCatalogCache(s Store, size int) Store {
	return cachedStore{Store: s, catalog: NewCachedCatalog(s, size)}
}
