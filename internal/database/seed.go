package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/tcg-portfolio/internal/models"
)

type cardSeed struct {
	name    string
	number  string
	setName string
	setCode string
	rarity  models.Rarity
}

var catalogSeed = []cardSeed{
	{"Charizard", "4/102", "Base Set", "BS", models.RarityHoloRare},
	{"Blastoise", "2/102", "Base Set", "BS", models.RarityHoloRare},
	{"Venusaur", "15/102", "Base Set", "BS", models.RarityHoloRare},
	{"Alakazam", "1/102", "Base Set", "BS", models.RarityHoloRare},
	{"Machamp", "8/102", "Base Set", "BS", models.RarityHoloRare},
	{"Pikachu", "58/102", "Base Set", "BS", models.RarityCommon},
	{"Charmeleon", "24/102", "Base Set", "BS", models.RarityUncommon},
	{"Bulbasaur", "44/102", "Base Set", "BS", models.RarityCommon},

	{"Flareon", "3/64", "Jungle", "JU", models.RarityHoloRare},
	{"Jolteon", "4/64", "Jungle", "JU", models.RarityHoloRare},
	{"Vaporeon", "12/64", "Jungle", "JU", models.RarityHoloRare},
	{"Scyther", "10/64", "Jungle", "JU", models.RarityHoloRare},
	{"Pikachu", "60/64", "Jungle", "JU", models.RarityCommon},

	{"Gengar", "5/62", "Fossil", "FO", models.RarityHoloRare},
	{"Dragonite", "4/62", "Fossil", "FO", models.RarityHoloRare},
	{"Lapras", "10/62", "Fossil", "FO", models.RarityHoloRare},
	{"Aerodactyl", "1/62", "Fossil", "FO", models.RarityHoloRare},
	{"Kabuto", "50/62", "Fossil", "FO", models.RarityCommon},

	{"Dark Charizard", "4/82", "Team Rocket", "TR", models.RarityHoloRare},
	{"Dark Blastoise", "3/82", "Team Rocket", "TR", models.RarityHoloRare},
	{"Dark Dragonite", "5/82", "Team Rocket", "TR", models.RarityHoloRare},
	{"Dark Gyarados", "8/82", "Team Rocket", "TR", models.RarityHoloRare},
	{"Dark Raichu", "83/82", "Team Rocket", "TR", models.RaritySecretRare},

	{"Lugia", "9/111", "Neo Genesis", "N1", models.RarityHoloRare},
	{"Typhlosion", "17/111", "Neo Genesis", "N1", models.RarityHoloRare},
	{"Feraligatr", "5/111", "Neo Genesis", "N1", models.RarityHoloRare},
	{"Meganium", "10/111", "Neo Genesis", "N1", models.RarityHoloRare},
	{"Pichu", "12/111", "Neo Genesis", "N1", models.RarityHoloRare},

	{"Koraidon ex", "124/198", "Scarlet & Violet", "SV1", models.RarityUltraRare},
	{"Miraidon ex", "126/198", "Scarlet & Violet", "SV1", models.RarityUltraRare},
	{"Gardevoir ex", "086/198", "Scarlet & Violet", "SV1", models.RarityUltraRare},
	{"Arcanine ex", "032/198", "Scarlet & Violet", "SV1", models.RarityUltraRare},
	{"Spidops ex", "019/198", "Scarlet & Violet", "SV1", models.RarityUltraRare},

	{"Chien-Pao ex", "061/193", "Paldea Evolved", "SV2", models.RarityUltraRare},
	{"Ting-Lu ex", "105/193", "Paldea Evolved", "SV2", models.RarityUltraRare},
	{"Palafin ex", "052/193", "Paldea Evolved", "SV2", models.RarityUltraRare},
	{"Dedenne ex", "093/193", "Paldea Evolved", "SV2", models.RarityUltraRare},
	{"Slowking", "053/193", "Paldea Evolved", "SV2", models.RarityRare},

	{"Charizard ex", "125/197", "Obsidian Flames", "SV3", models.RarityUltraRare},
	{"Tyranitar ex", "134/197", "Obsidian Flames", "SV3", models.RarityUltraRare},
	{"Dragonite ex", "159/197", "Obsidian Flames", "SV3", models.RarityUltraRare},
	{"Eevee", "130/197", "Obsidian Flames", "SV3", models.RarityCommon},
	{"Pidgeot ex", "164/197", "Obsidian Flames", "SV3", models.RarityUltraRare},

	{"Mew ex", "151/165", "151", "MEW", models.RarityUltraRare},
	{"Charizard ex", "006/165", "151", "MEW", models.RarityUltraRare},
	{"Alakazam ex", "065/165", "151", "MEW", models.RarityUltraRare},
	{"Zapdos ex", "145/165", "151", "MEW", models.RarityUltraRare},
	{"Erika's Invitation", "160/165", "151", "MEW", models.RarityUltraRare},
	{"Bulbasaur", "001/165", "151", "MEW", models.RarityCommon},
	{"Gengar ex", "094/165", "151", "MEW", models.RarityUltraRare},

	{"Roaring Moon ex", "109/182", "Paradox Rift", "SV4", models.RarityUltraRare},
	{"Iron Valiant ex", "089/182", "Paradox Rift", "SV4", models.RarityUltraRare},
	{"Garchomp ex", "120/182", "Paradox Rift", "SV4", models.RarityUltraRare},
	{"Counter Catcher", "160/182", "Paradox Rift", "SV4", models.RarityUncommon},
	{"Iron Hands ex", "070/182", "Paradox Rift", "SV4", models.RarityUltraRare},
	{"Maushold ex", "121/182", "Paradox Rift", "SV4", models.RarityUltraRare},
}

// Demo users for trying out trade matching.
const (
	DemoUserID    = "test-user-1"
	TradeUser2ID  = "trade-user-2"
	TradeUser3ID  = "trade-user-3"
	demoUserEmail = "test@test.com"
)

var userSeed = []models.User{
	{ID: DemoUserID, Username: "tester", Email: demoUserEmail},
	{ID: TradeUser2ID, Username: "trader2", Email: "trader2@test.com"},
	{ID: TradeUser3ID, Username: "trader3", Email: "trader3@test.com"},
}

type seedIntent struct {
	userID string
	cardID string
	intent models.IntentType
}

// Expected matches for the demo user: Charizard with trader2, Pikachu with trader3.
var intentSeed = []seedIntent{
	{DemoUserID, "bs-4", models.IntentLookingFor},
	{DemoUserID, "bs-58", models.IntentAvailableForTrade},
	{TradeUser2ID, "bs-4", models.IntentAvailableForTrade},
	{TradeUser2ID, "bs-2", models.IntentLookingFor},
	{TradeUser3ID, "bs-58", models.IntentLookingFor},
	{TradeUser3ID, "bs-15", models.IntentAvailableForTrade},
}

// SeedCardID derives the stable catalog id for a set code and printed number,
// e.g. ("BS", "4/102") -> "bs-4".
func SeedCardID(setCode, number string) string {
	num, _, _ := strings.Cut(number, "/")
	return strings.ToLower(setCode) + "-" + num
}

type SeedResult struct {
	CardsInserted   int64 `json:"cards_inserted"`
	UsersInserted   int64 `json:"users_inserted"`
	IntentsInserted int64 `json:"intents_inserted"`
}

// Seed inserts the demo catalog, users and trade intents. Existing rows are
// left untouched, so it can run on every startup.
func Seed(db *gorm.DB) (*SeedResult, error) {
	result := &SeedResult{}
	now := time.Now()

	err := db.Transaction(func(tx *gorm.DB) error {
		cards := make([]models.Card, 0, len(catalogSeed))
		for _, c := range catalogSeed {
			cards = append(cards, models.Card{
				ID:        SeedCardID(c.setCode, c.number),
				Name:      c.name,
				Number:    c.number,
				SetName:   c.setName,
				SetCode:   c.setCode,
				Rarity:    c.rarity,
				CreatedAt: now,
			})
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&cards)
		if res.Error != nil {
			return fmt.Errorf("seed cards: %w", res.Error)
		}
		result.CardsInserted = res.RowsAffected

		users := make([]models.User, len(userSeed))
		copy(users, userSeed)
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&users)
		if res.Error != nil {
			return fmt.Errorf("seed users: %w", res.Error)
		}
		result.UsersInserted = res.RowsAffected

		intents := make([]models.TradeIntent, 0, len(intentSeed))
		for _, s := range intentSeed {
			intents = append(intents, models.TradeIntent{
				ID:         "seed-" + s.userID + "-" + s.cardID + "-" + string(s.intent),
				UserID:     s.userID,
				CardID:     s.cardID,
				IntentType: s.intent,
				Status:     models.IntentStatusActive,
				CreatedAt:  now,
			})
		}
		res = tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&intents)
		if res.Error != nil {
			return fmt.Errorf("seed trade intents: %w", res.Error)
		}
		result.IntentsInserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	var total int64
	db.Model(&models.Card{}).Count(&total)
	log.Printf("Seed complete: %d new cards inserted (%d total in database), %d users, %d trade intents",
		result.CardsInserted, total, result.UsersInserted, result.IntentsInserted)
	return result, nil
}
