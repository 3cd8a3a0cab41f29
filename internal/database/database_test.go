package database

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/tcg-portfolio/internal/config"
	"github.com/codyseavey/tcg-portfolio/internal/models"
)

func testConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	}
}

func TestSeedCardID(t *testing.T) {
	tests := []struct {
		set, number, want string
	}{
		{"BS", "4/102", "bs-4"},
		{"MEW", "006/165", "mew-006"},
		{"SV1", "124", "sv1-124"},
	}
	for _, tt := range tests {
		if got := SeedCardID(tt.set, tt.number); got != tt.want {
			t.Errorf("SeedCardID(%q, %q) = %q, want %q", tt.set, tt.number, got, tt.want)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	first, err := Seed(db)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if first.CardsInserted != int64(len(catalogSeed)) {
		t.Errorf("inserted %d cards, want %d", first.CardsInserted, len(catalogSeed))
	}
	if first.IntentsInserted != int64(len(intentSeed)) {
		t.Errorf("inserted %d intents, want %d", first.IntentsInserted, len(intentSeed))
	}

	second, err := Seed(db)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if second.CardsInserted != 0 || second.UsersInserted != 0 || second.IntentsInserted != 0 {
		t.Errorf("second seed inserted rows: %+v", second)
	}

	var cards int64
	db.Model(&models.Card{}).Count(&cards)
	if cards != int64(len(catalogSeed)) {
		t.Errorf("catalog has %d cards, want %d", cards, len(catalogSeed))
	}
}

func TestSeedIntentsReferenceCatalog(t *testing.T) {
	ids := make(map[string]bool)
	for _, c := range catalogSeed {
		id := SeedCardID(c.setCode, c.number)
		if ids[id] {
			t.Errorf("duplicate seed card id %s", id)
		}
		ids[id] = true
	}
	for _, in := range intentSeed {
		if !ids[in.cardID] {
			t.Errorf("intent references unknown card %s", in.cardID)
		}
	}
}

func TestNormalizeCardRarities(t *testing.T) {
	db, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	cards := []models.Card{
		{ID: "a", Name: "A", Rarity: "Rare Holo"},
		{ID: "b", Name: "B", Rarity: "SR"},
		{ID: "c", Name: "C", Rarity: "common"},
		{ID: "d", Name: "D", Rarity: "promo"},
	}
	if err := db.Create(&cards).Error; err != nil {
		t.Fatal(err)
	}

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	want := map[string]models.Rarity{
		"a": models.RarityHoloRare,
		"b": models.RaritySecretRare,
		"c": models.RarityCommon,
		"d": "promo",
	}
	for id, rarity := range want {
		var card models.Card
		if err := db.First(&card, "id = ?", id).Error; err != nil {
			t.Fatal(err)
		}
		if card.Rarity != rarity {
			t.Errorf("card %s rarity = %q, want %q", id, card.Rarity, rarity)
		}
	}
}

func TestCleanupOrphanedMeasurements(t *testing.T) {
	db, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := db.Create(&models.GradeResult{ID: "g1", CollectionItemID: 1}).Error; err != nil {
		t.Fatal(err)
	}
	measurements := []models.GradeMeasurement{
		{ID: "m1", GradeResultID: "g1"},
		{ID: "m2", GradeResultID: "gone"},
	}
	if err := db.Create(&measurements).Error; err != nil {
		t.Fatal(err)
	}

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	var count int64
	db.Model(&models.GradeMeasurement{}).Count(&count)
	if count != 1 {
		t.Errorf("got %d measurements, want 1", count)
	}
}

func TestOpenRenamesLegacyROIColumn(t *testing.T) {
	cfg := testConfig(t)
	legacy, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatal(err)
	}
	if err := legacy.Exec(`CREATE TABLE roi_signals (
		id TEXT PRIMARY KEY, card_id TEXT NOT NULL, raw_price REAL,
		estimated_grading_cost REAL, estimated_graded_value REAL,
		expected_value REAL, ro_ipercentage REAL, created_at DATETIME)`).Error; err != nil {
		t.Fatal(err)
	}
	if err := legacy.Exec(`INSERT INTO roi_signals (id, card_id, ro_ipercentage, created_at)
		VALUES ('s1', 'bs-4', 23.33, CURRENT_TIMESTAMP)`).Error; err != nil {
		t.Fatal(err)
	}
	if sqlDB, err := legacy.DB(); err == nil {
		sqlDB.Close()
	}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if db.Migrator().HasColumn(&models.ROISignal{}, "ro_ipercentage") {
		t.Error("legacy column ro_ipercentage still present")
	}

	var signal models.ROISignal
	if err := db.First(&signal, "id = ?", "s1").Error; err != nil {
		t.Fatal(err)
	}
	if signal.ROIPercentage != 23.33 {
		t.Errorf("ROIPercentage = %v, want 23.33 carried over", signal.ROIPercentage)
	}

	// a fresh schema has nothing to rename
	if err := RenameLegacyColumns(db); err != nil {
		t.Errorf("second RenameLegacyColumns: %v", err)
	}
}
