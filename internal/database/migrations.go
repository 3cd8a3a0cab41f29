package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/codyseavey/tcg-portfolio/internal/models"
)

// RunMigrations runs custom data migrations after schema changes.
// Each step is safe to run repeatedly.
func RunMigrations(db *gorm.DB) error {
	if err := normalizeCardRarities(db); err != nil {
		return err
	}
	if err := cleanupOrphanedMeasurements(db); err != nil {
		return err
	}
	return nil
}

// RenameLegacyColumns fixes column names written by older schemas. It runs
// before AutoMigrate so the correct column is not created empty alongside
// the old one.
func RenameLegacyColumns(db *gorm.DB) error {
	m := db.Migrator()
	if !m.HasTable(&models.ROISignal{}) {
		return nil
	}
	// ROIPercentage was once snake-cased through the "IP" initialism
	if m.HasColumn(&models.ROISignal{}, "ro_ipercentage") && !m.HasColumn(&models.ROISignal{}, "roi_percentage") {
		if err := m.RenameColumn(&models.ROISignal{}, "ro_ipercentage", "roi_percentage"); err != nil {
			return fmt.Errorf("rename roi_signals.ro_ipercentage: %w", err)
		}
		log.Println("Renamed roi_signals.ro_ipercentage to roi_percentage")
	}
	return nil
}

// normalizeCardRarities rewrites rarity aliases ("Rare Holo", "SR", ...) to the
// canonical lowercase names that price ranges are keyed on
func normalizeCardRarities(db *gorm.DB) error {
	var rarities []string
	if err := db.Model(&models.Card{}).Distinct().Pluck("rarity", &rarities).Error; err != nil {
		return err
	}

	for _, raw := range rarities {
		canonical := models.NormalizeRarity(raw)
		if canonical == "" || string(canonical) == raw {
			continue
		}
		result := db.Model(&models.Card{}).Where("rarity = ?", raw).Update("rarity", canonical)
		if result.Error != nil {
			log.Printf("Warning: failed to normalize rarity %q: %v", raw, result.Error)
			continue
		}
		log.Printf("Normalized %d cards from rarity %q to %q", result.RowsAffected, raw, canonical)
	}
	return nil
}

// cleanupOrphanedMeasurements removes measurements whose grade result is gone
func cleanupOrphanedMeasurements(db *gorm.DB) error {
	result := db.Exec(`
		DELETE FROM grade_measurements
		WHERE grade_result_id NOT IN (SELECT id FROM grade_results)
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d orphaned grade_measurements", result.RowsAffected)
	}
	return nil
}
