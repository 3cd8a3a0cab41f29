package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/tcg-portfolio/internal/metrics"
	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

// gradeARule is one row of the integer-scale grading table. Rules are tried in
// order and the first whose limits hold wins.
type gradeARule struct {
	grade      int
	maxDev     float64 // centering deviation from 50, inclusive
	minQuality float64 // lowest of edge/corner/whitening, exclusive
}

var gradeARules = []gradeARule{
	{grade: 10, maxDev: 2.5, minQuality: 0.95},
	{grade: 9, maxDev: 5, minQuality: 0.88},
	{grade: 8, maxDev: 7.5, minQuality: 0.78},
	{grade: 7, maxDev: 10, minQuality: 0.68},
}

const gradeAFloor = 6

// Decimal-scale sub-grade weights.
const (
	weightCentering = 0.10
	weightEdges     = 0.30
	weightCorners   = 0.30
	weightSurface   = 0.30
)

func centeringDeviation(v float64) float64 {
	return math.Abs(v - 50)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// CalculateGradeA returns the integer grade (PSA scale) and its ±1 range.
func CalculateGradeA(m models.ConditionMeasurements) (int, models.IntRange) {
	maxDev := math.Max(centeringDeviation(m.CenteringLR), centeringDeviation(m.CenteringTB))
	minQuality := math.Min(m.EdgeScore, math.Min(m.CornerScore, m.WhiteningScore))

	grade := gradeAFloor
	for _, rule := range gradeARules {
		if maxDev <= rule.maxDev && minQuality > rule.minQuality {
			grade = rule.grade
			break
		}
	}

	return grade, models.IntRange{
		Low:  max(1, grade-1),
		High: min(10, grade+1),
	}
}

func qualitySubGrade(score float64) float64 {
	return round1(clampFloat(score*10, 1, 10))
}

func centeringSubGrade(v float64) float64 {
	return round1(clampFloat(10-centeringDeviation(v), 1, 10))
}

// CalculateGradeB returns the weighted decimal grade (BGS scale) and its ±0.5 range.
func CalculateGradeB(m models.ConditionMeasurements) (float64, models.DecimalRange) {
	centering := math.Min(centeringSubGrade(m.CenteringLR), centeringSubGrade(m.CenteringTB))
	edges := qualitySubGrade(m.EdgeScore)
	corners := qualitySubGrade(m.CornerScore)
	surface := qualitySubGrade(m.WhiteningScore)

	weighted := centering*weightCentering + edges*weightEdges + corners*weightCorners + surface*weightSurface
	grade := round1(weighted)

	return grade, models.DecimalRange{
		Low:  round1(math.Max(1, grade-0.5)),
		High: round1(math.Min(10, grade+0.5)),
	}
}

// CalculateConfidence shrinks from 0.95 as the quality scores disagree.
func CalculateConfidence(m models.ConditionMeasurements) float64 {
	scores := []float64{m.EdgeScore, m.CornerScore, m.WhiteningScore}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))

	return round2(clampFloat(0.95-variance*5, 0.50, 0.95))
}

// PreGradeService produces and records visual pre-grade estimates.
type PreGradeService struct {
	grades store.GradeStore
	source MeasurementSource
	images *ImageStorageService
}

// NewPreGradeService wires the service. images may be nil to skip storing uploads.
func NewPreGradeService(grades store.GradeStore, source MeasurementSource, images *ImageStorageService) *PreGradeService {
	return &PreGradeService{
		grades: grades,
		source: source,
		images: images,
	}
}

// PreGrade measures the image, computes both grade scales and persists the
// result with its measurements in one transaction.
func (s *PreGradeService) PreGrade(ctx context.Context, collectionItemID uint, image []byte) (*models.GradeReport, error) {
	m, err := s.source.Measure(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("measure image: %w", err)
	}

	var imagePath string
	if s.images != nil && len(image) > 0 {
		imagePath, err = s.images.SaveImage(image)
		if err != nil {
			return nil, err
		}
	}

	psa, psaRange := CalculateGradeA(m)
	bgs, bgsRange := CalculateGradeB(m)
	confidence := CalculateConfidence(m)

	now := time.Now()
	result := &models.GradeResult{
		ID:                uuid.New().String(),
		CollectionItemID:  collectionItemID,
		EstimatedPSAGrade: psa,
		PSARangeLow:       psaRange.Low,
		PSARangeHigh:      psaRange.High,
		EstimatedBGSGrade: bgs,
		BGSRangeLow:       bgsRange.Low,
		BGSRangeHigh:      bgsRange.High,
		ConfidenceScore:   confidence,
		ImagePath:         imagePath,
		CreatedAt:         now,
	}
	measurement := &models.GradeMeasurement{
		ID:                    uuid.New().String(),
		ConditionMeasurements: m,
		CreatedAt:             now,
	}

	if err := s.grades.SaveGradeResult(ctx, result, measurement); err != nil {
		if imagePath != "" {
			if derr := s.images.DeleteImage(imagePath); derr != nil {
				log.Printf("PreGrade: failed to remove orphaned image %s: %v", imagePath, derr)
			}
		}
		return nil, err
	}

	metrics.PreGradesTotal.Inc()
	metrics.PreGradePSA.Observe(float64(psa))

	return &models.GradeReport{
		GradeResultID: result.ID,
		EstimatedPSA:  psa,
		PSARange:      psaRange,
		EstimatedBGS:  bgs,
		BGSRange:      bgsRange,
		Confidence:    confidence,
		Measurements:  m,
		Disclaimer:    models.PreGradeDisclaimer,
	}, nil
}

// GradeHistory lists every recorded estimate for the item, newest first.
func (s *PreGradeService) GradeHistory(ctx context.Context, collectionItemID uint) ([]models.GradeResult, error) {
	return s.grades.GradeHistory(ctx, collectionItemID)
}
