package services

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/codyseavey/tcg-portfolio/internal/models"
)

// MeasurementSource produces condition measurements for a card photo.
type MeasurementSource interface {
	Measure(ctx context.Context, image []byte) (models.ConditionMeasurements, error)
}

// Simulated measurement bounds.
const (
	centeringMin = 48.0
	centeringMax = 52.0
	edgeMin      = 0.60
	edgeMax      = 0.99
	whiteningMin = 0.70
	whiteningMax = 0.99
)

// SimulatedMeasurementSource draws plausible measurements without looking at
// the image. Rand defaults to math/rand/v2 when nil.
type SimulatedMeasurementSource struct {
	Rand func() float64
}

func NewSimulatedMeasurementSource() *SimulatedMeasurementSource {
	return &SimulatedMeasurementSource{}
}

func (s *SimulatedMeasurementSource) Measure(ctx context.Context, _ []byte) (models.ConditionMeasurements, error) {
	if err := ctx.Err(); err != nil {
		return models.ConditionMeasurements{}, err
	}
	return models.ConditionMeasurements{
		CenteringLR:    s.between(centeringMin, centeringMax),
		CenteringTB:    s.between(centeringMin, centeringMax),
		EdgeScore:      s.between(edgeMin, edgeMax),
		CornerScore:    s.between(edgeMin, edgeMax),
		WhiteningScore: s.between(whiteningMin, whiteningMax),
	}, nil
}

func (s *SimulatedMeasurementSource) between(lo, hi float64) float64 {
	r := rand.Float64
	if s.Rand != nil {
		r = s.Rand
	}
	return round2(lo + r()*(hi-lo))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
