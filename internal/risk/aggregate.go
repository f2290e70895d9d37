package risk

import (
	"math"

	"heartcheck/internal/model"
)

// Aggregate combines whatever model results are available into one
// assessment. The combined percentage is the arithmetic mean of the
// non-nil 10-year figures; with no results it fails with
// ErrInsufficientData and the caller must not proceed to
// recommendations. Results must be passed in model priority order
// (points, heuristic, ml); factor lists are concatenated in that order
// without deduplication.
func Aggregate(results []*model.ModelResult, comparison *model.PopulationComparison) (*model.RiskAssessment, error) {
	breakdown := map[string]*float64{
		model.ModelPoints:    nil,
		model.ModelHeuristic: nil,
		model.ModelML:        nil,
	}

	var sum float64
	var n int
	var factors []string
	for _, res := range results {
		if res == nil {
			continue
		}
		pct := res.TenYearPct
		breakdown[res.Model] = &pct
		sum += pct
		n++
		factors = append(factors, res.Factors...)
	}
	if n == 0 {
		return nil, model.ErrInsufficientData
	}

	combined := math.Round(sum/float64(n)*10) / 10
	display := int(math.Round(combined * 2))
	if display > 100 {
		display = 100
	}

	return &model.RiskAssessment{
		TenYearPct:   combined,
		DisplayScore: display,
		Category:     model.CategoryForPercent(combined),
		Factors:      factors,
		Breakdown:    breakdown,
		Comparison:   comparison,
	}, nil
}
