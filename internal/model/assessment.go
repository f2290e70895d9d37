package model

// Scoring model names, in aggregation priority order.
const (
	ModelPoints    = "points"
	ModelHeuristic = "heuristic"
	ModelML        = "ml"
)

// RiskCategory buckets the combined 10-year percentage.
type RiskCategory string

const (
	RiskLow         RiskCategory = "low"
	RiskLowModerate RiskCategory = "low-moderate"
	RiskModerate    RiskCategory = "moderate"
	RiskHigh        RiskCategory = "high"
)

// CategoryForPercent maps a combined percentage to its category.
// Breakpoints: <5 low, 5–<10 low-moderate, 10–<20 moderate, >=20 high.
func CategoryForPercent(pct float64) RiskCategory {
	switch {
	case pct < 5:
		return RiskLow
	case pct < 10:
		return RiskLowModerate
	case pct < 20:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// ModelResult is one scoring model's contribution.
type ModelResult struct {
	Model         string   `json:"model"`
	TenYearPct    float64  `json:"tenYearPct"`
	ThirtyYearPct *float64 `json:"thirtyYearPct,omitempty"`
	Factors       []string `json:"factors"`
}

// RiskAssessment is the immutable combined result. A new calculation
// produces a new assessment; existing ones are never mutated.
type RiskAssessment struct {
	TenYearPct   float64               `json:"tenYearPct" bson:"tenYearPct"`
	DisplayScore int                   `json:"displayScore" bson:"displayScore"`
	Category     RiskCategory          `json:"category" bson:"category"`
	Factors      []string              `json:"factors" bson:"factors"`
	Breakdown    map[string]*float64   `json:"breakdown" bson:"breakdown"`
	Comparison   *PopulationComparison `json:"comparison,omitempty" bson:"comparison,omitempty"`
}

// RecommendationPriority tags how urgent a recommendation is.
type RecommendationPriority string

const (
	PriorityCritical RecommendationPriority = "critical"
	PriorityHigh     RecommendationPriority = "high"
	PriorityModerate RecommendationPriority = "moderate"
)

// Recommendation is one actionable item. Recommendations are derived on
// demand from the latest record and assessment, never stored.
type Recommendation struct {
	Category string                 `json:"category"`
	Priority RecommendationPriority `json:"priority"`
	Action   string                 `json:"action"`
	Detail   string                 `json:"detail"`
}
