package model

// MetricStats holds aggregated population statistics for one metric.
type MetricStats struct {
	Average float64 `json:"average" bson:"average"`
	Median  float64 `json:"median" bson:"median"`
	Count   int     `json:"count" bson:"count"`
}

// PopulationStats is the per-metric aggregate over the reference dataset.
type PopulationStats struct {
	Metrics map[FieldID]MetricStats `json:"metrics" bson:"metrics"`
}

// ComparisonStatus classifies a patient value against the population.
type ComparisonStatus string

const (
	CompareSimilar ComparisonStatus = "similar"
	CompareBetter  ComparisonStatus = "better"
	CompareWorse   ComparisonStatus = "worse"
)

// MetricComparison is one metric's patient-vs-population result.
type MetricComparison struct {
	Metric     FieldID          `json:"metric"`
	Value      float64          `json:"value"`
	Average    float64          `json:"average"`
	Difference float64          `json:"difference"`
	PctDiff    float64          `json:"pctDiff"`
	Status     ComparisonStatus `json:"status"`
}

// PopulationComparison is the optional enrichment attached to an assessment.
type PopulationComparison struct {
	Comparisons []MetricComparison `json:"comparisons" bson:"comparisons"`
	Insights    []string           `json:"insights" bson:"insights"`
}

// HistoryRecord is one subject row from the external population dataset.
type HistoryRecord struct {
	ID          string   `bson:"_id,omitempty"`
	Age         *float64 `bson:"age,omitempty"`
	Gender      string   `bson:"gender,omitempty"`
	SystolicBP  *float64 `bson:"systolicBP,omitempty"`
	DiastolicBP *float64 `bson:"diastolicBP,omitempty"`
	Cholesterol *float64 `bson:"cholesterol,omitempty"`
	HDL         *float64 `bson:"hdlCholesterol,omitempty"`
	BMI         *float64 `bson:"bmi,omitempty"`
}
