// Package population aggregates the reference dataset into per-metric
// statistics and compares a patient's values against them.
package population

import (
	"sort"

	"heartcheck/internal/model"
)

// metricSpec holds the plausible-value filter and the fallback average
// used when a metric has zero valid samples.
type metricSpec struct {
	min, max float64 // exclusive bounds
	fallback float64
}

var metricSpecs = map[model.FieldID]metricSpec{
	model.FieldAge:            {0, 120, 48},
	model.FieldSystolicBP:     {50, 300, 128},
	model.FieldDiastolicBP:    {30, 200, 79},
	model.FieldCholesterol:    {80, 500, 195},
	model.FieldHDLCholesterol: {5, 150, 52},
	model.FieldBMI:            {10, 60, 26.8},
}

// ComputeStats aggregates the dataset into average/median/count per
// metric, discarding implausible values. A metric with no valid
// samples falls back to a fixed population-average default with a zero
// count.
func ComputeStats(records []model.HistoryRecord) *model.PopulationStats {
	samples := map[model.FieldID][]float64{}
	for _, rec := range records {
		collect(samples, model.FieldAge, rec.Age)
		collect(samples, model.FieldSystolicBP, rec.SystolicBP)
		collect(samples, model.FieldDiastolicBP, rec.DiastolicBP)
		collect(samples, model.FieldCholesterol, rec.Cholesterol)
		collect(samples, model.FieldHDLCholesterol, rec.HDL)
		collect(samples, model.FieldBMI, rec.BMI)
	}

	stats := &model.PopulationStats{Metrics: map[model.FieldID]model.MetricStats{}}
	for metric, spec := range metricSpecs {
		vals := samples[metric]
		if len(vals) == 0 {
			stats.Metrics[metric] = model.MetricStats{Average: spec.fallback, Median: spec.fallback, Count: 0}
			continue
		}
		stats.Metrics[metric] = model.MetricStats{
			Average: mean(vals),
			Median:  median(vals),
			Count:   len(vals),
		}
	}
	return stats
}

func collect(samples map[model.FieldID][]float64, metric model.FieldID, v *float64) {
	if v == nil {
		return
	}
	spec := metricSpecs[metric]
	if *v <= spec.min || *v >= spec.max {
		return
	}
	samples[metric] = append(samples[metric], *v)
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
