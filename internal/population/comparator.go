package population

import (
	"fmt"
	"math"

	"heartcheck/internal/model"
)

// similarBandPct is the percent-difference magnitude inside which a
// value counts as similar to the population average.
const similarBandPct = 10.0

// higherIsBetter marks metrics where exceeding the average is
// favorable. Everything else is treated as lower-is-better.
var higherIsBetter = map[model.FieldID]bool{
	model.FieldHDLCholesterol: true,
}

// insight metrics always produce text when the data exists, even when
// the difference is negligible.
var insightMetrics = []model.FieldID{
	model.FieldSystolicBP,
	model.FieldCholesterol,
	model.FieldHDLCholesterol,
	model.FieldBMI,
}

var metricLabels = map[model.FieldID]string{
	model.FieldAge:            "age",
	model.FieldSystolicBP:     "systolic blood pressure",
	model.FieldDiastolicBP:    "diastolic blood pressure",
	model.FieldCholesterol:    "total cholesterol",
	model.FieldHDLCholesterol: "HDL cholesterol",
	model.FieldBMI:            "BMI",
}

// Compare contextualizes the patient's values against the population
// stats, producing per-metric comparisons and human-readable insights.
func Compare(r *model.PatientRecord, stats *model.PopulationStats) *model.PopulationComparison {
	out := &model.PopulationComparison{}
	if r == nil || stats == nil {
		return out
	}

	compared := map[model.FieldID]model.MetricComparison{}
	for metric := range metricSpecs {
		value, ok := r.Number(metric)
		if !ok {
			continue
		}
		ms, ok := stats.Metrics[metric]
		if !ok || ms.Average == 0 {
			continue
		}
		diff := value - ms.Average
		pctDiff := diff / ms.Average * 100
		c := model.MetricComparison{
			Metric:     metric,
			Value:      value,
			Average:    ms.Average,
			Difference: diff,
			PctDiff:    pctDiff,
			Status:     classify(metric, pctDiff),
		}
		compared[metric] = c
	}

	// Stable output order: the insight metrics first, then the rest.
	seen := map[model.FieldID]bool{}
	for _, metric := range insightMetrics {
		if c, ok := compared[metric]; ok {
			out.Comparisons = append(out.Comparisons, c)
			out.Insights = append(out.Insights, insightText(c))
			seen[metric] = true
		}
	}
	for _, metric := range []model.FieldID{model.FieldAge, model.FieldDiastolicBP} {
		if c, ok := compared[metric]; ok && !seen[metric] {
			out.Comparisons = append(out.Comparisons, c)
		}
	}
	return out
}

func classify(metric model.FieldID, pctDiff float64) model.ComparisonStatus {
	if math.Abs(pctDiff) <= similarBandPct {
		return model.CompareSimilar
	}
	above := pctDiff > 0
	if higherIsBetter[metric] == above {
		return model.CompareBetter
	}
	return model.CompareWorse
}

func insightText(c model.MetricComparison) string {
	label := metricLabels[c.Metric]
	switch c.Status {
	case model.CompareSimilar:
		return fmt.Sprintf("Your %s (%.1f) is close to the population average of %.1f.", label, c.Value, c.Average)
	case model.CompareBetter:
		return fmt.Sprintf("Your %s (%.1f) compares favorably with the population average of %.1f (%.0f%% difference).", label, c.Value, c.Average, math.Abs(c.PctDiff))
	default:
		return fmt.Sprintf("Your %s (%.1f) is less favorable than the population average of %.1f (%.0f%% difference).", label, c.Value, c.Average, math.Abs(c.PctDiff))
	}
}
