package risk

import (
	"fmt"
	"math"

	"heartcheck/internal/model"
)

// HeuristicModel computes a multiplicative baseline estimate. It needs
// only age, gender, and systolic BP; cholesterol, HDL, and BMI refine
// it when present. The base risk is additive and clamped to [1,50];
// condition penalties multiply afterwards, and the 10-year figure is
// capped at 95. The 30-year figure is the 10-year one times 1.8 with
// its own 95 cap.
func HeuristicModel(r *model.PatientRecord) *model.ModelResult {
	age, okAge := r.Number(model.FieldAge)
	gender, okGender := r.Choice(model.FieldGender)
	systolic, okBP := r.Number(model.FieldSystolicBP)
	if !okAge || !okGender || !okBP {
		return nil
	}

	factors := []string{}

	base := 5 + 2*math.Pow(1.05, age-40)
	if age >= 55 {
		factors = append(factors, fmt.Sprintf("age %.0f", age))
	}
	if gender == model.GenderMale {
		base += 2
	}

	switch {
	case systolic >= 160:
		base += 10
		factors = append(factors, fmt.Sprintf("severe hypertension (systolic %.0f)", systolic))
	case systolic >= 140:
		base += 6
		factors = append(factors, fmt.Sprintf("hypertension (systolic %.0f)", systolic))
	case systolic >= 130:
		base += 3
		factors = append(factors, fmt.Sprintf("elevated blood pressure (systolic %.0f)", systolic))
	case systolic >= 120:
		base += 1
	}

	if chol, ok := r.Number(model.FieldCholesterol); ok {
		switch {
		case chol >= 280:
			base += 6
			factors = append(factors, fmt.Sprintf("very high cholesterol (%.0f mg/dL)", chol))
		case chol >= 240:
			base += 4
			factors = append(factors, fmt.Sprintf("high cholesterol (%.0f mg/dL)", chol))
		case chol >= 200:
			base += 2
			factors = append(factors, fmt.Sprintf("borderline cholesterol (%.0f mg/dL)", chol))
		case chol < 160:
			base -= 1
		}
	}

	if hdl, ok := r.Number(model.FieldHDLCholesterol); ok {
		switch {
		case hdl < 35:
			base += 4
			factors = append(factors, fmt.Sprintf("very low HDL (%.0f mg/dL)", hdl))
		case hdl < 40:
			base += 2
			factors = append(factors, fmt.Sprintf("low HDL (%.0f mg/dL)", hdl))
		case hdl >= 60:
			base -= 2
			factors = append(factors, fmt.Sprintf("protective HDL (%.0f mg/dL)", hdl))
		}
	}

	if bmi, ok := r.Number(model.FieldBMI); ok {
		switch {
		case bmi >= 35:
			base += 4
			factors = append(factors, fmt.Sprintf("obesity (BMI %.1f)", bmi))
		case bmi >= 30:
			base += 3
			factors = append(factors, fmt.Sprintf("obesity (BMI %.1f)", bmi))
		case bmi >= 25:
			base += 1
			factors = append(factors, fmt.Sprintf("overweight (BMI %.1f)", bmi))
		}
	}

	base = clamp(base, 1, 50)

	tenYear := base
	if diabetic, ok := r.Bool(model.FieldDiabetes); ok && diabetic {
		tenYear *= 1.5
		factors = append(factors, "diabetes")
	}
	if smoking, ok := r.Choice(model.FieldSmoking); ok && smoking == model.SmokingCurrent {
		tenYear *= 1.4
		factors = append(factors, "current smoking")
	}
	if kidney, ok := r.Bool(model.FieldKidneyDisease); ok && kidney {
		tenYear *= 1.3
		factors = append(factors, "kidney disease")
	}
	tenYear = math.Min(tenYear, 95)

	thirtyYear := math.Min(tenYear*1.8, 95)

	return &model.ModelResult{
		Model:         model.ModelHeuristic,
		TenYearPct:    tenYear,
		ThirtyYearPct: &thirtyYear,
		Factors:       factors,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
