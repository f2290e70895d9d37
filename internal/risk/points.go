// Package risk implements the scoring models, their aggregation, and
// the rule-based recommendation generator. Every model is a pure
// function of the patient record and returns nil when its required
// inputs are missing.
package risk

import (
	"fmt"
	"sort"

	"heartcheck/internal/model"
)

// pointsRiskMale maps total points to a 10-year risk percentage.
// Points below the table minimum clamp to the lowest percentage,
// points at or above the maximum clamp to the highest.
var pointsRiskMale = map[int]float64{
	-1: 2, 0: 3, 1: 3, 2: 4, 3: 5, 4: 7, 5: 8, 6: 10, 7: 13,
	8: 16, 9: 20, 10: 25, 11: 31, 12: 37, 13: 45, 14: 53,
}

var pointsRiskFemale = map[int]float64{
	-2: 1, -1: 2, 0: 2, 1: 2, 2: 3, 3: 3, 4: 4, 5: 4, 6: 5, 7: 6,
	8: 7, 9: 8, 10: 10, 11: 11, 12: 13, 13: 15, 14: 18, 15: 20,
	16: 24, 17: 27,
}

// PointsModel scores the record against gender-specific points tables.
// Valid only for ages 30-74 and gender male/female, with systolic BP,
// total cholesterol, and HDL all present. Blood-pressure points come
// from the systolic reading alone; diastolic is collected but does not
// score here.
func PointsModel(r *model.PatientRecord) *model.ModelResult {
	age, okAge := r.Number(model.FieldAge)
	gender, okGender := r.Choice(model.FieldGender)
	systolic, okBP := r.Number(model.FieldSystolicBP)
	chol, okChol := r.Number(model.FieldCholesterol)
	hdl, okHDL := r.Number(model.FieldHDLCholesterol)

	if !okAge || !okGender || !okBP || !okChol || !okHDL {
		return nil
	}
	if age < 30 || age > 74 {
		return nil
	}
	if gender != model.GenderMale && gender != model.GenderFemale {
		return nil
	}
	male := gender == model.GenderMale

	points := agePoints(age, male) + cholesterolPoints(chol, male) +
		hdlPoints(hdl, male) + systolicPoints(systolic, male)

	factors := []string{}
	if systolic >= 140 {
		factors = append(factors, fmt.Sprintf("elevated systolic blood pressure %.0f mmHg (hypertension range)", systolic))
	}
	if chol >= 240 {
		factors = append(factors, fmt.Sprintf("high total cholesterol %.0f mg/dL", chol))
	}
	if hdl < 40 {
		factors = append(factors, fmt.Sprintf("low HDL cholesterol %.0f mg/dL", hdl))
	}

	if diabetic, ok := r.Bool(model.FieldDiabetes); ok && diabetic {
		if male {
			points += 2
		} else {
			points += 4
		}
		factors = append(factors, "diagnosed diabetes")
	}
	if smoking, ok := r.Choice(model.FieldSmoking); ok && smoking == model.SmokingCurrent {
		points += 2
		factors = append(factors, "current smoking")
	}

	table := pointsRiskFemale
	if male {
		table = pointsRiskMale
	}
	pct := lookupPct(table, points)

	return &model.ModelResult{
		Model:      model.ModelPoints,
		TenYearPct: pct,
		Factors:    factors,
	}
}

func agePoints(age float64, male bool) int {
	if male {
		switch {
		case age < 35:
			return -1
		case age < 40:
			return 0
		case age < 45:
			return 1
		case age < 50:
			return 2
		case age < 55:
			return 3
		case age < 60:
			return 4
		case age < 65:
			return 5
		case age < 70:
			return 6
		default:
			return 7
		}
	}
	switch {
	case age < 35:
		return -9
	case age < 40:
		return -4
	case age < 45:
		return 0
	case age < 50:
		return 3
	case age < 55:
		return 6
	case age < 60:
		return 7
	default:
		return 8
	}
}

func cholesterolPoints(chol float64, male bool) int {
	switch {
	case chol < 160:
		if male {
			return -3
		}
		return -2
	case chol < 200:
		return 0
	case chol < 240:
		return 1
	case chol < 280:
		return 2
	default:
		return 3
	}
}

func hdlPoints(hdl float64, male bool) int {
	if male {
		switch {
		case hdl < 35:
			return 2
		case hdl < 45:
			return 1
		case hdl < 60:
			return 0
		default:
			return -2
		}
	}
	switch {
	case hdl < 35:
		return 5
	case hdl < 45:
		return 2
	case hdl < 50:
		return 1
	case hdl < 60:
		return 0
	default:
		return -3
	}
}

func systolicPoints(systolic float64, male bool) int {
	switch {
	case systolic < 120:
		if male {
			return 0
		}
		return -3
	case systolic < 130:
		return 0
	case systolic < 140:
		return 1
	case systolic < 160:
		return 2
	default:
		return 3
	}
}

// lookupPct resolves points against a monotonic lookup table, clamping
// to the table's lowest and highest percentages.
func lookupPct(table map[int]float64, points int) float64 {
	if pct, ok := table[points]; ok {
		return pct
	}
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	if points < keys[0] {
		return table[keys[0]]
	}
	return table[keys[len(keys)-1]]
}
