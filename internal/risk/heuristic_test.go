package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartcheck/internal/model"
)

func minimalRecord(age float64, gender string, systolic float64) *model.PatientRecord {
	r := model.NewPatientRecord()
	r.Set(model.FieldAge, model.NumberAnswer(age))
	r.Set(model.FieldGender, model.ChoiceAnswer(gender))
	r.Set(model.FieldSystolicBP, model.NumberAnswer(systolic))
	return r
}

func TestHeuristicModelRequiredInputs(t *testing.T) {
	r := minimalRecord(45, model.GenderMale, 120)
	delete(r.Answers, model.FieldSystolicBP)
	assert.Nil(t, HeuristicModel(r))

	r = minimalRecord(45, model.GenderMale, 120)
	delete(r.Answers, model.FieldGender)
	assert.Nil(t, HeuristicModel(r))

	assert.NotNil(t, HeuristicModel(minimalRecord(45, model.GenderMale, 120)))
}

func TestHeuristicModelBaseFormula(t *testing.T) {
	// age 40 female, systolic 110: base = 5 + 2*1.05^0 = 7, no offsets
	res := HeuristicModel(minimalRecord(40, model.GenderFemale, 110))
	require.NotNil(t, res)
	assert.InDelta(t, 7.0, res.TenYearPct, 1e-9)
	require.NotNil(t, res.ThirtyYearPct)
	assert.InDelta(t, 12.6, *res.ThirtyYearPct, 1e-9)

	// male adds 2 to the base
	res = HeuristicModel(minimalRecord(40, model.GenderMale, 110))
	require.NotNil(t, res)
	assert.InDelta(t, 9.0, res.TenYearPct, 1e-9)
}

func TestHeuristicModelConditionMultipliers(t *testing.T) {
	base := HeuristicModel(minimalRecord(50, model.GenderMale, 135))
	require.NotNil(t, base)

	diabetic := minimalRecord(50, model.GenderMale, 135)
	diabetic.Set(model.FieldDiabetes, model.BoolAnswer(true))
	res := HeuristicModel(diabetic)
	require.NotNil(t, res)
	assert.InDelta(t, base.TenYearPct*1.5, res.TenYearPct, 1e-9)
	assert.Contains(t, res.Factors, "diabetes")

	smoker := minimalRecord(50, model.GenderMale, 135)
	smoker.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingCurrent))
	res = HeuristicModel(smoker)
	require.NotNil(t, res)
	assert.InDelta(t, base.TenYearPct*1.4, res.TenYearPct, 1e-9)

	former := minimalRecord(50, model.GenderMale, 135)
	former.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingFormer))
	res = HeuristicModel(former)
	require.NotNil(t, res)
	assert.InDelta(t, base.TenYearPct, res.TenYearPct, 1e-9, "former smoking does not multiply")

	kidney := minimalRecord(50, model.GenderMale, 135)
	kidney.Set(model.FieldKidneyDisease, model.BoolAnswer(true))
	res = HeuristicModel(kidney)
	require.NotNil(t, res)
	assert.InDelta(t, base.TenYearPct*1.3, res.TenYearPct, 1e-9)
	assert.Contains(t, res.Factors, "kidney disease")
}

func TestHeuristicModelCaps(t *testing.T) {
	r := minimalRecord(90, model.GenderMale, 180)
	r.Set(model.FieldCholesterol, model.NumberAnswer(300))
	r.Set(model.FieldHDLCholesterol, model.NumberAnswer(30))
	r.Set(model.FieldBMI, model.NumberAnswer(38))
	r.Set(model.FieldDiabetes, model.BoolAnswer(true))
	r.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingCurrent))
	r.Set(model.FieldKidneyDisease, model.BoolAnswer(true))

	res := HeuristicModel(r)
	require.NotNil(t, res)
	// additive base clamps at 50, then 50*1.5*1.4*1.3 exceeds 95
	assert.Equal(t, 95.0, res.TenYearPct)
	require.NotNil(t, res.ThirtyYearPct)
	assert.Equal(t, 95.0, *res.ThirtyYearPct)
}

func TestHeuristicModelThirtyYearScaling(t *testing.T) {
	res := HeuristicModel(minimalRecord(55, model.GenderFemale, 125))
	require.NotNil(t, res)
	require.NotNil(t, res.ThirtyYearPct)
	assert.InDelta(t, math.Min(res.TenYearPct*1.8, 95), *res.ThirtyYearPct, 1e-9)
}
