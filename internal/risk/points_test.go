package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartcheck/internal/model"
)

func baseRecord(age float64, gender string) *model.PatientRecord {
	r := model.NewPatientRecord()
	r.Set(model.FieldAge, model.NumberAnswer(age))
	r.Set(model.FieldGender, model.ChoiceAnswer(gender))
	r.Set(model.FieldSystolicBP, model.NumberAnswer(120))
	r.Set(model.FieldCholesterol, model.NumberAnswer(190))
	r.Set(model.FieldHDLCholesterol, model.NumberAnswer(50))
	return r
}

func TestPointsModelDomain(t *testing.T) {
	assert.Nil(t, PointsModel(baseRecord(20, model.GenderMale)), "below age range")
	assert.Nil(t, PointsModel(baseRecord(80, model.GenderFemale)), "above age range")
	assert.Nil(t, PointsModel(baseRecord(45, model.GenderOther)), "unsupported gender")

	missingHDL := baseRecord(45, model.GenderMale)
	delete(missingHDL.Answers, model.FieldHDLCholesterol)
	assert.Nil(t, PointsModel(missingHDL), "missing HDL")

	unknownChol := baseRecord(45, model.GenderMale)
	unknownChol.Set(model.FieldCholesterol, model.UnknownAnswer())
	assert.Nil(t, PointsModel(unknownChol), "unknown cholesterol counts as missing")

	assert.NotNil(t, PointsModel(baseRecord(30, model.GenderMale)), "age range is inclusive")
	assert.NotNil(t, PointsModel(baseRecord(74, model.GenderFemale)))
}

func TestPointsModelMaleScoring(t *testing.T) {
	r := baseRecord(45, model.GenderMale)
	r.Set(model.FieldSystolicBP, model.NumberAnswer(140))
	r.Set(model.FieldCholesterol, model.NumberAnswer(220))
	r.Set(model.FieldHDLCholesterol, model.NumberAnswer(45))
	r.Set(model.FieldDiabetes, model.BoolAnswer(true))
	r.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingCurrent))

	res := PointsModel(r)
	require.NotNil(t, res)
	// age 2 + chol 1 + hdl 0 + systolic 2 + diabetes 2 + smoking 2 = 9
	assert.Equal(t, 20.0, res.TenYearPct)
	assert.Equal(t, model.ModelPoints, res.Model)
	assert.Nil(t, res.ThirtyYearPct)
	assert.Contains(t, res.Factors, "diagnosed diabetes")
	assert.Contains(t, res.Factors, "current smoking")
	assert.Contains(t, res.Factors, "elevated systolic blood pressure 140 mmHg (hypertension range)")
}

func TestPointsModelClampsToTable(t *testing.T) {
	low := baseRecord(30, model.GenderFemale)
	low.Set(model.FieldSystolicBP, model.NumberAnswer(110))
	low.Set(model.FieldCholesterol, model.NumberAnswer(150))
	low.Set(model.FieldHDLCholesterol, model.NumberAnswer(65))
	res := PointsModel(low)
	require.NotNil(t, res)
	// total points -17, well below the table minimum
	assert.Equal(t, 1.0, res.TenYearPct)

	high := baseRecord(74, model.GenderMale)
	high.Set(model.FieldSystolicBP, model.NumberAnswer(170))
	high.Set(model.FieldCholesterol, model.NumberAnswer(300))
	high.Set(model.FieldHDLCholesterol, model.NumberAnswer(30))
	high.Set(model.FieldDiabetes, model.BoolAnswer(true))
	high.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingCurrent))
	res = PointsModel(high)
	require.NotNil(t, res)
	// total points 19, above the table maximum
	assert.Equal(t, 53.0, res.TenYearPct)
}

func TestPointsModelDiabetesWeightByGender(t *testing.T) {
	male := baseRecord(50, model.GenderMale)
	male.Set(model.FieldDiabetes, model.BoolAnswer(true))
	female := baseRecord(50, model.GenderFemale)
	female.Set(model.FieldDiabetes, model.BoolAnswer(true))

	maleBase := baseRecord(50, model.GenderMale)
	femaleBase := baseRecord(50, model.GenderFemale)

	resMale := PointsModel(male)
	resMaleBase := PointsModel(maleBase)
	resFemale := PointsModel(female)
	resFemaleBase := PointsModel(femaleBase)
	require.NotNil(t, resMale)
	require.NotNil(t, resFemale)

	assert.Greater(t, resMale.TenYearPct, resMaleBase.TenYearPct)
	assert.Greater(t, resFemale.TenYearPct, resFemaleBase.TenYearPct)
}
