package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartcheck/internal/model"
)

func categories(recs []model.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Category
	}
	return out
}

func TestRecommendBaselineAlwaysPresent(t *testing.T) {
	recs := Recommend(model.NewPatientRecord(), nil)
	require.Len(t, recs, 1)
	assert.Equal(t, "preventive_care", recs[0].Category)
	assert.Equal(t, model.PriorityModerate, recs[0].Priority)
}

func TestRecommendRuleOrder(t *testing.T) {
	r := model.NewPatientRecord()
	r.Set(model.FieldSystolicBP, model.NumberAnswer(145))
	r.Set(model.FieldCholesterol, model.NumberAnswer(210))
	r.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingCurrent))
	r.Set(model.FieldPhysicalActivity, model.ChoiceAnswer(model.ActivitySedentary))
	r.Set(model.FieldDietQuality, model.ChoiceAnswer(model.DietPoor))
	r.Set(model.FieldBMI, model.NumberAnswer(29))
	r.Set(model.FieldDiabetes, model.BoolAnswer(true))

	a := &model.RiskAssessment{Category: model.RiskHigh}
	recs := Recommend(r, a)

	assert.Equal(t, []string{
		"blood_pressure", "cholesterol", "smoking", "physical_activity",
		"diet", "weight", "diabetes", "medical_care", "preventive_care",
	}, categories(recs))
}

func TestRecommendIdempotent(t *testing.T) {
	r := model.NewPatientRecord()
	r.Set(model.FieldSystolicBP, model.NumberAnswer(128))
	r.Set(model.FieldDiastolicBP, model.NumberAnswer(85))
	r.Set(model.FieldHDLCholesterol, model.NumberAnswer(38))
	r.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingFormer))

	a := &model.RiskAssessment{Category: model.RiskModerate}
	first := Recommend(r, a)
	second := Recommend(r, a)
	assert.Equal(t, first, second)
}

func TestRecommendThresholds(t *testing.T) {
	// diastolic alone can trigger the blood pressure rule
	r := model.NewPatientRecord()
	r.Set(model.FieldSystolicBP, model.NumberAnswer(118))
	r.Set(model.FieldDiastolicBP, model.NumberAnswer(82))
	assert.Contains(t, categories(Recommend(r, nil)), "blood_pressure")

	// low HDL alone triggers the cholesterol rule
	r = model.NewPatientRecord()
	r.Set(model.FieldHDLCholesterol, model.NumberAnswer(35))
	assert.Contains(t, categories(Recommend(r, nil)), "cholesterol")

	// fair diet triggers, good does not
	r = model.NewPatientRecord()
	r.Set(model.FieldDietQuality, model.ChoiceAnswer(model.DietFair))
	assert.Contains(t, categories(Recommend(r, nil)), "diet")
	r.Set(model.FieldDietQuality, model.ChoiceAnswer(model.DietGood))
	assert.NotContains(t, categories(Recommend(r, nil)), "diet")

	// former smoker gets no smoking recommendation
	r = model.NewPatientRecord()
	r.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingFormer))
	assert.NotContains(t, categories(Recommend(r, nil)), "smoking")

	// medical_care only for the high category
	a := &model.RiskAssessment{Category: model.RiskModerate}
	assert.NotContains(t, categories(Recommend(model.NewPatientRecord(), a)), "medical_care")
}

func TestRecommendPriorities(t *testing.T) {
	r := model.NewPatientRecord()
	r.Set(model.FieldSmoking, model.ChoiceAnswer(model.SmokingCurrent))
	r.Set(model.FieldDiabetes, model.BoolAnswer(true))

	for _, rec := range Recommend(r, nil) {
		switch rec.Category {
		case "smoking", "diabetes":
			assert.Equal(t, model.PriorityCritical, rec.Priority, rec.Category)
		case "preventive_care":
			assert.Equal(t, model.PriorityModerate, rec.Priority)
		}
	}
}
