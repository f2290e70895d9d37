package risk

import "heartcheck/internal/model"

// Recommend derives actionable guidance from the raw record plus the
// assessment category. The rules fire in a fixed order and the output
// order is their insertion order, so identical inputs always produce
// identical output.
func Recommend(r *model.PatientRecord, a *model.RiskAssessment) []model.Recommendation {
	var recs []model.Recommendation

	systolic, hasSys := r.Number(model.FieldSystolicBP)
	diastolic, hasDia := r.Number(model.FieldDiastolicBP)
	if (hasSys && systolic >= 130) || (hasDia && diastolic >= 80) {
		recs = append(recs, model.Recommendation{
			Category: "blood_pressure",
			Priority: model.PriorityHigh,
			Action:   "Bring your blood pressure under control",
			Detail:   "Your readings are above the 130/80 mmHg target. Reduce sodium, manage stress, and discuss monitoring or medication with your doctor.",
		})
	}

	chol, hasChol := r.Number(model.FieldCholesterol)
	hdl, hasHDL := r.Number(model.FieldHDLCholesterol)
	if (hasChol && chol >= 200) || (hasHDL && hdl < 40) {
		recs = append(recs, model.Recommendation{
			Category: "cholesterol",
			Priority: model.PriorityHigh,
			Action:   "Improve your cholesterol profile",
			Detail:   "Total cholesterol at or above 200 mg/dL or HDL below 40 mg/dL raises risk. Favor unsaturated fats and soluble fiber; ask about a lipid panel follow-up.",
		})
	}

	if smoking, ok := r.Choice(model.FieldSmoking); ok && smoking == model.SmokingCurrent {
		recs = append(recs, model.Recommendation{
			Category: "smoking",
			Priority: model.PriorityCritical,
			Action:   "Quit smoking",
			Detail:   "Smoking is the single most impactful modifiable risk factor here. Cessation support programs roughly double quit rates.",
		})
	}

	if activity, ok := r.Choice(model.FieldPhysicalActivity); ok && activity == model.ActivitySedentary {
		recs = append(recs, model.Recommendation{
			Category: "physical_activity",
			Priority: model.PriorityModerate,
			Action:   "Build up regular physical activity",
			Detail:   "Aim for 150 minutes of moderate aerobic activity per week. Start with brisk walking and increase gradually.",
		})
	}

	if diet, ok := r.Choice(model.FieldDietQuality); ok && (diet == model.DietPoor || diet == model.DietFair) {
		recs = append(recs, model.Recommendation{
			Category: "diet",
			Priority: model.PriorityModerate,
			Action:   "Upgrade your diet",
			Detail:   "Shift toward vegetables, whole grains, fish, and nuts; cut processed food and added sugar. A Mediterranean-style pattern is a good template.",
		})
	}

	if bmi, ok := r.Number(model.FieldBMI); ok && bmi >= 25 {
		recs = append(recs, model.Recommendation{
			Category: "weight",
			Priority: model.PriorityModerate,
			Action:   "Work toward a healthier weight",
			Detail:   "A BMI of 25 or above adds cardiovascular strain. Even a 5-10% weight reduction measurably lowers blood pressure and cholesterol.",
		})
	}

	if diabetic, ok := r.Bool(model.FieldDiabetes); ok && diabetic {
		recs = append(recs, model.Recommendation{
			Category: "diabetes",
			Priority: model.PriorityCritical,
			Action:   "Keep your diabetes tightly managed",
			Detail:   "Good glycemic control substantially reduces cardiovascular complications. Keep up regular HbA1c checks and medication adherence.",
		})
	}

	if a != nil && a.Category == model.RiskHigh {
		recs = append(recs, model.Recommendation{
			Category: "medical_care",
			Priority: model.PriorityCritical,
			Action:   "See a doctor about your cardiovascular risk",
			Detail:   "Your combined risk estimate is in the high range. A clinician can order proper diagnostics and discuss preventive treatment.",
		})
	}

	recs = append(recs, model.Recommendation{
		Category: "preventive_care",
		Priority: model.PriorityModerate,
		Action:   "Keep up routine preventive care",
		Detail:   "Annual checkups with blood pressure and lipid screening catch changes early, whatever your current risk level.",
	})

	return recs
}
