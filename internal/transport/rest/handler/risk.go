package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"heartcheck/internal/model"
	"heartcheck/internal/service"
)

// RiskHandler handles direct (form-based) risk calculation
type RiskHandler struct {
	riskSvc *service.RiskService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(riskSvc *service.RiskService) *RiskHandler {
	return &RiskHandler{riskSvc: riskSvc}
}

// CalculateRequest is the flat record submitted by the static form.
// A null field means the respondent declined; an absent field was not
// collected.
type CalculateRequest struct {
	Age              *float64 `json:"age"`
	Gender           *string  `json:"gender"`
	SystolicBP       *float64 `json:"systolicBP"`
	DiastolicBP      *float64 `json:"diastolicBP"`
	Cholesterol      *float64 `json:"cholesterol"`
	HDLCholesterol   *float64 `json:"hdlCholesterol"`
	BMI              *float64 `json:"bmi"`
	Smoking          *string  `json:"smoking"`
	PhysicalActivity *string  `json:"physicalActivity"`
	DietQuality      *string  `json:"dietQuality"`
	Diabetes         *bool    `json:"diabetes"`
	FamilyHistory    *bool    `json:"familyHistory"`
	KidneyDisease    *bool    `json:"kidneyDisease"`
	WithComparison   bool     `json:"withComparison"`
}

func (req *CalculateRequest) toRecord() *model.PatientRecord {
	r := model.NewPatientRecord()
	setNumber := func(id model.FieldID, v *float64) {
		if v != nil {
			r.Set(id, model.NumberAnswer(*v))
		}
	}
	setChoice := func(id model.FieldID, v *string) {
		if v != nil {
			r.Set(id, model.ChoiceAnswer(*v))
		}
	}
	setBool := func(id model.FieldID, v *bool) {
		if v != nil {
			r.Set(id, model.BoolAnswer(*v))
		}
	}

	setNumber(model.FieldAge, req.Age)
	setChoice(model.FieldGender, req.Gender)
	setNumber(model.FieldSystolicBP, req.SystolicBP)
	setNumber(model.FieldDiastolicBP, req.DiastolicBP)
	setNumber(model.FieldCholesterol, req.Cholesterol)
	setNumber(model.FieldHDLCholesterol, req.HDLCholesterol)
	setNumber(model.FieldBMI, req.BMI)
	setChoice(model.FieldSmoking, req.Smoking)
	setChoice(model.FieldPhysicalActivity, req.PhysicalActivity)
	setChoice(model.FieldDietQuality, req.DietQuality)
	setBool(model.FieldDiabetes, req.Diabetes)
	setBool(model.FieldFamilyHistory, req.FamilyHistory)
	setBool(model.FieldKidneyDisease, req.KidneyDisease)
	return r
}

// Calculate handles POST /v1/risk/calculate
func (h *RiskHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record := req.toRecord()
	assessment, err := h.riskSvc.Calculate(r.Context(), record, req.WithComparison)
	if err != nil {
		var ve *model.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Error())
		case errors.Is(err, model.ErrInsufficientData):
			writeError(w, http.StatusUnprocessableEntity, "not enough data for any scoring model")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assessment":      assessment,
		"recommendations": h.riskSvc.Recommendations(record, assessment),
	})
}
