package model

// FieldID identifies one collected health attribute.
type FieldID string

// Base fields, in collection order.
const (
	FieldAge              FieldID = "age"
	FieldGender           FieldID = "gender"
	FieldSystolicBP       FieldID = "systolicBP"
	FieldDiastolicBP      FieldID = "diastolicBP"
	FieldCholesterol      FieldID = "cholesterol"
	FieldHDLCholesterol   FieldID = "hdlCholesterol"
	FieldBMI              FieldID = "bmi"
	FieldSmoking          FieldID = "smoking"
	FieldPhysicalActivity FieldID = "physicalActivity"
	FieldDietQuality      FieldID = "dietQuality"
	FieldDiabetes         FieldID = "diabetes"
	FieldFamilyHistory    FieldID = "familyHistory"
)

// Follow-up and form-only fields.
const (
	FieldDiabetesType        FieldID = "diabetesType"
	FieldDiabetesYears       FieldID = "diabetesYears"
	FieldFamilyHistoryDetail FieldID = "familyHistoryDetail"
	FieldKidneyDisease       FieldID = "kidneyDisease"
)

// Enumerated values
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	SmokingCurrent = "current"
	SmokingFormer  = "former"
	SmokingNever   = "never"

	ActivitySedentary = "sedentary"
	ActivityModerate  = "moderate"
	ActivityActive    = "active"

	DietPoor      = "poor"
	DietFair      = "fair"
	DietGood      = "good"
	DietExcellent = "excellent"
)

// AnswerKind distinguishes a recorded value from an explicit "don't know".
// A field absent from the record means it was never asked.
type AnswerKind string

const (
	AnswerValue   AnswerKind = "value"
	AnswerUnknown AnswerKind = "unknown"
)

// Answer is the stored response for one field. Exactly one of the typed
// slots is populated when Kind is AnswerValue; which one depends on the
// field's schema kind. Follow-up answers land in Text verbatim.
type Answer struct {
	Kind   AnswerKind `json:"kind" bson:"kind"`
	Number *float64   `json:"number,omitempty" bson:"number,omitempty"`
	Choice string     `json:"choice,omitempty" bson:"choice,omitempty"`
	Flag   *bool      `json:"flag,omitempty" bson:"flag,omitempty"`
	Text   string     `json:"text,omitempty" bson:"text,omitempty"`
}

// NumberAnswer builds a numeric value answer.
func NumberAnswer(v float64) Answer { return Answer{Kind: AnswerValue, Number: &v} }

// ChoiceAnswer builds an enumerated value answer.
func ChoiceAnswer(v string) Answer { return Answer{Kind: AnswerValue, Choice: v} }

// BoolAnswer builds a boolean value answer.
func BoolAnswer(v bool) Answer { return Answer{Kind: AnswerValue, Flag: &v} }

// TextAnswer builds a free-text answer (follow-up sub-flows).
func TextAnswer(v string) Answer { return Answer{Kind: AnswerValue, Text: v} }

// UnknownAnswer records an explicit decline/unknown.
func UnknownAnswer() Answer { return Answer{Kind: AnswerUnknown} }

// PatientRecord maps field ids to answers. Fields never revert: once an
// answer (value or unknown) is stored the field is not re-asked within
// a session.
type PatientRecord struct {
	Answers map[FieldID]Answer `json:"answers" bson:"answers"`
}

// NewPatientRecord returns an empty record.
func NewPatientRecord() *PatientRecord {
	return &PatientRecord{Answers: make(map[FieldID]Answer)}
}

// Set stores an answer for a field.
func (r *PatientRecord) Set(id FieldID, a Answer) {
	if r.Answers == nil {
		r.Answers = make(map[FieldID]Answer)
	}
	r.Answers[id] = a
}

// Has reports whether the field was answered, including an explicit unknown.
func (r *PatientRecord) Has(id FieldID) bool {
	if r == nil || r.Answers == nil {
		return false
	}
	_, ok := r.Answers[id]
	return ok
}

// Number returns the numeric value for id, or false when the field is
// absent, unknown, or not numeric.
func (r *PatientRecord) Number(id FieldID) (float64, bool) {
	if r == nil || r.Answers == nil {
		return 0, false
	}
	a, ok := r.Answers[id]
	if !ok || a.Kind != AnswerValue || a.Number == nil {
		return 0, false
	}
	return *a.Number, true
}

// Choice returns the enumerated value for id, or false when absent.
func (r *PatientRecord) Choice(id FieldID) (string, bool) {
	if r == nil || r.Answers == nil {
		return "", false
	}
	a, ok := r.Answers[id]
	if !ok || a.Kind != AnswerValue || a.Choice == "" {
		return "", false
	}
	return a.Choice, true
}

// Bool returns the boolean value for id, or false when absent.
func (r *PatientRecord) Bool(id FieldID) (bool, bool) {
	if r == nil || r.Answers == nil {
		return false, false
	}
	a, ok := r.Answers[id]
	if !ok || a.Kind != AnswerValue || a.Flag == nil {
		return false, false
	}
	return *a.Flag, true
}

// Text returns the free-text value for id, or false when absent.
func (r *PatientRecord) Text(id FieldID) (string, bool) {
	if r == nil || r.Answers == nil {
		return "", false
	}
	a, ok := r.Answers[id]
	if !ok || a.Kind != AnswerValue || a.Text == "" {
		return "", false
	}
	return a.Text, true
}

// Clone returns a deep copy. The conversation hands copies to the
// scoring pipeline so the assessment works on a frozen snapshot.
func (r *PatientRecord) Clone() *PatientRecord {
	out := NewPatientRecord()
	if r == nil {
		return out
	}
	for k, v := range r.Answers {
		out.Answers[k] = v
	}
	return out
}
