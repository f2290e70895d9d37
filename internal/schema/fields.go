// Package schema defines the health attributes collected by the guided
// conversation and the rule-based parsing of free-text answers.
package schema

import "heartcheck/internal/model"

// Kind is a field's value domain.
type Kind string

const (
	KindNumber Kind = "number"
	KindChoice Kind = "choice"
	KindBool   Kind = "bool"
)

// Choice pairs an enumerated value with the keywords that select it.
// The slice order is the match order; e.g. "female" must be tried
// before "male" because "male" is a substring of "female".
type Choice struct {
	Value    string
	Keywords []string
}

// Trigger starts a follow-up sub-flow when the stored answer matches.
type Trigger struct {
	OnBool   *bool
	OnChoice string
	First    string // id of the first follow-up question
}

// Field describes one collected attribute.
type Field struct {
	ID       model.FieldID
	Kind     Kind
	Prompt   string
	Reprompt string
	Required bool
	Min, Max float64 // numeric bounds, inclusive
	Choices  []Choice
	Trigger  *Trigger
}

// FollowUp is one extra question in a sub-flow. The raw utterance is
// stored under Target with no validation beyond non-empty.
type FollowUp struct {
	ID     string
	Target model.FieldID
	Prompt string
	Next   string // id of the chained follow-up, empty to end the chain
}

func boolPtr(b bool) *bool { return &b }

var fields = []Field{
	{
		ID: model.FieldAge, Kind: KindNumber, Required: true,
		Min: 0, Max: 150,
		Prompt:   "Let's start with the basics. How old are you?",
		Reprompt: "I do need your age to assess risk. Could you give it as a number, like 45?",
	},
	{
		ID: model.FieldGender, Kind: KindChoice, Required: true,
		Prompt:   "What is your gender? (male, female, or other)",
		Reprompt: "Gender is needed for the scoring tables. Please answer male, female, or other.",
		Choices: []Choice{
			{Value: model.GenderFemale, Keywords: []string{"female", "woman", "lady", "girl"}},
			{Value: model.GenderMale, Keywords: []string{"male", "man", "guy", "boy"}},
			{Value: model.GenderOther, Keywords: []string{"other", "non-binary", "nonbinary", "neither"}},
		},
	},
	{
		ID: model.FieldSystolicBP, Kind: KindNumber,
		Min: 70, Max: 250,
		Prompt:   "What is your systolic blood pressure (the top number, in mmHg)? You can also give both, like 120/80.",
		Reprompt: "Sorry, I couldn't read that as a blood pressure. Try a number like 130, or a pair like 130/85.",
	},
	{
		ID: model.FieldDiastolicBP, Kind: KindNumber,
		Min: 40, Max: 150,
		Prompt:   "And your diastolic blood pressure (the bottom number)?",
		Reprompt: "I couldn't read that as a diastolic pressure. A typical value is between 60 and 100.",
	},
	{
		ID: model.FieldCholesterol, Kind: KindNumber,
		Min: 80, Max: 500,
		Prompt:   "What is your total cholesterol, in mg/dL?",
		Reprompt: "I couldn't read a cholesterol value there. It is usually between 120 and 300 mg/dL.",
	},
	{
		ID: model.FieldHDLCholesterol, Kind: KindNumber,
		Min: 10, Max: 150,
		Prompt:   "What is your HDL (\"good\") cholesterol, in mg/dL?",
		Reprompt: "I couldn't read an HDL value there. It is usually between 25 and 100 mg/dL.",
	},
	{
		ID: model.FieldBMI, Kind: KindNumber,
		Min: 10, Max: 60,
		Prompt:   "What is your BMI? If you don't know it, give me your weight and height and I'll work it out.",
		Reprompt: "I couldn't work out a BMI from that. Give the BMI directly (like 24), or weight and height (like 70 kg and 1.75 m).",
	},
	{
		ID: model.FieldSmoking, Kind: KindChoice,
		Prompt:   "Do you smoke? (currently, formerly, or never)",
		Reprompt: "Please answer with currently, formerly, or never.",
		Choices: []Choice{
			{Value: model.SmokingFormer, Keywords: []string{"former", "quit", "used to", "stopped", "gave up", "ex-smoker"}},
			{Value: model.SmokingNever, Keywords: []string{"never", "no"}},
			{Value: model.SmokingCurrent, Keywords: []string{"current", "yes", "still", "daily", "pack", "smoke"}},
		},
	},
	{
		ID: model.FieldPhysicalActivity, Kind: KindChoice,
		Prompt:   "How physically active are you? (sedentary, moderate, or active)",
		Reprompt: "Please answer with sedentary, moderate, or active.",
		Choices: []Choice{
			{Value: model.ActivitySedentary, Keywords: []string{"sedentary", "none", "inactive", "rarely", "no exercise", "don't exercise", "dont exercise"}},
			{Value: model.ActivityModerate, Keywords: []string{"moderate", "sometimes", "few times", "occasionally", "couple"}},
			{Value: model.ActivityActive, Keywords: []string{"active", "daily", "every day", "vigorous", "a lot", "regularly"}},
		},
	},
	{
		ID: model.FieldDietQuality, Kind: KindChoice,
		Prompt:   "How would you rate your diet? (poor, fair, good, or excellent)",
		Reprompt: "Please rate your diet as poor, fair, good, or excellent.",
		Choices: []Choice{
			{Value: model.DietExcellent, Keywords: []string{"excellent", "very healthy", "great"}},
			{Value: model.DietPoor, Keywords: []string{"poor", "bad", "unhealthy", "junk", "fast food"}},
			{Value: model.DietFair, Keywords: []string{"fair", "average", "okay", "ok", "so-so"}},
			{Value: model.DietGood, Keywords: []string{"good", "healthy", "balanced", "decent"}},
		},
	},
	{
		ID: model.FieldDiabetes, Kind: KindBool,
		Prompt:   "Have you been diagnosed with diabetes?",
		Reprompt: "Sorry, I need a yes or no. Do you have diabetes?",
		Trigger:  &Trigger{OnBool: boolPtr(true), First: "diabetes_type"},
	},
	{
		ID: model.FieldFamilyHistory, Kind: KindBool,
		Prompt:   "Does heart disease run in your family (parents or siblings)?",
		Reprompt: "Sorry, I need a yes or no. Any family history of heart disease?",
		Trigger:  &Trigger{OnBool: boolPtr(true), First: "family_detail"},
	},
}

var followUps = map[string]FollowUp{
	"diabetes_type": {
		ID:     "diabetes_type",
		Target: model.FieldDiabetesType,
		Prompt: "Thanks for sharing that. What type of diabetes is it (type 1, type 2, or other)?",
		Next:   "diabetes_years",
	},
	"diabetes_years": {
		ID:     "diabetes_years",
		Target: model.FieldDiabetesYears,
		Prompt: "And roughly how many years ago were you diagnosed?",
	},
	"family_detail": {
		ID:     "family_detail",
		Target: model.FieldFamilyHistoryDetail,
		Prompt: "Which relative was affected, and roughly at what age?",
	},
}

// Fields returns the base field sequence in collection order.
func Fields() []Field { return fields }

// FieldAt returns the base field at cursor position i.
func FieldAt(i int) (Field, bool) {
	if i < 0 || i >= len(fields) {
		return Field{}, false
	}
	return fields[i], true
}

// FieldByID looks up a base field by id.
func FieldByID(id model.FieldID) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// FollowUpByID looks up a follow-up question.
func FollowUpByID(id string) (FollowUp, bool) {
	fu, ok := followUps[id]
	return fu, ok
}

// Triggered returns the follow-up chain started by storing a on f,
// if any.
func (f Field) Triggered(a model.Answer) (string, bool) {
	if f.Trigger == nil || a.Kind != model.AnswerValue {
		return "", false
	}
	if f.Trigger.OnBool != nil {
		if a.Flag != nil && *a.Flag == *f.Trigger.OnBool {
			return f.Trigger.First, true
		}
		return "", false
	}
	if f.Trigger.OnChoice != "" && a.Choice == f.Trigger.OnChoice {
		return f.Trigger.First, true
	}
	return "", false
}
