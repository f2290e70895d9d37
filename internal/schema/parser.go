package schema

import (
	"regexp"
	"strconv"
	"strings"

	"heartcheck/internal/model"
)

// ParseKind is the outcome class of a parse attempt.
type ParseKind string

const (
	// ParsedValue: a typed value was extracted.
	ParsedValue ParseKind = "value"
	// ParsedUnknown: the respondent explicitly declined / doesn't know.
	ParsedUnknown ParseKind = "unknown"
	// Unparseable: the utterance could not be mapped to the field.
	Unparseable ParseKind = "unparseable"
)

// ParseResult carries the outcome and, for ParsedValue, the answer.
type ParseResult struct {
	Kind   ParseKind
	Answer model.Answer
}

// Unknown phrases short-circuit before any field-specific parsing.
// Multi-word phrases match anywhere; short tokens only as the whole
// utterance, so "surpassed 140" still parses as a number.
var unknownPhrases = []string{
	"don't know", "dont know", "do not know", "not sure", "unsure",
	"no idea", "no clue", "prefer not", "can't say", "cant say",
}

var unknownExact = []string{"skip", "pass", "n/a", "unknown", "idk", "dunno"}

var (
	numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	bpPairRe = regexp.MustCompile(`(\d{2,3})\s*/\s*(\d{2,3})`)
)

var affirmatives = []string{
	"yes", "yeah", "yep", "yup", "sure", "correct", "true", "i do",
	"i have", "of course", "definitely", "affirmative", "absolutely", "ok",
}

var negatives = []string{
	"don't", "dont", "do not", "not really", "no", "nope", "nah",
	"never", "false", "negative", "none",
}

// IsUnknown reports whether the utterance is an explicit decline.
func IsUnknown(utterance string) bool {
	u := strings.ToLower(strings.TrimSpace(utterance))
	for _, p := range unknownPhrases {
		if strings.Contains(u, p) {
			return true
		}
	}
	u = strings.TrimRight(u, ".!? ")
	for _, tok := range unknownExact {
		if u == tok {
			return true
		}
	}
	return false
}

// ParseYesNo reads a confirmation utterance. Negatives win over
// affirmatives so "no thanks" never confirms; ok is false when the
// utterance is neither.
func ParseYesNo(utterance string) (yes bool, ok bool) {
	res := parseBool(utterance)
	if res.Kind != ParsedValue {
		return false, false
	}
	return *res.Answer.Flag, true
}

// Parse maps a raw utterance onto the target field.
func Parse(utterance string, f Field) ParseResult {
	if IsUnknown(utterance) {
		return ParseResult{Kind: ParsedUnknown, Answer: model.UnknownAnswer()}
	}

	switch f.Kind {
	case KindNumber:
		return parseNumber(utterance, f)
	case KindChoice:
		return parseChoice(utterance, f)
	case KindBool:
		return parseBool(utterance)
	}
	return ParseResult{Kind: Unparseable}
}

// ParseBPPair splits an "S/D" blood-pressure pair. The left number is
// always systolic and the right diastolic, whichever field is active.
func ParseBPPair(utterance string) (systolic, diastolic float64, ok bool) {
	m := bpPairRe.FindStringSubmatch(utterance)
	if m == nil {
		return 0, 0, false
	}
	s, err1 := strconv.ParseFloat(m[1], 64)
	d, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if s < 70 || s > 250 || d < 40 || d > 150 {
		return 0, 0, false
	}
	return s, d, true
}

func parseNumber(utterance string, f Field) ParseResult {
	if f.ID == model.FieldSystolicBP || f.ID == model.FieldDiastolicBP {
		if s, d, ok := ParseBPPair(utterance); ok {
			v := s
			if f.ID == model.FieldDiastolicBP {
				v = d
			}
			return ParseResult{Kind: ParsedValue, Answer: model.NumberAnswer(v)}
		}
	}
	if f.ID == model.FieldBMI {
		return parseBMI(utterance)
	}

	raw := numberRe.FindString(utterance)
	if raw == "" {
		return ParseResult{Kind: Unparseable}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < f.Min || v > f.Max {
		return ParseResult{Kind: Unparseable}
	}
	return ParseResult{Kind: ParsedValue, Answer: model.NumberAnswer(v)}
}

// parseBMI accepts a bare BMI value, or a weight/height pair in metric
// or imperial magnitudes, computing weight(kg)/height(m)^2.
func parseBMI(utterance string) ParseResult {
	raws := numberRe.FindAllString(utterance, -1)
	if len(raws) == 0 {
		return ParseResult{Kind: Unparseable}
	}

	nums := make([]float64, 0, len(raws))
	for _, r := range raws {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return ParseResult{Kind: Unparseable}
		}
		nums = append(nums, v)
	}

	if len(nums) == 1 {
		v := nums[0]
		if v < 10 || v > 60 {
			return ParseResult{Kind: Unparseable}
		}
		return ParseResult{Kind: ParsedValue, Answer: model.NumberAnswer(v)}
	}

	bmi, ok := bmiFromPair(strings.ToLower(utterance), nums[0], nums[1])
	if !ok || bmi < 10 || bmi > 60 {
		return ParseResult{Kind: Unparseable}
	}
	return ParseResult{Kind: ParsedValue, Answer: model.NumberAnswer(bmi)}
}

// bmiFromPair classifies two numbers as weight and height using unit
// keywords first and plausible magnitude ranges second.
func bmiFromPair(lower string, a, b float64) (float64, bool) {
	imperial := strings.Contains(lower, "lb") || strings.Contains(lower, "pound") ||
		strings.Contains(lower, "inch") || strings.Contains(lower, "feet") ||
		strings.Contains(lower, "stone")

	weight, height := a, b
	// Height is the number that falls in a plausible height range;
	// prefer the second number on ties (conventional "weight, height" order).
	if isHeightMagnitude(a, imperial) && !isHeightMagnitude(b, imperial) {
		weight, height = b, a
	}
	if !isHeightMagnitude(height, imperial) {
		return 0, false
	}

	meters, ok := toMeters(height, imperial)
	if !ok {
		return 0, false
	}
	kg, ok := toKilograms(weight, imperial)
	if !ok {
		return 0, false
	}
	return kg / (meters * meters), true
}

func isHeightMagnitude(v float64, imperial bool) bool {
	if imperial && v >= 48 && v <= 90 { // inches
		return true
	}
	if v >= 1.2 && v <= 2.5 { // meters
		return true
	}
	if v >= 120 && v <= 230 { // centimeters
		return true
	}
	return false
}

func toMeters(v float64, imperial bool) (float64, bool) {
	switch {
	case imperial && v >= 48 && v <= 90:
		return v * 0.0254, true
	case v >= 1.2 && v <= 2.5:
		return v, true
	case v >= 120 && v <= 230:
		return v / 100, true
	}
	return 0, false
}

func toKilograms(v float64, imperial bool) (float64, bool) {
	if imperial {
		if v >= 66 && v <= 700 { // pounds
			return v * 0.453592, true
		}
		return 0, false
	}
	if v >= 30 && v <= 350 {
		return v, true
	}
	return 0, false
}

func parseChoice(utterance string, f Field) ParseResult {
	u := strings.ToLower(strings.TrimSpace(utterance))
	for _, c := range f.Choices {
		for _, kw := range c.Keywords {
			if strings.Contains(u, kw) {
				return ParseResult{Kind: ParsedValue, Answer: model.ChoiceAnswer(c.Value)}
			}
		}
	}
	return ParseResult{Kind: Unparseable}
}

func parseBool(utterance string) ParseResult {
	u := strings.ToLower(strings.TrimSpace(utterance))
	for _, kw := range negatives {
		if strings.Contains(u, kw) {
			return ParseResult{Kind: ParsedValue, Answer: model.BoolAnswer(false)}
		}
	}
	for _, kw := range affirmatives {
		if strings.Contains(u, kw) {
			return ParseResult{Kind: ParsedValue, Answer: model.BoolAnswer(true)}
		}
	}
	return ParseResult{Kind: Unparseable}
}
