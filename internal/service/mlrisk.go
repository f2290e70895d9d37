package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"heartcheck/internal/config"
	"heartcheck/internal/model"
)

// riskFeatures is the payload sent to the inference endpoint. Field
// names follow the classifier's training schema, hence the renames
// (systolicBP becomes restingBP, cholesterol becomes totalCholesterol).
type riskFeatures struct {
	Age              float64 `json:"age"`
	Sex              string  `json:"sex"`
	RestingBP        float64 `json:"restingBP"`
	TotalCholesterol float64 `json:"totalCholesterol,omitempty"`
	HDL              float64 `json:"hdl,omitempty"`
	MaxHeartRate     float64 `json:"maxHeartRate"`
	BMI              float64 `json:"bmi,omitempty"`
	Diabetic         bool    `json:"diabetic"`
	Smoker           bool    `json:"smoker"`
}

// classificationResult is one label/score entry from a
// classification-style endpoint.
type classificationResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// MLRiskClient scores a record against an external classifier, falling
// back to a generative estimate when only Gemini is configured. Any
// failure yields nil without affecting the other models.
type MLRiskClient struct {
	config *config.AIConfig
	http   *resty.Client
	logger *zap.Logger
}

// NewMLRiskClient creates the inference client.
func NewMLRiskClient(cfg *config.AIConfig, logger *zap.Logger) *MLRiskClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutMS) * time.Millisecond).
		SetRetryCount(1).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &MLRiskClient{config: cfg, http: client, logger: logger}
}

var probabilityRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Score returns the ML model's contribution, or nil when the feature
// requirements are unmet, no endpoint is configured, or the call fails.
func (c *MLRiskClient) Score(ctx context.Context, r *model.PatientRecord) *model.ModelResult {
	features, ok := buildFeatures(r)
	if !ok {
		return nil
	}

	var prob float64
	var found bool
	switch {
	case c.config.RiskModelURL != "":
		prob, found = c.callClassifier(ctx, features)
	case c.config.IsEnabled():
		prob, found = c.callGenerative(ctx, features)
	default:
		return nil
	}
	if !found {
		return nil
	}

	prob = clampProb(prob)
	return &model.ModelResult{
		Model:      model.ModelML,
		TenYearPct: prob * 100,
		Factors: []string{
			fmt.Sprintf("statistical model estimate of %.0f%% based on age, blood pressure, and cholesterol profile", prob*100),
		},
	}
}

func buildFeatures(r *model.PatientRecord) (riskFeatures, bool) {
	age, okAge := r.Number(model.FieldAge)
	gender, okGender := r.Choice(model.FieldGender)
	systolic, okBP := r.Number(model.FieldSystolicBP)
	if !okAge || !okGender || !okBP {
		return riskFeatures{}, false
	}

	f := riskFeatures{
		Age:       age,
		Sex:       gender,
		RestingBP: systolic,
		// Derived estimate when no measured value exists.
		MaxHeartRate: 220 - age,
	}
	if chol, ok := r.Number(model.FieldCholesterol); ok {
		f.TotalCholesterol = chol
	}
	if hdl, ok := r.Number(model.FieldHDLCholesterol); ok {
		f.HDL = hdl
	}
	if bmi, ok := r.Number(model.FieldBMI); ok {
		f.BMI = bmi
	}
	if diabetic, ok := r.Bool(model.FieldDiabetes); ok {
		f.Diabetic = diabetic
	}
	if smoking, ok := r.Choice(model.FieldSmoking); ok {
		f.Smoker = smoking == model.SmokingCurrent
	}
	return f, true
}

// callClassifier posts the features and accepts either a
// classification result list or free text containing a probability.
func (c *MLRiskClient) callClassifier(ctx context.Context, features riskFeatures) (float64, bool) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(features).
		Post(c.config.RiskModelURL)
	if err != nil {
		c.logger.Debug("risk model call failed", zap.Error(err))
		return 0, false
	}
	if resp.IsError() {
		c.logger.Debug("risk model returned error status", zap.Int("status", resp.StatusCode()))
		return 0, false
	}
	return parseProbability(resp.String())
}

// callGenerative asks Gemini for a probability when no classifier
// endpoint is configured.
func (c *MLRiskClient) callGenerative(ctx context.Context, features riskFeatures) (float64, bool) {
	payload, err := json.Marshal(features)
	if err != nil {
		return 0, false
	}

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": fmt.Sprintf(
				`Estimate the 10-year heart disease probability for this profile as a single decimal between 0 and 1. Reply with the number only.

Profile: %s`, payload)}}},
		},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return 0, false
	}

	url := fmt.Sprintf("%s?key=%s", c.config.ModelEndpoint(c.config.Models.Risk), c.config.APIKey)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(jsonBody).
		Post(url)
	if err != nil || resp.IsError() {
		return 0, false
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Body(), &geminiResp); err != nil {
		return 0, false
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return 0, false
	}
	return parseProbability(geminiResp.Candidates[0].Content.Parts[0].Text)
}

// parseProbability handles both response shapes: a JSON classification
// list and free text containing a number. Percentages above 1 are
// scaled down.
func parseProbability(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)

	var results []classificationResult
	if err := json.Unmarshal([]byte(trimmed), &results); err == nil && len(results) > 0 {
		for _, res := range results {
			label := strings.ToLower(res.Label)
			if label == "1" || label == "high" || label == "positive" || strings.Contains(label, "disease") {
				return res.Score, true
			}
		}
		return results[0].Score, true
	}

	raw := probabilityRe.FindString(trimmed)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if v > 1 { // "42" or "42%" means 42 percent
		v = v / 100
	}
	return v, true
}

func clampProb(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
