package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"heartcheck/internal/config"
	"heartcheck/internal/model"
	"heartcheck/internal/schema"
)

// Extractor attempts structured field extraction via the Gemini API
// before the conversation falls back to the rule parser. Every failure
// mode (disabled config, transport error, malformed reply, value
// outside the field's domain) is reported as not-ok, never as an
// error, so a flaky service can only ever degrade to local parsing.
type Extractor struct {
	config *config.AIConfig
	client *http.Client
	logger *zap.Logger
}

// NewExtractor creates the extraction adapter.
func NewExtractor(cfg *config.AIConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		logger: logger,
	}
}

// TryExtract asks the model for a single JSON object {"value": ...}.
// A JSON null value means the respondent explicitly doesn't know, which
// is a successful extraction of "unknown", not a failure.
func (e *Extractor) TryExtract(ctx context.Context, utterance string, f schema.Field) (schema.ParseResult, bool) {
	if !e.config.IsEnabled() {
		return schema.ParseResult{}, false
	}

	prompt := e.buildExtractionPrompt(utterance, f)
	response, err := e.callGemini(ctx, e.config.Models.Extract, prompt)
	if err != nil {
		e.logger.Debug("extraction call failed, falling back to rule parser",
			zap.String("field", string(f.ID)), zap.Error(err))
		return schema.ParseResult{}, false
	}

	raw, ok := sliceJSONObject(response)
	if !ok {
		return schema.ParseResult{}, false
	}

	var reply struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal([]byte(raw), &reply); err != nil || reply.Value == nil {
		return schema.ParseResult{}, false
	}
	if string(reply.Value) == "null" {
		return schema.ParseResult{Kind: schema.ParsedUnknown, Answer: model.UnknownAnswer()}, true
	}

	answer, ok := coerceValue(reply.Value, f)
	if !ok {
		return schema.ParseResult{}, false
	}
	return schema.ParseResult{Kind: schema.ParsedValue, Answer: answer}, true
}

func (e *Extractor) buildExtractionPrompt(utterance string, f schema.Field) string {
	domain := ""
	switch f.Kind {
	case schema.KindNumber:
		domain = fmt.Sprintf("a number between %.0f and %.0f", f.Min, f.Max)
	case schema.KindChoice:
		values := make([]string, 0, len(f.Choices))
		for _, c := range f.Choices {
			values = append(values, c.Value)
		}
		domain = "one of: " + strings.Join(values, ", ")
	case schema.KindBool:
		domain = "true or false"
	}

	return fmt.Sprintf(`You are extracting a single health attribute from a chat message.
Return ONLY valid JSON: {"value": <extracted value>}

Attribute: %s (%s)
If the message says the person doesn't know or declines, return {"value": null}.
If the attribute is not present in the message, return {"value": null}.

Message: %q`, f.ID, domain, utterance)
}

// callGemini makes a request to the Gemini API
func (e *Extractor) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", e.config.ModelEndpoint(modelName), e.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
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

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// sliceJSONObject tolerates prose around the reply by cutting from the
// first '{' to the last '}'.
func sliceJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// coerceValue validates the extracted value against the field's domain.
// Anything out of bounds or off the enumeration is rejected so a
// hallucinated value never reaches the record.
func coerceValue(raw json.RawMessage, f schema.Field) (model.Answer, bool) {
	switch f.Kind {
	case schema.KindNumber:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			// Models sometimes quote numbers.
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return model.Answer{}, false
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return model.Answer{}, false
			}
			n = parsed
		}
		if n < f.Min || n > f.Max {
			return model.Answer{}, false
		}
		return model.NumberAnswer(n), true

	case schema.KindChoice:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.Answer{}, false
		}
		s = strings.ToLower(strings.TrimSpace(s))
		for _, c := range f.Choices {
			if s == c.Value {
				return model.ChoiceAnswer(c.Value), true
			}
		}
		return model.Answer{}, false

	case schema.KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return model.Answer{}, false
		}
		return model.BoolAnswer(b), true
	}
	return model.Answer{}, false
}
