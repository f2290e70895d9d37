package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Extract is for per-utterance field extraction (needs to be fast)
	Extract string `json:"extract"`

	// Risk is for the generative fallback of the ML risk model
	Risk string `json:"risk"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`

	// RiskModelURL is the classification-style inference endpoint for
	// the ML-assisted risk score. Empty disables that model.
	RiskModelURL string `json:"riskModelUrl"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			// Extraction runs on every message, so a fast model
			Extract: getEnvOrDefault("GEMINI_MODEL_EXTRACT", "gemini-2.0-flash"),
			Risk:    getEnvOrDefault("GEMINI_MODEL_RISK", "gemini-2.0-flash"),
		},
		TimeoutMS:    4000, // external waits must not stall the conversation
		RiskModelURL: os.Getenv("RISK_MODEL_URL"),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
