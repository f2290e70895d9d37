package model

import (
	"sync"
	"time"
)

// Stage is the conversation's current position in the guided flow.
type Stage string

const (
	// StageCollecting: asking the base field at the cursor.
	StageCollecting Stage = "collecting"
	// StageFollowUp: inside a follow-up sub-flow; FollowUpID is set.
	StageFollowUp Stage = "followup"
	// StageConfirmCalculate: all fields gathered, awaiting yes/no to score.
	StageConfirmCalculate Stage = "confirm_calculate"
	// StageOfferAdvice: assessment done, offering lowering guidance.
	StageOfferAdvice Stage = "offer_advice"
	// StageOfferComparison: offering the population comparison.
	StageOfferComparison Stage = "offer_comparison"
	// StageCompleted: guided flow finished; record stays amendable.
	StageCompleted Stage = "completed"
)

// TranscriptEntry is one prompt/answer pair, kept for the
// questionnaire-response persistence.
type TranscriptEntry struct {
	Prompt    string    `json:"prompt" bson:"prompt"`
	Utterance string    `json:"utterance" bson:"utterance"`
	Field     FieldID   `json:"field,omitempty" bson:"field,omitempty"`
	At        time.Time `json:"at" bson:"at"`
}

// ChatSession owns one conversation: the record under construction, the
// cursor into the base field sequence, the active follow-up (exclusive
// with the cursor), the confirmation stage, and the last assessment.
// Sessions are independent; mu serializes messages for one session.
type ChatSession struct {
	ID         string            `json:"id"`
	Record     *PatientRecord    `json:"record"`
	Cursor     int               `json:"cursor"`
	FollowUpID string            `json:"followUpId,omitempty"`
	Stage      Stage             `json:"stage"`
	Assessment *RiskAssessment   `json:"assessment,omitempty"`
	Transcript []TranscriptEntry `json:"transcript"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`

	mu sync.Mutex
}

// NewChatSession returns an empty session in the collecting stage.
func NewChatSession(id string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:        id,
		Record:    NewPatientRecord(),
		Stage:     StageCollecting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Lock serializes message handling for this session. No two messages
// for the same session id run concurrently.
func (s *ChatSession) Lock() { s.mu.Lock() }

// Unlock releases the per-session lock.
func (s *ChatSession) Unlock() { s.mu.Unlock() }
