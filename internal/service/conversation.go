package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"heartcheck/internal/model"
	"heartcheck/internal/repository"
	"heartcheck/internal/schema"
	"heartcheck/internal/store"
)

// Reply is what the conversation sends back after each message.
type Reply struct {
	SessionID       string                 `json:"sessionId"`
	Prompt          string                 `json:"prompt"`
	Stage           model.Stage            `json:"stage"`
	Assessment      *model.RiskAssessment  `json:"assessment,omitempty"`
	Recommendations []model.Recommendation `json:"recommendations,omitempty"`
	Done            bool                   `json:"done"`
}

// ConversationService drives one guided intake per session: field
// collection with AI-assisted parsing, follow-up sub-flows, and the
// confirmation stages around calculation, lowering advice, and the
// population comparison.
type ConversationService struct {
	sessions       store.SessionStore
	extractor      *Extractor
	riskSvc        *RiskService
	patients       repository.PatientStore
	persistTimeout time.Duration
	logger         *zap.Logger
}

// NewConversationService wires the state machine.
func NewConversationService(
	sessions store.SessionStore,
	extractor *Extractor,
	riskSvc *RiskService,
	patients repository.PatientStore,
	persistTimeout time.Duration,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		sessions:       sessions,
		extractor:      extractor,
		riskSvc:        riskSvc,
		patients:       patients,
		persistTimeout: persistTimeout,
		logger:         logger,
	}
}

const greeting = "Hi! I'll ask a few questions about your heart health and then estimate your 10-year risk. You can answer \"I don't know\" to skip optional questions."

// Start creates a session (or resumes an existing one) and returns the
// current prompt.
func (s *ConversationService) Start(ctx context.Context, sessionID string) (*Reply, error) {
	if sessionID != "" {
		if sess, ok := s.sessions.Get(sessionID); ok {
			sess.Lock()
			defer sess.Unlock()
			return s.replyFor(sess, s.currentPrompt(sess)), nil
		}
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	sess := model.NewChatSession(sessionID)
	s.sessions.Put(sess)
	s.logger.Info("session started", zap.String("sessionId", sessionID))

	first, _ := schema.FieldAt(0)
	return s.replyFor(sess, greeting+"\n\n"+first.Prompt), nil
}

// HandleMessage processes one utterance. Messages for the same session
// are serialized by the session lock; unknown ids fail with
// ErrSessionNotFound.
func (s *ConversationService) HandleMessage(ctx context.Context, sessionID, utterance string) (*Reply, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	sess.Transcript = append(sess.Transcript, model.TranscriptEntry{
		Prompt:    s.currentPrompt(sess),
		Utterance: utterance,
		Field:     s.currentFieldID(sess),
		At:        time.Now(),
	})
	sess.UpdatedAt = time.Now()

	switch sess.Stage {
	case model.StageCollecting:
		return s.handleCollecting(ctx, sess, utterance)
	case model.StageFollowUp:
		return s.handleFollowUp(sess, utterance)
	case model.StageConfirmCalculate:
		return s.handleConfirmCalculate(ctx, sess, utterance)
	case model.StageOfferAdvice:
		return s.handleOfferAdvice(sess, utterance)
	case model.StageOfferComparison:
		return s.handleOfferComparison(ctx, sess, utterance)
	default:
		return s.replyFor(sess, "This conversation is complete. You can amend an answer or start a new session."), nil
	}
}

// parseUtterance tries the extraction strategies in order with
// early-exit on the first success: AI extraction when enabled, then
// the local rule parser.
func (s *ConversationService) parseUtterance(ctx context.Context, utterance string, f schema.Field) schema.ParseResult {
	if res, ok := s.extractor.TryExtract(ctx, utterance, f); ok {
		return res
	}
	return schema.Parse(utterance, f)
}

func (s *ConversationService) handleCollecting(ctx context.Context, sess *model.ChatSession, utterance string) (*Reply, error) {
	field, ok := schema.FieldAt(sess.Cursor)
	if !ok {
		// Cursor already past the sequence; go straight to confirmation.
		sess.Stage = model.StageConfirmCalculate
		return s.replyFor(sess, s.summaryPrompt(sess)), nil
	}

	res := s.parseUtterance(ctx, utterance, field)
	switch res.Kind {
	case schema.ParsedUnknown:
		if field.Required {
			return s.replyFor(sess, field.Reprompt), nil
		}
		sess.Record.Set(field.ID, model.UnknownAnswer())
		s.persistAsync(sess)
		return s.advance(sess), nil

	case schema.Unparseable:
		return s.replyFor(sess, field.Reprompt), nil
	}

	// A blood-pressure pair fills both halves at once, whichever field
	// asked for it.
	if field.ID == model.FieldSystolicBP || field.ID == model.FieldDiastolicBP {
		if sys, dia, ok := schema.ParseBPPair(utterance); ok {
			if !sess.Record.Has(model.FieldSystolicBP) {
				sess.Record.Set(model.FieldSystolicBP, model.NumberAnswer(sys))
			}
			if !sess.Record.Has(model.FieldDiastolicBP) {
				sess.Record.Set(model.FieldDiastolicBP, model.NumberAnswer(dia))
			}
		}
	}
	if !sess.Record.Has(field.ID) {
		sess.Record.Set(field.ID, res.Answer)
	}
	s.persistAsync(sess)

	if followUpID, triggered := field.Triggered(res.Answer); triggered {
		sess.Stage = model.StageFollowUp
		sess.FollowUpID = followUpID
		fu, _ := schema.FollowUpByID(followUpID)
		return s.replyFor(sess, fu.Prompt), nil
	}
	return s.advance(sess), nil
}

func (s *ConversationService) handleFollowUp(sess *model.ChatSession, utterance string) (*Reply, error) {
	fu, ok := schema.FollowUpByID(sess.FollowUpID)
	if !ok {
		// Stale follow-up id; resume collection.
		sess.Stage = model.StageCollecting
		sess.FollowUpID = ""
		return s.advance(sess), nil
	}

	if strings.TrimSpace(utterance) == "" {
		return s.replyFor(sess, fu.Prompt), nil
	}
	sess.Record.Set(fu.Target, model.TextAnswer(strings.TrimSpace(utterance)))
	s.persistAsync(sess)

	if fu.Next != "" {
		sess.FollowUpID = fu.Next
		next, _ := schema.FollowUpByID(fu.Next)
		return s.replyFor(sess, next.Prompt), nil
	}

	sess.Stage = model.StageCollecting
	sess.FollowUpID = ""
	return s.advance(sess), nil
}

func (s *ConversationService) handleConfirmCalculate(ctx context.Context, sess *model.ChatSession, utterance string) (*Reply, error) {
	yes, ok := schema.ParseYesNo(utterance)
	if !ok {
		return s.replyFor(sess, "Should I calculate your risk now? Please answer yes or no."), nil
	}
	if !yes {
		sess.Stage = model.StageCompleted
		return s.replyFor(sess, "No problem, your answers are saved. Come back any time and I can calculate your risk then."), nil
	}

	assessment, err := s.riskSvc.Calculate(ctx, sess.Record.Clone(), false)
	if err != nil {
		if errors.Is(err, model.ErrInsufficientData) {
			sess.Stage = model.StageCompleted
			return s.replyFor(sess, "I'm sorry, I don't have enough information to estimate your risk. A clinician can help with proper measurements."), nil
		}
		return nil, err
	}
	sess.Assessment = assessment
	sess.Stage = model.StageOfferAdvice

	prompt := fmt.Sprintf(
		"Your estimated 10-year heart disease risk is %.1f%%. %s.\n\nWould you like some tips on lowering your risk?",
		assessment.TenYearPct, describeCategory(assessment.Category))
	reply := s.replyFor(sess, prompt)
	reply.Assessment = assessment
	reply.Recommendations = s.riskSvc.Recommendations(sess.Record, assessment)
	return reply, nil
}

func (s *ConversationService) handleOfferAdvice(sess *model.ChatSession, utterance string) (*Reply, error) {
	yes, ok := schema.ParseYesNo(utterance)
	if !ok {
		return s.replyFor(sess, "Would you like tips on lowering your risk? Yes or no."), nil
	}

	sess.Stage = model.StageOfferComparison
	comparisonOffer := "Would you like to see how your numbers compare with the general population?"
	if !yes {
		return s.replyFor(sess, comparisonOffer), nil
	}

	advice := s.loweringAdvice(sess)
	return s.replyFor(sess, advice+"\n\n"+comparisonOffer), nil
}

func (s *ConversationService) handleOfferComparison(ctx context.Context, sess *model.ChatSession, utterance string) (*Reply, error) {
	yes, ok := schema.ParseYesNo(utterance)
	if !ok {
		return s.replyFor(sess, "Would you like the population comparison? Yes or no."), nil
	}

	sess.Stage = model.StageCompleted
	if !yes {
		return s.replyFor(sess, "All done. Take care of that heart! You can amend answers or recalculate any time."), nil
	}

	comparison := s.riskSvc.pop.Compare(ctx, sess.Record)
	if sess.Assessment != nil {
		// Assessments are immutable; attach by replacing with a copy.
		withComparison := *sess.Assessment
		withComparison.Comparison = comparison
		sess.Assessment = &withComparison
	}

	var sb strings.Builder
	sb.WriteString("Here's how you compare with the population:\n")
	for _, insight := range comparison.Insights {
		sb.WriteString("- " + insight + "\n")
	}
	sb.WriteString("\nThat's everything. Take care of that heart!")
	reply := s.replyFor(sess, sb.String())
	reply.Assessment = sess.Assessment
	return reply, nil
}

// Amend overwrites one base field on an existing (possibly completed)
// session. When an assessment already exists it is recalculated from
// the amended record.
func (s *ConversationService) Amend(ctx context.Context, sessionID string, fieldID model.FieldID, utterance string) (*Reply, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	field, ok := schema.FieldByID(fieldID)
	if !ok {
		return s.replyFor(sess, fmt.Sprintf("There is no %q question to amend.", fieldID)), nil
	}

	res := s.parseUtterance(ctx, utterance, field)
	if res.Kind == schema.Unparseable || (res.Kind == schema.ParsedUnknown && field.Required) {
		return s.replyFor(sess, field.Reprompt), nil
	}
	sess.Record.Set(field.ID, res.Answer)
	sess.UpdatedAt = time.Now()
	s.persistAsync(sess)

	prompt := fmt.Sprintf("Updated %s.", field.ID)
	if sess.Assessment != nil {
		assessment, err := s.riskSvc.Calculate(ctx, sess.Record.Clone(), false)
		if err == nil {
			sess.Assessment = assessment
			prompt = fmt.Sprintf("Updated %s. Your recalculated 10-year risk is %.1f%%. %s.",
				field.ID, assessment.TenYearPct, describeCategory(assessment.Category))
		}
	}

	reply := s.replyFor(sess, prompt)
	reply.Assessment = sess.Assessment
	return reply, nil
}

// Results returns the latest assessment with freshly derived
// recommendations.
func (s *ConversationService) Results(sessionID string) (*model.RiskAssessment, []model.Recommendation, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, model.ErrSessionNotFound
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.Assessment == nil {
		return nil, nil, model.ErrInsufficientData
	}
	return sess.Assessment, s.riskSvc.Recommendations(sess.Record, sess.Assessment), nil
}

// advance moves the cursor past answered fields and returns the next
// prompt, or the calculation offer when the sequence is exhausted.
func (s *ConversationService) advance(sess *model.ChatSession) *Reply {
	sess.Cursor++
	for {
		field, ok := schema.FieldAt(sess.Cursor)
		if !ok {
			sess.Stage = model.StageConfirmCalculate
			return s.replyFor(sess, s.summaryPrompt(sess))
		}
		if !sess.Record.Has(field.ID) {
			return s.replyFor(sess, field.Prompt)
		}
		sess.Cursor++
	}
}

func (s *ConversationService) replyFor(sess *model.ChatSession, prompt string) *Reply {
	return &Reply{
		SessionID: sess.ID,
		Prompt:    prompt,
		Stage:     sess.Stage,
		Done:      sess.Stage == model.StageCompleted,
	}
}

// currentPrompt reconstructs what the user was last asked, for the
// transcript and for session resume.
func (s *ConversationService) currentPrompt(sess *model.ChatSession) string {
	switch sess.Stage {
	case model.StageCollecting:
		if field, ok := schema.FieldAt(sess.Cursor); ok {
			return field.Prompt
		}
		return s.summaryPrompt(sess)
	case model.StageFollowUp:
		if fu, ok := schema.FollowUpByID(sess.FollowUpID); ok {
			return fu.Prompt
		}
	case model.StageConfirmCalculate:
		return s.summaryPrompt(sess)
	case model.StageOfferAdvice:
		return "Would you like some tips on lowering your risk?"
	case model.StageOfferComparison:
		return "Would you like to see how your numbers compare with the general population?"
	}
	return "This conversation is complete."
}

func (s *ConversationService) currentFieldID(sess *model.ChatSession) model.FieldID {
	switch sess.Stage {
	case model.StageCollecting:
		if field, ok := schema.FieldAt(sess.Cursor); ok {
			return field.ID
		}
	case model.StageFollowUp:
		if fu, ok := schema.FollowUpByID(sess.FollowUpID); ok {
			return fu.Target
		}
	}
	return ""
}

func (s *ConversationService) summaryPrompt(sess *model.ChatSession) string {
	answered := 0
	for _, field := range schema.Fields() {
		if a, ok := sess.Record.Answers[field.ID]; ok && a.Kind == model.AnswerValue {
			answered++
		}
	}
	return fmt.Sprintf(
		"That's all my questions. You answered %d of %d. Should I calculate your 10-year heart disease risk now? (yes/no)",
		answered, len(schema.Fields()))
}

// loweringAdvice renders the lifestyle recommendations as chat text,
// smoking cessation first when it applies.
func (s *ConversationService) loweringAdvice(sess *model.ChatSession) string {
	recs := s.riskSvc.Recommendations(sess.Record, sess.Assessment)

	lifestyle := map[string]bool{
		"smoking": true, "physical_activity": true, "diet": true,
		"weight": true, "blood_pressure": true, "cholesterol": true,
	}
	var lines []string
	for _, rec := range recs {
		if !lifestyle[rec.Category] {
			continue
		}
		line := fmt.Sprintf("- %s: %s", rec.Action, rec.Detail)
		if rec.Category == "smoking" {
			lines = append([]string{line}, lines...)
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "Your lifestyle answers already look good. Keep doing what you're doing."
	}
	return "Here's what would help most:\n" + strings.Join(lines, "\n")
}

func describeCategory(c model.RiskCategory) string {
	switch c {
	case model.RiskLow:
		return "That's in the low range"
	case model.RiskLowModerate:
		return "That's in the low-to-moderate range"
	case model.RiskModerate:
		return "That's in the moderate range"
	default:
		return "That's in the high range, worth discussing with a doctor"
	}
}

// persistAsync writes the current record to the external store without
// blocking or affecting the conversation. Each resource write is
// independent; failures are logged and swallowed.
func (s *ConversationService) persistAsync(sess *model.ChatSession) {
	if s.patients == nil {
		return
	}
	id := sess.ID
	record := sess.Record.Clone()
	transcript := append([]model.TranscriptEntry(nil), sess.Transcript...)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
		defer cancel()

		if err := s.patients.UpsertPatient(ctx, id, record); err != nil {
			s.logger.Warn("patient upsert failed", zap.String("sessionId", id), zap.Error(err))
		}
		if err := s.patients.UpsertObservations(ctx, id, record); err != nil {
			s.logger.Warn("observations upsert failed", zap.String("sessionId", id), zap.Error(err))
		}
		if err := s.patients.UpsertConditions(ctx, id, record); err != nil {
			s.logger.Warn("conditions upsert failed", zap.String("sessionId", id), zap.Error(err))
		}
		if err := s.patients.UpsertQuestionnaireResponse(ctx, id, transcript); err != nil {
			s.logger.Warn("questionnaire upsert failed", zap.String("sessionId", id), zap.Error(err))
		}
	}()
}
