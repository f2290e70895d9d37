package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartcheck/internal/model"
)

// PatientStore persists the collected record into the external store as
// four independent resource kinds. Every write is an idempotent upsert
// keyed by session id; callers treat all of them as best-effort.
type PatientStore interface {
	UpsertPatient(ctx context.Context, sessionID string, record *model.PatientRecord) error
	UpsertObservations(ctx context.Context, sessionID string, record *model.PatientRecord) error
	UpsertConditions(ctx context.Context, sessionID string, record *model.PatientRecord) error
	UpsertQuestionnaireResponse(ctx context.Context, sessionID string, transcript []model.TranscriptEntry) error
}

type patientStore struct {
	patients       *mongo.Collection
	observations   *mongo.Collection
	conditions     *mongo.Collection
	questionnaires *mongo.Collection
}

// NewPatientStore creates the Mongo-backed patient store.
func NewPatientStore(db *mongo.Database) PatientStore {
	return &patientStore{
		patients:       db.Collection("patients"),
		observations:   db.Collection("observations"),
		conditions:     db.Collection("conditions"),
		questionnaires: db.Collection("questionnaire_responses"),
	}
}

var upsert = options.Update().SetUpsert(true)

// observationMetrics are the numeric attributes written as one
// observation document each.
var observationMetrics = []model.FieldID{
	model.FieldAge,
	model.FieldSystolicBP,
	model.FieldDiastolicBP,
	model.FieldCholesterol,
	model.FieldHDLCholesterol,
	model.FieldBMI,
}

func (s *patientStore) UpsertPatient(ctx context.Context, sessionID string, record *model.PatientRecord) error {
	doc := bson.M{
		"sessionId": sessionID,
		"updatedAt": time.Now(),
	}
	if gender, ok := record.Choice(model.FieldGender); ok {
		doc["gender"] = gender
	}
	if age, ok := record.Number(model.FieldAge); ok {
		doc["age"] = age
	}
	_, err := s.patients.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$set": doc},
		upsert,
	)
	return err
}

func (s *patientStore) UpsertObservations(ctx context.Context, sessionID string, record *model.PatientRecord) error {
	for _, metric := range observationMetrics {
		value, ok := record.Number(metric)
		if !ok {
			continue
		}
		_, err := s.observations.UpdateOne(ctx,
			bson.M{"_id": sessionID + ":" + string(metric)},
			bson.M{"$set": bson.M{
				"sessionId": sessionID,
				"metric":    metric,
				"value":     value,
				"updatedAt": time.Now(),
			}},
			upsert,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *patientStore) UpsertConditions(ctx context.Context, sessionID string, record *model.PatientRecord) error {
	conditions := bson.M{}
	if diabetic, ok := record.Bool(model.FieldDiabetes); ok {
		conditions["diabetes"] = diabetic
	}
	if family, ok := record.Bool(model.FieldFamilyHistory); ok {
		conditions["familyHistory"] = family
	}
	if smoking, ok := record.Choice(model.FieldSmoking); ok {
		conditions["smoking"] = smoking
	}
	if len(conditions) == 0 {
		return nil
	}
	_, err := s.conditions.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$set": bson.M{
			"sessionId":  sessionID,
			"conditions": conditions,
			"updatedAt":  time.Now(),
		}},
		upsert,
	)
	return err
}

func (s *patientStore) UpsertQuestionnaireResponse(ctx context.Context, sessionID string, transcript []model.TranscriptEntry) error {
	_, err := s.questionnaires.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$set": bson.M{
			"sessionId": sessionID,
			"entries":   transcript,
			"updatedAt": time.Now(),
		}},
		upsert,
	)
	return err
}
