package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"heartcheck/internal/model"
)

// PopulationRepo reads the historical per-subject dataset that the
// population statistics are aggregated from. Read-only.
type PopulationRepo interface {
	ListRecords(ctx context.Context) ([]model.HistoryRecord, error)
}

type populationRepo struct {
	collection *mongo.Collection
}

// NewPopulationRepo creates the Mongo-backed dataset reader.
func NewPopulationRepo(db *mongo.Database) PopulationRepo {
	return &populationRepo{collection: db.Collection("health_records")}
}

func (r *populationRepo) ListRecords(ctx context.Context) ([]model.HistoryRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.HistoryRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
