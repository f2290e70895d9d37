package service

import (
	"context"

	"go.uber.org/zap"

	"heartcheck/internal/model"
	"heartcheck/internal/risk"
)

// RiskService runs the scoring models and aggregation over a frozen
// record snapshot. The two local models and the external ML call run
// independently; ML failure just means one fewer contribution.
type RiskService struct {
	ml     *MLRiskClient
	pop    *PopulationService
	logger *zap.Logger
}

// NewRiskService creates the scoring orchestrator.
func NewRiskService(ml *MLRiskClient, pop *PopulationService, logger *zap.Logger) *RiskService {
	return &RiskService{ml: ml, pop: pop, logger: logger}
}

// Calculate validates the record, runs all models, and aggregates.
// Returns *model.ValidationError when a required field is missing and
// model.ErrInsufficientData when no model produced a result.
func (s *RiskService) Calculate(ctx context.Context, record *model.PatientRecord, withComparison bool) (*model.RiskAssessment, error) {
	if _, ok := record.Number(model.FieldAge); !ok {
		return nil, &model.ValidationError{Field: model.FieldAge}
	}
	if _, ok := record.Choice(model.FieldGender); !ok {
		return nil, &model.ValidationError{Field: model.FieldGender}
	}

	// The ML call is the only one that leaves the process; overlap it
	// with the local models.
	mlCh := make(chan *model.ModelResult, 1)
	go func() {
		mlCh <- s.ml.Score(ctx, record)
	}()

	points := risk.PointsModel(record)
	heuristic := risk.HeuristicModel(record)
	mlResult := <-mlCh

	var comparison *model.PopulationComparison
	if withComparison {
		comparison = s.pop.Compare(ctx, record)
	}

	assessment, err := risk.Aggregate([]*model.ModelResult{points, heuristic, mlResult}, comparison)
	if err != nil {
		return nil, err
	}

	s.logger.Info("risk calculated",
		zap.Float64("tenYearPct", assessment.TenYearPct),
		zap.String("category", string(assessment.Category)),
		zap.Bool("points", points != nil),
		zap.Bool("heuristic", heuristic != nil),
		zap.Bool("ml", mlResult != nil),
	)
	return assessment, nil
}

// Recommendations derives the guidance list for a record/assessment pair.
func (s *RiskService) Recommendations(record *model.PatientRecord, assessment *model.RiskAssessment) []model.Recommendation {
	return risk.Recommend(record, assessment)
}
