package service

import (
	"context"

	"go.uber.org/zap"

	"heartcheck/internal/cache"
	"heartcheck/internal/model"
	"heartcheck/internal/population"
	"heartcheck/internal/repository"
)

// PopulationService serves the aggregated reference statistics,
// recomputing from the dataset on cache miss. A failing dataset read
// degrades to the fixed fallback averages instead of failing the
// caller.
type PopulationService struct {
	repo   repository.PopulationRepo
	cache  cache.StatsCache
	logger *zap.Logger
}

// NewPopulationService creates the stats service.
func NewPopulationService(repo repository.PopulationRepo, statsCache cache.StatsCache, logger *zap.Logger) *PopulationService {
	return &PopulationService{repo: repo, cache: statsCache, logger: logger}
}

// Stats returns the population statistics, cached when possible.
func (s *PopulationService) Stats(ctx context.Context) *model.PopulationStats {
	if s.cache != nil {
		if stats, err := s.cache.Get(ctx); err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if stats != nil {
			return stats
		}
	}

	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		s.logger.Warn("population dataset read failed, using fallback averages", zap.Error(err))
		records = nil
	}
	stats := population.ComputeStats(records)

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats
}

// Compare contextualizes a record against the current statistics.
func (s *PopulationService) Compare(ctx context.Context, record *model.PatientRecord) *model.PopulationComparison {
	return population.Compare(record, s.Stats(ctx))
}
