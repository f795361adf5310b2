package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/psc-ict/opencourt-api/internal/dto"
	"github.com/psc-ict/opencourt-api/internal/models"
	appErrors "github.com/psc-ict/opencourt-api/pkg/errors"
)

type applicationStatsRepository interface {
	OverallStats(ctx context.Context, scope models.ApplicationScope) (dto.OverallStats, error)
	CategoryStats(ctx context.Context, scope models.ApplicationScope) ([]dto.CategoryCount, error)
	StationStats(ctx context.Context) ([]dto.StationCount, error)
	DivisionStats(ctx context.Context, scope models.ApplicationScope) ([]dto.DivisionCount, error)
}

// StatsService composes the dashboard aggregates for a requester.
type StatsService struct {
	repo     applicationStatsRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatsService constructs a StatsService.
func NewStatsService(repo applicationStatsRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &StatsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func dashboardCacheKey(claims *models.JWTClaims) string {
	if claims.Role == models.RoleAdmin {
		return "dashboard:stats:admin"
	}
	station := strings.ToLower(strings.TrimSpace(claims.PoliceStation))
	if station == "" {
		return "dashboard:stats:staff:none"
	}
	return fmt.Sprintf("dashboard:stats:staff:%s", station)
}

// Dashboard returns the four-part statistics payload for the requester.
// The police station breakdown is computed for admins only, over the
// full store. The second return value reports cache utilisation.
func (s *StatsService) Dashboard(ctx context.Context, claims *models.JWTClaims) (*dto.DashboardStatsResponse, bool, error) {
	if claims == nil {
		return nil, false, appErrors.Clone(appErrors.ErrUnauthorized, "missing requester claims")
	}

	key := dashboardCacheKey(claims)
	if s.cache.Enabled() {
		var cached dto.DashboardStatsResponse
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	scope := models.ScopeFor(claims.Role, claims.PoliceStation)

	overall, err := s.repo.OverallStats(ctx, scope)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute overall stats")
	}

	categories, err := s.repo.CategoryStats(ctx, scope)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute category stats")
	}
	if categories == nil {
		categories = []dto.CategoryCount{}
	}

	stations := []dto.StationCount{}
	if claims.Role == models.RoleAdmin {
		stations, err = s.repo.StationStats(ctx)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute station stats")
		}
		if stations == nil {
			stations = []dto.StationCount{}
		}
	}

	divisions, err := s.repo.DivisionStats(ctx, scope)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute division stats")
	}
	if divisions == nil {
		divisions = []dto.DivisionCount{}
	}

	payload := &dto.DashboardStatsResponse{
		OverallStats:       overall,
		CategoryStats:      categories,
		PoliceStationStats: stations,
		DivisionStats:      divisions,
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard stats", zap.String("key", key), zap.Error(err))
		}
	}

	return payload, false, nil
}

// InvalidateDashboard drops cached dashboard payloads after data changes.
func (s *StatsService) InvalidateDashboard(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "dashboard:stats:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
