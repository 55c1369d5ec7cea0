package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"survey-spider/internal/cache"
	"survey-spider/internal/chart"
	"survey-spider/internal/domain"
	"survey-spider/internal/dto"
	"survey-spider/internal/logger"
	"survey-spider/internal/schema"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportService assembles the renderable views: a single response, a
// role's averages, a team's averages, the overall averages and the
// dashboard.
type ReportService interface {
	ResponseView(ctx context.Context, responseID string) (*dto.ResponseView, error)
	RoleReport(ctx context.Context, role string) (*dto.RoleReport, error)
	TeamReport(ctx context.Context, teamKey string) (*dto.Report, error)
	OverallReport(ctx context.Context) (*dto.Report, error)
	Dashboard(ctx context.Context) (*dto.Dashboard, error)
}

type reportService struct {
	repo       domain.ResponseRepository
	aggregator *Aggregator
	registry   *schema.Registry
	cache      domain.Cache // nil when caching is disabled
	cacheTTL   time.Duration
}

// NewReportService creates a new instance of reportService.
func NewReportService(
	repo domain.ResponseRepository,
	aggregator *Aggregator,
	registry *schema.Registry,
	cacheClient domain.Cache,
	cacheTTL time.Duration,
) ReportService {
	return &reportService{
		repo:       repo,
		aggregator: aggregator,
		registry:   registry,
		cache:      cacheClient,
		cacheTTL:   cacheTTL,
	}
}

// buildReport renders the chart for a series and bundles it with the
// series itself. Axis labels are the resolved display labels, drawn in
// the same order as the input categories.
func (s *reportService) buildReport(categories []string, values []float64, title string) (dto.Report, error) {
	labels := make([]string, len(categories))
	for i, category := range categories {
		labels[i] = s.registry.CategoryLabel(category)
	}

	encoded, err := chart.RadarBase64(labels, values, title)
	if err != nil {
		return dto.Report{}, err
	}

	return dto.Report{
		Title:      title,
		Categories: categories,
		Labels:     labels,
		Values:     values,
		Chart:      encoded,
	}, nil
}

// cacheGet loads a cached view into dest, reporting whether it was found.
func (s *reportService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Get().Warn("Discarding undecodable cached report", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// cacheSet stores a view; failures only cost future cache hits.
func (s *reportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		logger.Get().Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// ResponseView builds the view of one stored submission: its own ratings
// charted over the role's configured axes, plus the verbatim question
// texts and open answers.
func (s *reportService) ResponseView(ctx context.Context, responseID string) (*dto.ResponseView, error) {
	key := cache.GenerateCacheKey("report", "response", responseID)
	var cached dto.ResponseView
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	resp, err := s.repo.GetResponse(ctx, responseID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load response", err)
	}
	if resp == nil {
		return nil, domain.NewResponseNotFoundError(responseID)
	}

	ratings, err := s.repo.RatingsFor(ctx, responseID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load ratings", err)
	}
	openAnswers, err := s.repo.OpenAnswersFor(ctx, responseID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load open answers", err)
	}

	categories, values := s.aggregator.SeriesForResponse(resp, ratings)
	roleLabel := s.registry.RoleLabel(resp.Role)
	title := fmt.Sprintf("Results for %s - %s (%s)",
		resp.RespondentName, roleLabel, resp.CreatedAt.Format("2006-01-02 15:04"))

	report, err := s.buildReport(categories, values, title)
	if err != nil {
		return nil, err
	}

	view := &dto.ResponseView{
		Report:         report,
		ResponseID:     resp.ID,
		RespondentName: resp.RespondentName,
		Role:           resp.Role,
		RoleLabel:      roleLabel,
		TeamKey:        resp.TeamKey,
		SubmittedAt:    resp.CreatedAt,
		Ratings:        make([]dto.RatingDetail, len(ratings)),
		OpenAnswers:    make([]dto.OpenAnswerDetail, len(openAnswers)),
	}
	for i, rating := range ratings {
		view.Ratings[i] = dto.RatingDetail{
			Category:      rating.Category,
			CategoryLabel: s.registry.CategoryLabel(rating.Category),
			Question:      rating.Question,
			Value:         rating.Value,
		}
	}
	for i, answer := range openAnswers {
		view.OpenAnswers[i] = dto.OpenAnswerDetail{
			Question: answer.Question,
			Answer:   answer.Answer,
		}
	}

	s.cacheSet(ctx, key, view)
	return view, nil
}

// RoleReport builds the averaged view for one role.
func (s *reportService) RoleReport(ctx context.Context, role string) (*dto.RoleReport, error) {
	if !s.registry.HasRole(role) {
		return nil, domain.NewInvalidRoleError(role)
	}

	key := cache.GenerateCacheKey("report", "role", role)
	var cached dto.RoleReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	categories, values, err := s.aggregator.SeriesFor(ctx, role)
	if err != nil {
		return nil, domain.NewInternalError("Failed to aggregate role ratings", err)
	}

	roleLabel := s.registry.RoleLabel(role)
	report, err := s.buildReport(categories, values, fmt.Sprintf("Average Results - %s", roleLabel))
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.CategoryStats(ctx, domain.RatingFilter{Role: role})
	if err != nil {
		return nil, domain.NewInternalError("Failed to load role category stats", err)
	}
	summaries, err := s.repo.ListResponses(ctx, domain.RatingFilter{Role: role})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list role responses", err)
	}

	roleReport := &dto.RoleReport{
		Report:        report,
		Role:          role,
		RoleLabel:     roleLabel,
		ResponseCount: len(summaries),
		CategoryStats: make([]dto.CategoryStat, len(stats)),
	}
	for i, stat := range stats {
		roleReport.CategoryStats[i] = dto.CategoryStat{
			Category: stat.Category,
			Label:    s.registry.CategoryLabel(stat.Category),
			Average:  stat.Average,
			Count:    stat.Count,
		}
	}

	s.cacheSet(ctx, key, roleReport)
	return roleReport, nil
}

// TeamReport builds the averaged view for one team across all roles.
func (s *reportService) TeamReport(ctx context.Context, teamKey string) (*dto.Report, error) {
	if teamKey == "" {
		return nil, domain.NewInvalidInputError("team key must not be empty")
	}

	key := cache.GenerateCacheKey("report", "team", teamKey)
	var cached dto.Report
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	categories, values, err := s.aggregator.SeriesForTeam(ctx, teamKey)
	if err != nil {
		return nil, domain.NewInternalError("Failed to aggregate team ratings", err)
	}

	report, err := s.buildReport(categories, values, fmt.Sprintf("Average Results - Team %s", teamKey))
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, &report)
	return &report, nil
}

// OverallReport builds the averaged view across every stored rating.
func (s *reportService) OverallReport(ctx context.Context) (*dto.Report, error) {
	key := cache.GenerateCacheKey("report", "overall", "all")
	var cached dto.Report
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	categories, values, err := s.aggregator.SeriesFor(ctx, "")
	if err != nil {
		return nil, domain.NewInternalError("Failed to aggregate ratings", err)
	}

	report, err := s.buildReport(categories, values, "Overall Average Results - All Roles")
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, &report)
	return &report, nil
}

// Dashboard assembles the admin overview. Role charts render concurrently;
// they are independent aggregate reads.
func (s *reportService) Dashboard(ctx context.Context) (*dto.Dashboard, error) {
	key := cache.GenerateCacheKey("report", "dashboard", "all")
	var cached dto.Dashboard
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	summaries, err := s.repo.ListResponses(ctx, domain.RatingFilter{})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list responses", err)
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load survey stats", err)
	}

	dashboard := &dto.Dashboard{
		Responses: make([]dto.ResponseSummary, len(summaries)),
		Stats: dto.SurveyStats{
			TotalResponses:   stats.TotalResponses,
			TotalRatings:     stats.TotalRatings,
			TotalOpenAnswers: stats.TotalOpenAnswers,
			OverallAverage:   stats.OverallAverage,
		},
		RoleReports: make(map[string]dto.Report, len(s.registry.Roles())),
	}
	for i, summary := range summaries {
		dashboard.Responses[i] = dto.ResponseSummary{
			ResponseID:      summary.ID,
			SubmittedAt:     summary.CreatedAt,
			Role:            summary.Role,
			RoleLabel:       s.registry.RoleLabel(summary.Role),
			RespondentName:  summary.RespondentName,
			TeamKey:         summary.TeamKey,
			TeamSize:        summary.TeamSize,
			Budget:          summary.Budget,
			RatingCount:     summary.RatingCount,
			OpenAnswerCount: summary.OpenAnswerCount,
		}
	}

	roleReports := make([]dto.Report, len(s.registry.Roles()))
	g, gctx := errgroup.WithContext(ctx)
	for i, role := range s.registry.Roles() {
		i, role := i, role
		g.Go(func() error {
			categories, values, err := s.aggregator.SeriesFor(gctx, role.Key)
			if err != nil {
				return err
			}
			report, err := s.buildReport(categories, values,
				fmt.Sprintf("Average Results - %s", s.registry.RoleLabel(role.Key)))
			if err != nil {
				return err
			}
			roleReports[i] = report
			return nil
		})
	}
	g.Go(func() error {
		categories, values, err := s.aggregator.SeriesFor(gctx, "")
		if err != nil {
			return err
		}
		report, err := s.buildReport(categories, values, "Overall Average Results - All Roles")
		if err != nil {
			return err
		}
		dashboard.Overall = report
		return nil
	})
	if err := g.Wait(); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewInternalError("Failed to build dashboard charts", err)
	}
	for i, role := range s.registry.Roles() {
		dashboard.RoleReports[role.Key] = roleReports[i]
	}

	s.cacheSet(ctx, key, dashboard)
	return dashboard, nil
}
