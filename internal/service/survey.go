package service

import (
	"context"

	"survey-spider/internal/cache"
	"survey-spider/internal/domain"
	"survey-spider/internal/dto"
	"survey-spider/internal/logger"
	"survey-spider/internal/schema"

	"go.uber.org/zap"
)

// SurveyService handles survey submissions.
type SurveyService interface {
	Submit(ctx context.Context, req *dto.SubmitRequest) (*dto.SubmitResult, error)
}

type surveyService struct {
	repo      domain.ResponseRepository
	txManager domain.TransactionManager
	registry  *schema.Registry
	cache     domain.Cache // nil when caching is disabled
}

// NewSurveyService creates a new instance of surveyService.
func NewSurveyService(
	repo domain.ResponseRepository,
	txManager domain.TransactionManager,
	registry *schema.Registry,
	cacheClient domain.Cache,
) SurveyService {
	return &surveyService{
		repo:      repo,
		txManager: txManager,
		registry:  registry,
		cache:     cacheClient,
	}
}

// Submit validates and persists one survey response. The parent row and
// all rating/open-answer rows are written in a single transaction, so
// concurrent aggregate reads never see a partially stored submission.
func (s *surveyService) Submit(ctx context.Context, req *dto.SubmitRequest) (*dto.SubmitResult, error) {
	questions, ok := s.registry.QuestionsFor(req.Role)
	if !ok {
		return nil, domain.NewInvalidRoleError(req.Role)
	}

	// Reject out-of-scale values before writing anything.
	for _, input := range req.Ratings {
		probe := domain.Rating{Category: input.Category, Value: input.Value}
		if err := probe.Validate(); err != nil {
			return nil, err
		}
	}

	resp := domain.NewResponse(req.Role, req.RespondentName, req.TeamKey)
	resp.TeamSize = req.TeamSize
	resp.Budget = req.Budget

	var ratings []domain.Rating
	for _, input := range req.Ratings {
		items, ok := questions[input.Category]
		if !ok || input.QuestionIndex < 0 || input.QuestionIndex >= len(items) {
			// Stale form data for this role; skip the answer rather than
			// failing the whole submission.
			logger.Get().Warn("Skipping rating that does not match the survey document",
				zap.String("role", req.Role),
				zap.String("category", input.Category),
				zap.Int("question_index", input.QuestionIndex))
			continue
		}
		ratings = append(ratings, domain.Rating{
			Role:     req.Role,
			Category: input.Category,
			Question: items[input.QuestionIndex],
			Value:    input.Value,
		})
	}

	openQuestions := s.registry.OpenQuestions()
	var answers []domain.OpenAnswer
	for _, input := range req.OpenAnswers {
		if input.QuestionIndex < 0 || input.QuestionIndex >= len(openQuestions) {
			continue
		}
		answer := domain.OpenAnswer{
			Question: openQuestions[input.QuestionIndex],
			Answer:   input.Answer,
		}
		if answer.IsBlank() {
			continue
		}
		answers = append(answers, answer)
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// Parent first, children second.
		if err := s.repo.CreateResponse(txCtx, resp); err != nil {
			return err
		}
		for i := range ratings {
			ratings[i].ResponseID = resp.ID
			if err := s.repo.AddRating(txCtx, &ratings[i]); err != nil {
				return err
			}
		}
		for i := range answers {
			answers[i].ResponseID = resp.ID
			if err := s.repo.AddOpenAnswer(txCtx, &answers[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to store survey response", err)
	}

	s.invalidateReports(ctx, resp)

	logger.Get().Info("Stored survey response",
		zap.String("response_id", resp.ID),
		zap.String("role", resp.Role),
		zap.Int("ratings", len(ratings)),
		zap.Int("open_answers", len(answers)))

	return &dto.SubmitResult{
		ResponseID:      resp.ID,
		RatingCount:     len(ratings),
		OpenAnswerCount: len(answers),
	}, nil
}

// invalidateReports drops every cached view the new submission affects.
// Cache failures only degrade freshness, never the submission.
func (s *surveyService) invalidateReports(ctx context.Context, resp *domain.Response) {
	if s.cache == nil {
		return
	}
	keys := []string{
		cache.GenerateCacheKey("report", "role", resp.Role),
		cache.GenerateCacheKey("report", "overall", "all"),
		cache.GenerateCacheKey("report", "dashboard", "all"),
	}
	if resp.TeamKey != "" {
		keys = append(keys, cache.GenerateCacheKey("report", "team", resp.TeamKey))
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("Failed to invalidate cached report",
				zap.String("key", key), zap.Error(err))
		}
	}
}
