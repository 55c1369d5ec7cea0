package service

import (
	"context"
	"time"

	"survey-spider/internal/domain"
	"survey-spider/internal/schema"

	"github.com/stretchr/testify/mock"
)

// MockResponseRepository is a mock implementation of domain.ResponseRepository.
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) CreateResponse(ctx context.Context, resp *domain.Response) error {
	args := m.Called(ctx, resp)
	if args.Error(0) == nil && resp.ID == "" {
		resp.ID = "01TESTRESPONSEULID0000000"
	}
	return args.Error(0)
}

func (m *MockResponseRepository) AddRating(ctx context.Context, rating *domain.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockResponseRepository) AddOpenAnswer(ctx context.Context, answer *domain.OpenAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockResponseRepository) GetResponse(ctx context.Context, id string) (*domain.Response, error) {
	args := m.Called(ctx, id)
	if resp, ok := args.Get(0).(*domain.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResponseRepository) RatingsFor(ctx context.Context, responseID string) ([]domain.Rating, error) {
	args := m.Called(ctx, responseID)
	if ratings, ok := args.Get(0).([]domain.Rating); ok {
		return ratings, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResponseRepository) OpenAnswersFor(ctx context.Context, responseID string) ([]domain.OpenAnswer, error) {
	args := m.Called(ctx, responseID)
	if answers, ok := args.Get(0).([]domain.OpenAnswer); ok {
		return answers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResponseRepository) AverageByCategory(ctx context.Context, filter domain.RatingFilter) (map[string]float64, error) {
	args := m.Called(ctx, filter)
	if averages, ok := args.Get(0).(map[string]float64); ok {
		return averages, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResponseRepository) CategoryStats(ctx context.Context, filter domain.RatingFilter) ([]domain.CategoryAverage, error) {
	args := m.Called(ctx, filter)
	if stats, ok := args.Get(0).([]domain.CategoryAverage); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResponseRepository) ListResponses(ctx context.Context, filter domain.RatingFilter) ([]domain.ResponseSummary, error) {
	args := m.Called(ctx, filter)
	if summaries, ok := args.Get(0).([]domain.ResponseSummary); ok {
		return summaries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResponseRepository) Stats(ctx context.Context) (*domain.SurveyStats, error) {
	args := m.Called(ctx)
	if stats, ok := args.Get(0).(*domain.SurveyStats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTransactionManager runs fn directly in the caller's context. Tests
// asserting transactional behavior only need to see the writes happen
// inside WithTransaction.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockCache is a mock implementation of domain.Cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// testRegistry builds the survey document the service tests run against.
func testRegistry() *schema.Registry {
	reg, err := schema.NewRegistry(schema.Document{
		Roles: []schema.RoleDef{
			{Key: "manager", Label: "Manager"},
			{Key: "developer", Label: "Developer"},
		},
		Categories: []schema.CategoryDef{
			{Key: "leadership", Label: "Leadership"},
			{Key: "communication", Label: "Communication"},
			{Key: "teamwork", Label: "Teamwork"},
		},
		Questions: map[string][]schema.QuestionSection{
			"manager": {
				{Category: "leadership", Items: []string{"How clear are the team goals?", "How well is feedback given?"}},
				{Category: "communication", Items: []string{"How open is communication upward?"}},
			},
			"developer": {
				{Category: "teamwork", Items: []string{"How well does the team collaborate?"}},
				{Category: "communication", Items: []string{"How clear are task handovers?"}},
			},
		},
		OpenQuestions: []string{"What should we change?", "What should we keep?"},
	})
	if err != nil {
		panic(err)
	}
	return reg
}
