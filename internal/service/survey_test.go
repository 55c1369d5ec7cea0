package service

import (
	"context"
	"errors"
	"testing"

	"survey-spider/internal/domain"
	"survey-spider/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSubmitFixture() (*MockResponseRepository, *MockTransactionManager, SurveyService) {
	mockRepo := new(MockResponseRepository)
	mockTx := new(MockTransactionManager)
	svc := NewSurveyService(mockRepo, mockTx, testRegistry(), nil)
	return mockRepo, mockTx, svc
}

func TestSubmit(t *testing.T) {
	mockRepo, mockTx, svc := newSubmitFixture()

	mockTx.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("CreateResponse", mock.Anything, mock.AnythingOfType("*domain.Response")).Return(nil)
	mockRepo.On("AddRating", mock.Anything, mock.AnythingOfType("*domain.Rating")).Return(nil)
	mockRepo.On("AddOpenAnswer", mock.Anything, mock.AnythingOfType("*domain.OpenAnswer")).Return(nil)

	result, err := svc.Submit(context.Background(), &dto.SubmitRequest{
		Role:           "manager",
		RespondentName: "Ada",
		Ratings: []dto.RatingInput{
			{Category: "leadership", QuestionIndex: 0, Value: 8},
			{Category: "leadership", QuestionIndex: 1, Value: 7},
			{Category: "communication", QuestionIndex: 0, Value: 6},
		},
		OpenAnswers: []dto.OpenAnswerInput{
			{QuestionIndex: 0, Answer: "Fewer meetings."},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ResponseID)
	assert.Equal(t, 3, result.RatingCount)
	assert.Equal(t, 1, result.OpenAnswerCount)

	mockRepo.AssertNumberOfCalls(t, "AddRating", 3)
	mockRepo.AssertNumberOfCalls(t, "AddOpenAnswer", 1)
	mockTx.AssertExpectations(t)
}

func TestSubmitCapturesQuestionText(t *testing.T) {
	mockRepo, mockTx, svc := newSubmitFixture()

	mockTx.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("CreateResponse", mock.Anything, mock.Anything).Return(nil)

	var stored *domain.Rating
	mockRepo.On("AddRating", mock.Anything, mock.AnythingOfType("*domain.Rating")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Rating)
		}).Return(nil)

	_, err := svc.Submit(context.Background(), &dto.SubmitRequest{
		Role: "manager",
		Ratings: []dto.RatingInput{
			{Category: "leadership", QuestionIndex: 1, Value: 9},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "How well is feedback given?", stored.Question)
	assert.Equal(t, "manager", stored.Role)
	assert.Equal(t, 9, stored.Value)
}

func TestSubmitInvalidRole(t *testing.T) {
	mockRepo, mockTx, svc := newSubmitFixture()

	_, err := svc.Submit(context.Background(), &dto.SubmitRequest{Role: "intern"})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInvalidRole, domainErr.Code)

	// Nothing may be written for an unknown role.
	mockRepo.AssertNotCalled(t, "CreateResponse", mock.Anything, mock.Anything)
	mockTx.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
}

func TestSubmitOutOfScaleRating(t *testing.T) {
	mockRepo, mockTx, svc := newSubmitFixture()

	for _, value := range []int{-1, 11} {
		_, err := svc.Submit(context.Background(), &dto.SubmitRequest{
			Role: "manager",
			Ratings: []dto.RatingInput{
				{Category: "leadership", QuestionIndex: 0, Value: value},
			},
		})
		require.Error(t, err)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrInvalidRating, domainErr.Code)
	}

	mockRepo.AssertNotCalled(t, "CreateResponse", mock.Anything, mock.Anything)
	mockTx.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
}

func TestSubmitSkipsStaleRatings(t *testing.T) {
	mockRepo, mockTx, svc := newSubmitFixture()

	mockTx.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("CreateResponse", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("AddRating", mock.Anything, mock.Anything).Return(nil)

	// Teamwork is not asked of managers and index 5 does not exist; both
	// entries come from a stale form and are dropped, not fatal.
	result, err := svc.Submit(context.Background(), &dto.SubmitRequest{
		Role: "manager",
		Ratings: []dto.RatingInput{
			{Category: "leadership", QuestionIndex: 0, Value: 8},
			{Category: "teamwork", QuestionIndex: 0, Value: 4},
			{Category: "leadership", QuestionIndex: 5, Value: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RatingCount)
	mockRepo.AssertNumberOfCalls(t, "AddRating", 1)
}

func TestSubmitSkipsBlankOpenAnswers(t *testing.T) {
	mockRepo, mockTx, svc := newSubmitFixture()

	mockTx.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("CreateResponse", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Submit(context.Background(), &dto.SubmitRequest{
		Role: "developer",
		OpenAnswers: []dto.OpenAnswerInput{
			{QuestionIndex: 0, Answer: "   "},
			{QuestionIndex: 7, Answer: "Out of range."},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.OpenAnswerCount)
	mockRepo.AssertNotCalled(t, "AddOpenAnswer", mock.Anything, mock.Anything)
}

func TestSubmitAnonymousName(t *testing.T) {
	mockRepo, mockTx, svc := newSubmitFixture()

	mockTx.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)

	var stored *domain.Response
	mockRepo.On("CreateResponse", mock.Anything, mock.AnythingOfType("*domain.Response")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Response)
		}).Return(nil)

	_, err := svc.Submit(context.Background(), &dto.SubmitRequest{
		Role:           "developer",
		RespondentName: "  ",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.AnonymousName, stored.RespondentName)
}

func TestSubmitTransactionFailure(t *testing.T) {
	mockRepo, mockTx, svc := newSubmitFixture()

	mockTx.On("WithTransaction", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Submit(context.Background(), &dto.SubmitRequest{Role: "manager"})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInternal, domainErr.Code)
	mockRepo.AssertNotCalled(t, "CreateResponse", mock.Anything, mock.Anything)
}

func TestSubmitInvalidatesCachedReports(t *testing.T) {
	mockRepo := new(MockResponseRepository)
	mockTx := new(MockTransactionManager)
	mockCache := new(MockCache)
	svc := NewSurveyService(mockRepo, mockTx, testRegistry(), mockCache)

	mockTx.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("CreateResponse", mock.Anything, mock.Anything).Return(nil)

	mockCache.On("Delete", mock.Anything, "surveyspider:report:role:manager").Return(nil)
	mockCache.On("Delete", mock.Anything, "surveyspider:report:overall:all").Return(nil)
	mockCache.On("Delete", mock.Anything, "surveyspider:report:dashboard:all").Return(nil)
	mockCache.On("Delete", mock.Anything, "surveyspider:report:team:platform").Return(nil)

	_, err := svc.Submit(context.Background(), &dto.SubmitRequest{
		Role:    "manager",
		TeamKey: "platform",
	})
	require.NoError(t, err)
	mockCache.AssertExpectations(t)
}
