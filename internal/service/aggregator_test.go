package service

import (
	"context"
	"testing"

	"survey-spider/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSeriesForRole(t *testing.T) {
	mockRepo := new(MockResponseRepository)
	agg := NewAggregator(mockRepo, testRegistry())

	// Managers answered leadership and communication, so both carry real
	// averages in the role's configured order.
	mockRepo.On("AverageByCategory", mock.Anything, domain.RatingFilter{Role: "manager"}).
		Return(map[string]float64{"leadership": 8.0, "communication": 6.0}, nil)

	categories, values, err := agg.SeriesFor(context.Background(), "manager")
	require.NoError(t, err)
	assert.Equal(t, []string{"leadership", "communication"}, categories)
	assert.Equal(t, []float64{8.0, 6.0}, values)
	mockRepo.AssertExpectations(t)
}

func TestSeriesForRoleFillsMissingCategories(t *testing.T) {
	mockRepo := new(MockResponseRepository)
	agg := NewAggregator(mockRepo, testRegistry())

	// Only leadership has data. Communication still appears on its axis,
	// carrying the scale midpoint rather than zero.
	mockRepo.On("AverageByCategory", mock.Anything, domain.RatingFilter{Role: "manager"}).
		Return(map[string]float64{"leadership": 9.0}, nil)

	categories, values, err := agg.SeriesFor(context.Background(), "manager")
	require.NoError(t, err)
	assert.Equal(t, []string{"leadership", "communication"}, categories)
	assert.Equal(t, []float64{9.0, NeutralRating}, values)
}

func TestSeriesForAllRoles(t *testing.T) {
	mockRepo := new(MockResponseRepository)
	agg := NewAggregator(mockRepo, testRegistry())

	// Empty role means no filter and the global category order.
	mockRepo.On("AverageByCategory", mock.Anything, domain.RatingFilter{}).
		Return(map[string]float64{"communication": 7.5}, nil)

	categories, values, err := agg.SeriesFor(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"leadership", "communication", "teamwork"}, categories)
	assert.Equal(t, []float64{NeutralRating, 7.5, NeutralRating}, values)
}

func TestSeriesForTeam(t *testing.T) {
	mockRepo := new(MockResponseRepository)
	agg := NewAggregator(mockRepo, testRegistry())

	// Two submissions rated communication 4 and 6; the team mean is the
	// midpoint by coincidence, not by fallback.
	mockRepo.On("AverageByCategory", mock.Anything, domain.RatingFilter{TeamKey: "platform"}).
		Return(map[string]float64{"communication": 5.0}, nil)

	categories, values, err := agg.SeriesForTeam(context.Background(), "platform")
	require.NoError(t, err)
	assert.Equal(t, []string{"leadership", "communication", "teamwork"}, categories)
	assert.Equal(t, []float64{NeutralRating, 5.0, NeutralRating}, values)
}

func TestSeriesForResponseKnownRole(t *testing.T) {
	agg := NewAggregator(new(MockResponseRepository), testRegistry())

	resp := &domain.Response{ID: "r1", Role: "manager"}
	ratings := []domain.Rating{
		{ResponseID: "r1", Category: "leadership", Value: 8},
	}

	categories, values := agg.SeriesForResponse(resp, ratings)
	assert.Equal(t, []string{"leadership", "communication"}, categories)
	assert.Equal(t, []float64{8.0, NeutralRating}, values)
}

func TestSeriesForResponseUnknownRole(t *testing.T) {
	agg := NewAggregator(new(MockResponseRepository), testRegistry())

	// A role no longer in the survey document still renders, over the
	// categories the stored ratings actually mention, in first-seen order.
	resp := &domain.Response{ID: "r2", Role: "scrum-master"}
	ratings := []domain.Rating{
		{ResponseID: "r2", Category: "teamwork", Value: 3},
		{ResponseID: "r2", Category: "leadership", Value: 7},
		{ResponseID: "r2", Category: "teamwork", Value: 5},
	}

	categories, values := agg.SeriesForResponse(resp, ratings)
	assert.Equal(t, []string{"teamwork", "leadership"}, categories)
	// The last stored value per category wins.
	assert.Equal(t, []float64{5.0, 7.0}, values)
}

func TestSeriesForResponseNoRatings(t *testing.T) {
	agg := NewAggregator(new(MockResponseRepository), testRegistry())

	resp := &domain.Response{ID: "r3", Role: "developer"}
	categories, values := agg.SeriesForResponse(resp, nil)
	assert.Equal(t, []string{"teamwork", "communication"}, categories)
	assert.Equal(t, []float64{NeutralRating, NeutralRating}, values)
}
