package service

import (
	"context"

	"survey-spider/internal/domain"
	"survey-spider/internal/schema"
)

// NeutralRating is the scale midpoint used as a placeholder wherever a
// category in scope has no stored ratings. Series always carry it instead
// of omitting the category or reporting zero, so charts for sparse scopes
// stay comparable with full ones.
const NeutralRating = 5.0

// Aggregator turns stored ratings into the ordered (categories, values)
// series the chart renderer consumes.
type Aggregator struct {
	repo     domain.ResponseRepository
	registry *schema.Registry
}

// NewAggregator creates a new Aggregator.
func NewAggregator(repo domain.ResponseRepository, registry *schema.Registry) *Aggregator {
	return &Aggregator{repo: repo, registry: registry}
}

// AveragesByCategory returns mean(rating) per category under the filter.
// Categories without data are absent from the map.
func (a *Aggregator) AveragesByCategory(ctx context.Context, filter domain.RatingFilter) (map[string]float64, error) {
	return a.repo.AverageByCategory(ctx, filter)
}

// SeriesFor computes the averaged series for a role, or for all roles when
// role is empty. Category order comes from the role's configured list, or
// the global list when no role is given; categories without data carry
// NeutralRating.
func (a *Aggregator) SeriesFor(ctx context.Context, role string) ([]string, []float64, error) {
	averages, err := a.repo.AverageByCategory(ctx, domain.RatingFilter{Role: role})
	if err != nil {
		return nil, nil, err
	}

	categories := a.registry.Categories()
	if role != "" {
		if roleCategories, ok := a.registry.CategoriesFor(role); ok {
			categories = roleCategories
		}
	}

	return categories, fillSeries(categories, averages), nil
}

// SeriesForTeam computes the averaged series for one team across all
// roles, over the global category order.
func (a *Aggregator) SeriesForTeam(ctx context.Context, teamKey string) ([]string, []float64, error) {
	averages, err := a.repo.AverageByCategory(ctx, domain.RatingFilter{TeamKey: teamKey})
	if err != nil {
		return nil, nil, err
	}
	categories := a.registry.Categories()
	return categories, fillSeries(categories, averages), nil
}

// SeriesForResponse computes a single submission's series. When the
// response's role is known, the role's configured category order is used
// and unanswered categories carry NeutralRating, so the chart has the same
// axes as the role's aggregate view. When the role is unknown (stale or
// legacy data), the categories observed in the stored ratings are used
// as-is instead of failing the view.
func (a *Aggregator) SeriesForResponse(resp *domain.Response, ratings []domain.Rating) ([]string, []float64) {
	byCategory := make(map[string]float64, len(ratings))
	var observed []string
	for _, rating := range ratings {
		if _, seen := byCategory[rating.Category]; !seen {
			observed = append(observed, rating.Category)
		}
		byCategory[rating.Category] = float64(rating.Value)
	}

	categories, ok := a.registry.CategoriesFor(resp.Role)
	if !ok {
		categories = observed
	}

	return categories, fillSeries(categories, byCategory)
}

// fillSeries orders values to parallel categories, substituting
// NeutralRating where no value exists.
func fillSeries(categories []string, values map[string]float64) []float64 {
	series := make([]float64, len(categories))
	for i, category := range categories {
		if v, ok := values[category]; ok {
			series[i] = v
		} else {
			series[i] = NeutralRating
		}
	}
	return series
}
