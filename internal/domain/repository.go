package domain

import "context"

// RatingFilter narrows aggregate queries. Zero-value fields are ignored;
// when both are set they are ANDed.
type RatingFilter struct {
	Role    string
	TeamKey string
}

// ResponseRepository is the append-only store for submissions. There are
// no update or delete operations.
type ResponseRepository interface {
	// CreateResponse inserts the parent row and fills in resp.ID.
	CreateResponse(ctx context.Context, resp *Response) error
	// AddRating inserts one rating row for an existing response.
	AddRating(ctx context.Context, rating *Rating) error
	// AddOpenAnswer inserts one free-text answer row for an existing response.
	AddOpenAnswer(ctx context.Context, answer *OpenAnswer) error

	// GetResponse returns nil (without error) when no response has the ID.
	GetResponse(ctx context.Context, id string) (*Response, error)
	RatingsFor(ctx context.Context, responseID string) ([]Rating, error)
	OpenAnswersFor(ctx context.Context, responseID string) ([]OpenAnswer, error)

	// AverageByCategory returns mean(rating) per category for the rows
	// matching the filter. Categories with no matching rows are absent
	// from the map, not zero.
	AverageByCategory(ctx context.Context, filter RatingFilter) (map[string]float64, error)
	// CategoryStats is AverageByCategory plus per-category rating counts.
	CategoryStats(ctx context.Context, filter RatingFilter) ([]CategoryAverage, error)

	ListResponses(ctx context.Context, filter RatingFilter) ([]ResponseSummary, error)
	Stats(ctx context.Context) (*SurveyStats, error)
}

// TransactionManager runs fn atomically: either every write made through
// repositories inside fn becomes visible, or none do.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
