package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"survey-spider/internal/domain"
	"survey-spider/internal/repository/models"
	"survey-spider/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxResponseRepository implements domain.ResponseRepository using sqlx.
type sqlxResponseRepository struct {
	db *sqlx.DB
}

// NewSQLXResponseRepository creates a new instance of sqlxResponseRepository.
func NewSQLXResponseRepository(db *sqlx.DB) domain.ResponseRepository {
	return &sqlxResponseRepository{db: db}
}

func toDomainResponse(m *models.Response) *domain.Response {
	if m == nil {
		return nil
	}
	return &domain.Response{
		ID:             m.ID,
		CreatedAt:      m.CreatedAt,
		Role:           m.Role,
		RespondentName: m.RespondentName,
		TeamKey:        m.TeamKey.String,
		TeamSize:       util.NullInt64ToIntPtr(m.TeamSize),
		Budget:         util.NullFloat64ToFloatPtr(m.Budget),
	}
}

func fromDomainResponse(d *domain.Response) *models.Response {
	return &models.Response{
		ID:             d.ID,
		CreatedAt:      d.CreatedAt,
		Role:           d.Role,
		RespondentName: d.RespondentName,
		TeamKey:        util.StringToNullString(d.TeamKey),
		TeamSize:       util.IntPtrToNullInt64(d.TeamSize),
		Budget:         util.FloatPtrToNullFloat64(d.Budget),
	}
}

// buildRatingFilter turns a domain.RatingFilter into WHERE clauses over the
// joined ratings (r) / responses (p) tables. Parameterized throughout; no
// SQL text is assembled from request values.
func buildRatingFilter(filter domain.RatingFilter) (string, []interface{}) {
	where := ""
	var args []interface{}
	if filter.Role != "" {
		where += " AND r.role = ?"
		args = append(args, filter.Role)
	}
	if filter.TeamKey != "" {
		where += " AND p.team_key = ?"
		args = append(args, filter.TeamKey)
	}
	return where, args
}

// CreateResponse inserts the parent row, assigning a fresh ULID.
func (r *sqlxResponseRepository) CreateResponse(ctx context.Context, resp *domain.Response) error {
	if resp.ID == "" {
		resp.ID = util.NewULID()
	}
	m := fromDomainResponse(resp)

	query := `INSERT INTO responses (id, created_at, role, respondent_name, team_key, team_size, budget)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		m.ID, m.CreatedAt, m.Role, m.RespondentName, m.TeamKey, m.TeamSize, m.Budget)
	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	return nil
}

// AddRating inserts one rating row.
func (r *sqlxResponseRepository) AddRating(ctx context.Context, rating *domain.Rating) error {
	if rating.ID == "" {
		rating.ID = util.NewULID()
	}

	query := `INSERT INTO ratings (id, response_id, role, category, question, rating)
	          VALUES (?, ?, ?, ?, ?, ?)`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		rating.ID, rating.ResponseID, rating.Role, rating.Category, rating.Question, rating.Value)
	if err != nil {
		return fmt.Errorf("failed to add rating: %w", err)
	}
	return nil
}

// AddOpenAnswer inserts one open answer row.
func (r *sqlxResponseRepository) AddOpenAnswer(ctx context.Context, answer *domain.OpenAnswer) error {
	if answer.ID == "" {
		answer.ID = util.NewULID()
	}

	query := `INSERT INTO open_answers (id, response_id, question, answer)
	          VALUES (?, ?, ?, ?)`
	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		answer.ID, answer.ResponseID, answer.Question, answer.Answer)
	if err != nil {
		return fmt.Errorf("failed to add open answer: %w", err)
	}
	return nil
}

// GetResponse returns nil without error when the ID does not exist.
func (r *sqlxResponseRepository) GetResponse(ctx context.Context, id string) (*domain.Response, error) {
	query := `SELECT id, created_at, role, respondent_name, team_key, team_size, budget
	          FROM responses WHERE id = ?`
	var m models.Response
	executor := GetExecutor(ctx, r.db)
	if err := executor.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return toDomainResponse(&m), nil
}

// RatingsFor returns all rating rows of one response in insertion order.
func (r *sqlxResponseRepository) RatingsFor(ctx context.Context, responseID string) ([]domain.Rating, error) {
	query := `SELECT id, response_id, role, category, question, rating
	          FROM ratings WHERE response_id = ? ORDER BY id`
	var rows []models.Rating
	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, responseID); err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}

	ratings := make([]domain.Rating, len(rows))
	for i, row := range rows {
		ratings[i] = domain.Rating{
			ID:         row.ID,
			ResponseID: row.ResponseID,
			Role:       row.Role,
			Category:   row.Category,
			Question:   row.Question,
			Value:      row.Rating,
		}
	}
	return ratings, nil
}

// OpenAnswersFor returns all open answer rows of one response in insertion order.
func (r *sqlxResponseRepository) OpenAnswersFor(ctx context.Context, responseID string) ([]domain.OpenAnswer, error) {
	query := `SELECT id, response_id, question, answer
	          FROM open_answers WHERE response_id = ? ORDER BY id`
	var rows []models.OpenAnswer
	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, responseID); err != nil {
		return nil, fmt.Errorf("failed to get open answers: %w", err)
	}

	answers := make([]domain.OpenAnswer, len(rows))
	for i, row := range rows {
		answers[i] = domain.OpenAnswer{
			ID:         row.ID,
			ResponseID: row.ResponseID,
			Question:   row.Question,
			Answer:     row.Answer,
		}
	}
	return answers, nil
}

// AverageByCategory computes mean(rating) per category under the filter.
// Categories with no matching rows are simply absent from the result.
func (r *sqlxResponseRepository) AverageByCategory(ctx context.Context, filter domain.RatingFilter) (map[string]float64, error) {
	where, args := buildRatingFilter(filter)
	query := `SELECT r.category AS category, AVG(r.rating) AS avg_rating, COUNT(r.id) AS rating_count
	          FROM ratings r JOIN responses p ON p.id = r.response_id
	          WHERE 1=1` + where + `
	          GROUP BY r.category`

	var rows []models.CategoryAverage
	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	averages := make(map[string]float64, len(rows))
	for _, row := range rows {
		averages[row.Category] = row.AvgRating
	}
	return averages, nil
}

// CategoryStats is AverageByCategory with per-category counts, for the
// role report tables.
func (r *sqlxResponseRepository) CategoryStats(ctx context.Context, filter domain.RatingFilter) ([]domain.CategoryAverage, error) {
	where, args := buildRatingFilter(filter)
	query := `SELECT r.category AS category, AVG(r.rating) AS avg_rating, COUNT(r.id) AS rating_count
	          FROM ratings r JOIN responses p ON p.id = r.response_id
	          WHERE 1=1` + where + `
	          GROUP BY r.category ORDER BY r.category`

	var rows []models.CategoryAverage
	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate category stats: %w", err)
	}

	stats := make([]domain.CategoryAverage, len(rows))
	for i, row := range rows {
		stats[i] = domain.CategoryAverage{
			Category: row.Category,
			Average:  row.AvgRating,
			Count:    row.Count,
		}
	}
	return stats, nil
}

// ListResponses returns submissions with child counts, newest first.
func (r *sqlxResponseRepository) ListResponses(ctx context.Context, filter domain.RatingFilter) ([]domain.ResponseSummary, error) {
	where := ""
	var args []interface{}
	if filter.Role != "" {
		where += " AND p.role = ?"
		args = append(args, filter.Role)
	}
	if filter.TeamKey != "" {
		where += " AND p.team_key = ?"
		args = append(args, filter.TeamKey)
	}

	query := `SELECT p.id, p.created_at, p.role, p.respondent_name, p.team_key, p.team_size, p.budget,
	                 COUNT(DISTINCT r.id) AS rating_count,
	                 COUNT(DISTINCT oa.id) AS open_count
	          FROM responses p
	          LEFT JOIN ratings r ON r.response_id = p.id
	          LEFT JOIN open_answers oa ON oa.response_id = p.id
	          WHERE 1=1` + where + `
	          GROUP BY p.id
	          ORDER BY p.created_at DESC`

	var rows []models.ResponseSummary
	executor := GetExecutor(ctx, r.db)
	if err := executor.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	summaries := make([]domain.ResponseSummary, len(rows))
	for i, row := range rows {
		summaries[i] = domain.ResponseSummary{
			Response:        *toDomainResponse(&row.Response),
			RatingCount:     row.RatingCount,
			OpenAnswerCount: row.OpenAnswerCount,
		}
	}
	return summaries, nil
}

// Stats returns the dashboard totals. OverallAverage is 0 with no ratings.
func (r *sqlxResponseRepository) Stats(ctx context.Context) (*domain.SurveyStats, error) {
	query := `SELECT COUNT(DISTINCT p.id) AS total_responses,
	                 COUNT(DISTINCT r.id) AS total_ratings,
	                 COUNT(DISTINCT oa.id) AS total_open_answers,
	                 AVG(r.rating) AS overall_avg_rating
	          FROM responses p
	          LEFT JOIN ratings r ON r.response_id = p.id
	          LEFT JOIN open_answers oa ON oa.response_id = p.id`

	var m models.SurveyStats
	executor := GetExecutor(ctx, r.db)
	if err := executor.GetContext(ctx, &m, query); err != nil {
		return nil, fmt.Errorf("failed to get survey stats: %w", err)
	}

	return &domain.SurveyStats{
		TotalResponses:   m.TotalResponses,
		TotalRatings:     m.TotalRatings,
		TotalOpenAnswers: m.TotalOpenAnswers,
		OverallAverage:   m.OverallAverage.Float64,
	}, nil
}
