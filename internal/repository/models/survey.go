package models

import (
	"database/sql"
	"time"
)

// Response represents one row of the responses table.
type Response struct {
	ID             string          `db:"id"` // ULID
	CreatedAt      time.Time       `db:"created_at"`
	Role           string          `db:"role"`
	RespondentName string          `db:"respondent_name"`
	TeamKey        sql.NullString  `db:"team_key"`
	TeamSize       sql.NullInt64   `db:"team_size"`
	Budget         sql.NullFloat64 `db:"budget"`
}

// Rating represents one row of the ratings table. The question text is
// stored verbatim, not by reference to the survey document.
type Rating struct {
	ID         string `db:"id"` // ULID
	ResponseID string `db:"response_id"`
	Role       string `db:"role"`
	Category   string `db:"category"`
	Question   string `db:"question"`
	Rating     int    `db:"rating"`
}

// OpenAnswer represents one row of the open_answers table.
type OpenAnswer struct {
	ID         string `db:"id"` // ULID
	ResponseID string `db:"response_id"`
	Question   string `db:"question"`
	Answer     string `db:"answer"`
}

// ResponseSummary is a responses row joined with its child row counts.
type ResponseSummary struct {
	Response
	RatingCount     int `db:"rating_count"`
	OpenAnswerCount int `db:"open_count"`
}

// CategoryAverage is one row of a GROUP BY category aggregate.
type CategoryAverage struct {
	Category  string  `db:"category"`
	AvgRating float64 `db:"avg_rating"`
	Count     int     `db:"rating_count"`
}

// SurveyStats is the single-row dashboard totals query result.
type SurveyStats struct {
	TotalResponses   int             `db:"total_responses"`
	TotalRatings     int             `db:"total_ratings"`
	TotalOpenAnswers int             `db:"total_open_answers"`
	OverallAverage   sql.NullFloat64 `db:"overall_avg_rating"`
}
