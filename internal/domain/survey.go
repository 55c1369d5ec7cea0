package domain

import (
	"strings"
	"time"
)

// Rating scale bounds. Every rating question is answered on this fixed
// integer scale; values outside it are rejected at submission time.
const (
	RatingMin = 0
	RatingMax = 10
)

// Response is one survey submission. It is created once and never mutated.
type Response struct {
	ID             string
	CreatedAt      time.Time
	Role           string
	RespondentName string
	TeamKey        string // empty when the submission is not tied to a team
	TeamSize       *int
	Budget         *float64
}

// AnonymousName is used when a respondent submits without a display name.
const AnonymousName = "Anonymous"

// NewResponse creates a Response for the given role. A blank respondent
// name falls back to AnonymousName.
func NewResponse(role, respondentName, teamKey string) *Response {
	name := strings.TrimSpace(respondentName)
	if name == "" {
		name = AnonymousName
	}
	return &Response{
		CreatedAt:      time.Now(),
		Role:           role,
		RespondentName: name,
		TeamKey:        strings.TrimSpace(teamKey),
	}
}

// Rating is one answered rating question within a response. The question
// text is captured verbatim at submission time so that historical answers
// survive later edits of the survey document.
type Rating struct {
	ID         string
	ResponseID string
	Role       string
	Category   string
	Question   string
	Value      int
}

// Validate checks the rating value against the fixed scale.
func (r *Rating) Validate() error {
	if r.Value < RatingMin || r.Value > RatingMax {
		return NewInvalidRatingError(r.Category, r.Value)
	}
	return nil
}

// OpenAnswer is one answered free-text question within a response.
type OpenAnswer struct {
	ID         string
	ResponseID string
	Question   string
	Answer     string
}

// IsBlank reports whether the answer is empty after trimming whitespace.
// Blank answers are never persisted.
func (a *OpenAnswer) IsBlank() bool {
	return strings.TrimSpace(a.Answer) == ""
}

// CategoryValue is a (category, value) pair from a stored rating.
type CategoryValue struct {
	Category string
	Value    int
}

// CategoryAverage is the mean rating for one category together with the
// number of ratings that produced it.
type CategoryAverage struct {
	Category string
	Average  float64
	Count    int
}

// ResponseSummary is a Response plus the row counts of its children,
// used by the dashboard listing.
type ResponseSummary struct {
	Response
	RatingCount     int
	OpenAnswerCount int
}

// SurveyStats are the dashboard totals across all stored submissions.
type SurveyStats struct {
	TotalResponses   int
	TotalRatings     int
	TotalOpenAnswers int
	OverallAverage   float64
}
