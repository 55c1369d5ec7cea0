package dto

import "time"

// RatingInput is one answered rating question in a submission. The
// question is referenced by its index within the role's category section;
// the stored row captures the resolved text verbatim.
type RatingInput struct {
	Category      string `json:"category"`
	QuestionIndex int    `json:"question_index"`
	Value         int    `json:"value"`
}

// OpenAnswerInput is one answered free-text question in a submission.
type OpenAnswerInput struct {
	QuestionIndex int    `json:"question_index"`
	Answer        string `json:"answer"`
}

// SubmitRequest is the survey submission payload.
// @Description Request body for submitting a survey response
type SubmitRequest struct {
	Role           string            `json:"role"`
	RespondentName string            `json:"respondent_name"`
	TeamKey        string            `json:"team_key,omitempty"`
	TeamSize       *int              `json:"team_size,omitempty"`
	Budget         *float64          `json:"budget,omitempty"`
	Ratings        []RatingInput     `json:"ratings"`
	OpenAnswers    []OpenAnswerInput `json:"open_answers,omitempty"`
}

// SubmitResult reports what was persisted for a submission.
type SubmitResult struct {
	ResponseID      string `json:"response_id"`
	RatingCount     int    `json:"rating_count"`
	OpenAnswerCount int    `json:"open_answer_count"`
}

// Report is one renderable view: the chart plus the series behind it.
// Categories are raw keys, Labels their resolved display names, in axis order.
type Report struct {
	Title      string    `json:"title"`
	Categories []string  `json:"categories"`
	Labels     []string  `json:"labels"`
	Values     []float64 `json:"values"`
	Chart      string    `json:"chart"` // base64-encoded PNG
}

// RatingDetail is one stored rating with its verbatim question text.
type RatingDetail struct {
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
	Question      string `json:"question"`
	Value         int    `json:"value"`
}

// OpenAnswerDetail is one stored free-text answer.
type OpenAnswerDetail struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ResponseView is the single-response view payload.
type ResponseView struct {
	Report
	ResponseID     string             `json:"response_id"`
	RespondentName string             `json:"respondent_name"`
	Role           string             `json:"role"`
	RoleLabel      string             `json:"role_label"`
	TeamKey        string             `json:"team_key,omitempty"`
	SubmittedAt    time.Time          `json:"submitted_at"`
	Ratings        []RatingDetail     `json:"ratings"`
	OpenAnswers    []OpenAnswerDetail `json:"open_answers"`
}

// CategoryStat is a per-category aggregate row in the role report.
type CategoryStat struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

// RoleReport is the per-role average view payload.
type RoleReport struct {
	Report
	Role          string         `json:"role"`
	RoleLabel     string         `json:"role_label"`
	ResponseCount int            `json:"response_count"`
	CategoryStats []CategoryStat `json:"category_stats"`
}

// ResponseSummary is one row of the dashboard response listing.
type ResponseSummary struct {
	ResponseID      string    `json:"response_id"`
	SubmittedAt     time.Time `json:"submitted_at"`
	Role            string    `json:"role"`
	RoleLabel       string    `json:"role_label"`
	RespondentName  string    `json:"respondent_name"`
	TeamKey         string    `json:"team_key,omitempty"`
	TeamSize        *int      `json:"team_size,omitempty"`
	Budget          *float64  `json:"budget,omitempty"`
	RatingCount     int       `json:"rating_count"`
	OpenAnswerCount int       `json:"open_answer_count"`
}

// SurveyStats are the dashboard totals.
type SurveyStats struct {
	TotalResponses   int     `json:"total_responses"`
	TotalRatings     int     `json:"total_ratings"`
	TotalOpenAnswers int     `json:"total_open_answers"`
	OverallAverage   float64 `json:"overall_average"`
}

/// Dashboard is the admin overview payload: every response, the totals,
// one averaged chart per role and the overall chart.
type Dashboard struct {
	Responses   []ResponseSummary `json:"responses"`
	Stats       SurveyStats       `json:"stats"`
	RoleReports map[string]Report `json:"role_reports"`
	Overall     Report            `json:"overall"`
}

// SchemaRole is one selectable role in the schema payload.
type SchemaRole struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SchemaCategory is one rating category in the schema payload.
type SchemaCategory struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SchemaSection is one category's question list for a role.
type SchemaSection struct {
	Category  string   `json:"category"`
	Label     string   `json:"label"`
	Questions []string `json:"questions"`
}

// SchemaResponse serves the survey document so a form UI can render itself.
type SchemaResponse struct {
	Roles         []SchemaRole               `json:"roles"`
	Categories    []SchemaCategory           `json:"categories"`
	Questions     map[string][]SchemaSection `json:"questions"`
	OpenQuestions []string                   `json:"open_questions"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
