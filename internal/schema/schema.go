// Package schema loads and serves the survey document: which roles exist,
// which rating categories each role is asked about, the question texts per
// category, and the shared open-ended questions. The document is read once
// at startup and the resulting Registry is immutable, so it is safe to
// share across concurrent requests.
package schema

import (
	"fmt"

	"github.com/spf13/viper"
)

// RoleDef maps a role key to its display label.
type RoleDef struct {
	Key   string `mapstructure:"key"`
	Label string `mapstructure:"label"`
}

// CategoryDef maps a category key to its display label. The order of the
// categories list is the global chart axis order.
type CategoryDef struct {
	Key   string `mapstructure:"key"`
	Label string `mapstructure:"label"`
}

// QuestionSection is one category's ordered question list within a role.
type QuestionSection struct {
	Category string   `mapstructure:"category"`
	Items    []string `mapstructure:"items"`
}

// Document is the raw survey configuration shape.
type Document struct {
	Roles         []RoleDef                    `mapstructure:"roles"`
	Categories    []CategoryDef                `mapstructure:"categories"`
	Questions     map[string][]QuestionSection `mapstructure:"questions"`
	OpenQuestions []string                     `mapstructure:"open_questions"`
}

// Registry is the loaded, validated survey document with lookup indexes.
type Registry struct {
	doc            Document
	roleLabels     map[string]string
	categoryLabels map[string]string
	categoryOrder  []string
	roleCategories map[string][]string
	roleQuestions  map[string]map[string][]string
}

// Load reads the survey document at path and validates it. Any structural
// problem is fatal: the process must not start with a broken survey.
func Load(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read survey document %s: %w", path, err)
	}

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse survey document %s: %w", path, err)
	}

	return NewRegistry(doc)
}

// NewRegistry validates a Document and builds the lookup indexes.
func NewRegistry(doc Document) (*Registry, error) {
	if len(doc.Roles) == 0 {
		return nil, fmt.Errorf("survey document: roles section is missing or empty")
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("survey document: categories section is missing or empty")
	}
	if len(doc.Questions) == 0 {
		return nil, fmt.Errorf("survey document: questions section is missing or empty")
	}

	r := &Registry{
		doc:            doc,
		roleLabels:     make(map[string]string, len(doc.Roles)),
		categoryLabels: make(map[string]string, len(doc.Categories)),
		categoryOrder:  make([]string, 0, len(doc.Categories)),
		roleCategories: make(map[string][]string, len(doc.Questions)),
		roleQuestions:  make(map[string]map[string][]string, len(doc.Questions)),
	}

	for _, role := range doc.Roles {
		if role.Key == "" {
			return nil, fmt.Errorf("survey document: role with empty key")
		}
		r.roleLabels[role.Key] = role.Label
	}
	for _, cat := range doc.Categories {
		if cat.Key == "" {
			return nil, fmt.Errorf("survey document: category with empty key")
		}
		r.categoryLabels[cat.Key] = cat.Label
		r.categoryOrder = append(r.categoryOrder, cat.Key)
	}

	for role, sections := range doc.Questions {
		if _, ok := r.roleLabels[role]; !ok {
			return nil, fmt.Errorf("survey document: questions defined for undeclared role %q", role)
		}
		categories := make([]string, 0, len(sections))
		questions := make(map[string][]string, len(sections))
		for _, section := range sections {
			if _, ok := r.categoryLabels[section.Category]; !ok {
				return nil, fmt.Errorf("survey document: role %q references undeclared category %q", role, section.Category)
			}
			categories = append(categories, section.Category)
			questions[section.Category] = section.Items
		}
		r.roleCategories[role] = categories
		r.roleQuestions[role] = questions
	}

	return r, nil
}

// HasRole reports whether the role has a question list in the document.
func (r *Registry) HasRole(role string) bool {
	_, ok := r.roleQuestions[role]
	return ok
}

// CategoriesFor returns the role's ordered category list. The second
// return is false for unknown roles; callers fall back to Categories()
// or to observed data.
func (r *Registry) CategoriesFor(role string) ([]string, bool) {
	categories, ok := r.roleCategories[role]
	return categories, ok
}

// QuestionsFor returns the role's category → ordered question list mapping.
func (r *Registry) QuestionsFor(role string) (map[string][]string, bool) {
	questions, ok := r.roleQuestions[role]
	return questions, ok
}

// Categories returns the global ordered category key list.
func (r *Registry) Categories() []string {
	return r.categoryOrder
}

// CategoryLabel resolves a category key to its display label, falling
// back to the raw key when unknown.
func (r *Registry) CategoryLabel(key string) string {
	if label, ok := r.categoryLabels[key]; ok && label != "" {
		return label
	}
	return key
}

// RoleLabel resolves a role key to its display label, falling back to
// the raw key when unknown.
func (r *Registry) RoleLabel(key string) string {
	if label, ok := r.roleLabels[key]; ok && label != "" {
		return label
	}
	return key
}

// Roles returns the declared roles in document order.
func (r *Registry) Roles() []RoleDef {
	return r.doc.Roles
}

// CategoryDefs returns the declared categories in document order.
func (r *Registry) CategoryDefs() []CategoryDef {
	return r.doc.Categories
}

// OpenQuestions returns the ordered free-text question list.
func (r *Registry) OpenQuestions() []string {
	return r.doc.OpenQuestions
}
