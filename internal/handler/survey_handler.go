package handler

import (
	"survey-spider/internal/domain"
	"survey-spider/internal/dto"
	"survey-spider/internal/schema"
	"survey-spider/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SurveyHandler serves the survey document and accepts submissions.
type SurveyHandler struct {
	surveyService service.SurveyService
	registry      *schema.Registry
}

// NewSurveyHandler creates a new SurveyHandler.
func NewSurveyHandler(surveyService service.SurveyService, registry *schema.Registry) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService, registry: registry}
}

// GetSchema returns the survey document: roles, categories, the question
// lists per role and the open-ended questions. A form UI renders itself
// from this payload.
func (h *SurveyHandler) GetSchema(c *fiber.Ctx) error {
	roles := h.registry.Roles()
	categories := h.registry.CategoryDefs()

	resp := dto.SchemaResponse{
		Roles:         make([]dto.SchemaRole, len(roles)),
		Categories:    make([]dto.SchemaCategory, len(categories)),
		Questions:     make(map[string][]dto.SchemaSection, len(roles)),
		OpenQuestions: h.registry.OpenQuestions(),
	}
	for i, role := range roles {
		resp.Roles[i] = dto.SchemaRole{Key: role.Key, Label: role.Label}
	}
	for i, cat := range categories {
		resp.Categories[i] = dto.SchemaCategory{Key: cat.Key, Label: cat.Label}
	}
	for _, role := range roles {
		roleCategories, ok := h.registry.CategoriesFor(role.Key)
		if !ok {
			continue
		}
		questions, _ := h.registry.QuestionsFor(role.Key)
		sections := make([]dto.SchemaSection, len(roleCategories))
		for i, category := range roleCategories {
			sections[i] = dto.SchemaSection{
				Category:  category,
				Label:     h.registry.CategoryLabel(category),
				Questions: questions[category],
			}
		}
		resp.Questions[role.Key] = sections
	}

	return c.JSON(resp)
}

// SubmitResponse accepts one survey submission and stores it.
func (h *SurveyHandler) SubmitResponse(c *fiber.Ctx) error {
	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if req.Role == "" {
		return domain.NewInvalidInputError("role is required")
	}

	result, err := h.surveyService.Submit(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
