package handler

import (
	"survey-spider/internal/domain"
	"survey-spider/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the rendered report views.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetResponse returns one stored submission with its chart.
func (h *ReportHandler) GetResponse(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return domain.NewInvalidInputError("response id is required")
	}

	view, err := h.reportService.ResponseView(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// GetRoleReport returns one role's averaged report.
func (h *ReportHandler) GetRoleReport(c *fiber.Ctx) error {
	role := c.Params("role")
	report, err := h.reportService.RoleReport(c.Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// GetTeamReport returns one team's averaged report across all roles.
func (h *ReportHandler) GetTeamReport(c *fiber.Ctx) error {
	team := c.Params("team")
	report, err := h.reportService.TeamReport(c.Context(), team)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// GetOverallReport returns the averaged report over every stored rating.
func (h *ReportHandler) GetOverallReport(c *fiber.Ctx) error {
	report, err := h.reportService.OverallReport(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// GetDashboard returns the admin overview: all responses, the totals and
// the per-role charts.
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	dashboard, err := h.reportService.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}
