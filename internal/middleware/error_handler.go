package middleware

import (
	"errors"

	"survey-spider/internal/domain"
	"survey-spider/internal/dto"
	"survey-spider/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler returns the Fiber error handler that maps domain errors to
// HTTP responses. Handlers just return errors; status codes are decided
// here in one place.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			status := statusForCode(domainErr.Code)
			if status == fiber.StatusInternalServerError {
				logger.Get().Error("Request failed",
					zap.String("path", c.Path()),
					zap.String("code", string(domainErr.Code)),
					zap.Error(domainErr))
			}
			return c.Status(status).JSON(dto.ErrorResponse{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
				Code:    string(domain.ErrInvalidInput),
				Message: fiberErr.Message,
			})
		}

		logger.Get().Error("Unhandled request error",
			zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    string(domain.ErrInternal),
			Message: "An unexpected error occurred",
		})
	}
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrNotFound, domain.ErrResponseNotFound:
		return fiber.StatusNotFound
	case domain.ErrInvalidInput, domain.ErrInvalidRole, domain.ErrInvalidRating, domain.ErrEmptyChart:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
