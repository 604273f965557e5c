package server

import (
	"errors"

	"dwellr/internal/middleware"
	"dwellr/internal/models"
	"dwellr/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Describe handles POST /api/describe, turning a walkthrough transcript into
// structured listing metadata. Generation is all-or-nothing: any upstream or
// parse failure is a 502 with no partial result.
func (s *Server) Describe(c *fiber.Ctx) error {
	var body models.GenerateDescriptionBody
	if appErr := validation.ParseBody(c.Body(), &body); appErr != nil {
		return models.RespondWithError(c, appErr)
	}

	meta, err := s.engine.Generate(c.UserContext(), body.Transcript)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return models.RespondWithError(c, appErr)
		}
		middleware.Logger.ErrorContext(c.UserContext(), "description generation failed",
			"error", err)
		return models.RespondWithError(c, models.NewGenerationError(err))
	}

	return c.Status(fiber.StatusOK).JSON(meta)
}
