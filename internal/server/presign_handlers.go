package server

import (
	"dwellr/internal/middleware"
	"dwellr/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPresignedURL handles GET /api/presignedUrl, issuing a fresh media key
// and a time-limited PUT URL for the client's upcoming upload.
func (s *Server) GetPresignedURL(c *fiber.Ctx) error {
	grant, err := s.issuer.IssueUploadGrant(c.UserContext())
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "upload grant issuance failed",
			"error", err)
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusOK).JSON(grant)
}
