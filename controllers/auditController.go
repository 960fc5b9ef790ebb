package controllers

import (
	"planhub-backend/database"
	"planhub-backend/models"
	"planhub-backend/security"

	"github.com/gofiber/fiber/v2"
)

// GetAuditLogs returns a project's membership audit trail, newest first.
// Restricted to the project owner and admins; optional query filters
// performed_by and target_email narrow the result.
func GetAuditLogs(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	project, role, err := loadProjectForMember(db, c.Params("id"), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}
	if role != models.RoleOwner && role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}

	entries, err := security.AuditLogs(db, security.AuditFilter{
		ProjectId:       project.Id,
		PerformedBy:     c.Query("performed_by"),
		TargetUserEmail: c.Query("target_email"),
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not query audit log")
	}
	return c.JSON(fiber.Map{"entries": entries})
}
