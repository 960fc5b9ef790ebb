package controllers

import (
	"errors"

	"planhub-backend/database"
	"planhub-backend/middlewares"
	"planhub-backend/models"
	"planhub-backend/security"
	"planhub-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Membership lifecycle handlers. Every mutating handler here runs inside the
// request transaction (middlewares.Tx), performs its business checks, applies
// the mutation and writes the audit row through that same transaction, and
// funnels every failure into security.OpFailed so the response is sanitized
// and the transaction rolls back as one unit. No branch may return a message
// of its own: whether an email has an account, who is the project's principal,
// or what state a row is in must be invisible in both content and timing.

type InviteInput struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=member admin"`
}

type RoleChangeInput struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

func InviteMember(c *fiber.Ctx) error {
	var input InviteInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return security.OpFailed(security.OpInvite, err)
	}
	email := utils.NormalizeEmail(input.Email)
	role := input.Role
	if role == "" {
		role = models.RoleMember
	}

	userID := c.Locals("userID").(string)
	actorEmail, _ := c.Locals("email").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return security.OpFailed(security.OpInvite, err)
	}

	project, actorRole, err := loadProjectForMember(db, c.Params("id"), userID)
	if err != nil {
		return security.OpFailed(security.OpInvite, err)
	}
	if actorRole != models.RoleOwner && actorRole != models.RoleAdmin {
		return security.OpFailed(security.OpInvite, errors.New("insufficient role"))
	}
	if email == utils.NormalizeEmail(actorEmail) {
		return security.OpFailed(security.OpInvite, errors.New("self invite"))
	}

	// An address that already maps to a member, or that already holds a
	// pending invite, is rejected with the same message as everything else.
	var count int64
	if err := db.Model(&models.ProjectMember{}).
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.project_id = ? AND users.email = ?", project.Id, email).
		Count(&count).Error; err != nil {
		return security.OpFailed(security.OpInvite, err)
	}
	if count > 0 {
		return security.OpFailed(security.OpInvite, errors.New("duplicate member"))
	}
	if err := db.Model(&models.ProjectInvitation{}).
		Where("project_id = ? AND email = ? AND status = ?", project.Id, email, models.InvitationPending).
		Count(&count).Error; err != nil {
		return security.OpFailed(security.OpInvite, err)
	}
	if count > 0 {
		return security.OpFailed(security.OpInvite, errors.New("duplicate invitation"))
	}

	invitation := models.ProjectInvitation{
		ProjectId: project.Id,
		Email:     email,
		Role:      role,
		InvitedBy: userID,
	}
	if err := db.Create(&invitation).Error; err != nil {
		return security.OpFailed(security.OpInvite, err)
	}
	if err := security.LogInvitation(db, project.Id, userID, email, role, c.IP(), c.Get("User-Agent")); err != nil {
		return security.OpFailed(security.OpInvite, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message":    "Invitation sent.",
		"invitation": invitation,
	})
}

func ChangeMemberRole(c *fiber.Ctx) error {
	var input RoleChangeInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return security.OpFailed(security.OpRoleChange, err)
	}

	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return security.OpFailed(security.OpRoleChange, err)
	}

	project, actorRole, err := loadProjectForMember(db, c.Params("id"), userID)
	if err != nil {
		return security.OpFailed(security.OpRoleChange, err)
	}
	if actorRole != models.RoleOwner && actorRole != models.RoleAdmin {
		return security.OpFailed(security.OpRoleChange, errors.New("insufficient role"))
	}

	var target models.ProjectMember
	if err := db.Preload("User").
		Where("id = ? AND project_id = ?", c.Params("memberId"), project.Id).
		First(&target).Error; err != nil {
		return security.OpFailed(security.OpRoleChange, err)
	}
	if target.Role == models.RoleOwner {
		return security.OpFailed(security.OpRoleChange, errors.New("principal protected"))
	}
	if target.UserId == userID {
		return security.OpFailed(security.OpRoleChange, errors.New("self role change"))
	}

	oldRole := target.Role
	if err := db.Model(&target).Update("role", input.Role).Error; err != nil {
		return security.OpFailed(security.OpRoleChange, err)
	}
	if err := security.LogRoleChange(db, project.Id, userID, target.User.Email, oldRole, input.Role, c.IP(), c.Get("User-Agent")); err != nil {
		return security.OpFailed(security.OpRoleChange, err)
	}

	return c.JSON(fiber.Map{"message": "Role updated."})
}

func RemoveMember(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return security.OpFailed(security.OpRemove, err)
	}

	project, actorRole, err := loadProjectForMember(db, c.Params("id"), userID)
	if err != nil {
		return security.OpFailed(security.OpRemove, err)
	}
	if actorRole != models.RoleOwner && actorRole != models.RoleAdmin {
		return security.OpFailed(security.OpRemove, errors.New("insufficient role"))
	}

	var target models.ProjectMember
	if err := db.Preload("User").
		Where("id = ? AND project_id = ?", c.Params("memberId"), project.Id).
		First(&target).Error; err != nil {
		return security.OpFailed(security.OpRemove, err)
	}
	if target.Role == models.RoleOwner {
		return security.OpFailed(security.OpRemove, errors.New("principal protected"))
	}
	if target.UserId == userID {
		return security.OpFailed(security.OpRemove, errors.New("self removal"))
	}

	if err := db.Delete(&target).Error; err != nil {
		return security.OpFailed(security.OpRemove, err)
	}
	if err := security.LogRemoval(db, project.Id, userID, target.User.Email, c.IP(), c.Get("User-Agent")); err != nil {
		return security.OpFailed(security.OpRemove, err)
	}

	return c.JSON(fiber.Map{"message": "Member removed."})
}

func ListMembers(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	if _, _, err := loadProjectForMember(db, c.Params("id"), userID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}

	var members []models.ProjectMember
	if err := db.Preload("User").
		Where("project_id = ?", c.Params("id")).
		Order("created_at").Find(&members).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list members")
	}
	return c.JSON(fiber.Map{"members": members})
}

// ListMyInvitations shows the caller's pending invitations across projects.
func ListMyInvitations(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var invitations []models.ProjectInvitation
	if err := db.Preload("Project").
		Where("email = ? AND status = ?", utils.NormalizeEmail(email), models.InvitationPending).
		Order("created_at DESC").Find(&invitations).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list invitations")
	}
	return c.JSON(fiber.Map{"invitations": invitations})
}

func AcceptInvitation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	email, _ := c.Locals("email").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return security.OpFailed(security.OpAccept, err)
	}

	invitation, err := pendingInvitationFor(db, c.Params("id"), email)
	if err != nil {
		return security.OpFailed(security.OpAccept, err)
	}

	member := models.ProjectMember{
		ProjectId: invitation.ProjectId,
		UserId:    userID,
		Role:      invitation.Role,
	}
	if err := db.Create(&member).Error; err != nil {
		return security.OpFailed(security.OpAccept, err)
	}
	if err := db.Model(&invitation).Update("status", models.InvitationAccepted).Error; err != nil {
		return security.OpFailed(security.OpAccept, err)
	}
	if err := security.LogAcceptance(db, invitation.ProjectId, userID, invitation.Email, c.IP(), c.Get("User-Agent")); err != nil {
		return security.OpFailed(security.OpAccept, err)
	}

	return c.JSON(fiber.Map{
		"message": "Invitation accepted.",
		"member":  member,
	})
}

func DeclineInvitation(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	email, _ := c.Locals("email").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return security.OpFailed(security.OpDecline, err)
	}

	invitation, err := pendingInvitationFor(db, c.Params("id"), email)
	if err != nil {
		return security.OpFailed(security.OpDecline, err)
	}

	if err := db.Model(&invitation).Update("status", models.InvitationDeclined).Error; err != nil {
		return security.OpFailed(security.OpDecline, err)
	}
	if err := security.LogDecline(db, invitation.ProjectId, userID, invitation.Email, c.IP(), c.Get("User-Agent")); err != nil {
		return security.OpFailed(security.OpDecline, err)
	}

	return c.JSON(fiber.Map{"message": "Invitation declined."})
}

// pendingInvitationFor loads a pending invitation by id, but only if it is
// addressed to the caller. A wrong id and someone else's invitation fail the
// same way.
func pendingInvitationFor(db *gorm.DB, invitationID, email string) (models.ProjectInvitation, error) {
	var invitation models.ProjectInvitation
	err := db.Where("id = ? AND email = ? AND status = ?",
		invitationID, utils.NormalizeEmail(email), models.InvitationPending).
		First(&invitation).Error
	return invitation, err
}
