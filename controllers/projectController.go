package controllers

import (
	"errors"

	"planhub-backend/database"
	"planhub-backend/middlewares"
	"planhub-backend/models"
	"planhub-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProjectInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	CategoryId  *uint   `json:"category_id"`
	Theme       *string `json:"theme"` // raw JSON blob from the UI theming picker
}

type ProjectPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	CategoryId  *uint   `json:"category_id"`
	Archived    *bool   `json:"archived"`
}

func CreateProject(c *fiber.Ctx) error {
	var input ProjectInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerId:     userID,
		CategoryId:  input.CategoryId,
	}
	if input.Theme != nil {
		project.Theme = []byte(*input.Theme)
	}
	if err := db.Create(&project).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create project")
	}

	// The creator is the project's first member.
	member := models.ProjectMember{
		ProjectId: project.Id,
		UserId:    userID,
		Role:      models.RoleOwner,
	}
	if err := db.Create(&member).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create project membership")
	}

	return c.Status(201).JSON(project)
}

func GetProjects(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var projects []models.Project
	if err := db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Find(&projects).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list projects")
	}
	return c.JSON(fiber.Map{"projects": projects})
}

func GetProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	project, _, err := loadProjectForMember(db, c.Params("id"), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}
	return c.JSON(project)
}

func UpdateProject(c *fiber.Ctx) error {
	var patch ProjectPatch
	if err := middlewares.BindAndValidate(c, &patch); err != nil {
		return err
	}
	utils.TrimStrings(&patch)

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

	updates := utils.UpdatesFromPtrDTO(&patch)
	if len(updates) == 0 {
		return c.JSON(project)
	}
	if err := db.Model(&project).Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not update project")
	}
	return c.JSON(project)
}

// loadProjectForMember fetches a project and the requesting user's role in it.
// Non-members get gorm.ErrRecordNotFound, indistinguishable from a missing
// project.
func loadProjectForMember(db *gorm.DB, projectID, userID string) (models.Project, string, error) {
	var project models.Project
	if err := db.Where("id = ?", projectID).First(&project).Error; err != nil {
		return project, "", err
	}
	var member models.ProjectMember
	if err := db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return project, "", gorm.ErrRecordNotFound
		}
		return project, "", err
	}
	return project, member.Role, nil
}
