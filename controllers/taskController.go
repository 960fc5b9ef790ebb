package controllers

import (
	"time"

	"planhub-backend/database"
	"planhub-backend/middlewares"
	"planhub-backend/models"
	"planhub-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type TaskInput struct {
	Title       string     `json:"title" validate:"required,min=1,max=300"`
	Description string     `json:"description" validate:"max=5000"`
	Status      string     `json:"status" validate:"omitempty,oneof=open in_progress done"`
	AssigneeId  *string    `json:"assignee_id" validate:"omitempty,uuid4"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskPatch struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=open in_progress done"`
	AssigneeId  *string    `json:"assignee_id" validate:"omitempty,uuid4"`
	DueDate     *time.Time `json:"due_date"`
}

func CreateTask(c *fiber.Ctx) error {
	var input TaskInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.TrimStrings(&input)

	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	project, _, err := loadProjectForMember(db, c.Params("id"), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}

	task := models.Task{
		ProjectId:   project.Id,
		Title:       input.Title,
		Description: input.Description,
		AssigneeId:  input.AssigneeId,
		DueDate:     input.DueDate,
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if err := db.Create(&task).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create task")
	}
	return c.Status(201).JSON(task)
}

func GetTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	if _, _, err := loadProjectForMember(db, c.Params("id"), userID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}

	var tasks []models.Task
	if err := db.Where("project_id = ?", c.Params("id")).Order("created_at").Find(&tasks).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list tasks")
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

func UpdateTask(c *fiber.Ctx) error {
	var patch TaskPatch
	if err := middlewares.BindAndValidate(c, &patch); err != nil {
		return err
	}

	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	if _, _, err := loadProjectForMember(db, c.Params("id"), userID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}

	updates := utils.UpdatesFromPtrDTO(&patch)
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"message": "nothing to update"})
	}
	res := db.Model(&models.Task{}).
		Where("id = ? AND project_id = ?", c.Params("taskId"), c.Params("id")).
		Updates(updates)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not update task")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "task unavailable")
	}
	return c.JSON(fiber.Map{"message": "success"})
}

func DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	if _, _, err := loadProjectForMember(db, c.Params("id"), userID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}

	res := db.Where("id = ? AND project_id = ?", c.Params("taskId"), c.Params("id")).Delete(&models.Task{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete task")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "task unavailable")
	}
	return c.JSON(fiber.Map{"message": "success"})
}
