package controllers

import (
	"planhub-backend/database"
	"planhub-backend/middlewares"
	"planhub-backend/models"
	"planhub-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type MaterialInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit" validate:"max=20"`
	UnitCost float64 `json:"unit_cost" validate:"gte=0"`
}

func CreateMaterial(c *fiber.Ctx) error {
	var input MaterialInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	project, _, err := loadProjectForMember(db, c.Params("id"), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}

	material := models.Material{
		ProjectId: project.Id,
		Name:      input.Name,
		Quantity:  input.Quantity,
		Unit:      input.Unit,
		UnitCost:  utils.Round2(input.UnitCost),
	}
	if err := db.Create(&material).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create material")
	}
	return c.Status(201).JSON(material)
}

func GetMaterials(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	if _, _, err := loadProjectForMember(db, c.Params("id"), userID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}

	var materials []models.Material
	if err := db.Where("project_id = ?", c.Params("id")).Order("name").Find(&materials).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list materials")
	}

	// Dashboard rollup: total cost across the bill of materials.
	var total float64
	for _, m := range materials {
		total += m.Quantity * m.UnitCost
	}
	return c.JSON(fiber.Map{
		"materials":  materials,
		"total_cost": utils.Round2(total),
	})
}

func DeleteMaterial(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	if _, _, err := loadProjectForMember(db, c.Params("id"), userID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "project unavailable")
	}

	res := db.Where("id = ? AND project_id = ?", c.Params("materialId"), c.Params("id")).Delete(&models.Material{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete material")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "material unavailable")
	}
	return c.JSON(fiber.Map{"message": "success"})
}
