package managers

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"github.com/whovivekshukla/dailype/app/config"
	"github.com/whovivekshukla/dailype/app/database"
	"github.com/whovivekshukla/dailype/app/models"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

func CreateManagerAPI(c *fiber.Ctx) error {
	type CreateManagerRequest struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}

	var req CreateManagerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid request"})
	}

	if req.FullName == "" {
		return c.Status(400).JSON(fiber.Map{"message": "Full name is required"})
	}

	if !emailPattern.MatchString(req.Email) {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid email address"})
	}

	db := config.GetDB()

	// Emails are unique across every manager, retired ones included.
	exists, err := database.ManagerEmailExists(db, req.Email)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to check email"})
	}
	if exists {
		return c.Status(400).JSON(fiber.Map{"message": "Manager with the same email already exists"})
	}

	manager := &models.Manager{
		FullName: req.FullName,
		Email:    req.Email,
	}
	if err := database.CreateManager(db, manager); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return c.Status(400).JSON(fiber.Map{"message": "Manager with the same email already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"message": "Failed to create manager"})
	}

	return c.Status(201).JSON(manager)
}

func GetManagersAPI(c *fiber.Ctx) error {
	managers, err := database.GetActiveManagers(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to fetch managers"})
	}

	if len(managers) == 0 {
		return c.JSON(fiber.Map{"managers": managers})
	}
	return c.JSON(managers)
}
