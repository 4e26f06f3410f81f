package admin

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/whovivekshukla/dailype/app/config"
	"github.com/whovivekshukla/dailype/app/database"
)

// WipeDatabaseAPI drops and recreates the whole schema, discarding every
// manager and user unconditionally. There is deliberately no confirmation
// step or auth gate; deployments that expose this endpoint publicly must
// gate it upstream.
func WipeDatabaseAPI(c *fiber.Ctx) error {
	if err := database.WipeDatabase(config.GetDB()); err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Failed to wipe database"})
	}

	log.Println("Database wiped and recreated")
	return c.JSON(fiber.Map{"message": "Database wiped and recreated successfully"})
}
