package admin

import (
	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	app.Post("/wipe_database", WipeDatabaseAPI)
}
