package managers

import (
	"github.com/gofiber/fiber/v2"
)

func SetupManagersRoutes(app *fiber.App) {
	app.Post("/create_manager", CreateManagerAPI)
	app.Post("/get_managers", GetManagersAPI)
}
