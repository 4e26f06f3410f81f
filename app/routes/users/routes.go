package users

import (
	"github.com/gofiber/fiber/v2"
)

func SetupUsersRoutes(app *fiber.App) {
	app.Post("/create_user", CreateUserAPI)
	app.Post("/get_users", GetUsersAPI)
	app.Post("/delete_user", DeleteUserAPI)
	app.Post("/update_user", UpdateUsersAPI)
	app.Get("/get_inactive_users", GetInactiveUsersAPI)
}
