package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/whovivekshukla/dailype/app/config"
	"github.com/whovivekshukla/dailype/app/database"
	"github.com/whovivekshukla/dailype/app/routes/admin"
	"github.com/whovivekshukla/dailype/app/routes/managers"
	"github.com/whovivekshukla/dailype/app/routes/users"
)

// errorHandler keeps every error response in the same JSON shape the
// handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}

func main() {
	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Create tables and indexes if this is a fresh database
	if err := database.CreateSchema(config.GetDB()); err != nil {
		log.Fatal("Failed to create schema:", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(201).JSON(fiber.Map{"message": "Welcome to DailyPe Assignment!"})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := config.GetDB().Ping(); err != nil {
			return c.Status(503).JSON(fiber.Map{"status": "unhealthy", "message": "database ping failed"})
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// Routes
	users.SetupUsersRoutes(app)
	managers.SetupManagersRoutes(app)
	admin.SetupAdminRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})

	// Shut down cleanly on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	port := config.Getenv("PORT", "8080")
	log.Println("Server starting on :" + port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
	log.Println("Server exited")
}
