package main

import (
	"fmt"
	"log"

	"fiber-wms/config"
	"fiber-wms/controllers/idgen"
	"fiber-wms/database"
	"fiber-wms/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()

	app := fiber.New()

	database.EnsureDatabaseExists(config.DBName)

	db, err := database.OpenMainDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app)
	routes.SetupWarehouseRoutes(app)
	routes.SetupItemRoutes(app)
	routes.SetupUomRoutes(app)
	routes.SetupPartnerRoutes(app)
	routes.SetupLocationRoutes(app)
	routes.SetupReceiptRoutes(app)
	routes.SetupCountRoutes(app)

	port := config.APP_PORT
	fmt.Println("🚀 Server listening on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
