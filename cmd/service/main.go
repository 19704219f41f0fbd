package main

import (
	"log"

	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/service"
)

// Usage example on the command line:
// > CONTACTS_PORT=8080 CONTACTS_DATABASE_USER=dirk CONTACTS_DATABASE_PASSWORD=bullo92 GIN_MODE=release go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("could not load configuration: ", err)
	}
	sqlDB := service.CreateDatabase(cfg.Database)
	service.SetupDatabaseWrapper(sqlDB)
	router := service.SetupHttpRouter(cfg.HTTPLogging)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
