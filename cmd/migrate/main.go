package main

import (
	"log"

	"gymbro-be/internal/config"
	"gymbro-be/internal/model"
	"gymbro-be/pkg/database"
)

func main() {
	cfg := config.Load()
	opts := cfg.DatabaseOptions()
	if opts == nil {
		log.Fatal("Error: STORAGE_DRIVER=memory has nothing to migrate")
	}
	opts.Verbose = true

	db, err := database.Open(*opts)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// Ids are generated by the application, so no extensions are needed.
	models := model.All()
	log.Printf("Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
