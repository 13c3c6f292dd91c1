package migration

import (
	"Go-Voting-Backend/entities"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"event", &entities.Event{}},
		{"category", &entities.Category{}},
		{"candidate", &entities.Candidate{}},
		{"package", &entities.Package{}},
		{"point purchase", &entities.PointPurchase{}},
		{"package history", &entities.PackageHistory{}},
		{"vote", &entities.Vote{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	log.Info("Database migration complete")
	return nil
}
