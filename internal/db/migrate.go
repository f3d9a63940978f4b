package db

import (
	"fmt"

	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the store owns. Parents
// come before children so the foreign keys can be created in one pass.
// The migrate command and the test helpers share this list.
func AutoMigrate(database *gorm.DB) error {
	err := database.AutoMigrate(
		&gormModels.User{},
		&gormModels.PINPreference{},
		&gormModels.ServiceRequest{},
		&gormModels.RequestSequence{},
		&gormModels.RequestView{},
		&gormModels.Shortlist{},
		&gormModels.Match{},
		&gormModels.Message{},
		&gormModels.FinancialClaim{},
		&gormModels.ClaimItem{},
		&gormModels.Receipt{},
		&gormModels.Dispute{},
		&gormModels.OTPToken{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
