package database

import (
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// Migrate brings the schema up to date for all entities. Composite
// unique indexes on the membership tables double as the backstop for
// duplicate-add races.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Follow{},
		&models.Favorite{},
		&models.CartItem{},
	)
}
