package quiz

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/simp-lee/quizhub/internal/domain"
)

var (
	defaultCategories = []string{"General knowledge", "Science", "History", "Geography", "Sport", "Music", "Cinema"}
	defaultLevels     = []string{"Easy", "Medium", "Hard"}
)

// SeedReferenceData inserts the default categories and levels that are not
// present yet. It is safe to run on every start.
func SeedReferenceData(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	for _, label := range defaultCategories {
		if err := tx.Where(domain.Category{Label: label}).FirstOrCreate(&domain.Category{}).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", label, err)
		}
	}
	for _, label := range defaultLevels {
		if err := tx.Where(domain.Level{Label: label}).FirstOrCreate(&domain.Level{}).Error; err != nil {
			return fmt.Errorf("seed level %q: %w", label, err)
		}
	}
	return nil
}
