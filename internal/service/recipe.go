package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// RecipeService composes recipes with their ingredient lines and tag
// associations, and answers listing queries.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create inserts the recipe, its ingredient lines and its tag
// associations as one transaction. A reference to a missing catalog
// row surfaces as ValidationErrors; any other mid-sequence failure
// rolls everything back and wraps ErrCompositionFailed.
func (s *RecipeService) Create(ctx context.Context, authorID uint, input *ValidatedRecipe) (*models.Recipe, error) {
	recipe := &models.Recipe{
		Name:        input.Name,
		Text:        input.Text,
		Image:       input.Image,
		CookingTime: input.CookingTime,
		AuthorID:    authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := s.resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := s.checkIngredientsExist(tx, input.Ingredients); err != nil {
			return err
		}

		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		if err := s.createLines(tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Append(&tags)
	})
	if err != nil {
		return nil, composeErr(err)
	}

	return s.Get(ctx, recipe.ID)
}

// Update fully replaces the recipe's fields, tag associations and
// ingredient lines. Callers must submit the complete desired set on
// every update; nothing is merged.
func (s *RecipeService) Update(ctx context.Context, recipe *models.Recipe, input *ValidatedRecipe) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := s.resolveTags(tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := s.checkIngredientsExist(tx, input.Ingredients); err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         input.Name,
			"text":         input.Text,
			"image":        input.Image,
			"cooking_time": input.CookingTime,
		}
		if err := tx.Model(recipe).Updates(updates).Error; err != nil {
			return err
		}

		if err := s.createLines(tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Append(&tags)
	})
	if err != nil {
		return nil, composeErr(err)
	}

	return s.Get(ctx, recipe.ID)
}

// Get retrieves a recipe with its tags, lines and author resolved.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes matching the filters plus the unpaginated
// total. The is_favorited and is_in_shopping_cart filters require an
// authenticated user; for anonymous callers they match nothing.
func (s *RecipeService) List(ctx context.Context, f types.RecipeFilters) ([]models.Recipe, int64, error) {
	if (f.IsFavorited || f.IsInCart) && f.UserID == nil {
		return []models.Recipe{}, 0, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.Name != "" {
		query = query.Where("LOWER(recipes.name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if len(f.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if f.IsFavorited {
		query = query.Where("recipes.id IN (?)",
			s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *f.UserID))
	}
	if f.IsInCart {
		query = query.Where("recipes.id IN (?)",
			s.db.Model(&models.CartItem{}).Select("recipe_id").Where("user_id = ?", *f.UserID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// Delete removes the recipe together with its lines, favorites and
// cart entries.
func (s *RecipeService) Delete(ctx context.Context, recipe *models.Recipe) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

// ListByAuthor returns the author's recipes, newest first, optionally
// capped. Used for the subscriptions listing.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, int64, error) {
	var total int64
	base := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (s *RecipeService) resolveTags(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Find(&tags, ids).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		verrs := NewValidationErrors()
		verrs.Add("tags", "one or more tags do not exist")
		return nil, verrs
	}
	return tags, nil
}

func (s *RecipeService) checkIngredientsExist(tx *gorm.DB, lines []ValidatedIngredient) error {
	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.IngredientID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		verrs := NewValidationErrors()
		verrs.Add("ingredients", "one or more ingredients do not exist")
		return verrs
	}
	return nil
}

func (s *RecipeService) createLines(tx *gorm.DB, recipeID uint, lines []ValidatedIngredient) error {
	rows := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		}
	}
	return tx.Create(&rows).Error
}

// composeErr keeps validation errors intact and wraps everything else
// as a composition failure.
func composeErr(err error) error {
	var verrs *ValidationErrors
	if errors.As(err, &verrs) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrCompositionFailed, err)
}
