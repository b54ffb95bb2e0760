package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// ShoppingItem is one aggregated ingredient row of a shopping list.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListService aggregates the ingredient lines of every recipe
// in a user's cart into one deduplicated, summed list and renders it
// as a printable text document.
type ShoppingListService struct {
	db *gorm.DB
}

// NewShoppingListService creates a new ShoppingListService instance
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums ingredient amounts across all cart recipes, grouped
// by ingredient. Ordering is by first-encountered line, so a fixed
// cart always renders the same document.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uint) ([]ShoppingItem, error) {
	var items []ShoppingItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN cart_items ON cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("cart_items.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("MIN(recipe_ingredients.id) ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Document rendering. One ingredient per line, a title on top, fixed
// page height with form-feed page breaks. Lines are assumed short
// enough that no wrapping is needed.
const documentPageLines = 40

// RenderDocument formats aggregated items as a paginated plain-text
// document. An empty item list yields the title alone.
func RenderDocument(title string, items []ShoppingItem) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	linesOnPage := 2
	for i, item := range items {
		if linesOnPage >= documentPageLines {
			b.WriteString("\f")
			linesOnPage = 0
		}
		fmt.Fprintf(&b, "%d. %s (%s) - %d\n",
			i+1, capitalize(item.Name), item.MeasurementUnit, item.Amount)
		linesOnPage++
	}
	return b.String()
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
