package service

import (
	"strconv"

	"github.com/platefeed/backend/internal/types"
)

const maxRecipeNameLength = 200

// ValidatedIngredient is a normalized ingredient entry: a resolvable
// catalog id and a positive amount.
type ValidatedIngredient struct {
	IngredientID uint
	Amount       int
}

// ValidatedRecipe is the normalized, typed form of a recipe write
// payload. Only the composition service consumes it.
type ValidatedRecipe struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Ingredients []ValidatedIngredient
	TagIDs      []uint
}

// ValidateRecipe checks a raw recipe payload and returns its
// normalized form. All field errors are collected into one
// ValidationErrors value rather than failing on the first problem.
// The check is pure: catalog existence of the referenced ids is left
// to the composition transaction.
func ValidateRecipe(req types.RecipeRequest) (*ValidatedRecipe, error) {
	verrs := NewValidationErrors()
	out := &ValidatedRecipe{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
	}

	if req.Name == "" {
		verrs.Add("name", "name is required")
	} else if len([]rune(req.Name)) > maxRecipeNameLength {
		verrs.Add("name", "name must be at most 200 characters")
	}

	if req.CookingTime < 1 {
		verrs.Add("cooking_time", "cooking time must be at least 1 minute")
	}

	if len(req.Ingredients) == 0 {
		verrs.Add("ingredients", "add at least one ingredient")
	}
	seen := make(map[uint]bool, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		id, err := strconv.ParseUint(ing.ID.String(), 10, 64)
		if err != nil {
			verrs.Add("ingredients", "ingredient id must be a number")
			continue
		}
		if seen[uint(id)] {
			verrs.Add("ingredients", "ingredients must not repeat within a recipe")
			continue
		}
		seen[uint(id)] = true

		amount, err := strconv.Atoi(ing.Amount.String())
		if err != nil {
			verrs.Add("ingredients", "ingredient amount must be a number")
			continue
		}
		if amount < 1 {
			verrs.Add("ingredients", "ingredient amount must be at least 1")
			continue
		}
		out.Ingredients = append(out.Ingredients, ValidatedIngredient{
			IngredientID: uint(id),
			Amount:       amount,
		})
	}

	if len(req.Tags) == 0 {
		verrs.Add("tags", "add at least one tag")
	}
	seenTags := make(map[uint]bool, len(req.Tags))
	for _, tag := range req.Tags {
		id, err := strconv.ParseUint(tag.String(), 10, 64)
		if err != nil {
			verrs.Add("tags", "tag id must be a number")
			continue
		}
		if seenTags[uint(id)] {
			verrs.Add("tags", "tags must not repeat")
			continue
		}
		seenTags[uint(id)] = true
		out.TagIDs = append(out.TagIDs, uint(id))
	}

	if !verrs.Empty() {
		return nil, verrs
	}
	return out, nil
}
