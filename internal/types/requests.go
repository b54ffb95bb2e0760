package types

import "encoding/json"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientAmount is one ingredient entry of a recipe write payload.
// Clients send ids and amounts either as numbers or as strings, so
// both fields are json.Number and the validation engine normalizes
// them.
type IngredientAmount struct {
	ID     json.Number `json:"id"`
	Amount json.Number `json:"amount"`
}

// RecipeRequest is the write model for recipe create and update. It
// carries raw references only; the read model is RecipeResponse.
type RecipeRequest struct {
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time"`
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []json.Number      `json:"tags"`
}

// RecipeFilters holds the listing query parameters. UserID is the
// authenticated caller, nil for anonymous requests.
type RecipeFilters struct {
	Name          string
	TagSlugs      []string
	AuthorID      *uint
	IsFavorited   bool
	IsInCart      bool
	UserID        *uint
	Limit, Offset int
}
