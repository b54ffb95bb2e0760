package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

// writeServiceError maps the service error taxonomy onto HTTP
// statuses. Composition failures are logged; nothing is retried.
func writeServiceError(c *gin.Context, err error) {
	var verrs *service.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs.Fields})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already exists"})
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot subscribe to yourself"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may modify this recipe"})
	case errors.Is(err, service.ErrCompositionFailed):
		log.Printf("recipe composition failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func toUserResponse(user *models.User, isSubscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func toTagResponses(tags []models.Tag) []types.TagResponse {
	out := make([]types.TagResponse, len(tags))
	for i, tag := range tags {
		out[i] = types.TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
	}
	return out
}

func toIngredientLines(lines []models.RecipeIngredient) []types.IngredientLine {
	out := make([]types.IngredientLine, len(lines))
	for i, line := range lines {
		out[i] = types.IngredientLine{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		}
	}
	return out
}

func toRecipeSummaries(recipes []models.Recipe) []types.RecipeSummary {
	out := make([]types.RecipeSummary, len(recipes))
	for i, r := range recipes {
		out[i] = types.RecipeSummary{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
	}
	return out
}

// buildRecipeResponses maps recipes to their read models, resolving
// the caller-dependent fields (is_favorited, is_in_shopping_cart,
// author is_subscribed) in three set queries. Anonymous callers get
// all three as false.
func buildRecipeResponses(ctx context.Context, toggles *service.ToggleService, userID *uint, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	var favorites, cart, following map[uint]bool
	if userID != nil && len(recipes) > 0 {
		var err error
		if favorites, err = toggles.FavoriteSet(ctx, *userID, recipeIDs); err != nil {
			return nil, err
		}
		if cart, err = toggles.CartSet(ctx, *userID, recipeIDs); err != nil {
			return nil, err
		}
		if following, err = toggles.FollowingSet(ctx, *userID, authorIDs); err != nil {
			return nil, err
		}
	}

	out := make([]types.RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = types.RecipeResponse{
			ID:               r.ID,
			Tags:             toTagResponses(r.Tags),
			Author:           toUserResponse(&r.Author, following[r.AuthorID]),
			Ingredients:      toIngredientLines(r.Ingredients),
			IsFavorited:      favorites[r.ID],
			IsInShoppingCart: cart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return out, nil
}
