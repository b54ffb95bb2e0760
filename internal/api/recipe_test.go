package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testhelpers"
)

func recipePayload(ingredientID, tagID uint) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 20,
		"ingredients": []map[string]interface{}{
			{"id": ingredientID, "amount": 200},
		},
		"tags": []uint{tagID},
	}
}

func TestCreateRecipeEndpoint(t *testing.T) {
	env := SetupTestEnv(t)
	_, token := env.CreateUserAndToken(t, "author")
	flour := testhelpers.CreateIngredient(t, env.DB, "flour", "g")
	tag := testhelpers.CreateTag(t, env.DB, "Dinner", "dinner")

	w := env.PerformRequestWithToken("POST", "/api/v1/recipes", recipePayload(flour.ID, tag.ID), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Pancakes", resp["name"])
	assert.Len(t, resp["ingredients"], 1)
	assert.Len(t, resp["tags"], 1)
	assert.Equal(t, false, resp["is_favorited"])
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	env := SetupTestEnv(t)
	flour := testhelpers.CreateIngredient(t, env.DB, "flour", "g")
	tag := testhelpers.CreateTag(t, env.DB, "Dinner", "dinner")

	w := env.PerformRequest("POST", "/api/v1/recipes", recipePayload(flour.ID, tag.ID))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeValidationErrors(t *testing.T) {
	env := SetupTestEnv(t)
	_, token := env.CreateUserAndToken(t, "author")

	payload := map[string]interface{}{
		"name":         "",
		"cooking_time": 0,
		"ingredients":  []map[string]interface{}{},
		"tags":         []uint{},
	}
	w := env.PerformRequestWithToken("POST", "/api/v1/recipes", payload, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "name")
	assert.Contains(t, resp.Errors, "cooking_time")
	assert.Contains(t, resp.Errors, "ingredients")
	assert.Contains(t, resp.Errors, "tags")
}

func TestUpdateRecipeOnlyAuthor(t *testing.T) {
	env := SetupTestEnv(t)
	author, _ := env.CreateUserAndToken(t, "author")
	_, otherToken := env.CreateUserAndToken(t, "other")
	flour := testhelpers.CreateIngredient(t, env.DB, "flour", "g")
	tag := testhelpers.CreateTag(t, env.DB, "Dinner", "dinner")
	recipe := testhelpers.CreateRecipe(t, env.DB, author, "Pancakes",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 200})

	w := env.PerformRequestWithToken("PATCH", "/api/v1/recipes/"+itoa(recipe.ID), recipePayload(flour.ID, tag.ID), otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	env := SetupTestEnv(t)
	author, token := env.CreateUserAndToken(t, "author")
	flour := testhelpers.CreateIngredient(t, env.DB, "flour", "g")
	tag := testhelpers.CreateTag(t, env.DB, "Dinner", "dinner")
	recipe := testhelpers.CreateRecipe(t, env.DB, author, "Pancakes",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 200})

	w := env.PerformRequestWithToken("DELETE", "/api/v1/recipes/"+itoa(recipe.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.PerformRequest("GET", "/api/v1/recipes/"+itoa(recipe.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesAnonymous(t *testing.T) {
	env := SetupTestEnv(t)
	author, _ := env.CreateUserAndToken(t, "author")
	flour := testhelpers.CreateIngredient(t, env.DB, "flour", "g")
	tag := testhelpers.CreateTag(t, env.DB, "Dinner", "dinner")
	testhelpers.CreateRecipe(t, env.DB, author, "Pancakes",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 200})

	w := env.PerformRequest("GET", "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int                      `json:"count"`
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, false, resp.Results[0]["is_favorited"])
}

// Anonymous callers asking for favorited-only recipes get an empty
// set, not an error.
func TestListRecipesFavoritedAnonymousEmpty(t *testing.T) {
	env := SetupTestEnv(t)
	author, _ := env.CreateUserAndToken(t, "author")
	flour := testhelpers.CreateIngredient(t, env.DB, "flour", "g")
	tag := testhelpers.CreateTag(t, env.DB, "Dinner", "dinner")
	testhelpers.CreateRecipe(t, env.DB, author, "Pancakes",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 200})

	w := env.PerformRequest("GET", "/api/v1/recipes?is_favorited=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int                      `json:"count"`
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
	assert.Empty(t, resp.Results)
}

func TestFavoriteToggleEndpoints(t *testing.T) {
	env := SetupTestEnv(t)
	author, _ := env.CreateUserAndToken(t, "author")
	_, token := env.CreateUserAndToken(t, "reader")
	flour := testhelpers.CreateIngredient(t, env.DB, "flour", "g")
	tag := testhelpers.CreateTag(t, env.DB, "Dinner", "dinner")
	recipe := testhelpers.CreateRecipe(t, env.DB, author, "Pancakes",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 200})

	path := "/api/v1/recipes/" + itoa(recipe.ID) + "/favorite"

	w := env.PerformRequestWithToken("POST", path, nil, token)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.PerformRequestWithToken("POST", path, nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.PerformRequestWithToken("DELETE", path, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.PerformRequestWithToken("DELETE", path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	env := SetupTestEnv(t)
	author, _ := env.CreateUserAndToken(t, "author")
	reader, token := env.CreateUserAndToken(t, "reader")
	flour := testhelpers.CreateIngredient(t, env.DB, "flour", "g")
	tag := testhelpers.CreateTag(t, env.DB, "Dinner", "dinner")
	pancakes := testhelpers.CreateRecipe(t, env.DB, author, "Pancakes",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 200})
	cake := testhelpers.CreateRecipe(t, env.DB, author, "Cake",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 300})

	require.NoError(t, env.DB.Create(&models.CartItem{UserID: reader.ID, RecipeID: pancakes.ID}).Error)
	require.NoError(t, env.DB.Create(&models.CartItem{UserID: reader.ID, RecipeID: cake.ID}).Error)

	w := env.PerformRequestWithToken("GET", "/api/v1/recipes/download_shopping_cart", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.txt")
	assert.Contains(t, w.Body.String(), "1. Flour (g) - 500")
}
