package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

type RecipeHandler struct {
	recipes       *service.RecipeService
	toggles       *service.ToggleService
	shoppingLists *service.ShoppingListService
	authService   *service.AuthService
	createLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	toggles *service.ToggleService,
	shoppingLists *service.ShoppingListService,
	authService *service.AuthService,
	createLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		toggles:       toggles,
		shoppingLists: shoppingLists,
		authService:   authService,
		createLimiter: createLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	optional := middleware.OptionalAuthMiddleware(h.authService)
	authed := middleware.AuthMiddleware(h.authService)

	createChain := []gin.HandlerFunc{authed}
	if h.createLimiter != nil {
		createChain = append(createChain, h.createLimiter.RateLimitMiddleware())
	}
	createChain = append(createChain, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/download_shopping_cart", authed, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.POST("", createChain...)
		recipes.PATCH("/:id", authed, h.UpdateRecipe)
		recipes.DELETE("/:id", authed, h.DeleteRecipe)
		recipes.POST("/:id/favorite", authed, h.AddFavorite)
		recipes.DELETE("/:id/favorite", authed, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", authed, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", authed, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filters := types.RecipeFilters{
		Name:     c.Query("name"),
		TagSlugs: c.QueryArray("tags"),
	}

	if userID, ok := middleware.UserID(c); ok {
		filters.UserID = &userID
	}
	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "author must be a numeric id"})
			return
		}
		authorID := uint(id)
		filters.AuthorID = &authorID
	}
	filters.IsFavorited = boolQuery(c, "is_favorited")
	filters.IsInCart = boolQuery(c, "is_in_shopping_cart")
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	recipes, total, err := h.recipes.List(c.Request.Context(), filters)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	responses, err := buildRecipeResponses(c.Request.Context(), h.toggles, filters.UserID, recipes)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": responses,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, ok := h.recipeFromPath(c)
	if !ok {
		return
	}

	var userID *uint
	if id, exists := middleware.UserID(c); exists {
		userID = &id
	}

	responses, err := buildRecipeResponses(c.Request.Context(), h.toggles, userID, []models.Recipe{*recipe})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses[0])
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input, err := service.ValidateRecipe(req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	responses, err := buildRecipeResponses(c.Request.Context(), h.toggles, &userID, []models.Recipe{*recipe})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, responses[0])
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	recipe, ok := h.recipeFromPath(c)
	if !ok {
		return
	}
	if recipe.AuthorID != userID {
		writeServiceError(c, service.ErrNotAuthor)
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input, err := service.ValidateRecipe(req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	updated, err := h.recipes.Update(c.Request.Context(), recipe, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	responses, err := buildRecipeResponses(c.Request.Context(), h.toggles, &userID, []models.Recipe{*updated})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses[0])
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	recipe, ok := h.recipeFromPath(c)
	if !ok {
		return
	}
	if recipe.AuthorID != userID {
		writeServiceError(c, service.ErrNotAuthor)
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), recipe); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.toggleAdd(c, service.KindFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.toggleRemove(c, service.KindFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.toggleAdd(c, service.KindCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.toggleRemove(c, service.KindCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	items, err := h.shoppingLists.Aggregate(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	doc := service.RenderDocument("Shopping list", items)
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

func (h *RecipeHandler) toggleAdd(c *gin.Context, kind service.MembershipKind) {
	userID, _ := middleware.UserID(c)
	recipeID, ok := idFromPath(c)
	if !ok {
		return
	}

	if _, err := h.toggles.Add(c.Request.Context(), userID, kind, recipeID); err != nil {
		writeServiceError(c, err)
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), recipeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	})
}

func (h *RecipeHandler) toggleRemove(c *gin.Context, kind service.MembershipKind) {
	userID, _ := middleware.UserID(c)
	recipeID, ok := idFromPath(c)
	if !ok {
		return
	}

	if err := h.toggles.Remove(c.Request.Context(), userID, kind, recipeID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) recipeFromPath(c *gin.Context) (*models.Recipe, bool) {
	id, ok := idFromPath(c)
	if !ok {
		return nil, false
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return recipe, true
}

func idFromPath(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

func boolQuery(c *gin.Context, name string) bool {
	v := c.Query(name)
	return v == "1" || v == "true"
}
