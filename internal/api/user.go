package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

type UserHandler struct {
	db          *gorm.DB
	authService *service.AuthService
	toggles     *service.ToggleService
	recipes     *service.RecipeService
}

func NewUserHandler(db *gorm.DB, authService *service.AuthService, toggles *service.ToggleService, recipes *service.RecipeService) *UserHandler {
	return &UserHandler{
		db:          db,
		authService: authService,
		toggles:     toggles,
		recipes:     recipes,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	optional := middleware.OptionalAuthMiddleware(h.authService)
	authed := middleware.AuthMiddleware(h.authService)

	users := router.Group("/users")
	{
		users.GET("", optional, h.ListUsers)
		users.GET("/me", authed, h.Me)
		users.GET("/subscriptions", authed, h.ListSubscriptions)
		users.GET("/:id", optional, h.GetUser)
		users.POST("/:id/subscribe", authed, h.Subscribe)
		users.DELETE("/:id/subscribe", authed, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	var following map[uint]bool
	if userID, ok := middleware.UserID(c); ok {
		ids := make([]uint, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var err error
		if following, err = h.toggles.FollowingSet(c.Request.Context(), userID, ids); err != nil {
			writeServiceError(c, err)
			return
		}
	}

	out := make([]types.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(&u, following[u.ID])
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := idFromPath(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	isSubscribed := false
	if userID, exists := middleware.UserID(c); exists {
		set, err := h.toggles.FollowingSet(c.Request.Context(), userID, []uint{user.ID})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		isSubscribed = set[user.ID]
	}
	c.JSON(http.StatusOK, toUserResponse(user, isSubscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user, false))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	authorID, ok := idFromPath(c)
	if !ok {
		return
	}

	if _, err := h.toggles.Add(c.Request.Context(), userID, service.KindFollow, authorID); err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.subscriptionResponse(c, authorID, recipesLimit(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	authorID, ok := idFromPath(c)
	if !ok {
		return
	}

	if err := h.toggles.Remove(c.Request.Context(), userID, service.KindFollow, authorID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns the authors the caller follows, each with
// a window of their recipes and the total recipe count.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	follows, err := h.toggles.Following(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	limit := recipesLimit(c)
	out := make([]types.SubscriptionResponse, 0, len(follows))
	for _, follow := range follows {
		resp, err := h.subscriptionResponse(c, follow.AuthorID, limit)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		out = append(out, *resp)
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) subscriptionResponse(c *gin.Context, authorID uint, limit int) (*types.SubscriptionResponse, error) {
	author, err := h.authService.GetUser(c.Request.Context(), authorID)
	if err != nil {
		return nil, err
	}
	recipes, count, err := h.recipes.ListByAuthor(c.Request.Context(), authorID, limit)
	if err != nil {
		return nil, err
	}
	return &types.SubscriptionResponse{
		UserResponse: toUserResponse(author, true),
		Recipes:      toRecipeSummaries(recipes),
		RecipesCount: count,
	}, nil
}

func recipesLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("recipes_limit", "0"))
	return limit
}
