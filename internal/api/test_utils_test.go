package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/router"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

// TestEnv holds the wired application against an in-memory database.
type TestEnv struct {
	DB          *gorm.DB
	Router      *gin.Engine
	AuthService *service.AuthService
}

// SetupTestEnv wires all handlers against a fresh test database.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	authService := service.NewAuthService(db, "test-secret")
	recipeService := service.NewRecipeService(db)
	toggleService := service.NewToggleService(db)
	shoppingListService := service.NewShoppingListService(db)

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(db, authService, toggleService, recipeService)
	recipeHandler := api.NewRecipeHandler(recipeService, toggleService, shoppingListService, authService, nil)
	tagHandler := api.NewTagHandler(db)
	ingredientHandler := api.NewIngredientHandler(db)

	r := router.SetupRouter(authHandler, userHandler, recipeHandler, tagHandler, ingredientHandler)

	return &TestEnv{
		DB:          db,
		Router:      r,
		AuthService: authService,
	}
}

// CreateUserAndToken creates a user and a valid token for them.
func (e *TestEnv) CreateUserAndToken(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	user := testhelpers.CreateUser(t, e.DB, username)
	token, err := e.AuthService.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

// PerformRequest performs an HTTP request without authentication.
func (e *TestEnv) PerformRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	return e.PerformRequestWithToken(method, path, body, "")
}

// PerformRequestWithToken performs an HTTP request with a Bearer token.
func (e *TestEnv) PerformRequestWithToken(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	e.Router.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
