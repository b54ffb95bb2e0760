package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testhelpers"
)

func TestAggregateSumsSharedIngredients(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewShoppingListService(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	reader := testhelpers.CreateUser(t, db, "reader")
	tag := testhelpers.CreateTag(t, db, "Dinner", "dinner")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	sugar := testhelpers.CreateIngredient(t, db, "sugar", "g")

	pancakes := testhelpers.CreateRecipe(t, db, author, "Pancakes",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 200})
	cake := testhelpers.CreateRecipe(t, db, author, "Cake",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 300, sugar: 50})

	require.NoError(t, db.Create(&models.CartItem{UserID: reader.ID, RecipeID: pancakes.ID}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: reader.ID, RecipeID: cake.ID}).Error)

	items, err := svc.Aggregate(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// flour appears once with both amounts summed, first-encountered
	// ingredient first
	assert.Equal(t, "flour", items[0].Name)
	assert.Equal(t, "g", items[0].MeasurementUnit)
	assert.Equal(t, 500, items[0].Amount)
	assert.Equal(t, "sugar", items[1].Name)
	assert.Equal(t, 50, items[1].Amount)
}

func TestAggregateIgnoresOtherUsersCarts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewShoppingListService(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	reader := testhelpers.CreateUser(t, db, "reader")
	other := testhelpers.CreateUser(t, db, "other")
	tag := testhelpers.CreateTag(t, db, "Dinner", "dinner")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")

	pancakes := testhelpers.CreateRecipe(t, db, author, "Pancakes",
		[]*models.Tag{tag}, map[*models.Ingredient]int{flour: 200})

	require.NoError(t, db.Create(&models.CartItem{UserID: other.ID, RecipeID: pancakes.ID}).Error)

	items, err := svc.Aggregate(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAggregateEmptyCart(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewShoppingListService(db)

	reader := testhelpers.CreateUser(t, db, "reader")

	items, err := svc.Aggregate(context.Background(), reader.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRenderDocumentFormat(t *testing.T) {
	doc := RenderDocument("Shopping list", []ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 3},
	})

	lines := strings.Split(doc, "\n")
	assert.Equal(t, "Shopping list", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "1. Flour (g) - 500", lines[2])
	assert.Equal(t, "2. Eggs (pcs) - 3", lines[3])
}

func TestRenderDocumentEmptyCart(t *testing.T) {
	doc := RenderDocument("Shopping list", nil)

	assert.Equal(t, "Shopping list\n\n", doc)
	assert.NotContains(t, doc, "1.")
}

func TestRenderDocumentPaginates(t *testing.T) {
	items := make([]ShoppingItem, 100)
	for i := range items {
		items[i] = ShoppingItem{Name: "ingredient", MeasurementUnit: "g", Amount: i + 1}
	}

	doc := RenderDocument("Shopping list", items)
	pages := strings.Split(doc, "\f")
	assert.Greater(t, len(pages), 1)

	// pages after the first hold exactly a page worth of lines
	secondPage := strings.Split(strings.TrimRight(pages[1], "\n"), "\n")
	assert.Len(t, secondPage, documentPageLines)
}
