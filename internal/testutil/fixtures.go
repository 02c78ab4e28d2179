package testutil

import (
	"testing"

	"Foodgram-Backend/entities"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const Password = "s3cret-pass"

func CreateUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
		Password:  string(hash),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateTag(t *testing.T, db *gorm.DB, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: slug, Color: "#E26C2D", Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ing := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// CreateRecipe stores a recipe directly, bypassing the service rules.
func CreateRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, tags []*entities.Tag, amounts map[*entities.Ingredient]int) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "mix and cook",
		CookingTime: 10,
		ImageURL:    "recipes/" + name + ".png",
		Tags:        tags,
	}
	for ing, amount := range amounts {
		r.Ingredients = append(r.Ingredients, &entities.RecipeIngredient{IngredientID: ing.ID, Amount: amount})
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// Catalog is a small set of tags and ingredients for HTTP level tests.
type Catalog struct {
	Tags        []*entities.Tag
	Ingredients []*entities.Ingredient
}

func NewCatalog(t *testing.T, db *gorm.DB) *Catalog {
	t.Helper()
	return &Catalog{
		Tags: []*entities.Tag{
			CreateTag(t, db, "breakfast"),
			CreateTag(t, db, "lunch"),
		},
		Ingredients: []*entities.Ingredient{
			CreateIngredient(t, db, "flour", "g"),
			CreateIngredient(t, db, "milk", "ml"),
		},
	}
}
