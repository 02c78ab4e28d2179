package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/cache"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/internal/utils/logger"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type fixture struct {
	db      *gorm.DB
	svc     RecipeService
	author  *entities.User
	other   *entities.User
	tags    []*entities.Tag
	salt    *entities.Ingredient
	sugar   *entities.Ingredient
	flour   *entities.Ingredient
	viewer  domain.Viewer
	visitor domain.Viewer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store, err := storage.NewLocalDisk(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	userService := user.NewUserService(user.NewUserRepository(db), jwt.NewJWTServiceWith("secret", time.Hour), cache.NewMemoryCache(0))
	f := &fixture{
		db:     db,
		svc:    NewRecipeService(NewRecipeRepository(db), userService, store, logger.Nop()),
		author: testutil.CreateUser(t, db, "chef"),
		other:  testutil.CreateUser(t, db, "guest"),
		tags: []*entities.Tag{
			testutil.CreateTag(t, db, "breakfast"),
			testutil.CreateTag(t, db, "dinner"),
		},
		salt:  testutil.CreateIngredient(t, db, "salt", "g"),
		sugar: testutil.CreateIngredient(t, db, "sugar", "g"),
		flour: testutil.CreateIngredient(t, db, "flour", "kg"),
	}
	f.viewer = domain.Viewer{UserID: f.author.ID}
	f.visitor = domain.Viewer{UserID: f.other.ID}
	return f
}

func (f *fixture) request(name string) domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Tags: []string{f.tags[0].ID.String(), f.tags[1].ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.salt.ID.String(), Amount: 5},
			{ID: f.flour.ID.String(), Amount: 2},
		},
		Name:        name,
		Image:       pixelPNG,
		Text:        "whisk everything",
		CookingTime: 15,
	}
}

func (f *fixture) countRecipes(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&entities.Recipe{}).Count(&n).Error)
	return n
}

func TestCreateRecipeReflectsPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Pancakes"))
	require.NoError(t, err)

	require.Equal(t, "Pancakes", res.Name)
	require.Equal(t, 15, res.CookingTime)
	require.Equal(t, f.author.ID.String(), res.Author.ID)
	require.False(t, res.Author.IsSubscribed)
	require.False(t, res.IsFavorited)
	require.False(t, res.IsInShoppingCart)
	require.True(t, strings.HasPrefix(res.Image, "http://localhost/media/recipes/"))

	slugs := []string{}
	for _, tg := range res.Tags {
		slugs = append(slugs, tg.Slug)
	}
	require.ElementsMatch(t, []string{"breakfast", "dinner"}, slugs)

	amounts := map[string]int{}
	for _, ri := range res.Ingredients {
		amounts[ri.Name+"/"+ri.MeasurementUnit] = ri.Amount
	}
	require.Equal(t, map[string]int{"salt/g": 5, "flour/kg": 2}, amounts)
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tagID := f.tags[0].ID.String()

	tests := []struct {
		name    string
		mutate  func(r *domain.CreateRecipeRequest)
		wantErr error
	}{
		{
			name:    "no tags",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Tags = nil },
			wantErr: domain.ErrNoTags,
		},
		{
			name:    "repeated tag",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Tags = []string{tagID, tagID} },
			wantErr: domain.ErrDuplicateTag,
		},
		{
			name:    "unknown tag",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Tags = []string{tagID, uuid.NewString()} },
			wantErr: domain.ErrUnknownTag,
		},
		{
			name:    "no ingredients",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Ingredients = nil },
			wantErr: domain.ErrNoIngredients,
		},
		{
			name: "repeated ingredient",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients = []domain.RecipeIngredientRequest{
					{ID: f.salt.ID.String(), Amount: 1},
					{ID: f.salt.ID.String(), Amount: 2},
				}
			},
			wantErr: domain.ErrDuplicateIngredient,
		},
		{
			name: "unknown ingredient",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients = []domain.RecipeIngredientRequest{{ID: uuid.NewString(), Amount: 1}}
			},
			wantErr: domain.ErrUnknownIngredient,
		},
		{
			name:    "zero amount",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Ingredients[0].Amount = 0 },
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "amount too large",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Ingredients[0].Amount = domain.MaxIngredientAmount + 1 },
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "zero cooking time",
			mutate:  func(r *domain.CreateRecipeRequest) { r.CookingTime = 0 },
			wantErr: domain.ErrInvalidCookingTime,
		},
		{
			name:    "blank name",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Name = "   " },
			wantErr: domain.ErrBlankRecipeName,
		},
		{
			name:    "not an image",
			mutate:  func(r *domain.CreateRecipeRequest) { r.Image = "data:text/plain;base64,aGVsbG8=" },
			wantErr: domain.ErrInvalidImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("Rejected")
			tt.mutate(&req)
			_, err := f.svc.CreateRecipe(ctx, f.viewer, req)
			require.ErrorIs(t, err, tt.wantErr)
			require.Zero(t, f.countRecipes(t))
		})
	}
}

func TestCreateRecipeNameIsUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Soup"))
	require.NoError(t, err)
	_, err = f.svc.CreateRecipe(ctx, f.visitor, f.request("Soup"))
	require.ErrorIs(t, err, domain.ErrRecipeNameTaken)
	require.EqualValues(t, 1, f.countRecipes(t))
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRecipe(ctx, f.viewer, domain.CreateRecipeRequest{
		Tags:        []string{f.tags[0].ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.salt.ID.String(), Amount: 5}},
		Name:        "Brine",
		Image:       pixelPNG,
		Text:        "dissolve",
		CookingTime: 1,
	})
	require.NoError(t, err)

	newName := "Syrup"
	updated, err := f.svc.UpdateRecipe(ctx, f.viewer, created.ID, domain.UpdateRecipeRequest{
		Tags:        []string{f.tags[1].ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.sugar.ID.String(), Amount: 3}},
		Name:        &newName,
	})
	require.NoError(t, err)

	require.Equal(t, "Syrup", updated.Name)
	require.Equal(t, "dissolve", updated.Text)
	require.Equal(t, created.Image, updated.Image)
	require.Len(t, updated.Tags, 1)
	require.Equal(t, "dinner", updated.Tags[0].Slug)
	require.Equal(t, []domain.RecipeIngredient{{
		ID:              f.sugar.ID.String(),
		Name:            "sugar",
		MeasurementUnit: "g",
		Amount:          3,
	}}, updated.Ingredients)

	var rows int64
	require.NoError(t, f.db.Model(&entities.RecipeIngredient{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}

func TestUpdateRecipeFailureLeavesRecipeUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Bread"))
	require.NoError(t, err)

	_, err = f.svc.UpdateRecipe(ctx, f.viewer, created.ID, domain.UpdateRecipeRequest{
		Tags:        []string{f.tags[0].ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: uuid.NewString(), Amount: 3}},
	})
	require.ErrorIs(t, err, domain.ErrUnknownIngredient)

	again, err := f.svc.GetRecipe(ctx, f.viewer, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, again)
}

func TestUpdateRecipeRollsBackReplacedComposition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Porridge"))
	require.NoError(t, err)

	// fail the ingredient insert after the old rows are gone
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("fail_recipe_ingredients", func(tx *gorm.DB) {
		if tx.Statement.Table == "recipe_ingredients" {
			_ = tx.AddError(errors.New("insert refused"))
		}
	}))

	name := "Oatmeal"
	_, err = f.svc.UpdateRecipe(ctx, f.viewer, created.ID, domain.UpdateRecipeRequest{
		Name:        &name,
		Tags:        []string{f.tags[1].ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.sugar.ID.String(), Amount: 4}},
	})
	require.Error(t, err)

	again, err := f.svc.GetRecipe(ctx, f.viewer, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, again)
}

func TestUpdateRecipeNameChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Toast"))
	require.NoError(t, err)
	created, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Jam"))
	require.NoError(t, err)

	update := func(name string) error {
		_, err := f.svc.UpdateRecipe(ctx, f.viewer, created.ID, domain.UpdateRecipeRequest{
			Name:        &name,
			Tags:        []string{f.tags[0].ID.String()},
			Ingredients: []domain.RecipeIngredientRequest{{ID: f.salt.ID.String(), Amount: 1}},
		})
		return err
	}
	require.ErrorIs(t, update(" \t "), domain.ErrBlankRecipeName)
	require.ErrorIs(t, update("Toast"), domain.ErrRecipeNameTaken)

	again, err := f.svc.GetRecipe(ctx, f.viewer, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, again)
}

func TestRepositoryTranslatesDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewRecipeRepository(f.db)

	first := &entities.Recipe{AuthorID: f.author.ID, Name: "Broth", Text: "simmer", CookingTime: 60, ImageURL: "/media/recipes/broth.png"}
	require.NoError(t, repo.CreateRecipe(ctx, first, []uuid.UUID{f.tags[0].ID}, nil))

	second := &entities.Recipe{AuthorID: f.other.ID, Name: "Broth", Text: "boil", CookingTime: 30, ImageURL: "/media/recipes/broth2.png"}
	err := repo.CreateRecipe(ctx, second, []uuid.UUID{f.tags[0].ID}, nil)
	require.ErrorIs(t, err, domain.ErrRecipeNameTaken)
	require.EqualValues(t, 1, f.countRecipes(t))
}

func TestOnlyAuthorMayChangeRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Stew"))
	require.NoError(t, err)

	_, err = f.svc.UpdateRecipe(ctx, f.visitor, created.ID, domain.UpdateRecipeRequest{
		Tags:        []string{f.tags[0].ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.salt.ID.String(), Amount: 1}},
	})
	require.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	require.ErrorIs(t, f.svc.DeleteRecipe(ctx, f.visitor, created.ID), domain.ErrUnauthorizedRecipeAccess)
	require.ErrorIs(t, f.svc.DeleteRecipe(ctx, domain.Anonymous(), created.ID), domain.ErrUnauthenticated)
	require.ErrorIs(t, f.svc.DeleteRecipe(ctx, f.viewer, uuid.NewString()), domain.ErrRecipeNotFound)
}

func TestDeleteRecipeRemovesDependants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Salad"))
	require.NoError(t, err)
	recipeID := uuid.MustParse(created.ID)
	require.NoError(t, f.db.Create(&entities.Favorite{UserID: f.other.ID, RecipeID: recipeID}).Error)
	require.NoError(t, f.db.Create(&entities.ShoppingCart{UserID: f.other.ID, RecipeID: recipeID}).Error)

	require.NoError(t, f.svc.DeleteRecipe(ctx, f.viewer, created.ID))

	for _, model := range []any{&entities.Recipe{}, &entities.RecipeIngredient{}, &entities.Favorite{}, &entities.ShoppingCart{}} {
		var n int64
		require.NoError(t, f.db.Model(model).Count(&n).Error)
		require.Zero(t, n, "%T", model)
	}
	var joins int64
	require.NoError(t, f.db.Table("recipe_tags").Count(&joins).Error)
	require.Zero(t, joins)

	_, err = f.svc.GetRecipe(ctx, f.viewer, created.ID)
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestReadViewFlagsPerViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRecipe(ctx, f.viewer, f.request("Omelette"))
	require.NoError(t, err)
	recipeID := uuid.MustParse(created.ID)
	require.NoError(t, f.db.Create(&entities.Favorite{UserID: f.other.ID, RecipeID: recipeID}).Error)
	require.NoError(t, f.db.Create(&entities.Follow{UserID: f.other.ID, AuthorID: f.author.ID}).Error)

	seen, err := f.svc.GetRecipe(ctx, f.visitor, created.ID)
	require.NoError(t, err)
	require.True(t, seen.IsFavorited)
	require.False(t, seen.IsInShoppingCart)
	require.True(t, seen.Author.IsSubscribed)

	// reading twice changes nothing
	again, err := f.svc.GetRecipe(ctx, f.visitor, created.ID)
	require.NoError(t, err)
	require.Equal(t, seen, again)

	anon, err := f.svc.GetRecipe(ctx, domain.Anonymous(), created.ID)
	require.NoError(t, err)
	require.False(t, anon.IsFavorited)
	require.False(t, anon.IsInShoppingCart)
	require.False(t, anon.Author.IsSubscribed)
}

func TestGetRecipesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	breakfast := testutil.CreateRecipe(t, f.db, f.author, "Porridge", []*entities.Tag{f.tags[0]}, map[*entities.Ingredient]int{f.flour: 1})
	testutil.CreateRecipe(t, f.db, f.author, "Roast", []*entities.Tag{f.tags[1]}, map[*entities.Ingredient]int{f.salt: 1})
	guests := testutil.CreateRecipe(t, f.db, f.other, "Toast", f.tags, map[*entities.Ingredient]int{f.flour: 1})
	require.NoError(t, f.db.Create(&entities.Favorite{UserID: f.author.ID, RecipeID: guests.ID}).Error)
	require.NoError(t, f.db.Create(&entities.ShoppingCart{UserID: f.author.ID, RecipeID: breakfast.ID}).Error)

	names := func(p domain.Page[domain.Recipe]) []string {
		out := []string{}
		for _, r := range p.Results {
			out = append(out, r.Name)
		}
		return out
	}

	tests := []struct {
		name   string
		viewer domain.Viewer
		filter domain.RecipeFilter
		want   []string
	}{
		{name: "all", viewer: domain.Anonymous(), filter: domain.RecipeFilter{Page: 1}, want: []string{"Porridge", "Roast", "Toast"}},
		{name: "by tag", viewer: domain.Anonymous(), filter: domain.RecipeFilter{Page: 1, Tags: []string{"breakfast"}}, want: []string{"Porridge", "Toast"}},
		{name: "any of tags", viewer: domain.Anonymous(), filter: domain.RecipeFilter{Page: 1, Tags: []string{"breakfast", "dinner"}}, want: []string{"Porridge", "Roast", "Toast"}},
		{name: "by author", viewer: domain.Anonymous(), filter: domain.RecipeFilter{Page: 1, AuthorID: f.other.ID.String()}, want: []string{"Toast"}},
		{name: "favorited", viewer: f.viewer, filter: domain.RecipeFilter{Page: 1, IsFavorited: true}, want: []string{"Toast"}},
		{name: "in cart", viewer: f.viewer, filter: domain.RecipeFilter{Page: 1, IsInShoppingCart: true}, want: []string{"Porridge"}},
		{name: "favorited anonymous is ignored", viewer: domain.Anonymous(), filter: domain.RecipeFilter{Page: 1, IsFavorited: true}, want: []string{"Porridge", "Roast", "Toast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.GetRecipes(ctx, tt.viewer, tt.filter)
			require.NoError(t, err)
			require.ElementsMatch(t, tt.want, names(page))
			require.EqualValues(t, len(tt.want), page.Count)
		})
	}

	_, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{Page: 1, AuthorID: "bob"})
	require.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestGetRecipesPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < domain.PageSize+2; i++ {
		r := testutil.CreateRecipe(t, f.db, f.author, "Recipe "+string(rune('A'+i)), f.tags[:1], map[*entities.Ingredient]int{f.salt: 1})
		require.NoError(t, f.db.Model(r).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	first, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{Page: 1})
	require.NoError(t, err)
	require.Len(t, first.Results, domain.PageSize)
	require.EqualValues(t, domain.PageSize+2, first.Count)
	require.EqualValues(t, 2, first.TotalPages)
	require.Equal(t, "Recipe H", first.Results[0].Name)

	second, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{Page: 2})
	require.NoError(t, err)
	require.Len(t, second.Results, 2)
	require.Equal(t, "Recipe A", second.Results[1].Name)
}

func TestGetRecipesPagesDoNotOverlapOnEqualTimestamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	want := map[string]bool{}
	for i := 0; i < domain.PageSize+3; i++ {
		name := "Dish " + string(rune('A'+i))
		testutil.CreateRecipe(t, f.db, f.author, name, f.tags[:1], map[*entities.Ingredient]int{f.salt: 1})
		want[name] = true
	}
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(&entities.Recipe{}).Where("1 = 1").UpdateColumn("created_at", same).Error)

	got := map[string]bool{}
	for page := 1; page <= 2; page++ {
		res, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{Page: page})
		require.NoError(t, err)
		for _, r := range res.Results {
			require.False(t, got[r.Name], "%s listed twice", r.Name)
			got[r.Name] = true
		}
	}
	require.Equal(t, want, got)
}

func TestShoppingListAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	soup := testutil.CreateRecipe(t, f.db, f.author, "Soup", f.tags[:1], map[*entities.Ingredient]int{f.salt: 10, f.flour: 1})
	bread := testutil.CreateRecipe(t, f.db, f.author, "Bread", f.tags[:1], map[*entities.Ingredient]int{f.salt: 5, f.sugar: 2})
	ignored := testutil.CreateRecipe(t, f.db, f.author, "Cake", f.tags[:1], map[*entities.Ingredient]int{f.sugar: 100})
	require.NoError(t, f.db.Create(&entities.ShoppingCart{UserID: f.author.ID, RecipeID: soup.ID}).Error)
	require.NoError(t, f.db.Create(&entities.ShoppingCart{UserID: f.author.ID, RecipeID: bread.ID}).Error)
	require.NoError(t, f.db.Create(&entities.ShoppingCart{UserID: f.other.ID, RecipeID: ignored.ID}).Error)

	items, err := NewRecipeRepository(f.db).ShoppingList(ctx, f.author.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "kg", Amount: 1},
		{Name: "salt", MeasurementUnit: "g", Amount: 15},
		{Name: "sugar", MeasurementUnit: "g", Amount: 2},
	}, items)

	file, err := f.svc.ShoppingList(ctx, f.viewer)
	require.NoError(t, err)
	require.Equal(t, "chef_shopping_list.txt", file.Filename)
	require.Contains(t, file.Content, "- salt (g) - 15\n")
}

func TestShoppingListEmptyCart(t *testing.T) {
	f := newFixture(t)

	file, err := f.svc.ShoppingList(context.Background(), f.visitor)
	require.NoError(t, err)
	for _, line := range strings.Split(file.Content, "\n") {
		require.False(t, strings.HasPrefix(line, "- "), line)
	}

	_, err = f.svc.ShoppingList(context.Background(), domain.Anonymous())
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRecipesByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"One", "Two", "Three"} {
		testutil.CreateRecipe(t, f.db, f.author, name, f.tags[:1], map[*entities.Ingredient]int{f.salt: 1})
	}

	limited, err := f.svc.RecipesByAuthor(ctx, f.author.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)

	all, err := f.svc.RecipesByAuthor(ctx, f.author.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	counts, err := f.svc.CountRecipesByAuthors(ctx, []uuid.UUID{f.author.ID, f.other.ID})
	require.NoError(t, err)
	require.EqualValues(t, 3, counts[f.author.ID])
	require.Zero(t, counts[f.other.ID])
}
