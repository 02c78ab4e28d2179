package recipe

import (
	"context"
	"errors"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RecipeQuery is a resolved listing filter. Zero ids switch a filter off.
	RecipeQuery struct {
		Page        int
		TagSlugs    []string
		AuthorID    uuid.UUID
		FavoritedBy uuid.UUID
		InCartOf    uuid.UUID
	}

	// RecipeFields are the scalar columns written on create and update.
	RecipeFields struct {
		Name        string
		Text        string
		CookingTime int
		ImageURL    string
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, ingredients []*entities.RecipeIngredient) error
		UpdateRecipe(ctx context.Context, id uuid.UUID, fields RecipeFields, tagIDs []uuid.UUID, ingredients []*entities.RecipeIngredient) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, query RecipeQuery) ([]*entities.Recipe, int64, error)

		CountTags(ctx context.Context, ids []uuid.UUID) (int64, error)
		CountIngredients(ctx context.Context, ids []uuid.UUID) (int64, error)

		FavoritedIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		InShoppingCartIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		ShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error)

		GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

const recipeTagsTable = "recipe_tags"

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func insertTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, map[string]any{"recipe_id": recipeID, "tag_id": id})
	}
	return tx.Table(recipeTagsTable).Create(rows).Error
}

func insertIngredients(tx *gorm.DB, recipeID uuid.UUID, ingredients []*entities.RecipeIngredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	for _, ri := range ingredients {
		ri.RecipeID = recipeID
	}
	return tx.Omit("Ingredient").Create(ingredients).Error
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, ingredients []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrRecipeNameTaken
			}
			return err
		}
		if err := insertTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return insertIngredients(tx, recipe.ID, ingredients)
	})
}

// UpdateRecipe overwrites the scalar fields and replaces the tag and
// ingredient sets in one transaction.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, id uuid.UUID, fields RecipeFields, tagIDs []uuid.UUID, ingredients []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Recipe{}).Where("id = ?", id).Updates(map[string]any{
			"name":         fields.Name,
			"text":         fields.Text,
			"cooking_time": fields.CookingTime,
			"image_url":    fields.ImageURL,
		})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return domain.ErrRecipeNameTaken
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}

		if err := tx.Exec("DELETE FROM "+recipeTagsTable+" WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := insertTags(tx, id, tagIDs); err != nil {
			return err
		}
		return insertIngredients(tx, id, ingredients)
	})
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+recipeTagsTable+" WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		for _, model := range []any{&entities.RecipeIngredient{}, &entities.Favorite{}, &entities.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Scopes(withDetails).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) filter(q RecipeQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(q.TagSlugs) > 0 {
			db = db.Where("recipes.id IN (?)", r.db.Table(recipeTagsTable).
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", q.TagSlugs))
		}
		if q.AuthorID != uuid.Nil {
			db = db.Where("recipes.author_id = ?", q.AuthorID)
		}
		if q.FavoritedBy != uuid.Nil {
			db = db.Where("recipes.id IN (?)", r.db.Model(&entities.Favorite{}).
				Select("recipe_id").
				Where("user_id = ?", q.FavoritedBy))
		}
		if q.InCartOf != uuid.Nil {
			db = db.Where("recipes.id IN (?)", r.db.Model(&entities.ShoppingCart{}).
				Select("recipe_id").
				Where("user_id = ?", q.InCartOf))
		}
		return db
	}
}

func (r *recipeRepository) GetRecipes(ctx context.Context, query RecipeQuery) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(r.filter(query)).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(r.filter(query), withDetails).
		Order("recipes.created_at desc, recipes.id desc").
		Offset(domain.Offset(query.Page)).
		Limit(domain.PageSize).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

func (r *recipeRepository) CountTags(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *recipeRepository) CountIngredients(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *recipeRepository) linkedRecipeIDs(ctx context.Context, model any, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *recipeRepository) FavoritedIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.linkedRecipeIDs(ctx, &entities.Favorite{}, userID, recipeIDs)
}

func (r *recipeRepository) InShoppingCartIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.linkedRecipeIDs(ctx, &entities.ShoppingCart{}, userID, recipeIDs)
}

// ShoppingList sums the ingredient amounts of every recipe in the user's
// cart, one row per (name, unit).
func (r *recipeRepository) ShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc, ingredients.measurement_unit asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}
