package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"recipe-service/internal/entity"
)

type RecipeRepository struct {
	docs documents[entity.Recipe]
}

func NewRecipeRepository(coll *mongo.Collection) *RecipeRepository {
	return &RecipeRepository{docs: documents[entity.Recipe]{coll: coll, kind: "recipe"}}
}

// CreateRecipe stores the recipe under a freshly generated _id.
func (r *RecipeRepository) CreateRecipe(ctx context.Context, recipe entity.Recipe) (entity.Recipe, error) {
	return r.docs.insert(ctx, recipe)
}

func (r *RecipeRepository) GetRecipes(ctx context.Context) ([]entity.Recipe, error) {
	return r.docs.findAll(ctx)
}

// GetRecipeByID returns nil, nil when no recipe has the id.
func (r *RecipeRepository) GetRecipeByID(ctx context.Context, id string) (entity.Recipe, error) {
	return r.docs.findByID(ctx, id)
}

// UpdateRecipe replaces the whole document and returns the stored result.
func (r *RecipeRepository) UpdateRecipe(ctx context.Context, id string, recipe entity.Recipe) (entity.Recipe, error) {
	return r.docs.replace(ctx, id, recipe)
}

// DeleteRecipe returns the removed recipe, or nil if there was none.
func (r *RecipeRepository) DeleteRecipe(ctx context.Context, id string) (entity.Recipe, error) {
	return r.docs.remove(ctx, id)
}
