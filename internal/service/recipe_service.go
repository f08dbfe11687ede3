package service

import (
	"context"

	"recipe-service/internal/entity"
)

type RecipeService struct {
	recipeRepo RecipeRepository
	notify     notifier
}

// NewRecipeService creates a new instance of RecipeService. cache may be nil.
func NewRecipeService(recipeRepo RecipeRepository, publisher EventPublisher, cache EntityCache) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		notify:     notifier{kind: "recipe", publisher: publisher, cache: cache},
	}
}

// CreateRecipe stores the body as a new recipe.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe entity.Recipe) (entity.Recipe, error) {
	created, err := s.recipeRepo.CreateRecipe(ctx, recipe)
	if err != nil {
		logger.Error().Err(err).Msg("Error while creating the recipe")
		return nil, err
	}

	s.notify.publish(ctx, "created", entity.Document(created))
	return created, nil
}

// GetRecipes lists every recipe.
func (s *RecipeService) GetRecipes(ctx context.Context) ([]entity.Recipe, error) {
	recipes, err := s.recipeRepo.GetRecipes(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error while retrieving recipes")
		return nil, err
	}
	return recipes, nil
}

// GetRecipeByID returns nil without an error when the recipe does not exist.
func (s *RecipeService) GetRecipeByID(ctx context.Context, id string) (entity.Recipe, error) {
	var cached entity.Recipe
	if s.notify.lookup(ctx, id, &cached) {
		return cached, nil
	}

	recipe, err := s.recipeRepo.GetRecipeByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error while retrieving recipe %s", id)
		return nil, err
	}

	if recipe != nil {
		s.notify.fill(ctx, id, entity.Document(recipe))
	}
	return recipe, nil
}

// UpdateRecipe replaces the recipe and returns its new state, or nil when no
// recipe has the id.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, recipe entity.Recipe) (entity.Recipe, error) {
	updated, err := s.recipeRepo.UpdateRecipe(ctx, id, recipe)
	if err != nil {
		logger.Error().Err(err).Msgf("Error while editing recipe %s", id)
		return nil, err
	}

	logger.Info().Msgf("Recipe edited %s", id)
	s.notify.store(ctx, id, entity.Document(updated))
	s.notify.publish(ctx, "updated", entity.Document(updated))
	return updated, nil
}

// DeleteRecipe removes the recipe. Deleting an unknown id is not an error.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	deleted, err := s.recipeRepo.DeleteRecipe(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error while deleting recipe %s", id)
		return err
	}

	logger.Info().Msgf("Recipe deleted %s", id)
	s.notify.evict(ctx, id)
	s.notify.publish(ctx, "deleted", entity.Document(deleted))
	return nil
}
