package service

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"recipe-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

//go:generate mockgen -destination=mock/repository.go -package=mock recipe-service/internal/service RecipeRepository,UserRepository

// RecipeRepository is the single-call data access the recipe routes need.
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe entity.Recipe) (entity.Recipe, error)
	GetRecipes(ctx context.Context) ([]entity.Recipe, error)
	GetRecipeByID(ctx context.Context, id string) (entity.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, recipe entity.Recipe) (entity.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) (entity.Recipe, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user entity.User) (entity.User, error)
	GetUserByID(ctx context.Context, id string) (entity.User, error)
	UpdateUser(ctx context.Context, id string, user entity.User) (entity.User, error)
}

// EventPublisher announces entity changes to other services.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

// EntityCache is an optional read-through cache for lookups by id. Add only
// writes when the key is absent; Set always overwrites.
type EntityCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Add(ctx context.Context, key string, value interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// notifier bundles the side effects that follow a successful write. Failures
// here are logged and never reported to the caller.
type notifier struct {
	kind      string
	publisher EventPublisher
	cache     EntityCache
}

// cacheKey keys on the canonical hex form so every spelling of an id shares
// one entry. Ids that do not parse are never cached.
func (n notifier) cacheKey(id string) (string, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:%s", n.kind, oid.Hex()), true
}

func (n notifier) publish(ctx context.Context, action string, doc entity.Document) {
	if n.publisher == nil || doc == nil {
		return
	}
	id, _ := doc.ID()
	key := fmt.Sprintf("%s-%s-%s", n.kind, action, id.Hex())
	if err := n.publisher.Publish(ctx, key, doc); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event", key)
	}
}

// lookup returns true and fills dst when the id is cached.
func (n notifier) lookup(ctx context.Context, id string, dst interface{}) bool {
	if n.cache == nil {
		return false
	}
	key, ok := n.cacheKey(id)
	if !ok {
		return false
	}
	found, err := n.cache.Get(ctx, key, dst)
	if err != nil {
		logger.Warn().Err(err).Msgf("Error reading %s %s from cache", n.kind, id)
		return false
	}
	return found
}

// fill caches a document read from the store. It never replaces an entry a
// concurrent write has already refreshed.
func (n notifier) fill(ctx context.Context, id string, doc entity.Document) {
	if n.cache == nil || doc == nil {
		return
	}
	key, ok := n.cacheKey(id)
	if !ok {
		return
	}
	if err := n.cache.Add(ctx, key, doc); err != nil {
		logger.Warn().Err(err).Msgf("Error filling %s %s in cache", n.kind, id)
	}
}

// store records the state left by a write, evicting when nothing matched.
func (n notifier) store(ctx context.Context, id string, doc entity.Document) {
	if n.cache == nil {
		return
	}
	if doc == nil {
		n.evict(ctx, id)
		return
	}
	key, ok := n.cacheKey(id)
	if !ok {
		return
	}
	if err := n.cache.Set(ctx, key, doc); err != nil {
		logger.Warn().Err(err).Msgf("Error setting %s %s in cache", n.kind, id)
	}
}

func (n notifier) evict(ctx context.Context, id string) {
	if n.cache == nil {
		return
	}
	key, ok := n.cacheKey(id)
	if !ok {
		return
	}
	if err := n.cache.Delete(ctx, key); err != nil {
		logger.Warn().Err(err).Msgf("Error deleting %s %s from cache", n.kind, id)
	}
}
