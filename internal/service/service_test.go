package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"recipe-service/internal/cache"
	"recipe-service/internal/entity"
	"recipe-service/internal/service/mock"
)

var errStore = errors.New("connection refused")

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	c := cache.New(cache.NewRedisClient(mr.Addr()), time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRecipeService_CreateRecipe(t *testing.T) {
	id := primitive.NewObjectID()
	body := entity.Recipe{"title": "Pasta"}
	stored := entity.Recipe{"_id": id, "title": "Pasta"}

	tests := []struct {
		name     string
		repoErr  error
		want     entity.Recipe
		wantErr  bool
		wantKeys []string
	}{
		{
			name:     "Success",
			want:     stored,
			wantKeys: []string{"recipe-created-" + id.Hex()},
		},
		{
			name:    "StoreError",
			repoErr: errStore,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRecipeRepository(gomock.NewController(t))
			ret := stored
			if tt.repoErr != nil {
				ret = nil
			}
			repo.EXPECT().CreateRecipe(gomock.Any(), body).Return(ret, tt.repoErr)

			pub := &recordingPublisher{}
			s := NewRecipeService(repo, pub, nil)

			got, err := s.CreateRecipe(context.Background(), body)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.repoErr)
				assert.Nil(t, got)
				assert.Empty(t, pub.keys)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKeys, pub.keys)
		})
	}
}

func TestRecipeService_CreateRecipe_PublishFailureIsIgnored(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	stored := entity.Recipe{"_id": primitive.NewObjectID(), "title": "Pasta"}
	repo.EXPECT().CreateRecipe(gomock.Any(), gomock.Any()).Return(stored, nil)

	s := NewRecipeService(repo, &recordingPublisher{err: errors.New("broker down")}, nil)

	got, err := s.CreateRecipe(context.Background(), entity.Recipe{"title": "Pasta"})
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestRecipeService_GetRecipes(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	all := []entity.Recipe{{"title": "Pasta"}, {"title": "Soup"}}
	repo.EXPECT().GetRecipes(gomock.Any()).Return(all, nil)

	s := NewRecipeService(repo, nil, nil)

	got, err := s.GetRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, all, got)
}

func TestRecipeService_GetRecipes_Error(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	repo.EXPECT().GetRecipes(gomock.Any()).Return(nil, errStore)

	s := NewRecipeService(repo, nil, nil)

	_, err := s.GetRecipes(context.Background())
	assert.ErrorIs(t, err, errStore)
}

func TestRecipeService_GetRecipeByID_Missing(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	id := primitive.NewObjectID().Hex()
	repo.EXPECT().GetRecipeByID(gomock.Any(), id).Return(nil, nil)

	c, mr := newTestCache(t)
	s := NewRecipeService(repo, nil, c)

	got, err := s.GetRecipeByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("recipe:"+id), "missing recipes are not cached")
}

func TestRecipeService_GetRecipeByID_ReadThrough(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	oid := primitive.NewObjectID()
	id := oid.Hex()
	repo.EXPECT().GetRecipeByID(gomock.Any(), id).
		Return(entity.Recipe{"_id": oid, "title": "Pasta"}, nil).
		Times(1)

	c, mr := newTestCache(t)
	s := NewRecipeService(repo, nil, c)
	ctx := context.Background()

	first, err := s.GetRecipeByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", first["title"])
	assert.True(t, mr.Exists("recipe:"+id))

	second, err := s.GetRecipeByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", second["title"])
	assert.Equal(t, id, second["_id"])
}

func TestRecipeService_GetRecipeByID_CacheDown(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	id := primitive.NewObjectID().Hex()
	repo.EXPECT().GetRecipeByID(gomock.Any(), id).Return(entity.Recipe{"title": "Pasta"}, nil)

	c, mr := newTestCache(t)
	mr.Close()
	s := NewRecipeService(repo, nil, c)

	got, err := s.GetRecipeByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got["title"])
}

func TestRecipeService_GetRecipeByID_Error(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	repo.EXPECT().GetRecipeByID(gomock.Any(), "bad").Return(nil, errStore)

	s := NewRecipeService(repo, nil, nil)

	_, err := s.GetRecipeByID(context.Background(), "bad")
	assert.ErrorIs(t, err, errStore)
}

func TestRecipeService_UpdateRecipe(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	oid := primitive.NewObjectID()
	id := oid.Hex()
	body := entity.Recipe{"title": "Lasagna"}
	repo.EXPECT().UpdateRecipe(gomock.Any(), id, body).Return(entity.Recipe{"_id": oid, "title": "Lasagna"}, nil)

	c, _ := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "recipe:"+id, entity.Recipe{"title": "Pasta"}))

	pub := &recordingPublisher{}
	s := NewRecipeService(repo, pub, c)

	updated, err := s.UpdateRecipe(ctx, id, body)
	require.NoError(t, err)
	assert.Equal(t, "Lasagna", updated["title"])
	assert.Equal(t, []string{"recipe-updated-" + id}, pub.keys)

	var cached entity.Recipe
	found, err := c.Get(ctx, "recipe:"+id, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Lasagna", cached["title"], "cache holds the post-update state")
}

func TestRecipeService_UpdateRecipe_Missing(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	id := primitive.NewObjectID().Hex()
	repo.EXPECT().UpdateRecipe(gomock.Any(), id, gomock.Any()).Return(nil, nil)

	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("recipe:"+id, `{"title":"stale"}`))

	pub := &recordingPublisher{}
	s := NewRecipeService(repo, pub, c)

	updated, err := s.UpdateRecipe(context.Background(), id, entity.Recipe{"title": "Ghost"})
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Empty(t, pub.keys)
	assert.False(t, mr.Exists("recipe:"+id))
}

func TestRecipeService_UpdateRecipe_Error(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	repo.EXPECT().UpdateRecipe(gomock.Any(), "x", gomock.Any()).Return(nil, errStore)

	s := NewRecipeService(repo, nil, nil)

	_, err := s.UpdateRecipe(context.Background(), "x", entity.Recipe{})
	assert.ErrorIs(t, err, errStore)
}

func TestRecipeService_DeleteRecipe(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	oid := primitive.NewObjectID()
	id := oid.Hex()
	repo.EXPECT().DeleteRecipe(gomock.Any(), id).Return(entity.Recipe{"_id": oid, "title": "Pasta"}, nil)

	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("recipe:"+id, `{"title":"Pasta"}`))

	pub := &recordingPublisher{}
	s := NewRecipeService(repo, pub, c)

	require.NoError(t, s.DeleteRecipe(context.Background(), id))
	assert.False(t, mr.Exists("recipe:"+id))
	assert.Equal(t, []string{"recipe-deleted-" + id}, pub.keys)
}

func TestRecipeService_DeleteRecipe_MissingAndError(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	missing := primitive.NewObjectID().Hex()
	repo.EXPECT().DeleteRecipe(gomock.Any(), missing).Return(nil, nil)
	repo.EXPECT().DeleteRecipe(gomock.Any(), "bad").Return(nil, errStore)

	pub := &recordingPublisher{}
	s := NewRecipeService(repo, pub, nil)
	ctx := context.Background()

	assert.NoError(t, s.DeleteRecipe(ctx, missing))
	assert.Empty(t, pub.keys)

	assert.ErrorIs(t, s.DeleteRecipe(ctx, "bad"), errStore)
}

func TestUserService(t *testing.T) {
	repo := mock.NewMockUserRepository(gomock.NewController(t))
	oid := primitive.NewObjectID()
	id := oid.Hex()

	repo.EXPECT().CreateUser(gomock.Any(), entity.User{"email": "cook@example.com"}).
		Return(entity.User{"_id": oid, "email": "cook@example.com"}, nil)
	repo.EXPECT().GetUserByID(gomock.Any(), id).
		Return(entity.User{"_id": oid, "email": "cook@example.com"}, nil)
	repo.EXPECT().UpdateUser(gomock.Any(), id, entity.User{"email": "chef@example.com"}).
		Return(entity.User{"_id": oid, "email": "chef@example.com"}, nil)

	pub := &recordingPublisher{}
	s := NewUserService(repo, pub, nil)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, entity.User{"email": "cook@example.com"})
	require.NoError(t, err)
	assert.Equal(t, oid, created["_id"])

	got, err := s.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", got["email"])

	updated, err := s.UpdateUser(ctx, id, entity.User{"email": "chef@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", updated["email"])

	assert.Equal(t, []string{"user-created-" + id, "user-updated-" + id}, pub.keys)
}

func TestUserService_Errors(t *testing.T) {
	repo := mock.NewMockUserRepository(gomock.NewController(t))
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, errStore)
	repo.EXPECT().GetUserByID(gomock.Any(), "x").Return(nil, errStore)
	repo.EXPECT().UpdateUser(gomock.Any(), "x", gomock.Any()).Return(nil, errStore)

	s := NewUserService(repo, nil, nil)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, entity.User{})
	assert.ErrorIs(t, err, errStore)
	_, err = s.GetUserByID(ctx, "x")
	assert.ErrorIs(t, err, errStore)
	_, err = s.UpdateUser(ctx, "x", entity.User{})
	assert.ErrorIs(t, err, errStore)
}

func TestRecipeService_CacheKeyIgnoresIDCase(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	oid := primitive.NewObjectID()
	lower := oid.Hex()
	upper := strings.ToUpper(lower)

	gomock.InOrder(
		repo.EXPECT().GetRecipeByID(gomock.Any(), upper).Return(entity.Recipe{"_id": oid, "title": "Pasta"}, nil),
		repo.EXPECT().DeleteRecipe(gomock.Any(), lower).Return(entity.Recipe{"_id": oid, "title": "Pasta"}, nil),
		repo.EXPECT().GetRecipeByID(gomock.Any(), upper).Return(nil, nil),
	)

	c, mr := newTestCache(t)
	s := NewRecipeService(repo, nil, c)
	ctx := context.Background()

	got, err := s.GetRecipeByID(ctx, upper)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got["title"])
	assert.True(t, mr.Exists("recipe:"+lower))
	assert.False(t, mr.Exists("recipe:"+upper))

	require.NoError(t, s.DeleteRecipe(ctx, lower))
	assert.False(t, mr.Exists("recipe:"+lower))

	got, err = s.GetRecipeByID(ctx, upper)
	require.NoError(t, err)
	assert.Nil(t, got, "deleted recipe is not served from the cache")
}

func TestUserService_CacheKeyIgnoresIDCase(t *testing.T) {
	repo := mock.NewMockUserRepository(gomock.NewController(t))
	oid := primitive.NewObjectID()
	lower := oid.Hex()
	upper := strings.ToUpper(lower)

	repo.EXPECT().GetUserByID(gomock.Any(), lower).Return(entity.User{"_id": oid, "email": "cook@example.com"}, nil)
	repo.EXPECT().UpdateUser(gomock.Any(), upper, gomock.Any()).Return(entity.User{"_id": oid, "email": "chef@example.com"}, nil)

	c, _ := newTestCache(t)
	s := NewUserService(repo, nil, c)
	ctx := context.Background()

	_, err := s.GetUserByID(ctx, lower)
	require.NoError(t, err)

	_, err = s.UpdateUser(ctx, upper, entity.User{"email": "chef@example.com"})
	require.NoError(t, err)

	got, err := s.GetUserByID(ctx, lower)
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", got["email"])
}

func TestRecipeService_InvalidIDSkipsCache(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	repo.EXPECT().GetRecipeByID(gomock.Any(), "123").Return(nil, errStore).Times(2)

	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("recipe:123", `{"title":"Pasta"}`))
	s := NewRecipeService(repo, nil, c)

	for i := 0; i < 2; i++ {
		_, err := s.GetRecipeByID(context.Background(), "123")
		assert.ErrorIs(t, err, errStore)
	}
}

func TestRecipeService_FillKeepsNewerEntry(t *testing.T) {
	repo := mock.NewMockRecipeRepository(gomock.NewController(t))
	oid := primitive.NewObjectID()
	id := oid.Hex()

	c, _ := newTestCache(t)
	ctx := context.Background()
	s := NewRecipeService(repo, nil, c)

	// An update lands between the read and the cache fill.
	repo.EXPECT().GetRecipeByID(gomock.Any(), id).
		DoAndReturn(func(ctx context.Context, _ string) (entity.Recipe, error) {
			require.NoError(t, c.Set(ctx, "recipe:"+id, entity.Recipe{"_id": id, "title": "Lasagna"}))
			return entity.Recipe{"_id": oid, "title": "Pasta"}, nil
		})

	_, err := s.GetRecipeByID(ctx, id)
	require.NoError(t, err)

	var cached entity.Recipe
	found, err := c.Get(ctx, "recipe:"+id, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Lasagna", cached["title"])
}
