package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"simmr/internal/cache"
	"simmr/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chef1")
	svc := newPostService(db, &stubGenerator{tip: "Salt the water like the sea."})
	ctx := context.Background()

	cookTime := 45
	servings := 4
	post, err := svc.CreatePost(ctx, CreatePostInput{
		UserID:     user.ID,
		Title:      "  Tacos al Pastor  ",
		Tags:       "Mexican, PORK, mexican",
		CookTime:   &cookTime,
		Difficulty: models.DifficultyIntermediate,
		Servings:   &servings,
		Ingredients: []models.Ingredient{
			{Name: "pork shoulder", Quantity: "2", Unit: "lb"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tacos al Pastor", post.Title)
	assert.Equal(t, []string{"mexican", "pork"}, []string(post.Tags))
	assert.Equal(t, "Salt the water like the sea.", post.AITip)
	assert.Equal(t, "chef1", post.Author.Username)
	assert.Equal(t, 0, post.LikeCount)
}

func TestPostService_CreatePost_TipFailureAbsorbed(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chef1")
	svc := newPostService(db, &stubGenerator{tipErr: errors.New("provider down")})

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID: user.ID,
		Title:  "Pho",
	})
	require.NoError(t, err)
	assert.Empty(t, post.AITip)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chef1")
	svc := newPostService(db, nil)
	ctx := context.Background()

	zero := 0
	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"Empty title", CreatePostInput{UserID: user.ID, Title: "   "}},
		{"Bad difficulty", CreatePostInput{UserID: user.ID, Title: "Pho", Difficulty: "impossible"}},
		{"Zero cook time", CreatePostInput{UserID: user.ID, Title: "Pho", CookTime: &zero}},
		{"Zero servings", CreatePostInput{UserID: user.ID, Title: "Pho", Servings: &zero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.input)
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestPostService_Feed_PaginationWalk(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chef1")
	seedPosts(t, db, user.ID, 25)
	svc := newPostService(db, nil)
	ctx := context.Background()

	seen := map[uint]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := svc.Feed(ctx, user.ID, cursor, 10)
		require.NoError(t, err)
		for _, p := range page.Posts {
			assert.False(t, seen[p.ID], "post %d seen twice", p.ID)
			seen[p.ID] = true
		}
		pages++
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	assert.Len(t, seen, 25)
	assert.Equal(t, 3, pages)
}

func TestPostService_Feed_InsertDuringWalkDoesNotShift(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chef1")
	seedPosts(t, db, user.ID, 10)
	svc := newPostService(db, nil)
	ctx := context.Background()

	first, err := svc.Feed(ctx, user.ID, "", 5)
	require.NoError(t, err)
	require.Len(t, first.Posts, 5)
	require.NotEmpty(t, first.NextCursor)

	// A new post lands at the head of the feed mid-walk.
	newPost := &models.Post{UserID: user.ID, Title: "Fresh", CreatedAt: time.Now()}
	require.NoError(t, db.Create(newPost).Error)

	second, err := svc.Feed(ctx, user.ID, first.NextCursor, 5)
	require.NoError(t, err)
	for _, p := range second.Posts {
		assert.NotEqual(t, newPost.ID, p.ID, "new head post must not appear in an older page")
		for _, f := range first.Posts {
			assert.NotEqual(t, f.ID, p.ID, "no overlap between pages")
		}
	}
}

func TestPostService_Feed_InvalidCursor(t *testing.T) {
	db := setupTestDB(t)
	svc := newPostService(db, nil)

	_, err := svc.Feed(context.Background(), 1, "yesterday", 10)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestPostService_Feed_DefaultAndClampedLimit(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chef1")
	seedPosts(t, db, user.ID, 60)
	svc := newPostService(db, nil)
	ctx := context.Background()

	page, err := svc.Feed(ctx, user.ID, "", 0)
	require.NoError(t, err)
	assert.Len(t, page.Posts, DefaultFeedLimit)

	page, err = svc.Feed(ctx, user.ID, "", 1000)
	require.NoError(t, err)
	assert.Len(t, page.Posts, MaxFeedLimit)
}

func TestPostService_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "chef1")
	liker := createTestUser(t, db, "chef2")
	svc := newPostService(db, nil)
	ctx := context.Background()

	posts := seedPosts(t, db, author.ID, 1)
	postID := posts[0].ID

	liked, err := svc.ToggleLike(ctx, liker.ID, postID)
	require.NoError(t, err)
	assert.True(t, liked.IsLiked)
	assert.Equal(t, 1, liked.LikeCount)

	unliked, err := svc.ToggleLike(ctx, liker.ID, postID)
	require.NoError(t, err)
	assert.False(t, unliked.IsLiked)
	assert.Equal(t, 0, unliked.LikeCount)

	// A toggle on a missing post is NOT_FOUND.
	_, err = svc.ToggleLike(ctx, liker.ID, 9999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostService_DeletePost_SilentUnlessOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "chef1")
	other := createTestUser(t, db, "chef2")
	svc := newPostService(db, nil)
	ctx := context.Background()

	posts := seedPosts(t, db, owner.ID, 1)
	postID := posts[0].ID

	require.NoError(t, svc.DeletePost(ctx, postID, other.ID))
	_, err := svc.GetPost(ctx, postID, 0)
	assert.NoError(t, err, "post must survive a non-owner delete")

	require.NoError(t, svc.DeletePost(ctx, postID, owner.ID))
	_, err = svc.GetPost(ctx, postID, 0)
	assert.Error(t, err)
}

// Post and like mutations drop the author's cached profile so the
// post_count and total_likes aggregates never lag by the cache TTL.
func TestPostService_MutationsInvalidateProfileCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := setupTestDB(t)
	author := createTestUser(t, db, "chef1")
	viewer := createTestUser(t, db, "chef2")
	svc := newPostService(db, nil)
	ctx := context.Background()

	primeProfile := func() {
		t.Helper()
		require.NoError(t, cache.SetJSON(ctx, cache.ProfileKey(author.Username), author, cache.ProfileTTL))
	}
	profileCached := func() bool {
		t.Helper()
		var u models.User
		found, err := cache.GetJSON(ctx, cache.ProfileKey(author.Username), &u)
		require.NoError(t, err)
		return found
	}

	primeProfile()
	post, err := svc.CreatePost(ctx, CreatePostInput{UserID: author.ID, Title: "Tacos"})
	require.NoError(t, err)
	assert.False(t, profileCached(), "create must invalidate the author profile")

	primeProfile()
	_, err = svc.ToggleLike(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, profileCached(), "like toggle must invalidate the author profile")

	primeProfile()
	require.NoError(t, svc.DeletePost(ctx, post.ID, author.ID))
	assert.False(t, profileCached(), "delete must invalidate the author profile")
}

func TestPostService_GenerateIngredients(t *testing.T) {
	db := setupTestDB(t)
	gen := &stubGenerator{ingredients: []models.Ingredient{
		{Name: "rice noodles", Quantity: "200", Unit: "g"},
	}}
	svc := newPostService(db, gen)
	ctx := context.Background()

	got, err := svc.GenerateIngredients(ctx, "Pho", 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rice noodles", got[0].Name)

	_, err = svc.GenerateIngredients(ctx, "   ", 2)
	assert.Error(t, err)

	_, err = svc.GenerateIngredients(ctx, "Pho", 0)
	assert.Error(t, err)

	gen.genErr = errors.New("provider down")
	_, err = svc.GenerateIngredients(ctx, "Pho", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to generate ingredients")
}
