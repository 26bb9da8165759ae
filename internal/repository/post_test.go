package repository

import (
	"context"
	"testing"
	"time"

	"simmr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepository_CreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef1")
	viewer := createTestUser(t, db, "chef2")

	post := &models.Post{
		UserID:     author.ID,
		Title:      "Tacos al Pastor",
		Difficulty: models.DifficultyIntermediate,
		Tags:       []string{"mexican", "pork"},
		Ingredients: []models.Ingredient{
			{Name: "pork shoulder", Quantity: "2", Unit: "lb"},
		},
	}
	require.NoError(t, repo.Create(ctx, post))
	require.NotZero(t, post.ID)

	got, err := repo.GetByID(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tacos al Pastor", got.Title)
	assert.Equal(t, "chef1", got.Author.Username)
	assert.Equal(t, 0, got.LikeCount)
	assert.False(t, got.IsLiked)
	assert.Equal(t, []string{"mexican", "pork"}, []string(got.Tags))
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 999, 0)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostRepository_LikeToggleState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef1")
	liker := createTestUser(t, db, "chef2")
	post := createTestPost(t, db, author.ID, "Pho", time.Now())

	liked, err := repo.IsLiked(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.Like(ctx, liker.ID, post.ID))
	liked, err = repo.IsLiked(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// Liking again does not create a second row.
	require.NoError(t, repo.Like(ctx, liker.ID, post.ID))
	var count int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Unlike(ctx, liker.ID, post.ID))
	liked, err = repo.IsLiked(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// Unliking when no like exists is not an error.
	require.NoError(t, repo.Unlike(ctx, liker.ID, post.ID))
}

func TestPostRepository_GetByID_LikeDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef1")
	fan1 := createTestUser(t, db, "fan1")
	fan2 := createTestUser(t, db, "fan2")
	post := createTestPost(t, db, author.ID, "Ramen", time.Now())

	require.NoError(t, repo.Like(ctx, fan1.ID, post.ID))
	require.NoError(t, repo.Like(ctx, fan2.ID, post.ID))

	got, err := repo.GetByID(ctx, post.ID, fan1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount)
	assert.True(t, got.IsLiked)

	got, err = repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount)
	assert.False(t, got.IsLiked)
}

func TestPostRepository_ListFeed_CursorPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef1")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		createTestPost(t, db, author.ID, "Dish", base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.ListFeed(ctx, author.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt))

	cursor := first[1].CreatedAt
	second, err := repo.ListFeed(ctx, author.ID, &cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.True(t, second[0].CreatedAt.Before(first[1].CreatedAt))

	// Walking the full feed yields every post exactly once.
	seen := map[uint]bool{}
	var before *time.Time
	for {
		page, err := repo.ListFeed(ctx, author.ID, before, 2)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, p := range page {
			assert.False(t, seen[p.ID], "post %d returned twice", p.ID)
			seen[p.ID] = true
		}
		c := page[len(page)-1].CreatedAt
		before = &c
	}
	assert.Len(t, seen, 5)
}

func TestPostRepository_ListByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	chef1 := createTestUser(t, db, "chef1")
	chef2 := createTestUser(t, db, "chef2")
	createTestPost(t, db, chef1.ID, "Dish A", time.Now().Add(-2*time.Minute))
	createTestPost(t, db, chef1.ID, "Dish B", time.Now().Add(-time.Minute))
	createTestPost(t, db, chef2.ID, "Dish C", time.Now())

	posts, err := repo.ListByUsername(ctx, "chef1", 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Dish B", posts[0].Title)
	assert.Equal(t, "Dish A", posts[1].Title)
}

// The relation join alias is emitted quoted, and postgres case-folds
// unquoted identifiers, so the username filter must go through the dialect
// quoter or the alias cannot be resolved.
func TestPostRepository_ListByUsername_AliasQuoted(t *testing.T) {
	db := setupTestDB(t)

	var posts []models.Post
	tx := db.Session(&gorm.Session{DryRun: true}).
		Model(&models.Post{}).
		InnerJoins("Author").
		Where(authorUsername("Chef1")).
		Find(&posts)
	require.NoError(t, tx.Error)

	sql := tx.Statement.SQL.String()
	assert.NotContains(t, sql, "Author.username")
	assert.Contains(t, sql, "`Author`.`username`")
	assert.Contains(t, tx.Statement.Vars, "chef1")
}

func TestPostRepository_Delete_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "chef1")
	other := createTestUser(t, db, "chef2")
	post := createTestPost(t, db, owner.ID, "Gone Soon", time.Now())

	// Someone else's delete is a silent no-op.
	require.NoError(t, repo.Delete(ctx, post.ID, other.ID))
	var count int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, post.ID, owner.ID))
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Deleting a missing post succeeds too.
	require.NoError(t, repo.Delete(ctx, post.ID, owner.ID))
}
