package service

import (
	"context"
	"testing"

	"simmr/internal/models"
	"simmr/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CheckUsername(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "chef1")
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	tests := []struct {
		name      string
		username  string
		available bool
	}{
		{"Taken", "chef1", false},
		{"Taken different case", "CHEF1", false},
		{"Free", "chef2", true},
		{"Too short", "ab", false},
		{"Invalid characters", "chef one", false},
		{"Free with surrounding spaces", "  chef2  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, err := svc.CheckUsername(ctx, tt.username)
			require.NoError(t, err)
			assert.Equal(t, tt.available, available)
		})
	}
}

func TestUserService_GetProfile(t *testing.T) {
	db := setupTestDB(t)
	chef := createTestUser(t, db, "chef1")
	fan := createTestUser(t, db, "fan1")
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	posts := seedPosts(t, db, chef.ID, 3)
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, PostID: posts[0].ID}).Error)

	profile, err := svc.GetProfile(ctx, "chef1")
	require.NoError(t, err)
	assert.Equal(t, 3, profile.PostCount)
	assert.Equal(t, 1, profile.TotalLikes)

	_, err = svc.GetProfile(ctx, "ghost")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserService_SearchUsers(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "chef_anna")
	createTestUser(t, db, "chef_bob")
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	results, err := svc.SearchUsers(ctx, "chef", 20)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Blank query returns an empty list rather than everyone.
	results, err = svc.SearchUsers(ctx, "   ", 20)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chef1")
	svc := NewUserService(repository.NewUserRepository(db))

	updated, err := svc.UpdateAvatar(context.Background(), user.ID, " https://cdn.example.com/a.png ")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", updated.AvatarURL)
}

func TestUserService_UpdateKitchen(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chef1")
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	inventory := models.KitchenInventory{}
	inventory.Appliances.Oven = true
	inventory.Pots.Medium = 2

	updated, err := svc.UpdateKitchen(ctx, user.ID, inventory)
	require.NoError(t, err)
	require.NotNil(t, updated.KitchenInventory)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.KitchenInventory)
	got := stored.KitchenInventory.Data()
	assert.True(t, got.Appliances.Oven)
	assert.Equal(t, 2, got.Pots.Medium)
}
