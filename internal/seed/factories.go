// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"simmr/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var (
	dishes = []string{
		"Tacos al Pastor", "Shoyu Ramen", "Margherita Pizza", "Pad Thai",
		"Chicken Tikka Masala", "Beef Bourguignon", "Shakshuka", "Bibimbap",
		"Paella", "Pho", "Carbonara", "Butter Chicken", "Falafel Wraps",
		"Gumbo", "Katsu Curry", "Mushroom Risotto", "Banh Mi", "Pierogi",
		"Jerk Chicken", "Moussaka", "Tom Yum Soup", "Arepas", "Okonomiyaki",
	}

	tagPool = []string{
		"quick", "weeknight", "comfort", "spicy", "vegetarian", "vegan",
		"baking", "grilling", "one-pot", "meal-prep", "street-food",
		"breakfast", "dessert", "fermented", "seasonal", "leftovers",
	}

	difficulties = []string{
		models.DifficultyBeginner,
		models.DifficultyIntermediate,
		models.DifficultyAdvanced,
		models.DifficultyExpert,
	}

	tips = []string{
		"Salt your pasta water until it tastes like the sea.",
		"Let the pan get properly hot before the protein goes in.",
		"Rest the meat before slicing so the juices stay put.",
		"Toast your spices in a dry pan to wake them up.",
		"A splash of acid at the end brightens almost any dish.",
	}
)

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	email := fmt.Sprintf("%s@example.com", username)

	user := &models.User{
		Username:      username,
		DisplayName:   gofakeit.Name(),
		Email:         &email,
		EmailVerified: true,
		AuthProvider:  models.AuthProviderEmail,
		Bio:           gofakeit.Sentence(10),
		AvatarURL:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample dish post for the given user,
// with created_at spread over the last maxDays days.
func (f *Factory) CreatePost(user *models.User, maxDays int, overrides ...func(*models.Post)) (*models.Post, error) {
	if maxDays <= 0 {
		maxDays = 90
	}

	dish := dishes[f.r.Intn(len(dishes))]
	cookTime := gofakeit.Number(10, 180)
	servings := gofakeit.Number(1, 8)

	post := &models.Post{
		UserID:      user.ID,
		Title:       dish,
		Description: gofakeit.Sentence(12),
		RecipeNotes: gofakeit.Paragraph(1, 3, 8, "\n"),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		Tags:        f.pickTags(),
		CookTime:    &cookTime,
		Difficulty:  difficulties[f.r.Intn(len(difficulties))],
		Servings:    &servings,
		Ingredients: f.buildIngredients(),
	}
	if f.r.Float32() < 0.7 {
		post.AITip = tips[f.r.Intn(len(tips))]
	}

	daysBack := f.r.Intn(maxDays)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(f.r.Intn(24))*time.Hour -
			time.Duration(f.r.Intn(60))*time.Minute)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateLike persists a like from `user` on `post`. Duplicate likes are
// skipped so random engagement seeding never trips the unique index.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	err := f.db.Create(like).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return nil
	}
	return err
}

func (f *Factory) pickTags() []string {
	n := f.r.Intn(4) + 1
	picked := make([]string, 0, n)
	seen := map[string]bool{}
	for len(picked) < n {
		tag := tagPool[f.r.Intn(len(tagPool))]
		if !seen[tag] {
			seen[tag] = true
			picked = append(picked, tag)
		}
	}
	return picked
}

func (f *Factory) buildIngredients() []models.Ingredient {
	n := f.r.Intn(6) + 3
	ingredients := make([]models.Ingredient, 0, n)
	units := []string{"g", "ml", "tbsp", "tsp", "cups", "pieces", "cloves"}
	for i := 0; i < n; i++ {
		ingredients = append(ingredients, models.Ingredient{
			Name:     gofakeit.Vegetable(),
			Quantity: fmt.Sprintf("%d", gofakeit.Number(1, 500)),
			Unit:     units[f.r.Intn(len(units))],
		})
	}
	return ingredients
}
