package seed

import (
	"fmt"
	"log"

	"simmr/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxDays     int
	ShouldClean bool
}

// Seed populates the database with test data: users with profiles, dish
// posts spread over time, and a random mesh of likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d users created", len(users))

	if len(users) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		user := users[f.r.Intn(len(users))]
		post, err := f.CreatePost(user, opts.MaxDays)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	// Roughly three likes per post on average, deduplicated by the factory.
	var likes int
	for i := 0; i < opts.NumPosts*3; i++ {
		user := users[f.r.Intn(len(users))]
		post := posts[f.r.Intn(len(posts))]
		if err := f.CreateLike(user, post); err != nil {
			return fmt.Errorf("failed to create like: %w", err)
		}
		likes++
	}
	log.Printf("%d likes created", likes)

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, posts, verification_tokens, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
