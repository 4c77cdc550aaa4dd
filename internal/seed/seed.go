// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	log.Println("✨ Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	if err := db.Exec("DELETE FROM posts").Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM users").Error
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	// All test users share the password "password123".
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		user := &models.User{
			Name:     name,
			Email:    fmt.Sprintf("user%d@example.com", i+1),
			Password: string(hashed),
			Avatar:   gofakeit.ImageURL(128, 128),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users available to author posts")
	}

	posts := make([]*models.Post, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]

		post := &models.Post{
			Text:     gofakeit.Sentence(8 + rand.Intn(12)),
			Name:     author.Name,
			Avatar:   author.Avatar,
			UserID:   author.ID,
			Likes:    randomLikes(users),
			Comments: randomComments(users, now),
			// Spread posts over the past month so the feed has a
			// believable timeline.
			CreatedAt: now.Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func randomLikes(users []*models.User) []models.Like {
	likes := []models.Like{}
	for _, u := range users {
		if rand.Intn(4) == 0 {
			likes = append(likes, models.Like{User: u.ID})
		}
	}
	return likes
}

func randomComments(users []*models.User, now time.Time) []models.Comment {
	comments := []models.Comment{}
	n := rand.Intn(4)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		comments = append(comments, models.Comment{
			ID:     uuid.NewString(),
			Text:   gofakeit.Sentence(4 + rand.Intn(10)),
			Name:   author.Name,
			Avatar: author.Avatar,
			User:   author.ID,
			Date:   now.Add(-time.Duration(rand.Intn(24*7)) * time.Hour),
		})
	}
	return comments
}
