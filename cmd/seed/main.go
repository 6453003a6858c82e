// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"blogify/internal/config"
	"blogify/internal/database"
	"blogify/internal/middleware"
	"blogify/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	numCategories := flag.Int("categories", defaults.Categories, "Number of categories to create")
	numPosts := flag.Int("posts", defaults.Posts, "Number of posts to create")
	numComments := flag.Int("comments", defaults.Comments, "Number of comments to create")
	numLikes := flag.Int("likes", defaults.Likes, "Number of likes to attempt")
	shouldClean := flag.Bool("clean", defaults.Clean, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Hash the shared password with the minimum bcrypt cost")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible content (0 = time based)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	middleware.SetupLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	s := seed.NewSeeder(db, seed.Options{
		Users:      *numUsers,
		Categories: *numCategories,
		Posts:      *numPosts,
		Comments:   *numComments,
		Likes:      *numLikes,
		Clean:      *shouldClean,
		FastHash:   *fast,
		RandSeed:   *randSeed,
		MaxDays:    defaults.MaxDays,
	})

	res, err := s.Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d categories, %d posts, %d comments, %d likes",
		res.Users, res.Categories, res.Posts, res.Comments, res.Likes)
	log.Printf("All seeded users share the password: %s", seed.DefaultPassword)
}
