// Seeds the development database with fake listing posts so the feed has
// content to page through. Not for production use.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"dwellr/internal/config"
	"dwellr/internal/database"
	"dwellr/internal/middleware"
	"dwellr/internal/models"
	"dwellr/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

func main() {
	count := flag.Int("count", 25, "number of posts to create")
	appendPosts := flag.Bool("append", false, "add posts even if the feed already has some")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		middleware.Logger.Error("Refusing to seed a production database")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	existing, err := repo.Count(ctx)
	if err != nil {
		middleware.Logger.Error("Failed to count posts", "error", err)
		os.Exit(1)
	}
	if existing > 0 && !*appendPosts {
		middleware.Logger.Info("Feed already has posts, use -append to add more", "count", existing)
		return
	}

	for i := 0; i < *count; i++ {
		post := fakePost(i)
		if err := repo.Create(ctx, post); err != nil {
			middleware.Logger.Error("Failed to create seed post", "error", err)
			os.Exit(1)
		}
		middleware.Logger.Debug("Seeded post",
			"id", post.ID, "media_url", post.MediaURL(cfg.MediaBaseURL))
	}

	middleware.Logger.Info("Seeded posts", "count", *count)
}

func fakePost(i int) *models.Post {
	// Spread creation times so feed ordering is visible in dev.
	created := models.NewTimestamp(time.Now().UTC().Add(-time.Duration(i) * time.Hour))

	price := float64(gofakeit.Number(900, 4500))
	sqft := float64(gofakeit.Number(350, 2800))
	bedrooms := gofakeit.Number(0, 4)
	bathrooms := gofakeit.Number(1, 3)
	months := gofakeit.RandomInt([]int{6, 12, 18, 24})
	availability := gofakeit.DateRange(
		time.Now(), time.Now().AddDate(0, 3, 0)).Format("2006-01-02")
	location := fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr())
	description := fmt.Sprintf(
		"%d bed, %d bath in %s. %s", bedrooms, bathrooms, location,
		gofakeit.Sentence(12))

	return &models.Post{
		ID:        uuid.NewString(),
		CreatedAt: created,
		UpdatedAt: created,
		Username:  gofakeit.Username(),
		MediaKey:  strings.ReplaceAll(uuid.NewString(), "-", ""),
		Metadata: models.PostMetadata{
			IncludesParking:       ptr(gofakeit.Bool()),
			LeaseAvailabilityDate: &availability,
			LengthOfLeaseInMonths: &months,
			PetsAllowed:           ptr(gofakeit.Bool()),
			Price:                 &price,
			Sqft:                  &sqft,
			GeneratedDescription:  &description,
			BedroomCount:          &bedrooms,
			BathroomCount:         &bathrooms,
			Furnished:             ptr(gofakeit.Bool()),
			Kitchen:               ptr(true),
			Yard:                  ptr(gofakeit.Bool()),
			Location:              &location,
			UtilitiesIncluded:     ptr(gofakeit.Bool()),
		},
	}
}

func ptr[T any](v T) *T { return &v }
