// Command seed loads the course dataset into Postgres and stores the admin
// chat credential in Redis. Run it once before first start, or whenever the
// upstream dataset changes out of band.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/nicebott/docencia-api/config"
	"github.com/nicebott/docencia-api/database"
	"github.com/nicebott/docencia-api/services"
	"github.com/nicebott/docencia-api/utils/cache"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Printf("Warning: could not load .env: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if env.COURSE_DATA_URL != "" {
		if err := seedCourseData(ctx, env.COURSE_DATA_URL); err != nil {
			log.Fatalf("course data: %v", err)
		}
	} else {
		log.Println("COURSE_DATA_URL not set, skipping course data load")
	}

	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		if err := seedAdminCredential(ctx, env.REDIS_URL, password); err != nil {
			log.Fatalf("admin credential: %v", err)
		}
	} else {
		log.Println("ADMIN_PASSWORD not set, skipping admin credential")
	}

	log.Println("Seed complete")
}

func seedCourseData(ctx context.Context, url string) error {
	fetcher := services.NewCourseFetcher(url)
	data, err := fetcher.FetchCourseData(ctx)
	if err != nil {
		return err
	}
	log.Printf("Fetched %d courses and %d sections", len(data.Courses), len(data.Sections))

	store, err := database.StartGORM()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return err
	}
	return store.ReplaceCourseData(data.Courses, data.Sections)
}

func seedAdminCredential(ctx context.Context, redisURL, password string) error {
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	store := database.NewRedisMessageStore(redisCache)
	return store.SetAdminCredential(ctx, password)
}
