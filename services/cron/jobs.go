package cron

import (
	"context"
	"log"
	"time"

	"github.com/nicebott/docencia-api/database"
	"github.com/nicebott/docencia-api/services"
)

// Jobs holds the collaborators the scheduled jobs act on.
type Jobs struct {
	store   *database.GORMStore
	catalog *services.CatalogService
	fetcher *services.CourseFetcher
}

func NewJobs(store *database.GORMStore, catalog *services.CatalogService, fetcher *services.CourseFetcher) *Jobs {
	return &Jobs{store: store, catalog: catalog, fetcher: fetcher}
}

// ReloadCourseData re-fetches the published dataset, replaces the persisted
// rows and reloads the in-memory snapshot. A failed fetch leaves the current
// data untouched.
func (j *Jobs) ReloadCourseData() {
	if j.fetcher == nil {
		log.Println("[CRON] reload_course_data: no dataset URL configured, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	data, err := j.fetcher.FetchCourseData(ctx)
	if err != nil {
		log.Println("[CRON] reload_course_data failed:", err)
		return
	}
	if err := j.store.ReplaceCourseData(data.Courses, data.Sections); err != nil {
		log.Println("[CRON] reload_course_data: persist failed:", err)
		return
	}
	if err := j.catalog.Refresh(ctx); err != nil {
		log.Println("[CRON] reload_course_data: snapshot refresh failed:", err)
		return
	}
	log.Printf("[CRON] reload_course_data: loaded %d courses, %d sections", len(data.Courses), len(data.Sections))
}

// RefreshCatalogSnapshot reloads the in-memory snapshot from Postgres.
func (j *Jobs) RefreshCatalogSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.catalog.Refresh(ctx); err != nil {
		log.Println("[CRON] refresh_catalog_snapshot failed:", err)
	}
}
