package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	jobs *Jobs
}

// NewCronManager creates a new cron manager
func NewCronManager(jobs *Jobs) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		jobs: jobs,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every 6 hours: re-fetch the published dataset and reload the catalog
	_, err := m.cron.AddFunc("0 0 */6 * * *", func() {
		m.logJobStart("reload_course_data")
		m.jobs.ReloadCourseData()
	})
	if err != nil {
		return err
	}

	// Every 15 minutes: refresh the in-memory snapshot from Postgres
	_, err = m.cron.AddFunc("0 */15 * * * *", func() {
		m.logJobStart("refresh_catalog_snapshot")
		m.jobs.RefreshCatalogSnapshot()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))
}
