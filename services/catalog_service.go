package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/nicebott/docencia-api/model"
)

// CatalogService owns the in-memory course/section snapshot. The snapshot is
// replaced wholesale on every refresh; searches run against whatever snapshot
// is current, so they stay pure and lock-free beyond the swap.
type CatalogService struct {
	db *gorm.DB

	mu       sync.RWMutex
	courses  []model.Course
	sections []model.Section
	byID     map[string]model.Course
	loadedAt time.Time
	loadErr  error
}

// SearchResult is one page of filtered sections plus the courses visible on
// that page (deduplicated by id) and the pagination metadata the client needs.
type SearchResult struct {
	Sections   []model.Section `json:"sections"`
	Courses    []model.Course  `json:"courses"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	PageSize   int             `json:"pageSize"`
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Refresh reloads the snapshot from Postgres. On failure the previous
// snapshot (possibly empty) stays in place and the error is recorded; the
// catalog is never left half-loaded.
func (s *CatalogService) Refresh(ctx context.Context) error {
	var courses []model.Course
	if err := s.db.WithContext(ctx).Order("id").Find(&courses).Error; err != nil {
		s.recordError(err)
		return err
	}

	var sections []model.Section
	if err := s.db.WithContext(ctx).Order("id").Find(&sections).Error; err != nil {
		s.recordError(err)
		return err
	}

	s.Replace(courses, sections)
	log.Printf("catalog refreshed: %d courses, %d sections", len(courses), len(sections))
	return nil
}

// Replace swaps in a new snapshot and rebuilds the course index.
func (s *CatalogService) Replace(courses []model.Course, sections []model.Section) {
	idx := indexCourses(courses)

	s.mu.Lock()
	s.courses = courses
	s.sections = sections
	s.byID = idx
	s.loadedAt = time.Now()
	s.loadErr = nil
	s.mu.Unlock()
}

func (s *CatalogService) recordError(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
	log.Println("catalog load failed:", err)
}

// Ready reports whether at least one snapshot has been loaded successfully.
func (s *CatalogService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// LoadError returns the error from the most recent failed refresh, or nil.
func (s *CatalogService) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Search filters the current snapshot and returns the requested page. The
// page is clamped into [1, totalPages] against the filtered count, so a
// filter that shrinks the result set can never leave the caller past the end.
func (s *CatalogService) Search(query, campus string, modality model.Modality, page, pageSize int) SearchResult {
	s.mu.RLock()
	courses := s.courses
	sections := s.sections
	byID := s.byID
	s.mu.RUnlock()

	filtered := filterIndexed(byID, sections, query, campus, modality)

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := TotalPages(len(filtered), pageSize)
	page = ClampPage(page, totalPages)
	pageSections := Paginate(filtered, page, pageSize)

	return SearchResult{
		Sections:   pageSections,
		Courses:    PageCourses(courses, pageSections),
		Total:      len(filtered),
		Page:       page,
		TotalPages: totalPages,
		PageSize:   pageSize,
	}
}

// Campuses returns the fixed campus list offered by the campus filter.
func (s *CatalogService) Campuses() []string {
	return model.AllCampuses
}
