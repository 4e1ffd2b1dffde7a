package services

import "github.com/nicebott/docencia-api/model"

// DefaultPageSize matches the twenty sections per page the web client shows.
const DefaultPageSize = 20

// TotalPages returns max(1, ceil(count/pageSize)). An empty result set still
// has one (empty) page.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage pulls page back into [1, totalPages]. Applied whenever the
// filtered set changes size, so the current page never dangles past the end.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the 1-based page of items, up to pageSize entries, fewer
// on the last page. An out-of-range page yields an empty slice, never an
// error; clamping beforehand is the caller's job.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize <= 0 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageCourses returns the courses referenced by the visible page's sections,
// deduplicated by course id, in catalog order. Pagination is over sections;
// only courses actually present on the page are shown.
func PageCourses(courses []model.Course, pageSections []model.Section) []model.Course {
	wanted := make(map[string]struct{}, len(pageSections))
	for _, s := range pageSections {
		wanted[s.CourseID] = struct{}{}
	}

	out := make([]model.Course, 0, len(wanted))
	for _, c := range courses {
		if _, ok := wanted[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}
