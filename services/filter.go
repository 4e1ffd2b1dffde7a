package services

import (
	"strings"

	"github.com/nicebott/docencia-api/model"
	"github.com/nicebott/docencia-api/utils/textutil"
)

// indexCourses builds the course-id lookup used by the section/course join.
// Built once per catalog load instead of a linear scan per section.
func indexCourses(courses []model.Course) map[string]model.Course {
	idx := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		idx[c.ID] = c
	}
	return idx
}

// FilterSections returns the sections matching all three predicates (free-text
// query, campus, modality), preserving input order. The filter is pure and
// stable: no resorting, no mutation of the inputs.
func FilterSections(courses []model.Course, sections []model.Section, query, campus string, modality model.Modality) []model.Section {
	return filterIndexed(indexCourses(courses), sections, query, campus, modality)
}

func filterIndexed(byID map[string]model.Course, sections []model.Section, query, campus string, modality model.Modality) []model.Section {
	normQuery := textutil.Normalize(strings.TrimSpace(query))

	out := make([]model.Section, 0, len(sections))
	for _, s := range sections {
		if !matchesQuery(byID, s, normQuery) {
			continue
		}
		if campus != "" && s.Campus != campus {
			continue
		}
		if !matchesModality(s.Modalidad, modality) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// matchesQuery matches the normalized query as a substring of the section's
// professor or NRC, or of the course name/code when the section's course
// resolves. A dangling courseId only disables the course-joined checks; the
// section itself stays eligible.
func matchesQuery(byID map[string]model.Course, s model.Section, normQuery string) bool {
	if normQuery == "" {
		return true
	}
	if strings.Contains(textutil.Normalize(s.Professor), normQuery) {
		return true
	}
	if strings.Contains(textutil.Normalize(s.NRC), normQuery) {
		return true
	}
	if course, ok := byID[s.CourseID]; ok {
		if strings.Contains(textutil.Normalize(course.Name), normQuery) ||
			strings.Contains(textutil.Normalize(course.Code), normQuery) {
			return true
		}
	}
	return false
}

// matchesModality categorizes the free-text modalidad field at filter time:
// "virtual" covers anything mentioning online, "semipresencial" anything
// mentioning semi (which subsumes "semipresencial" and "semi presencial").
func matchesModality(modalidad string, m model.Modality) bool {
	switch m {
	case model.ModalityNone:
		return true
	case model.ModalityVirtual:
		return strings.Contains(textutil.Normalize(modalidad), "online")
	case model.ModalitySemipresencial:
		return strings.Contains(textutil.Normalize(modalidad), "semi")
	}
	return false
}
