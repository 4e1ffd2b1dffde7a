package services

import (
	"testing"

	"github.com/nicebott/docencia-api/model"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, pageSize, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{100, 20, 5},
		{5, 0, 1},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.pageSize); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.pageSize, got, tt.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, totalPages, want int
	}{
		{1, 3, 1},
		{3, 3, 3},
		{5, 3, 3},
		{0, 3, 1},
		{-2, 3, 1},
		{2, 1, 1},
	}

	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.totalPages); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	page1 := Paginate(items, 1, 20)
	if len(page1) != 20 || page1[0] != 0 || page1[19] != 19 {
		t.Errorf("page 1: got %d items starting at %d", len(page1), page1[0])
	}

	page3 := Paginate(items, 3, 20)
	if len(page3) != 5 || page3[0] != 40 {
		t.Errorf("page 3: got %d items, want the trailing 5", len(page3))
	}

	if got := Paginate(items, 4, 20); len(got) != 0 {
		t.Errorf("out-of-range page returned %d items, want none", len(got))
	}
	if got := Paginate(items, 0, 20); len(got) != 0 {
		t.Errorf("page 0 returned %d items, want none", len(got))
	}
	if got := Paginate([]int{}, 1, 20); len(got) != 0 {
		t.Errorf("empty input returned %d items", len(got))
	}
}

func TestPageCourses(t *testing.T) {
	courses := []model.Course{
		{ID: "c1", Name: "Matemática"},
		{ID: "c2", Name: "Historia"},
		{ID: "c3", Name: "Física"},
	}
	pageSections := []model.Section{
		{ID: "s1", CourseID: "c3"},
		{ID: "s2", CourseID: "c1"},
		{ID: "s3", CourseID: "c1"},
		{ID: "s4", CourseID: "missing"},
	}

	got := PageCourses(courses, pageSections)

	// Deduplicated by course id, in catalog order regardless of section order.
	if len(got) != 2 {
		t.Fatalf("got %d courses, want 2", len(got))
	}
	if got[0].ID != "c1" || got[1].ID != "c3" {
		t.Errorf("got [%s %s], want catalog order [c1 c3]", got[0].ID, got[1].ID)
	}
}

func TestPageCoursesEmptyPage(t *testing.T) {
	courses := []model.Course{{ID: "c1"}}
	if got := PageCourses(courses, nil); len(got) != 0 {
		t.Errorf("empty page produced %d courses", len(got))
	}
}
