package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nicebott/docencia-api/model"
)

// CourseData is the published teaching-schedule dataset: a flat list of
// courses and the sections referencing them.
type CourseData struct {
	Courses  []model.Course  `json:"courses"`
	Sections []model.Section `json:"sections"`
}

// CourseFetcher downloads the dataset JSON from its published URL. A failed
// fetch is a load error to report, never a reason to crash; there is no
// automatic retry.
type CourseFetcher struct {
	client *resty.Client
	url    string
}

func NewCourseFetcher(url string) *CourseFetcher {
	return &CourseFetcher{
		client: resty.New().SetTimeout(30 * time.Second),
		url:    url,
	}
}

// FetchCourseData retrieves and decodes the dataset.
func (f *CourseFetcher) FetchCourseData(ctx context.Context) (*CourseData, error) {
	var data CourseData
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&data).
		Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("fetch course data: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch course data: unexpected status %s", resp.Status())
	}
	return &data, nil
}
