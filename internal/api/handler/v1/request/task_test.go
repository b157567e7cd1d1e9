package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/request"
)

func validTask() request.TaskRequest {
	return request.TaskRequest{
		Title:      "Hand out flyers",
		Points:     10,
		CategoryID: "cat-1",
		CampaignID: "camp-1",
	}
}

func TestTaskRequest_Validate(t *testing.T) {
	req := validTask()
	assert.NoError(t, req.Validate())
}

func TestTaskRequest_Validate_RequiredFields(t *testing.T) {
	req := validTask()
	req.Title = ""
	assert.Error(t, req.Validate())

	req = validTask()
	req.CategoryID = ""
	assert.Error(t, req.Validate())

	req = validTask()
	req.Points = -1
	assert.Error(t, req.Validate())
}

func TestTaskRequest_Validate_ImageRef(t *testing.T) {
	valid := []string{
		"",
		"/flyer.jpg",
		"/nested/path/photo.png",
		"http://example.com/a.png",
		"https://example.com/a.png",
		"data:image/png;base64,aGVsbG8=",
		"data:image/svg+xml;base64,PHN2Zz4=",
	}
	for _, image := range valid {
		req := validTask()
		req.Image = image
		assert.NoError(t, req.Validate(), image)
	}

	invalid := []string{
		"flyer.jpg",
		"/with space.jpg",
		"ftp://example.com/a.png",
		"data:image/png,notbase64",
	}
	for _, image := range invalid {
		req := validTask()
		req.Image = image
		assert.Error(t, req.Validate(), image)
	}
}
