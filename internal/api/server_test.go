package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarshamigo11/task-portal/internal/api"
	"github.com/adarshamigo11/task-portal/internal/config"
	"github.com/adarshamigo11/task-portal/internal/domain"
	"github.com/adarshamigo11/task-portal/internal/repository"
	"github.com/adarshamigo11/task-portal/internal/repository/dao"
	"github.com/adarshamigo11/task-portal/internal/store"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			JWTSigningKey:      "test-signing-key",
			AllowedCORSDomains: []string{"http://localhost:3000"},
		},
		Gin: &config.GinConfig{
			Mode: gin.TestMode,
		},
	}

	persister := repository.NewStateRepository(
		dao.NewFileStateDAO(filepath.Join(t.TempDir(), "state.json")),
	)
	st := store.Open(context.Background(), persister)

	return api.NewServer(conf, st)
}

func doRequest(t *testing.T, srv *api.Server, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)

	return w
}

func doJSON(t *testing.T, srv *api.Server, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return doRequest(t, srv, method, path, token, bytes.NewReader(body))
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

type loginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
	Admin bool        `json:"admin"`
}

func login(t *testing.T, srv *api.Server, email, password string) loginResult {
	t.Helper()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decodeBody[loginResult](t, w)
}

func TestHealthcheck(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	got := login(t, srv, domain.AdminEmail, "123")
	assert.NotEmpty(t, got.Token)
	assert.True(t, got.Admin)
	assert.Equal(t, domain.AdminEmail, got.User.Email)

	// The password hash never leaves the API.
	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    domain.AdminEmail,
		"password": "123",
	})
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "11@11.com",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestLogin_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/v1/me", "/api/v1/tasks", "/api/v1/state"} {
		w := doRequest(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doRequest(t, srv, http.MethodGet, "/api/v1/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	srv := newTestServer(t)
	user := login(t, srv, "11@11.com", "123")

	w := doJSON(t, srv, http.MethodPost, "/api/v1/campaigns", user.Token, gin.H{
		"name": "Not allowed",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/submissions", user.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetMe(t *testing.T) {
	srv := newTestServer(t)
	user := login(t, srv, "11@11.com", "123")

	w := doRequest(t, srv, http.MethodGet, "/api/v1/me", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	me := decodeBody[domain.User](t, w)
	assert.Equal(t, "11@11.com", me.Email)
}

func TestGetTask_NotFound(t *testing.T) {
	srv := newTestServer(t)
	user := login(t, srv, "11@11.com", "123")

	w := doRequest(t, srv, http.MethodGet, "/api/v1/tasks/missing", user.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishTask_Validation(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, domain.AdminEmail, "123")

	// Missing title.
	w := doJSON(t, srv, http.MethodPost, "/api/v1/tasks", admin.Token, gin.H{
		"points":     10,
		"categoryId": "cat-1",
		"campaignId": "camp-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Image with embedded whitespace.
	w = doJSON(t, srv, http.MethodPost, "/api/v1/tasks", admin.Token, gin.H{
		"title":      "T",
		"image":      "/bad path.jpg",
		"points":     10,
		"categoryId": "cat-1",
		"campaignId": "camp-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func submitFile(t *testing.T, srv *api.Server, token, taskID, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/tasks/%s/submissions", taskID), &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)

	return w
}

// The whole lifecycle through the HTTP surface: the admin builds the campaign
// graph, a user submits proof, the admin reviews it and the leaderboard moves.
func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, domain.AdminEmail, "123")

	w := doJSON(t, srv, http.MethodPost, "/api/v1/campaigns", admin.Token, gin.H{
		"name":        "Q4 Push",
		"description": "year-end campaign",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	campaign := decodeBody[domain.Campaign](t, w)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/categories", admin.Token, gin.H{
		"name":       "Outreach",
		"campaignId": campaign.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decodeBody[domain.Category](t, w)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/tasks", admin.Token, gin.H{
		"title":      "Hand out flyers",
		"details":    "Photo proof required",
		"image":      "/flyer.jpg",
		"points":     10,
		"categoryId": category.ID,
		"campaignId": campaign.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decodeBody[domain.Task](t, w)
	assert.Equal(t, domain.TaskPublished, task.Status)
	assert.Equal(t, campaign.ID, task.CampaignID)

	// The user logs in last, so the session pointer is theirs for the upload.
	user := login(t, srv, "11@11.com", "123")

	w = doRequest(t, srv, http.MethodGet, "/api/v1/tasks?categoryID="+category.ID, user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decodeBody[[]domain.Task](t, w)
	require.Len(t, tasks, 1)

	w = doRequest(t, srv, http.MethodPost, "/api/v1/tasks/"+task.ID+"/visit", user.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = submitFile(t, srv, user.Token, task.ID, "proof.png", []byte("fake-png-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decodeBody[domain.Submission](t, w)
	assert.Equal(t, domain.SubmissionPending, sub.Status)
	assert.Equal(t, "11@11.com", sub.UserEmail)
	assert.True(t, strings.HasPrefix(sub.DataURL, "data:"), sub.DataURL)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/submissions/mine", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decodeBody[[]domain.Submission](t, w)
	require.Len(t, mine, 1)

	w = doRequest(t, srv, http.MethodPost, "/api/v1/submissions/"+sub.ID+"/approve", admin.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/leaderboard", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ranked := decodeBody[[]domain.User](t, w)
	require.NotEmpty(t, ranked)
	assert.Equal(t, "11@11.com", ranked[0].Email)
	assert.Equal(t, 10, ranked[0].Points)

	// Replaying the approval must not credit again.
	w = doRequest(t, srv, http.MethodPost, "/api/v1/submissions/"+sub.ID+"/approve", admin.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/leaderboard", user.Token, nil)
	ranked = decodeBody[[]domain.User](t, w)
	assert.Equal(t, 10, ranked[0].Points)

	w = doRequest(t, srv, http.MethodDelete, "/api/v1/tasks/"+task.ID, admin.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/submissions", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeBody[[]domain.Submission](t, w)
	assert.Empty(t, all)

	// Points earned before the deletion stay earned.
	w = doRequest(t, srv, http.MethodGet, "/api/v1/leaderboard", user.Token, nil)
	ranked = decodeBody[[]domain.User](t, w)
	assert.Equal(t, 10, ranked[0].Points)
}

func TestSubmitTask_MissingFile(t *testing.T) {
	srv := newTestServer(t)
	user := login(t, srv, "11@11.com", "123")

	w := doRequest(t, srv, http.MethodPost, "/api/v1/tasks/any/submissions", user.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCampaign_CascadesOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, domain.AdminEmail, "123")

	w := doJSON(t, srv, http.MethodPost, "/api/v1/campaigns", admin.Token, gin.H{"name": "Doomed"})
	require.Equal(t, http.StatusCreated, w.Code)
	campaign := decodeBody[domain.Campaign](t, w)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/categories", admin.Token, gin.H{
		"name":       "Cat",
		"campaignId": campaign.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	category := decodeBody[domain.Category](t, w)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/tasks", admin.Token, gin.H{
		"title":      "T",
		"points":     5,
		"categoryId": category.ID,
		"campaignId": campaign.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, srv, http.MethodDelete, "/api/v1/campaigns/"+campaign.ID, admin.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/categories", admin.Token, nil)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	w = doRequest(t, srv, http.MethodGet, "/api/v1/tasks", admin.Token, nil)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestUpdatesFeed(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, domain.AdminEmail, "123")

	w := doJSON(t, srv, http.MethodPost, "/api/v1/updates", admin.Token, gin.H{
		"title":   "Maintenance",
		"details": "Back at noon",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	update := decodeBody[domain.Update](t, w)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/updates", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	updates := decodeBody[[]domain.Update](t, w)
	require.Len(t, updates, 1)

	w = doRequest(t, srv, http.MethodDelete, "/api/v1/updates/"+update.ID, admin.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/v1/updates", admin.Token, nil)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestGetState(t *testing.T) {
	srv := newTestServer(t)
	user := login(t, srv, "11@11.com", "123")

	w := doRequest(t, srv, http.MethodGet, "/api/v1/state", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	snap := decodeBody[domain.Snapshot](t, w)
	assert.Len(t, snap.Users, 4)
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, "11@11.com", snap.CurrentUser.Email)
	assert.False(t, snap.IsAdmin)
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	user := login(t, srv, "11@11.com", "123")

	w := doRequest(t, srv, http.MethodPost, "/api/v1/auth/logout", user.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// The token still authenticates the route; only the session pointer moved.
	w = doRequest(t, srv, http.MethodGet, "/api/v1/state", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeBody[domain.Snapshot](t, w)
	assert.Nil(t, snap.CurrentUser)
}
