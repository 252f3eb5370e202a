package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"amphomeus/internal/database"
	"amphomeus/internal/domain"
	jwtsvc "amphomeus/internal/pkg/jwt"
	"amphomeus/internal/pkg/mediastore"
)

// fakeMedia records deletions and hands out predictable keys.
type fakeMedia struct {
	mu      sync.Mutex
	n       int
	deleted []string
}

func (f *fakeMedia) Upload(_ context.Context, file mediastore.File) (*mediastore.UploadResult, error) {
	if _, err := io.Copy(io.Discard, file.Body); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	key := fmt.Sprintf("amphomeus/test/%d.jpg", f.n)
	return &mediastore.UploadResult{
		URL:       "https://cdn.example.com/" + key,
		PublicID:  key,
		MediaType: domain.MediaImage,
		Bytes:     file.Size,
	}, nil
}

func (f *fakeMedia) Delete(_ context.Context, publicID string) (*mediastore.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return &mediastore.DeleteResult{Result: "ok"}, nil
}

func (f *fakeMedia) MaxUploadBytes() int64 { return mediastore.DefaultMaxUploadBytes }

type TestResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type testSuite struct {
	router *gin.Engine
	media  *fakeMedia
	token  string
}

func setupTestSuite(t *testing.T) *testSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:server_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, zap.NewNop())
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(context.Background(), db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	tokens := jwtsvc.New("test_secret_key_32_characters_min", time.Hour, "")
	token, err := tokens.GenerateToken("user-1", "me@example.com")
	require.NoError(t, err)

	media := &fakeMedia{}
	r := NewRouter(Deps{DB: db, Media: media, Tokens: tokens, Log: zap.NewNop()})

	return &testSuite{router: r, media: media, token: token}
}

func (s *testSuite) request(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, &resp
}

func TestHealthIsPublic(t *testing.T) {
	s := setupTestSuite(t)

	w, _ := s.request(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRoutesRequireAuth(t *testing.T) {
	s := setupTestSuite(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/journals"},
		{http.MethodPost, "/api/v1/journals"},
		{http.MethodGet, "/api/v1/journals/x"},
		{http.MethodPut, "/api/v1/journals/x"},
		{http.MethodDelete, "/api/v1/journals/x"},
		{http.MethodGet, "/api/v1/tags"},
		{http.MethodPost, "/api/v1/media/upload"},
		{http.MethodPost, "/api/v1/media/delete"},
		{http.MethodGet, "/api/v1/ws/gallery"},
	} {
		w, resp := s.request(t, route.method, route.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
		if assert.NotNil(t, resp.Error) {
			assert.Equal(t, "AUTH_HEADER_MISSING", resp.Error.Code)
		}
	}
}

func TestJournalLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	// create
	w, resp := s.request(t, http.MethodPost, "/api/v1/journals", gin.H{
		"title": "Beach Day",
		"date":  "2024-07-04",
		"media": []gin.H{
			{"url": "https://cdn.example.com/a.jpg", "publicId": "amphomeus/a.jpg", "mediaType": "IMAGE"},
			{"url": "https://cdn.example.com/b.jpg", "publicId": "amphomeus/b.jpg", "mediaType": "IMAGE"},
		},
		"tags": []string{"beach", "summer"},
	}, s.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.Journal
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.Len(t, created.Media, 2)
	require.Len(t, created.Tags, 2)

	// tags are listed for autocomplete
	w, resp = s.request(t, http.MethodGet, "/api/v1/tags", nil, s.token)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []domain.Tag
	require.NoError(t, json.Unmarshal(resp.Data, &tags))
	assert.Len(t, tags, 2)

	// gallery sees it through the tag filter
	w, resp = s.request(t, http.MethodGet, "/api/v1/journals?tags="+tags[0].ID+"&endDate=2024-07-04", nil, s.token)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []domain.Journal
	require.NoError(t, json.Unmarshal(resp.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// update drops one media item
	path := "/api/v1/journals/" + created.ID
	keep := created.Media[1]
	w, _ = s.request(t, http.MethodPut, path, gin.H{
		"title":         "Beach Day (edited)",
		"media":         []gin.H{{"id": keep.ID, "url": keep.URL, "publicId": keep.PublicID, "mediaType": "IMAGE"}},
		"tags":          []string{"beach"},
		"mediaToDelete": []string{created.Media[0].ID},
	}, s.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{created.Media[0].PublicID}, s.media.deleted)

	// delete removes the rest
	w, _ = s.request(t, http.MethodDelete, path, nil, s.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{created.Media[0].PublicID, keep.PublicID}, s.media.deleted)

	w, _ = s.request(t, http.MethodGet, path, nil, s.token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// tag rows survive
	_, resp = s.request(t, http.MethodGet, "/api/v1/tags", nil, s.token)
	require.NoError(t, json.Unmarshal(resp.Data, &tags))
	assert.Len(t, tags, 2)
}
