package journal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"amphomeus/internal/domain"
	"amphomeus/internal/pkg/mediastore"
	"amphomeus/internal/repository"
)

type journalEnvelope struct {
	Success bool           `json:"success"`
	Data    domain.Journal `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *repository.Store, *MockMediaDeleter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newTestStore(t)
	deleter := new(MockMediaDeleter)
	h := NewHandler(NewService(store, deleter, nil, zap.NewNop()))

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, store, deleter
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, journalEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env journalEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHandler_CreateJournal(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/journals", gin.H{
		"title":    "Beach Day",
		"date":     "2024-07-04",
		"location": "Nazaré",
		"media": []gin.H{
			{"url": "https://cdn.example.com/a.jpg", "publicId": "amphomeus/a.jpg", "mediaType": "IMAGE", "width": 800, "height": 600},
			{"url": "https://cdn.example.com/b.mp4", "publicId": "amphomeus/b.mp4", "mediaType": "VIDEO"},
		},
		"tags": []string{"beach", "summer"},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, "Beach Day", env.Data.Title)
	assert.Equal(t, "2024-07-04", env.Data.Date.UTC().Format("2006-01-02"))
	assert.Len(t, env.Data.Media, 2)
	assert.Len(t, env.Data.Tags, 2)
	assert.Contains(t, w.Body.String(), `"publicId":"amphomeus/a.jpg"`)
}

func TestHandler_CreateJournalValidation(t *testing.T) {
	r, store, _ := setupTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/journals", gin.H{"title": "", "tags": []string{"beach"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "Title is required", env.Error.Message)
	assert.Zero(t, countJournals(t, store))

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/journals", gin.H{"title": "Ok", "date": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/journals", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, countJournals(t, store))
}

func TestHandler_GetJournalNotFound(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/journals/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestHandler_UpdateJournalRoundTrip(t *testing.T) {
	r, _, deleter := setupTestRouter(t)

	_, created := doJSON(t, r, http.MethodPost, "/api/v1/journals", gin.H{
		"title": "Draft",
		"media": []gin.H{
			{"url": "https://cdn.example.com/m1.jpg", "publicId": "amphomeus/m1.jpg", "mediaType": "IMAGE"},
			{"url": "https://cdn.example.com/m2.jpg", "publicId": "amphomeus/m2.jpg", "mediaType": "IMAGE"},
		},
	})
	require.True(t, created.Success)

	var m1, m2 domain.Media
	for _, m := range created.Data.Media {
		if m.PublicID == "amphomeus/m1.jpg" {
			m1 = m
		} else {
			m2 = m
		}
	}

	deleter.On("Delete", mock.Anything, "amphomeus/m1.jpg").
		Return(&mediastore.DeleteResult{Result: "ok"}, nil).Once()

	path := "/api/v1/journals/" + created.Data.ID
	w, updated := doJSON(t, r, http.MethodPut, path, gin.H{
		"title":         "Final",
		"media":         []gin.H{{"id": m2.ID, "url": m2.URL, "publicId": m2.PublicID, "mediaType": "IMAGE"}},
		"tags":          []string{"done"},
		"mediaToDelete": []string{m1.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Final", updated.Data.Title)

	w, got := doJSON(t, r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, got.Data.Media, 1)
	assert.Equal(t, m2.ID, got.Data.Media[0].ID)
	require.Len(t, got.Data.Tags, 1)
	assert.Equal(t, "done", got.Data.Tags[0].Name)

	deleter.AssertNumberOfCalls(t, "Delete", 1)
	deleter.AssertCalled(t, "Delete", mock.Anything, "amphomeus/m1.jpg")
}

func TestHandler_UpdateJournalErrors(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPut, "/api/v1/journals/missing", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, created := doJSON(t, r, http.MethodPost, "/api/v1/journals", gin.H{"title": "Keep"})
	w, env := doJSON(t, r, http.MethodPut, "/api/v1/journals/"+created.Data.ID, gin.H{"title": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHandler_DeleteJournal(t *testing.T) {
	r, store, deleter := setupTestRouter(t)

	_, created := doJSON(t, r, http.MethodPost, "/api/v1/journals", gin.H{
		"title": "Gone",
		"media": []gin.H{
			{"url": "https://cdn.example.com/d1.jpg", "publicId": "amphomeus/d1.jpg", "mediaType": "IMAGE"},
			{"url": "https://cdn.example.com/d2.jpg", "publicId": "amphomeus/d2.jpg", "mediaType": "IMAGE"},
		},
	})
	require.True(t, created.Success)

	deleter.On("Delete", mock.Anything, mock.AnythingOfType("string")).
		Return(&mediastore.DeleteResult{Result: "ok"}, nil)

	path := "/api/v1/journals/" + created.Data.ID
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"message":"Journal deleted successfully"}}`, w.Body.String())
	deleter.AssertNumberOfCalls(t, "Delete", 2)

	w, _ = doJSON(t, r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var media int64
	require.NoError(t, store.DB().Model(&domain.Media{}).Count(&media).Error)
	assert.Zero(t, media)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
