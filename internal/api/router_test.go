package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/geofeed/config"
	"github.com/d60-Lab/geofeed/internal/api/handler"
	"github.com/d60-Lab/geofeed/internal/media"
	"github.com/d60-Lab/geofeed/internal/model"
	"github.com/d60-Lab/geofeed/internal/repository"
	"github.com/d60-Lab/geofeed/internal/service"
)

const adminSecret = "test-secret"

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Post{}))

	mr := miniredis.RunT(t)
	blobs := media.NewRedisStore(
		redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		service.VisibilityWindow+time.Hour,
	)

	postRepo := repository.NewPostRepository(db)
	feedService := service.NewFeedService(postRepo)
	postService := service.NewPostService(postRepo, blobs)
	reaper := service.NewReaper(postRepo, blobs, time.Minute, 100)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Admin.JWTSecret = adminSecret

	return NewRouter(cfg, handler.New(feedService, postService, blobs, reaper))
}

func multipartPost(t *testing.T, lat, lng float64, comment, password string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", "food.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("lat", fmt.Sprintf("%v", lat)))
	require.NoError(t, w.WriteField("lng", fmt.Sprintf("%v", lng)))
	require.NoError(t, w.WriteField("comment", comment))
	require.NoError(t, w.WriteField("password", password))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func createPost(t *testing.T, r http.Handler, lat, lng float64, comment, password string) (id, imageURL string) {
	t.Helper()
	w, env := do(t, r, multipartPost(t, lat, lng, comment, password))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post struct {
		ID       string `json:"id"`
		ImageURL string `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	return post.ID, post.ImageURL
}

func TestHealthz(t *testing.T) {
	r := setupRouter(t)
	w, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateThenFeedThenMedia(t *testing.T) {
	r := setupRouter(t)

	id, imageURL := createPost(t, r, 35.0, 135.0, "ramen", "")

	// Visible to a viewer at the same spot.
	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/feed?lat=35.0&lng=135.0", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var feed struct {
		Posts []struct {
			ID      string `json:"id"`
			Comment string `json:"comment"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, id, feed.Posts[0].ID)
	assert.Equal(t, "ramen", feed.Posts[0].Comment)

	// Invisible from the other side of town.
	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/feed?lat=35.1&lng=135.0", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	assert.Empty(t, feed.Posts)

	// The image is served from the returned URL.
	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, imageURL, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg bytes", w.Body.String())
}

func TestFeedValidation(t *testing.T) {
	r := setupRouter(t)

	w, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/feed?lat=91.0&lng=135.0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePostValidation(t *testing.T) {
	r := setupRouter(t)

	// 41-character comment is rejected at the binding layer.
	long := make([]byte, 41)
	for i := range long {
		long[i] = 'a'
	}
	w, _ := do(t, r, multipartPost(t, 35.0, 135.0, string(long), ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Multi-line comments are rejected too.
	w, _ = do(t, r, multipartPost(t, 35.0, 135.0, "one\ntwo", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing image.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", bytes.NewBufferString("lat=35&lng=135"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteFlow(t *testing.T) {
	r := setupRouter(t)
	id, _ := createPost(t, r, 35.0, 135.0, "bye", "pass123")

	deleteReq := func(id, password string) *http.Request {
		body, _ := json.Marshal(map[string]string{"password": password})
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/posts/"+id, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	w, _ := do(t, r, deleteReq(id, "wrong"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, deleteReq(id, "pass123"))
	assert.Equal(t, http.StatusOK, w.Code)

	// Second delete of the same id.
	w, _ = do(t, r, deleteReq(id, "pass123"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return token
}

func TestAdminDelete(t *testing.T) {
	r := setupRouter(t)
	// No password set: only the admin path can remove it.
	id, _ := createPost(t, r, 35.0, 135.0, "moderate me", "")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/"+id, nil)
	w, _ := do(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "viewer"))
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/posts/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminReap(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reap", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	w, env := do(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Purged int `json:"purged"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Zero(t, out.Purged)
}
