// Package integration provides end-to-end tests for the Eventboard API.
// The full stack runs in-process against an in-memory SQLite database
// and a temp-dir upload store.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/trelvik/eventboard/internal/auth"
	"github.com/trelvik/eventboard/internal/handler"
	"github.com/trelvik/eventboard/internal/repository/sqlite"
	"github.com/trelvik/eventboard/internal/service"
	"github.com/trelvik/eventboard/internal/storage"
)

type testApp struct {
	server     *httptest.Server
	uploadsDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(":memory:"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	uploadsDir := t.TempDir()
	files, err := storage.NewFilesystemStore(uploadsDir, "/uploads", logger)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("integration-test-secret", 24*time.Hour)
	require.NoError(t, err)

	authService := service.NewAuthService(sqlite.NewUserRepository(db), tokens, logger)
	postService := service.NewPostService(sqlite.NewPostRepository(db), files, service.PostServiceConfig{
		DeleteFilesOnPostDelete: true,
	}, logger)

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(authService, logger),
		PostHandler:    handler.NewPostHandler(postService, files, 5<<20, logger),
		AuthMiddleware: auth.RequireAuth(tokens, logger),
		DB:             db,
		UploadsDir:     uploadsDir,
		UploadsPrefix:  "/uploads",
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         logger,
	})

	server := httptest.NewServer(router.Handler())
	t.Cleanup(server.Close)

	return &testApp{server: server, uploadsDir: uploadsDir}
}

func (a *testApp) postJSON(t *testing.T, path, token string, body interface{}) *http.Response {
	return a.doJSON(t, http.MethodPost, path, token, body)
}

func (a *testApp) doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (a *testApp) register(t *testing.T, username string) string {
	t.Helper()
	resp := a.postJSON(t, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (a *testApp) createPost(t *testing.T, token, title string, withImage bool) map[string]interface{} {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("content", "Details about "+title))
	require.NoError(t, w.WriteField("quick_info", `[{"key":"Venue","value":"Main Hall"}]`))
	if withImage {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="flyer.jpg"`)
		h.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake jpeg content"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/api/posts", buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	return post
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.server.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["timestamp"])
}

func TestRegistrationAndLogin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice")

	t.Run("duplicate email rejected", func(t *testing.T) {
		resp := app.postJSON(t, "/api/auth/register", "", map[string]string{
			"username": "alice2",
			"email":    "alice@example.com",
			"password": "password123",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login succeeds", func(t *testing.T) {
		resp := app.postJSON(t, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		resp := app.postJSON(t, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPostLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "alice")

	created := app.createPost(t, token, "Summer Fest", true)
	require.Equal(t, "Summer Fest", created["title"])
	require.Equal(t, "alice", created["username"])
	require.Equal(t, "json", created["quick_info_format"])

	slug, _ := created["slug"].(string)
	require.NotEmpty(t, slug)

	imagePath, _ := created["image_path"].(string)
	require.NotEmpty(t, imagePath)

	t.Run("image stored and served", func(t *testing.T) {
		entries, err := os.ReadDir(app.uploadsDir)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		resp, err := http.Get(app.server.URL + imagePath)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "fake jpeg content", string(data))
	})

	t.Run("readable by slug", func(t *testing.T) {
		resp, err := http.Get(app.server.URL + "/api/posts/" + slug)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var post map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
		require.Equal(t, "Summer Fest", post["title"])
		require.Equal(t, `[{"key":"Venue","value":"Main Hall"}]`, post["quick_info"])
	})

	postID := int64(created["id"].(float64))

	t.Run("merge update keeps content", func(t *testing.T) {
		resp := app.doJSON(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), token,
			map[string]string{"title": "Summer Fest 2026"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		get, err := http.Get(app.server.URL + "/api/posts/" + slug)
		require.NoError(t, err)
		defer get.Body.Close()
		var post map[string]interface{}
		require.NoError(t, json.NewDecoder(get.Body).Decode(&post))
		require.Equal(t, "Summer Fest 2026", post["title"])
		require.Equal(t, "Details about Summer Fest", post["content"])
		require.Equal(t, slug, post["slug"], "slug must not change on update")
	})

	t.Run("delete removes post and image", func(t *testing.T) {
		resp := app.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		get, err := http.Get(app.server.URL + "/api/posts/" + slug)
		require.NoError(t, err)
		defer get.Body.Close()
		require.Equal(t, http.StatusNotFound, get.StatusCode)

		_, err = os.Stat(filepath.Join(app.uploadsDir, filepath.Base(imagePath)))
		require.True(t, os.IsNotExist(err), "image file should be removed with the post")
	})
}

func TestOwnership(t *testing.T) {
	app := newTestApp(t)
	aliceToken := app.register(t, "alice")
	bobToken := app.register(t, "bob")

	created := app.createPost(t, aliceToken, "Alice Event", false)
	postID := int64(created["id"].(float64))

	t.Run("other user cannot update", func(t *testing.T) {
		resp := app.doJSON(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), bobToken,
			map[string]string{"title": "Hijacked"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		resp := app.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), bobToken, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("anonymous cannot create", func(t *testing.T) {
		resp := app.postJSON(t, "/api/posts", "", map[string]string{})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token is forbidden", func(t *testing.T) {
		resp := app.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), "garbage", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestListingAndOrdering(t *testing.T) {
	app := newTestApp(t)
	aliceToken := app.register(t, "alice")
	bobToken := app.register(t, "bob")

	app.createPost(t, aliceToken, "First Event", false)
	app.createPost(t, bobToken, "Second Event", false)
	app.createPost(t, aliceToken, "Third Event", false)

	t.Run("public list is newest first", func(t *testing.T) {
		resp, err := http.Get(app.server.URL + "/api/posts")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
		require.Len(t, posts, 3)
		require.Equal(t, "Third Event", posts[0]["title"])
		require.Equal(t, "Second Event", posts[1]["title"])
		require.Equal(t, "First Event", posts[2]["title"])
	})

	t.Run("my-posts is scoped to the caller", func(t *testing.T) {
		resp := app.doJSON(t, http.MethodGet, "/api/posts/my-posts", aliceToken, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
		require.Len(t, posts, 2)
		for _, p := range posts {
			require.Equal(t, "alice", p["username"])
		}
	})
}
