package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dwellr/internal/cache"
	"dwellr/internal/config"
	"dwellr/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

// engineStub is a stub for describe.Engine.
type engineStub struct {
	generateFn func(context.Context, string) (*models.PostMetadata, error)
}

func (s *engineStub) Generate(ctx context.Context, transcript string) (*models.PostMetadata, error) {
	return s.generateFn(ctx, transcript)
}

// issuerStub is a stub for presign.Issuer.
type issuerStub struct {
	issueFn func(context.Context) (*models.UploadGrant, error)
}

func (s *issuerStub) IssueUploadGrant(ctx context.Context) (*models.UploadGrant, error) {
	return s.issueFn(ctx)
}

func setupApp(t *testing.T, engine *engineStub, issuer *issuerStub) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Post{}))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(redisClient)
	t.Cleanup(func() { cache.SetClient(nil) })

	cfg := &config.Config{
		Env:       "test",
		JWTSecret: testSecret,
	}

	srv := NewServer(cfg, db, redisClient, engine, issuer)
	app := fiber.New()
	srv.SetupRoutes(app)
	return app
}

func authToken(t *testing.T, username string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestAPI_RequiresAuth(t *testing.T) {
	app := setupApp(t, &engineStub{}, &issuerStub{})

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/presignedUrl"},
		{http.MethodGet, "/api/getPosts"},
		{http.MethodPost, "/api/createPost"},
		{http.MethodPost, "/api/describe"},
	}
	for _, p := range paths {
		resp := doRequest(t, app, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.path)

		var body models.ErrorResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, models.CodeUnauthorized, body.Code)
	}
}

func TestAPI_GetPresignedURL(t *testing.T) {
	issuer := &issuerStub{
		issueFn: func(_ context.Context) (*models.UploadGrant, error) {
			return &models.UploadGrant{
				Key:          "abc123",
				PresignedURL: "https://bucket.s3.amazonaws.com/abc123.mp4?X-Amz-Signature=sig",
				ExpiresAt:    models.NewTimestamp(time.Now().Add(15 * time.Minute)),
			}, nil
		},
	}
	app := setupApp(t, &engineStub{}, issuer)

	resp := doRequest(t, app, http.MethodGet, "/api/presignedUrl", authToken(t, "casey"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "abc123", body["key"])
	assert.Contains(t, body["presignedUrl"], "abc123.mp4")
}

func TestAPI_GetPresignedURL_IssuerFailure(t *testing.T) {
	issuer := &issuerStub{
		issueFn: func(_ context.Context) (*models.UploadGrant, error) {
			return nil, errors.New("signing failed")
		},
	}
	app := setupApp(t, &engineStub{}, issuer)

	resp := doRequest(t, app, http.MethodGet, "/api/presignedUrl", authToken(t, "casey"), nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAPI_CreatePost(t *testing.T) {
	app := setupApp(t, &engineStub{}, &issuerStub{})
	token := authToken(t, "casey")

	resp := doRequest(t, app, http.MethodPost, "/api/createPost", token, fiber.Map{
		"mediaKey": "abc123",
		"metadata": fiber.Map{"price": 1500, "bedroomCount": 2},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"client treats any status other than 200 as a failed request")

	var post models.Post
	decodeJSON(t, resp, &post)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "casey", post.Username, "username must come from the token")
	assert.Equal(t, "abc123", post.MediaKey)
	require.NotNil(t, post.Metadata.Price)
	assert.Equal(t, 1500.0, *post.Metadata.Price)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestAPI_CreatePost_DuplicateMediaKey(t *testing.T) {
	app := setupApp(t, &engineStub{}, &issuerStub{})
	token := authToken(t, "casey")

	body := fiber.Map{"mediaKey": "same-key"}
	resp := doRequest(t, app, http.MethodPost, "/api/createPost", token, body)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A second bind of the same key loses, even from the same user.
	resp = doRequest(t, app, http.MethodPost, "/api/createPost", token, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errBody models.ErrorResponse
	decodeJSON(t, resp, &errBody)
	assert.Equal(t, models.CodeConflict, errBody.Code)
}

func TestAPI_CreatePost_Validation(t *testing.T) {
	app := setupApp(t, &engineStub{}, &issuerStub{})
	token := authToken(t, "casey")

	resp := doRequest(t, app, http.MethodPost, "/api/createPost", token, fiber.Map{
		"metadata": fiber.Map{"price": 1500},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody models.ErrorResponse
	decodeJSON(t, resp, &errBody)
	assert.Equal(t, models.CodeValidationError, errBody.Code)
	assert.Contains(t, errBody.Fields, "mediaKey")
}

func TestAPI_GetPosts(t *testing.T) {
	app := setupApp(t, &engineStub{}, &issuerStub{})
	token := authToken(t, "casey")

	for i := 0; i < 7; i++ {
		resp := doRequest(t, app, http.MethodPost, "/api/createPost", token, fiber.Map{
			"mediaKey": fmt.Sprintf("key-%d", i),
		})
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Default page size is 5.
	resp := doRequest(t, app, http.MethodGet, "/api/getPosts", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page []models.Post
	decodeJSON(t, resp, &page)
	assert.Len(t, page, 5)

	// Pages are disjoint and together cover the feed.
	seen := map[string]bool{}
	for _, p := range page {
		seen[p.ID] = true
	}
	resp = doRequest(t, app, http.MethodGet, "/api/getPosts?offset=5", token, nil)
	var rest []models.Post
	decodeJSON(t, resp, &rest)
	assert.Len(t, rest, 2, "a short page means the feed is exhausted")
	for _, p := range rest {
		assert.False(t, seen[p.ID], "post %s appeared on two pages", p.ID)
	}

	// Past the end is an empty array, not an error or null.
	resp = doRequest(t, app, http.MethodGet, "/api/getPosts?offset=100", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var empty []models.Post
	decodeJSON(t, resp, &empty)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	// Negative offset is a client bug.
	resp = doRequest(t, app, http.MethodGet, "/api/getPosts?offset=-1", token, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Describe(t *testing.T) {
	engine := &engineStub{
		generateFn: func(_ context.Context, transcript string) (*models.PostMetadata, error) {
			assert.Equal(t, "two bed with a yard", transcript)
			bedrooms := 2
			yard := true
			return &models.PostMetadata{BedroomCount: &bedrooms, Yard: &yard}, nil
		},
	}
	app := setupApp(t, engine, &issuerStub{})

	resp := doRequest(t, app, http.MethodPost, "/api/describe", authToken(t, "casey"), fiber.Map{
		"transcript": "two bed with a yard",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var meta models.PostMetadata
	decodeJSON(t, resp, &meta)
	require.NotNil(t, meta.BedroomCount)
	assert.Equal(t, 2, *meta.BedroomCount)
	assert.Nil(t, meta.Price)
}

func TestAPI_Describe_GenerationFailure(t *testing.T) {
	engine := &engineStub{
		generateFn: func(_ context.Context, _ string) (*models.PostMetadata, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	app := setupApp(t, engine, &issuerStub{})

	resp := doRequest(t, app, http.MethodPost, "/api/describe", authToken(t, "casey"), fiber.Map{
		"transcript": "anything",
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var errBody models.ErrorResponse
	decodeJSON(t, resp, &errBody)
	assert.Equal(t, models.CodeGenerationError, errBody.Code)
}
