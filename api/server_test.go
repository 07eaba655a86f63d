package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkwell-app/inkwell-backend/auth"
	"github.com/inkwell-app/inkwell-backend/database"
	"github.com/inkwell-app/inkwell-backend/models"
)

const testSecret = "test-secret-key"

// newTestRouter builds the full router over an in-memory sqlite database.
func newTestRouter(t *testing.T) (*chi.Mux, *auth.TokenService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	return newRouter(database.New(db), tokens), tokens, db
}

// doRequest performs a request against the router. A non-empty token is sent
// as the raw Authorization header value.
func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// signUp registers a user and returns the issued token and resolved user ID.
func signUp(t *testing.T, router http.Handler, tokens *auth.TokenService, name, email, password string) (string, int) {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/signup", "", map[string]any{
		"name": name, "email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("expected token in signup response")
	}

	userID, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("signup token does not verify: %v", err)
	}
	return resp.Token, userID
}

func TestRootEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["message"] != "hello world" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	router, tokens, db := newTestRouter(t)

	_, userID := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("token user ID %d does not resolve to a stored user: %v", userID, err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("expected stored email a@x.com, got %q", user.Email)
	}
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	router, tokens, db := newTestRouter(t)

	signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodPost, "/signup", "", map[string]any{
		"name": "Imposter", "email": "a@x.com", "password": "secret2",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user row, got %d", count)
	}
}

func TestSignupValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"short name", map[string]any{"name": "An", "email": "a@x.com", "password": "secret1"}},
		{"bad email", map[string]any{"name": "Ann", "email": "not-an-email", "password": "secret1"}},
		{"short password", map[string]any{"name": "Ann", "email": "a@x.com", "password": "short"}},
		{"missing fields", map[string]any{"email": "a@x.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/signup", "", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSignin(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodPost, "/signin", "", map[string]any{
		"email": "a@x.com", "password": "secret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if _, err := tokens.Verify(resp.Token); err != nil {
		t.Fatalf("signin token does not verify: %v", err)
	}
}

func TestSigninRejectsBadCredentials(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	wrongPassword := doRequest(t, router, http.MethodPost, "/signin", "", map[string]any{
		"email": "a@x.com", "password": "wrong-password",
	})
	unknownEmail := doRequest(t, router, http.MethodPost, "/signin", "", map[string]any{
		"email": "nobody@x.com", "password": "wrong-password",
	})

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", wrongPassword.Code)
	}
	if unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d", unknownEmail.Code)
	}
	// The responses must not reveal whether the email exists.
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("responses differ: %q vs %q", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestPostsRequireAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	noHeader := doRequest(t, router, http.MethodGet, "/posts", "", nil)
	if noHeader.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", noHeader.Code)
	}

	badToken := doRequest(t, router, http.MethodGet, "/posts", "garbage-token", nil)
	if badToken.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", badToken.Code)
	}
}

func TestCreateAndReadPostRoundTrip(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, userID := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodPost, "/posts", token, map[string]any{
		"title": "Hello", "userId": userID, "body": "World", "tags": []string{"go"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		TransactionResult struct {
			Blog models.BlogPost `json:"blog"`
		} `json:"transactionResult"`
	}
	decodeBody(t, rec, &created)
	blog := created.TransactionResult.Blog
	if blog.Title != "Hello" || blog.Body != "World" || blog.UserID != userID {
		t.Fatalf("unexpected created blog %+v", blog)
	}
	if !reflect.DeepEqual(blog.TagList(), []string{"go"}) {
		t.Fatalf("expected tags [go], got %v", blog.TagList())
	}

	// Read it back by ID.
	getRec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/posts/%d", blog.ID), token, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", getRec.Code, getRec.Body.String())
	}
	var fetched models.BlogPost
	decodeBody(t, getRec, &fetched)
	if fetched.Title != "Hello" || !reflect.DeepEqual(fetched.TagList(), []string{"go"}) {
		t.Fatalf("round trip mismatch: %+v", fetched)
	}

	// And in the listing.
	listRec := doRequest(t, router, http.MethodGet, "/posts", token, nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listRec.Code)
	}
	var listed []models.BlogPost
	decodeBody(t, listRec, &listed)
	if len(listed) != 1 || listed[0].ID != blog.ID {
		t.Fatalf("unexpected listing %+v", listed)
	}
}

func TestCreatePostValidation(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, userID := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodPost, "/posts", token, map[string]any{
		"title": "Hello", "userId": userID, // body and tags missing
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetPostNonNumericID(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, _ := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodGet, "/posts/abc", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetPostMissing(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, _ := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodGet, "/posts/999", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdatePostPartial(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, userID := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodPost, "/posts", token, map[string]any{
		"title": "Original", "userId": userID, "body": "Original body", "tags": []string{"one", "two"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		TransactionResult struct {
			Blog models.BlogPost `json:"blog"`
		} `json:"transactionResult"`
	}
	decodeBody(t, rec, &created)
	postID := created.TransactionResult.Blog.ID

	// Update only the title.
	updRec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/posts/%d", postID), token, map[string]any{
		"title": "Renamed",
	})
	if updRec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", updRec.Code, updRec.Body.String())
	}
	var updated struct {
		Blog models.BlogPost `json:"blog"`
	}
	decodeBody(t, updRec, &updated)
	if updated.Blog.Title != "Renamed" || updated.Blog.Body != "Original body" {
		t.Fatalf("unexpected post after title update: %+v", updated.Blog)
	}
	if !reflect.DeepEqual(updated.Blog.TagList(), []string{"one", "two"}) {
		t.Fatalf("tags changed on title update: %v", updated.Blog.TagList())
	}

	// Update only the tags.
	tagRec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/posts/%d", postID), token, map[string]any{
		"tags": []string{"replaced"},
	})
	if tagRec.Code != http.StatusOK {
		t.Fatalf("tag update returned %d: %s", tagRec.Code, tagRec.Body.String())
	}
	decodeBody(t, tagRec, &updated)
	if updated.Blog.Title != "Renamed" || updated.Blog.Body != "Original body" {
		t.Fatalf("post fields changed on tag update: %+v", updated.Blog)
	}
	if !reflect.DeepEqual(updated.Blog.TagList(), []string{"replaced"}) {
		t.Fatalf("expected tags [replaced], got %v", updated.Blog.TagList())
	}
}

func TestUpdatePostValidation(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, userID := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodPost, "/posts", token, map[string]any{
		"title": "Original", "userId": userID, "body": "Body", "tags": []string{"go"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create returned %d", rec.Code)
	}
	var created struct {
		TransactionResult struct {
			Blog models.BlogPost `json:"blog"`
		} `json:"transactionResult"`
	}
	decodeBody(t, rec, &created)

	updRec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/posts/%d", created.TransactionResult.Blog.ID), token, map[string]any{
		"title": "Hi", // under the 3 character minimum
	})
	if updRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", updRec.Code, updRec.Body.String())
	}
}

func TestUpdateMissingPost(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, _ := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodPut, "/posts/999", token, map[string]any{
		"title": "Anything",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeletePostFlow(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, userID := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodPost, "/posts", token, map[string]any{
		"title": "Doomed", "userId": userID, "body": "Body", "tags": []string{"go"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create returned %d", rec.Code)
	}
	var created struct {
		TransactionResult struct {
			Blog models.BlogPost `json:"blog"`
		} `json:"transactionResult"`
	}
	decodeBody(t, rec, &created)
	path := fmt.Sprintf("/posts/%d", created.TransactionResult.Blog.ID)

	delRec := doRequest(t, router, http.MethodDelete, path, token, nil)
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete returned %d: %s", delRec.Code, delRec.Body.String())
	}
	var delResp map[string]string
	decodeBody(t, delRec, &delResp)
	if delResp["message"] == "" {
		t.Fatalf("expected message in delete response, got %v", delResp)
	}

	// Deleting again is not-found, both times.
	for i := 0; i < 2; i++ {
		again := doRequest(t, router, http.MethodDelete, path, token, nil)
		if again.Code != http.StatusNotFound {
			t.Fatalf("repeat delete %d: expected 404, got %d", i+1, again.Code)
		}
	}

	getRec := doRequest(t, router, http.MethodGet, path, token, nil)
	if getRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", getRec.Code)
	}
}

func TestBearerPrefixTolerated(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	token, _ := signUp(t, router, tokens, "Ann", "a@x.com", "secret1")

	rec := doRequest(t, router, http.MethodGet, "/posts", "Bearer "+token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with Bearer prefix, got %d", rec.Code)
	}
}
