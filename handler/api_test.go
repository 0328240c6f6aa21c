package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"libms/config"
	"libms/domain"
	"libms/repository"
	"libms/service"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{BaseURL: "http://localhost:8080"},
		Auth:   config.AuthConfig{JWTSecret: "test_secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost},
		Upload: config.UploadConfig{Dir: t.TempDir()},
	}

	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)
	borrows := repository.NewBorrowRepo(db)

	registerSvc := service.NewRegisterService(users, cfg.Auth.BcryptCost)
	authSvc := service.NewAuthService(users, service.NewNoopThrottle(), []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	bookSvc := service.NewBookService(books, borrows, cfg.Server.BaseURL, cfg.Upload.Dir)

	return NewRouter(cfg, registerSvc, authSvc, bookSvc)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterLoginBorrowReturnFlow(t *testing.T) {
	router := newTestServer(t)

	// register
	rec := doJSON(t, router, http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "Secret1!"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	alice := decode[domain.UserResponse](t, rec)
	assert.Equal(t, "alice", alice.Username)

	// duplicate username
	rec = doJSON(t, router, http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "Secret1!"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// weak password rejected before the service is reached
	rec = doJSON(t, router, http.MethodPost, "/register", "", gin.H{"username": "bob", "password": "password"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// bad credentials
	rec = doJSON(t, router, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// login
	rec = doJSON(t, router, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "Secret1!"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[domain.LoginResponse](t, rec)
	require.NotEmpty(t, login.AccessToken)
	token := login.AccessToken

	// protected routes reject anonymous callers
	rec = doJSON(t, router, http.MethodGet, "/book", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// create book
	create := gin.H{
		"title":         "The Go Programming Language",
		"author":        "Donovan",
		"isbn":          "ISBN1",
		"published":     "2015-10-26",
		"coverImage":    "cover.png",
		"totalQuantity": 2,
	}
	rec = doJSON(t, router, http.MethodPost, "/book", token, create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	book := decode[domain.BookResponse](t, rec)
	assert.Equal(t, uint(2), book.AvailableQuantity)

	// duplicate isbn
	rec = doJSON(t, router, http.MethodPost, "/book", token, create)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// borrow both copies
	rec = doJSON(t, router, http.MethodPost, "/book/borrow", token,
		gin.H{"bookId": book.ID, "userId": alice.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	record := decode[domain.BorrowRecordResponse](t, rec)
	assert.Nil(t, record.ReturnedAt)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/book/%d", book.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	annotated := decode[domain.BookResponse](t, rec)
	assert.Zero(t, annotated.AvailableQuantity)
	assert.True(t, annotated.IsBorrowed)
	require.NotNil(t, annotated.BorrowID)
	assert.Equal(t, record.ID, *annotated.BorrowID)

	// third copy does not exist
	rec = doJSON(t, router, http.MethodPost, "/book/borrow", token,
		gin.H{"bookId": book.ID, "userId": alice.ID, "quantity": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// return
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/book/%d/return", record.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	returned := decode[domain.BorrowRecordResponse](t, rec)
	assert.NotNil(t, returned.ReturnedAt)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/book/%d", book.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	annotated = decode[domain.BookResponse](t, rec)
	assert.Equal(t, uint(2), annotated.AvailableQuantity)
	assert.False(t, annotated.IsBorrowed)

	// double return is rejected
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/book/%d/return", record.ID), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// returning a record that never existed is an explicit 404
	rec = doJSON(t, router, http.MethodPost, "/book/999/return", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchAndPatch(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/register", "", gin.H{"username": "carol", "password": "Secret1!"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/login", "", gin.H{"username": "carol", "password": "Secret1!"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[domain.LoginResponse](t, rec).AccessToken

	for i, title := range []string{"Refactoring", "Domain-Driven Design"} {
		rec = doJSON(t, router, http.MethodPost, "/book", token, gin.H{
			"title":         title,
			"author":        "Author",
			"isbn":          fmt.Sprintf("S-%d", i),
			"published":     "2000-01-01",
			"coverImage":    "cover.png",
			"totalQuantity": 1,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/book?search=Refactor", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]domain.BookResponse](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Refactoring", found[0].Title)

	// patch the other book's isbn onto it -> conflict
	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/book/%d", found[0].ID), token, gin.H{"isbn": "S-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// a clean partial update
	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/book/%d", found[0].ID), token, gin.H{"title": "Refactoring 2nd"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Refactoring 2nd", decode[domain.BookResponse](t, rec).Title)

	rec = doJSON(t, router, http.MethodGet, "/book/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpload(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/register", "", gin.H{"username": "dave", "password": "Secret1!"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/login", "", gin.H{"username": "dave", "password": "Secret1!"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[domain.LoginResponse](t, rec).AccessToken

	upload := func(filename string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/book/upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		out := httptest.NewRecorder()
		router.ServeHTTP(out, req)
		return out
	}

	rec = upload("cover.png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[domain.UploadResponse](t, rec)
	assert.NotEmpty(t, resp.Filename)
	assert.Contains(t, resp.URL, resp.Filename)

	rec = upload("malware.exe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
