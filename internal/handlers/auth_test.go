package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	signer      *auth.JWTSigner
	router      *gin.Engine
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	signer, err := auth.NewJWTSigner("test-secret", 24*time.Hour, nil)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.MinCost), signer)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		signer:      signer,
		router:      r,
	}
}

func postJSON(r http.Handler, url string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(env.router, "/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "pw1",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.ID)
	assert.Equal(t, "alice@example.com", response.Email)
	assert.Equal(t, "Alice", response.Name)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_RegisterWithoutNameKeepsNameKey(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(env.router, "/auth/register", map[string]string{
		"email":    "bob@example.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	for _, key := range []string{"id", "email", "name", "created_at"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "", fields["name"])
	assert.Len(t, fields, 4)
}

func TestAuthHandler_RegisterConflict(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{"email": "alice@example.com", "password": "pw1"}
	require.Equal(t, http.StatusCreated, postJSON(env.router, "/auth/register", payload).Code)

	w := postJSON(env.router, "/auth/register", payload)
	require.Equal(t, http.StatusConflict, w.Code)

	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.ErrCodeConflict, body.Code)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	env := setupAuthTestEnv(t)

	for _, payload := range []map[string]string{
		{"password": "pw1"},
		{"email": "alice@example.com"},
		{"email": "  ", "password": "pw1"},
	} {
		w := postJSON(env.router, "/auth/register", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(context.Background(), services.RegisterInput{
		Email:    "alice@example.com",
		Password: "pw1",
	})
	require.NoError(t, err)

	w := postJSON(env.router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Login successful", response.Message)
	assert.Equal(t, user.ID, response.User.ID)

	claims, err := env.signer.Verify(response.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthHandler_LoginFailuresLookTheSame(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(context.Background(), services.RegisterInput{
		Email:    "alice@example.com",
		Password: "pw1",
	})
	require.NoError(t, err)

	wrongPassword := postJSON(env.router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "nope",
	})
	unknownEmail := postJSON(env.router, "/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "pw1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	missing := postJSON(env.router, "/auth/login", map[string]string{"email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestAuthHandler_Verify(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(context.Background(), services.RegisterInput{
		Email:    "alice@example.com",
		Password: "pw1",
		Name:     "Alice",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.Verify(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User dto.UserDTO `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, user.ID, response.User.ID)
	assert.Equal(t, "alice@example.com", response.User.Email)
}

func TestAuthHandler_VerifyUnknownUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	c.Set(constants.ContextKeyUserID, "deleted-user")

	env.handler.Verify(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
