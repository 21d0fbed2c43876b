package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/book-catalog/internal/api/http"
	"github.com/spec-kit/book-catalog/internal/api/http/handlers"
	"github.com/spec-kit/book-catalog/internal/auth"
	"github.com/spec-kit/book-catalog/internal/config"
	"github.com/spec-kit/book-catalog/internal/domain"
	"github.com/spec-kit/book-catalog/internal/observability"
	"github.com/spec-kit/book-catalog/internal/persistence"
	"github.com/spec-kit/book-catalog/internal/service"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextUID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextUID++
	user.UID = "uid-" + strconv.Itoa(r.nextUID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByUID(_ context.Context, uid string) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.UID == uid {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for _, user := range r.byEmail {
		users = append(users, user)
	}
	return users, nil
}

type fakeBookRepo struct {
	byUID  map[string]*domain.Book
	nextID int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{byUID: make(map[string]*domain.Book)}
}

func (r *fakeBookRepo) Create(_ context.Context, book *domain.Book) error {
	r.nextID++
	book.UID = "book-" + strconv.Itoa(r.nextID)
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	r.byUID[book.UID] = book
	return nil
}

func (r *fakeBookRepo) Update(_ context.Context, book *domain.Book) error {
	if _, ok := r.byUID[book.UID]; !ok {
		return pgx.ErrNoRows
	}
	r.byUID[book.UID] = book
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, uid string) error {
	if _, ok := r.byUID[uid]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byUID, uid)
	return nil
}

func (r *fakeBookRepo) GetByUID(_ context.Context, uid string) (*domain.Book, error) {
	if book, ok := r.byUID[uid]; ok {
		return book, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeBookRepo) List(_ context.Context) ([]*domain.Book, error) {
	var books []*domain.Book
	for _, book := range r.byUID {
		books = append(books, book)
	}
	return books, nil
}

var testAuthConfig = config.AuthConfig{
	JWTSecret:              "test-secret",
	AccessTokenTTLMinutes:  10,
	RefreshTokenTTLMinutes: 2 * 24 * 60,
	DenylistTTLMinutes:     2 * 24 * 60,
	BcryptCost:             4,
}

type testEnv struct {
	app   *fiber.App
	codec *auth.Codec
	users *fakeUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUserRepo()
	books := newFakeBookRepo()
	codec := auth.NewCodec(testAuthConfig.JWTSecret)
	denylist := auth.NewMemoryDenylist(testAuthConfig.DenylistTTL())

	authService := service.NewAuthService(testAuthConfig, service.AuthDependencies{
		UserRepo: users,
		Codec:    codec,
		Denylist: denylist,
	})
	bookService := service.NewBookService(books)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("book-catalog-api", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Books:          handlers.NewBooksHandler(bookService),
		AuthMiddleware: auth.NewMiddleware(codec, denylist, users),
	})

	return &testEnv{app: app, codec: codec, users: users}
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

type tokenPairData struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	User             struct {
		UID      string `json:"uid"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

func decodeData[T any](t *testing.T, body io.Reader) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope.Data
}

func decodeErrorCode(t *testing.T, body io.Reader) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope.Error.Code
}

func (e *testEnv) signup(t *testing.T, username, email, password string) {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (e *testEnv) login(t *testing.T, email, password string) tokenPairData {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeData[tokenPairData](t, resp.Body)
}

func TestAuthFlow_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "jdoe", "jdoe@example.com", "hunter22")

	pair := env.login(t, "jdoe@example.com", "hunter22")
	assert.Equal(t, "jdoe", pair.User.Username)
	assert.Equal(t, "jdoe@example.com", pair.User.Email)

	// Access expires in ~10 minutes, refresh in ~2 days.
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), pair.AccessExpiresAt, 10*time.Second)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), pair.RefreshExpiresAt, 10*time.Second)

	accessClaims, err := env.codec.Verify(pair.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := env.codec.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, accessClaims.User, refreshClaims.User)
	assert.NotEqual(t, accessClaims.TokenID(), refreshClaims.TokenID())

	// The access token authorizes protected routes.
	resp := env.do(t, http.MethodGet, "/api/v1/auth/me", pair.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The refresh token redeems for a fresh, working pair.
	resp = env.do(t, http.MethodGet, "/api/v1/auth/refresh_token", pair.RefreshToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newPair := decodeData[tokenPairData](t, resp.Body)
	require.NotEmpty(t, newPair.AccessToken)

	resp = env.do(t, http.MethodGet, "/api/v1/auth/me", newPair.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout revokes the presented token's jti.
	resp = env.do(t, http.MethodGet, "/api/v1/auth/logout", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The exact same token is now rejected even though its signature and
	// expiry are still valid.
	resp = env.do(t, http.MethodGet, "/api/v1/auth/me", pair.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "REVOKED_TOKEN", decodeErrorCode(t, resp.Body))

	// The other pair is unaffected.
	resp = env.do(t, http.MethodGet, "/api/v1/auth/me", newPair.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_FailuresAreIdentical(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "jdoe", "jdoe@example.com", "hunter22")

	wrongPass := env.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "jdoe@example.com",
		"password": "wrong",
	})
	noUser := env.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "nobody@example.com",
		"password": "hunter22",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
	assert.Equal(t, wrongPass.StatusCode, noUser.StatusCode)

	wrongPassBody, err := io.ReadAll(wrongPass.Body)
	require.NoError(t, err)
	noUserBody, err := io.ReadAll(noUser.Body)
	require.NoError(t, err)
	assert.Equal(t, string(wrongPassBody), string(noUserBody))
}

func TestRefreshRoute_RejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "jdoe", "jdoe@example.com", "hunter22")
	pair := env.login(t, "jdoe@example.com", "hunter22")

	resp := env.do(t, http.MethodGet, "/api/v1/auth/refresh_token", pair.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "WRONG_TOKEN_TYPE", decodeErrorCode(t, resp.Body))
}

func TestProtectedRoute_RejectsRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "jdoe", "jdoe@example.com", "hunter22")
	pair := env.login(t, "jdoe@example.com", "hunter22")

	resp := env.do(t, http.MethodGet, "/api/v1/auth/me", pair.RefreshToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "WRONG_TOKEN_TYPE", decodeErrorCode(t, resp.Body))
}

func TestAllUsers_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "jdoe", "jdoe@example.com", "hunter22")
	env.signup(t, "root", "admin@example.com", "sup3rs3cret")
	env.users.byEmail["admin@example.com"].Role = domain.RoleAdmin

	userPair := env.login(t, "jdoe@example.com", "hunter22")
	resp := env.do(t, http.MethodGet, "/api/v1/auth/all_users", userPair.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeErrorCode(t, resp.Body))

	adminPair := env.login(t, "admin@example.com", "sup3rs3cret")
	resp = env.do(t, http.MethodGet, "/api/v1/auth/all_users", adminPair.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "jdoe", "jdoe@example.com", "hunter22")

	resp := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"username": "imposter",
		"email":    "jdoe@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeErrorCode(t, resp.Body))
}
