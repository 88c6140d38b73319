package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/auth"
	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// mockUserStore implements UserStore with overridable behaviour per test.
type mockUserStore struct {
	createFunc      func(ctx context.Context, handle, displayName, password string, cost int) (uint64, error)
	getByHandleFunc func(ctx context.Context, handle string) (model.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, handle, displayName, password string, cost int) (uint64, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, handle, displayName, password, cost)
	}
	return 1, nil
}

func (m *mockUserStore) GetByHandle(ctx context.Context, handle string) (model.User, error) {
	if m.getByHandleFunc != nil {
		return m.getByHandleFunc(ctx, handle)
	}
	return model.User{}, sql.ErrNoRows
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", AccessTTLMin: 30, BcryptCost: 4}
}

func jsonContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newAuthHandler(users UserStore) *AuthHandler {
	cfg := testConfig()
	return NewAuthHandler(cfg, users, auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTLMin))
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"handle":"a","displayName":"b","secret":"password123"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "duplicate handle or display name",
			body:       `{"handle":"a","displayName":"c","secret":"password123"}`,
			createErr:  repository.ErrUserExists,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing handle",
			body:       `{"displayName":"b","secret":"password123"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing secret",
			body:       `{"handle":"a","displayName":"b"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserStore{
				createFunc: func(ctx context.Context, handle, displayName, password string, cost int) (uint64, error) {
					if tt.createErr != nil {
						return 0, tt.createErr
					}
					return 7, nil
				},
			}
			c, rec := jsonContext(http.MethodPost, "/auth/signup", tt.body)
			require.NoError(t, newAuthHandler(users).Signup(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := utils.HashPassword("password123", 4)
	require.NoError(t, err)

	users := &mockUserStore{
		getByHandleFunc: func(ctx context.Context, handle string) (model.User, error) {
			return model.User{ID: 7, Handle: "a", DisplayName: "b", PasswordHash: hash}, nil
		},
	}
	h := newAuthHandler(users)

	c, rec := jsonContext(http.MethodPost, "/auth/login", `{"handle":"a","secret":"password123"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token     string `json:"token"`
		TokenType string `json:"tokenType"`
		User      struct {
			ID          uint64 `json:"id"`
			Handle      string `json:"handle"`
			DisplayName string `json:"displayName"`
		} `json:"user"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, uint64(7), resp.User.ID)
	assert.Equal(t, "a", resp.User.Handle)
	assert.Equal(t, "b", resp.User.DisplayName)
	assert.NotEmpty(t, resp.Message)

	// The token must round-trip through the issuer.
	userID, err := h.Issuer.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)
}

func TestLoginFailureIsUniform(t *testing.T) {
	// An unknown handle and a wrong secret must be byte-for-byte
	// indistinguishable so accounts cannot be enumerated.
	hash, err := utils.HashPassword("right-password", 4)
	require.NoError(t, err)

	unknown := &mockUserStore{
		getByHandleFunc: func(ctx context.Context, handle string) (model.User, error) {
			return model.User{}, sql.ErrNoRows
		},
	}
	wrongSecret := &mockUserStore{
		getByHandleFunc: func(ctx context.Context, handle string) (model.User, error) {
			return model.User{ID: 7, Handle: "a", PasswordHash: hash}, nil
		},
	}

	c1, rec1 := jsonContext(http.MethodPost, "/auth/login", `{"handle":"nobody","secret":"x"}`)
	require.NoError(t, newAuthHandler(unknown).Login(c1))
	c2, rec2 := jsonContext(http.MethodPost, "/auth/login", `{"handle":"a","secret":"wrong-password"}`)
	require.NoError(t, newAuthHandler(wrongSecret).Login(c2))

	assert.Equal(t, http.StatusUnauthorized, rec1.Code)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Equal(t, rec1.Body.String(), rec2.Body.String())
}
