package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/auth"
	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// AuthHandler bundles dependencies for the signup and login endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Issuer auth.TokenIssuer
}

func NewAuthHandler(cfg config.Config, users UserStore, issuer auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Issuer: issuer}
}

// ----- DTOs -----

type signupReq struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	Secret      string `json:"secret"`
}
type loginReq struct {
	Handle string `json:"handle"`
	Secret string `json:"secret"`
}

type userPart struct {
	ID          uint64 `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
}
type loginResp struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	User      userPart `json:"user"`
	Message   string   `json:"message"`
}

// Signup creates a new account. Handle and display name must each be
// unique; a collision on either yields the same conflict response
// whether it was caught by the pre-check or by the unique index during
// a concurrent signup.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Handle = strings.TrimSpace(req.Handle)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Handle == "" || req.DisplayName == "" || req.Secret == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "handle, displayName and secret are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Handle, req.DisplayName, req.Secret, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "handle or display name already taken"})
		}
		c.Logger().Errorf("signup: create user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "signup completed successfully"})
}

// Login verifies credentials and returns a fresh bearer token. An
// unknown handle and a wrong secret produce the identical response so
// accounts cannot be enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Handle = strings.TrimSpace(req.Handle)
	if req.Handle == "" || req.Secret == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "handle and secret are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByHandle(ctx, req.Handle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		c.Logger().Errorf("login: query user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Secret) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := h.Issuer.Issue(u.ID)
	if err != nil {
		c.Logger().Errorf("login: issue token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Token:     tok.Token,
		TokenType: "bearer",
		User:      userPart{ID: u.ID, Handle: u.Handle, DisplayName: u.DisplayName},
		Message:   "login completed successfully",
	})
}
