package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmztgr/smartdocs/server/auth"
	"github.com/hmztgr/smartdocs/store"
)

// userIDContextKey is the echo context key holding the authenticated user ID.
const userIDContextKey = "smartdocs.user-id"

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      int32  `json:"userId"`
	Username    string `json:"username"`
}

// Signup registers a new user.
func (s *APIV1Service) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username and password are required"})
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}
	if existing != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Username already taken"})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	user, err := s.Store.CreateUser(ctx, &store.User{
		Username:     req.Username,
		Nickname:     req.Nickname,
		PasswordHash: hash,
		CreatedTs:    time.Now().Unix(),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	return s.issueToken(c, user)
}

// Login verifies credentials and issues an access token.
func (s *APIV1Service) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request"})
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to sign in"})
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Incorrect username or password"})
	}

	return s.issueToken(c, user)
}

func (s *APIV1Service) issueToken(c echo.Context, user *store.User) error {
	token, err := auth.GenerateAccessToken(user.Username, user.ID, time.Now().Add(auth.AccessTokenDuration), []byte(s.Secret))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to issue access token"})
	}
	return c.JSON(http.StatusOK, &loginResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
	})
}

// authMiddleware resolves the bearer token to a user ID. Requests without a
// valid token never reach the handlers.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		userID, err := auth.VerifyAccessToken(token, []byte(s.Secret))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{ID: &userID})
		if err != nil || user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		c.Set(userIDContextKey, user.ID)
		return next(c)
	}
}

// currentUserID returns the authenticated user ID set by authMiddleware.
func currentUserID(c echo.Context) (int32, bool) {
	id, ok := c.Get(userIDContextKey).(int32)
	return id, ok
}
