package v1

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/nischalvasista13-maker/Snap-and-sell/server/auth"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

type AuthService struct {
	Store  *store.Store
	Secret string
}

type SignupRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
}

type SignupResponse struct {
	Message    string `json:"message"`
	UserID     int32  `json:"userId"`
	BusinessID int32  `json:"businessId"`
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SigninResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int32  `json:"userId"`
	BusinessID  int32  `json:"businessId"`
	Username    string `json:"username"`
}

// Signup creates a user and their business. It never signs the user in; the
// app routes back to the signin screen.
func (s *AuthService) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password").SetInternal(err)
	}

	businessName := strings.TrimSpace(req.BusinessName)
	if businessName == "" {
		businessName = req.Username + "'s shop"
	}
	business, err := s.Store.CreateBusiness(ctx, &store.Business{Name: businessName})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create business").SetInternal(err)
	}
	user, err := s.Store.CreateUser(ctx, &store.User{
		BusinessID:   business.ID,
		Username:     req.Username,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}

	slog.Info("user signed up", slog.String("username", user.Username), slog.Int("business", int(business.ID)))
	return c.JSON(http.StatusOK, SignupResponse{
		Message:    "Account created successfully. Please sign in.",
		UserID:     user.ID,
		BusinessID: business.ID,
	})
}

func (s *AuthService) Signin(c echo.Context) error {
	ctx := c.Request().Context()
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)

	user, err := s.Store.GetUser(ctx, &store.FindUser{Username: &req.Username})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	expiresAt := time.Now().Add(auth.AccessTokenDuration)
	token, err := auth.GenerateAccessToken(user.Username, user.ID, user.BusinessID, expiresAt, []byte(s.Secret))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate access token").SetInternal(err)
	}

	return c.JSON(http.StatusOK, SigninResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		BusinessID:  user.BusinessID,
		Username:    user.Username,
	})
}

// ForgotPassword never reveals whether the account exists. Resets are handled
// out of band by the operator.
func (s *AuthService) ForgotPassword(c echo.Context) error {
	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	slog.Info("password reset requested", slog.String("username", req.Username))
	return c.JSON(http.StatusOK, map[string]string{
		"message": "If the account exists, the shop owner will be contacted with reset instructions.",
	})
}
