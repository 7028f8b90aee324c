package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
	"github.com/mantrahq/mantra_journal_app/internal/middleware"
	"github.com/mantrahq/mantra_journal_app/internal/platform/config"
	"github.com/mantrahq/mantra_journal_app/internal/utils"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	authService portssvc.AuthSvcFacade
	jwtSecret   string
	jwtDuration time.Duration
	jwtIssuer   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AuthSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: as,
		jwtSecret:   cfg.JWTSecret,
		jwtDuration: cfg.JWTExpiryDuration,
		jwtIssuer:   cfg.JWTIssuer,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade) {
	h := NewAuthHandler(authService, cfg)

	// Define rate limit: 5 requests per minute
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.GET("/state", h.State)
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/register", limitMiddleware, h.Register)
		auth.POST("/verify-email", limitMiddleware, h.VerifyEmail)
		auth.POST("/logout", h.Logout)
	}
}

// State godoc
// @Summary Auth readiness state
// @Description Reports the bridge state towards the identity provider.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/state [get]
func (h *AuthHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": string(h.authService.State())})
}

// Login godoc
// @Summary User login
// @Description Authenticates against the identity provider and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Identity provider still initializing"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrProviderNotReady) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Authentication is still initializing, please retry"})
			return
		}
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

// Register godoc
// @Summary Register new user
// @Description Creates a new account with the identity provider. May return 202 when email verification is pending.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.AuthResponse
// @Success 202 {object} map[string]string "Verification pending"
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Identity provider still initializing"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrProviderNotReady):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Authentication is still initializing, please retry"})
		case errors.Is(err, apperrors.ErrEmailUnverified), errors.Is(err, apperrors.ErrVerificationRequired):
			c.JSON(http.StatusAccepted, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// VerifyEmail godoc
// @Summary Complete email verification
// @Description Completes a pending registration with the emailed code and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param verify body dto.VerifyEmailRequest true "Verification Code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Identity provider still initializing"
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.authService.VerifyEmail(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrProviderNotReady) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Authentication is still initializing, please retry"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

// Logout godoc
// @Summary User logout
// @Description Tears down the identity provider session. Always succeeds.
// @Tags auth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// respondWithToken mints the JWT for the authenticated user and writes the
// auth response.
func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *domain.ProviderUser) {
	token, err := utils.GenerateJWT(user.UserID, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(status, dto.AuthResponse{
		Token:       token,
		TokenExpiry: time.Now().Add(h.jwtDuration).Format(time.RFC3339),
		User:        dto.ToUserResponse(user),
	})
}
