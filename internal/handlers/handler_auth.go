package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/SscSPs/invoice_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles registration, sign-in and the current identity.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	googleOAuth  portssvc.GoogleOAuthSvcFacade
}

func newAuthHandler(services *portssvc.ServiceContainer) *authHandler {
	return &authHandler{
		userService:  services.User,
		tokenService: services.Token,
		googleOAuth:  services.GoogleOAuth,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, loginLimiter *limiter.Limiter) {
	h := newAuthHandler(services)

	loginChain := []gin.HandlerFunc{h.login}
	if loginLimiter != nil {
		loginChain = append([]gin.HandlerFunc{middleware.RateLimit(loginLimiter)}, loginChain...)
	}

	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", loginChain...)
		auth.GET("/google/login", h.googleLogin)
		auth.POST("/google/exchange", h.googleExchange)
	}
}

func registerMeRoute(rg *gin.RouterGroup) {
	rg.GET("/auth/me", getMe)
}

// issueToken answers a successful sign-in with a token and the user.
func (h *authHandler) issueToken(c *gin.Context, status int, user *domain.User) {
	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}
	c.JSON(status, dto.OK(dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}))
}

// register godoc
// @Summary Register new user
// @Description Creates a local account with the user role and signs it in.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.Response
// @Failure 409 {object} dto.Response "Email already registered"
// @Failure 500 {object} dto.Response
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}
	h.issueToken(c, http.StatusCreated, user)
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token. Rate limited per client IP.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 403 {object} dto.Response "Account disabled"
// @Failure 429 {object} dto.Response
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User signed in", slog.String("user_id", user.UserID))
	h.issueToken(c, http.StatusOK, user)
}

// googleLogin godoc
// @Summary Google sign-in URL
// @Description Returns the Google consent URL and the state value to check on return.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response
// @Router /auth/google/login [get]
func (h *authHandler) googleLogin(c *gin.Context) {
	state, err := h.googleOAuth.GenerateStateString(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to start Google sign-in")
		return
	}
	c.JSON(http.StatusOK, dto.OK(gin.H{
		"url":   h.googleOAuth.GetGoogleLoginURL(c.Request.Context(), state),
		"state": state,
	}))
}

// googleExchange godoc
// @Summary Exchange a Google authorization code
// @Description Exchanges the code, validates the Google ID token and signs the matching user in, creating it on first use.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.GoogleExchangeRequest true "Authorization code"
// @Success 200 {object} dto.Response{data=dto.AuthResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 403 {object} dto.Response "Account disabled"
// @Router /auth/google/exchange [post]
func (h *authHandler) googleExchange(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.GoogleExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.googleOAuth.ExchangeCode(ctx, req.Code)
	if err != nil {
		respondError(c, err, "Failed to complete Google sign-in")
		return
	}
	user, err := h.userService.FindOrCreateGoogleUser(ctx, *profile)
	if err != nil {
		respondError(c, err, "Failed to complete Google sign-in")
		return
	}
	middleware.GetLoggerFromCtx(ctx).Info("User signed in with Google", slog.String("user_id", user.UserID))
	h.issueToken(c, http.StatusOK, user)
}

// getMe godoc
// @Summary Current identity
// @Description Returns the identity resolved from the bearer token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response{data=dto.IdentityResponse}
// @Failure 401 {object} dto.Response
// @Security BearerAuth
// @Router /auth/me [get]
func getMe(c *gin.Context) {
	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToIdentityResponse(identity)))
}
