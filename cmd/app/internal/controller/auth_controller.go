package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"study-buddy/internal/service"
	"study-buddy/utilities"
)

// CookieSettings controls the session cookie set on login.
type CookieSettings struct {
	Name   string
	Secure bool
}

type AuthController struct {
	AuthService service.AuthService
	Tokens      *utilities.JWTManager
	Cookie      CookieSettings
	log         *slog.Logger
}

func NewAuthController(authService service.AuthService, tokens *utilities.JWTManager, cookie CookieSettings, log *slog.Logger) *AuthController {
	return &AuthController{AuthService: authService, Tokens: tokens, Cookie: cookie, log: log}
}

type credentials struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	user, err := ac.AuthService.Register(req.Username, req.Password)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	ac.log.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	user, tokens, err := ac.AuthService.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	ac.setSessionCookie(c, tokens.AccessToken)
	c.JSON(http.StatusOK, gin.H{
		"user":   gin.H{"id": user.ID, "username": user.Username},
		"tokens": tokens,
	})
}

func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
		return
	}
	tokens, err := ac.AuthService.Refresh(req.RefreshToken)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	ac.setSessionCookie(c, tokens.AccessToken)
	c.JSON(http.StatusOK, tokens)
}

// Logout clears the session cookie. Issued tokens stay valid until they
// expire.
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.Cookie.Name, "", -1, "/", "", ac.Cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (ac *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.Cookie.Name, token, int(ac.Tokens.AccessTTL().Seconds()), "/", "", ac.Cookie.Secure, true)
}
