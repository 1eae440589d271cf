package handler

import (
	"net/http"
	"time"

	"moneybook/internal/middleware"
	"moneybook/internal/models"
	"moneybook/internal/store"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves registration, login and session endpoints.
type AuthHandler struct {
	Accounts     *store.Accounts
	Sessions     *store.Sessions
	JWTSecret    string
	Issuer       string
	TokenTTL     time.Duration
	SecureCookie bool
}

func NewAuthHandler(accounts *store.Accounts, sessions *store.Sessions, jwtSecret, issuer string, ttlHours int, secureCookie bool) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 15 * 24
	}
	return &AuthHandler{
		Accounts:     accounts,
		Sessions:     sessions,
		JWTSecret:    jwtSecret,
		Issuer:       issuer,
		TokenTTL:     time.Duration(ttlHours) * time.Hour,
		SecureCookie: secureCookie,
	}
}

// issue opens a session for user and sets the jwt cookie.
func (h *AuthHandler) issue(c *gin.Context, user *models.User) (string, error) {
	sess, err := h.Sessions.Create(c.Request.Context(), user.ID, h.TokenTTL)
	if err != nil {
		return "", err
	}
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, sess.ID, h.TokenTTL)
	if err != nil {
		return "", err
	}
	h.setCookie(c, token, int(h.TokenTTL.Seconds()))
	return token, nil
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.CookieName, value, maxAge, "/", "", h.SecureCookie, true)
}

type registerReq struct {
	FullName string `json:"fullname"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}
	token, err := h.issue(c, user)
	if err != nil {
		util.Fail(c, err)
		return
	}

	logrus.WithField("user_id", user.ID).Info("user registered")
	util.SuccessStatus(c, http.StatusCreated, util.Response{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Accounts.Authenticate(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		util.Fail(c, err)
		return
	}
	token, err := h.issue(c, user)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// Logout revokes the presented session when the token is valid and always
// clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if tokenStr := middleware.TokenFromRequest(c); tokenStr != "" {
		if claims, err := util.ParseToken(h.JWTSecret, tokenStr); err == nil && claims.ID != "" {
			if err := h.Sessions.Revoke(c.Request.Context(), claims.ID); err != nil {
				logrus.WithError(err).Warn("revoke session on logout")
			}
		}
	}
	h.setCookie(c, "", -1)
	util.Success(c, util.Response{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{
		"user": user,
	})
}

// AuthCheck lets a client confirm its credential is still accepted.
func (h *AuthHandler) AuthCheck(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{
		"message": "You have access!",
		"user":    user,
	})
}
