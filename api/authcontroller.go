package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clipchat/config"
)

const stateCookie = "clipchat_oauth_state"

// RegisterAuthRoutes registers the Google login flow. All three endpoints
// answer 503 when login is not configured.
func RegisterAuthRoutes(r *gin.Engine, d *Deps) {
	g := r.Group("/auth")
	g.GET("/login", d.handleLogin)
	g.GET("/callback", d.handleCallback)
	g.POST("/logout", d.handleLogout)
}

func (d *Deps) authConfigured() bool {
	return d.Sessions != nil && d.Google != nil
}

func (d *Deps) handleLogin(c *gin.Context) {
	if !d.authConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login is not configured"})
		return
	}
	state := uuid.NewString()
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, d.Google.AuthURL(state))
}

func (d *Deps) handleCallback(c *gin.Context) {
	if !d.authConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login is not configured"})
		return
	}
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	sess, err := d.Google.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "login failed"})
		return
	}
	token, err := d.Sessions.Create(c.Request.Context(), *sess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.SetCookie(stateCookie, "", -1, "/", "", false, true)
	c.SetCookie(config.SessionCookie, token, int(d.Cfg.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged in", "email": sess.Email})
}

func (d *Deps) handleLogout(c *gin.Context) {
	if !d.authConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login is not configured"})
		return
	}
	if token, err := c.Cookie(config.SessionCookie); err == nil && token != "" {
		_ = d.Sessions.Delete(c.Request.Context(), token)
	}
	c.SetCookie(config.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
