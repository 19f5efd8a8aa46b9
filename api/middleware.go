package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clipchat/auth"
	"clipchat/config"
)

const sessionContextKey = "session"

// maxBody caps the request body. Oversized uploads fail mid-read with a 413
// instead of filling the disk.
func maxBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// requireSession gates processing endpoints behind a login when sessions are
// configured. Without a session store the server runs open.
func (d *Deps) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Sessions == nil {
			c.Next()
			return
		}
		token := bearerOrCookie(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		sess, err := d.Sessions.Get(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// rateLimit applies the per-client request budget. The limiter failing is
// not the client's fault, so errors fail open.
func (d *Deps) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Limit == nil {
			c.Next()
			return
		}
		key := c.ClientIP()
		if sess, ok := c.Get(sessionContextKey); ok {
			key = sess.(*auth.Session).Email
		}
		allowed, err := d.Limit.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("rate limiter error for %s: %v", key, err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again in a minute"})
			return
		}
		c.Next()
	}
}

// requireSubscription gates premium endpoints. Like requireSession, the gate
// only exists when a session store is configured.
func (d *Deps) requireSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Sessions == nil {
			c.Next()
			return
		}
		sess, ok := c.Get(sessionContextKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		email := sess.(*auth.Session).Email
		active, err := d.Sessions.Subscribed(c.Request.Context(), email)
		if err != nil {
			log.Printf("subscription lookup failed for %s: %v", email, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not verify subscription"})
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "an active subscription is required"})
			return
		}
		c.Next()
	}
}

func bearerOrCookie(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	token, _ := c.Cookie(config.SessionCookie)
	return token
}
