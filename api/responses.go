package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"clipchat/media"
	"clipchat/ops"
)

// writeError maps pipeline errors onto HTTP statuses. Client mistakes get a
// field-level explanation; engine failures get the sanitized stderr tail;
// everything else is an opaque 500.
func writeError(c *gin.Context, err error) {
	var verr *ops.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      verr.Error(),
			"field":      verr.Field,
			"constraint": verr.Constraint,
		})
		return
	}
	var uerr *ops.UnresolvedError
	if errors.As(err, &uerr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     uerr.Error(),
			"operation": uerr.Name,
		})
		return
	}
	if errors.Is(err, media.ErrNotStreamable) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var berr *ops.BuildError
	if errors.As(err, &berr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     berr.Error(),
			"operation": berr.Op,
		})
		return
	}
	var perr *media.ProbeError
	if errors.As(err, &perr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not read media file: " + perr.Input})
		return
	}
	var jerr *media.JobError
	if errors.As(err, &jerr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "processing failed",
			"detail": jerr.Stderr,
		})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "processing timed out"})
		return
	}
	log.Printf("internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
