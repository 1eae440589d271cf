package handler

import (
	"context"
	"net/http"
	"time"

	"moneybook/internal/database"

	"github.com/gin-gonic/gin"
)

// Health reports whether the database answers a ping.
func Health(db database.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "moneybook API is running",
		})
	}
}
