package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pagelens/pagelens/models"
)

// Recovery returns panic-recovery middleware that responds with the
// structured error envelope instead of an empty 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ScrapeResponse{
			Error: &models.ErrorDetail{
				Code:    models.ErrCodeInternal,
				Message: "internal server error",
			},
		})
	})
}
