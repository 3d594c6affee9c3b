package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagelens/pagelens/cache"
	"github.com/pagelens/pagelens/models"
	"github.com/pagelens/pagelens/scraper"
)

// Scrape returns a handler for POST /scrape.
//
// Flow:
//  1. Parse & validate the request.
//  2. Cache lookup when the client asked for one.
//  3. Scraper.Scrape under the request deadline. Scrape-level failures end
//     up inside result.errors, so this always responds 200 with a result.
func Scrape(sc *scraper.Scraper, cc *cache.Cache, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		if cc != nil && req.MaxAgeMs > 0 {
			if cached, hit := cc.Get(cache.Key(req.URL), req.MaxAgeMs); hit {
				c.JSON(http.StatusOK, models.ScrapeResponse{Result: cached})
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		result := sc.Scrape(ctx, req.URL)

		if cc != nil && req.MaxAgeMs > 0 {
			cc.Set(cache.Key(req.URL), result)
		}

		c.JSON(http.StatusOK, models.ScrapeResponse{Result: result})
	}
}
