package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// syncHandler serves ?endpoint=last and ?endpoint=updates&since=<ms>.
func syncHandler(svc SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Query("endpoint") {
		case "last":
			c.JSON(http.StatusOK, gin.H{"timestamp": svc.LastSync()})
		case "updates":
			since, err := strconv.ParseInt(c.Query("since"), 10, 64)
			if err != nil {
				since = 0
			}
			status, err := svc.Updates(c.Request.Context(), since)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check updates"})
				return
			}
			c.JSON(http.StatusOK, status)
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		}
	}
}

// diagnosticsHandler reports database reachability and row totals.
func diagnosticsHandler(db *pgxpool.Pool, svc SyncService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := pingDB(c.Request.Context(), db); err != nil {
			respondError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		totals, err := svc.Updates(c.Request.Context(), 0)
		if err != nil {
			logger.Printf("diagnostics: request_id=%s error=%v", requestIDFrom(c), err)
			respondError(c, http.StatusInternalServerError, "Failed to count rows")
			return
		}
		respondData(c, http.StatusOK, gin.H{
			"database": "connected",
			"products": totals.Products,
			"users":    totals.Users,
			"orders":   totals.Orders,
		})
	}
}
