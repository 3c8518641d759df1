package httpserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.AuthSvc == nil || deps.UserSvc == nil || deps.ProductSvc == nil || deps.OrderSvc == nil || deps.SyncSvc == nil {
		return nil, errors.New("httpserver: all services are required")
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(requestID(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), corsMiddleware(deps.CORSOrigins))

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found")
	})

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	auth := &authHandler{svc: deps.AuthSvc, logger: logger}
	api.POST("/auth", auth.post)
	api.GET("/auth/session", auth.session)

	users := &userHandler{svc: deps.UserSvc, logger: logger}
	api.GET("/users", users.list)
	api.POST("/users", users.create)
	api.PUT("/users", users.update)
	api.DELETE("/users", users.remove)

	products := &productHandler{svc: deps.ProductSvc, logger: logger}
	api.GET("/products", products.list)
	api.POST("/products", products.create)
	api.PUT("/products", products.update)
	api.DELETE("/products", products.remove)

	orders := &orderHandler{svc: deps.OrderSvc, logger: logger}
	api.GET("/orders", orders.list)
	api.POST("/orders", orders.create)
	api.PUT("/orders", orders.update)
	api.DELETE("/orders", orders.remove)

	api.GET("/sync", syncHandler(deps.SyncSvc))
	api.GET("/diagnostics", diagnosticsHandler(db, deps.SyncSvc, logger))

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
