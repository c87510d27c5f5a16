package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cartsvc "storefront-cart/internal/service/cart"
)

// Deps are the services the router exposes over HTTP.
type Deps struct {
	CartSvc *cartsvc.Service
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	// The storefront sends the session cookie cross-origin, so credentials
	// must be allowed and origins cannot be a wildcard.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &cartHandlers{
		svc:      deps.CartSvc,
		sessions: newSessionResolver(opts.SecureCookie),
		logger:   logger,
	}

	api := router.Group("/api/cart")
	api.POST("/add", h.add)
	api.POST("/remove", h.remove)
	api.POST("/update-quantity", h.updateQuantity)
	api.GET("/storage", h.fetch)
	api.POST("/storage", h.replace)
	api.POST("/clear", h.clear)
	api.POST("/migrate", h.migrate)

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
