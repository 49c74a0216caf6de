package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/planner"
)

// Server exposes the catalog and the optimizer over HTTP. The catalog is
// process-wide and read-only; every optimize request runs an independent
// solve, so no cross-request synchronization is needed.
type Server struct {
	catalog *catalog.Catalog
	planner planner.Planner
	port    string
}

func New(activeCatalog *catalog.Catalog, coursePlanner planner.Planner, port string) *Server {
	return &Server{
		catalog: activeCatalog,
		planner: coursePlanner,
		port:    port,
	}
}

// Router builds the gin engine with the request-id and logging middleware.
func (server *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger())

	router.GET("/courses", server.listCourses)
	router.POST("/optimize", server.optimize)

	return router
}

// Run blocks serving HTTP until the listener fails.
func (server *Server) Run() error {
	log.Info().Str("port", server.port).Msg("starting http server")
	return server.Router().Run(":" + server.port)
}

func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set("request_id", id)
		ctx.Header("X-Request-ID", id)
		ctx.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Info().
			Str("request_id", ctx.GetString("request_id")).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	}
}

func abortWithError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}
