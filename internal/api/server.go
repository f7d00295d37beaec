package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

func NewServer(port int, handler *Handler) *Server {
	router := gin.Default()

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// The sitemap and metrics live at the root, outside the API group
	router.GET("/sitemap.xml", handler.Sitemap)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup routes
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Content-quality dashboard routes
		contentQuality := api.Group("/content-quality")
		{
			contentQuality.GET("/stats", handler.GetQualityStats)
			contentQuality.POST("/batch-process", handler.BatchProcess)
		}

		// Content routes
		content := api.Group("/content")
		{
			content.GET("", handler.ListContent)
			content.GET("/:id", handler.GetContent)
			content.GET("/search", handler.SearchContent)
			content.GET("/slug/:slug", handler.GetContentBySlug)
		}

		// Directory routes
		api.GET("/listings", handler.ListListings)
		api.GET("/neighborhoods", handler.ListNeighborhoods)
	}

	return &Server{
		router: router,
		port:   port,
	}
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
