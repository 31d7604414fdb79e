package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"photomind/internal/bootstrap"
	"photomind/internal/config"
	"photomind/internal/middleware"
	"photomind/internal/modules/gallery"
	"photomind/internal/modules/search"
	"photomind/internal/modules/upload"
	"photomind/internal/pkg/metrics"
)

const (
	ServiceName    = "PhotoMind Backend"
	ServiceVersion = "1.0.0"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, handler http.Handler, log *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout(cfg),
			MaxHeaderBytes:    1 << 20,
		},
		cfg: cfg,
		log: log,
	}
}

// uploadCalls is the number of bounded external calls one upload makes:
// object put, labeling, record write and catalog upsert.
const uploadCalls = 4

// writeTimeout covers the longest chain of bounded calls a request can make.
// A tag search scans the catalog, asks the model up to MaxAttempts times and
// then looks up the matching images.
func writeTimeout(cfg *config.Config) time.Duration {
	calls := max(cfg.TagMatch.MaxAttempts+2, uploadCalls)
	return time.Duration(calls)*cfg.CallTimeout + 10*time.Second
}

// NewRouter wires middleware, the health check, metrics and the API routes
// on top of the given adapters.
func NewRouter(cfg *config.Config, a *bootstrap.Adapters, log *zap.Logger) *gin.Engine {
	metrics.Register()

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	router.Use(
		middleware.Metrics(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.Server.CORSAllowedOrigins),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
		middleware.BodyLimit(cfg.Server.MaxUploadBytes),
	)

	router.GET("/", Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Storage.Backend == config.ObjectStoreLocal {
		router.Static(cfg.Storage.LocalURL, cfg.Storage.LocalDir)
	}

	uploadService := upload.NewService(a.Objects, a.Labeler, a.Images, a.Tags, upload.Options{
		OwnerID:       cfg.OwnerID,
		MaxLabels:     cfg.Vision.MaxLabels,
		MinConfidence: cfg.Vision.MinConfidence,
		CallTimeout:   cfg.CallTimeout,

		RestrictExtensions: cfg.Server.RestrictExtensions,
	}, log.Named("upload"))

	galleryService := gallery.NewService(a.Images, a.Objects, gallery.Options{
		CallTimeout: cfg.CallTimeout,
	}, log.Named("gallery"))

	searchService := search.NewService(a.Tags, a.Images, a.Model, search.Options{
		MaxAttempts: cfg.TagMatch.MaxAttempts,
		MaxResults:  cfg.TagMatch.MaxResults,
		MaxTokens:   cfg.LLM.MaxTokens,
		Strict:      cfg.TagMatch.Strict,
		CallTimeout: cfg.CallTimeout,
	}, log.Named("search"))

	api := router.Group("/api")
	{
		upload.NewHandler(uploadService).RegisterRoutes(api)
		search.NewHandler(searchService, galleryService).RegisterRoutes(api)
		gallery.NewHandler(galleryService).RegisterRoutes(api)
	}

	return router
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}

func (s *Server) Run() error {
	s.log.Info("Server is running", zap.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
