package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"amphomeus/internal/middleware"
	"amphomeus/internal/modules/feed"
	"amphomeus/internal/modules/gallery"
	"amphomeus/internal/modules/journal"
	"amphomeus/internal/modules/media"
	"amphomeus/internal/modules/tag"
	jwtsvc "amphomeus/internal/pkg/jwt"
	"amphomeus/internal/repository"
)

type Deps struct {
	DB             *gorm.DB
	Media          media.Store
	Tokens         *jwtsvc.Service
	AllowedOrigins []string
	Log            *zap.Logger
}

// NewRouter builds the HTTP surface: a public health check and the
// authenticated /api/v1 routes.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	store := repository.NewStore(d.DB)
	hub := feed.NewHub(log)

	journalService := journal.NewService(store, d.Media, hub, log)
	journalHandler := journal.NewHandler(journalService)

	galleryHandler := gallery.NewHandler(gallery.NewService(store.Journals))
	tagHandler := tag.NewHandler(tag.NewService(store.Tags))
	mediaHandler := media.NewHandler(d.Media)
	feedHandler := feed.NewHandler(hub, d.AllowedOrigins, log)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(d.AllowedOrigins),
	)

	r.GET("/health", health(d.DB))

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(d.Tokens))
	{
		galleryHandler.RegisterRoutes(protected)
		journalHandler.RegisterRoutes(protected)
		tagHandler.RegisterRoutes(protected)
		mediaHandler.RegisterRoutes(protected)
		feedHandler.RegisterRoutes(protected)
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{"status": status})
	}
}
