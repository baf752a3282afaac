// Package server assembles the HTTP surface: middleware, feature routes and docs.
package server

import (
	"expvar"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"attendance-backend/internal/attendance"
	_ "attendance-backend/internal/docs"
	"attendance-backend/internal/domain"
	"attendance-backend/internal/identity"
	"attendance-backend/internal/platform/apierr"
	"attendance-backend/internal/platform/auth"
	"attendance-backend/internal/platform/config"
	"attendance-backend/internal/platform/db"
	"attendance-backend/internal/platform/middleware"
	"attendance-backend/internal/profile"
	"attendance-backend/internal/rectification"
)

type Deps struct {
	DB     *db.DB
	Config *config.Config
	Clock  domain.Clock // nil なら実時計
	Logger *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	clock := d.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, rec any) {
			slog.Error("panic recovered", slog.Any("panic", rec), slog.String("request_id", c.GetString(apierr.RequestIDKey)))
			apierr.Abort(c, apierr.Internal("internal server error"))
		}),
		middleware.RequestID(),
		middleware.AccessLog(log),
	)
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス・運用
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	iss := auth.NewIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, clock)
	identities := identity.NewService(d.DB, iss, clock)
	rects := rectification.NewService(d.DB, clock)
	records := attendance.NewService(d.DB, clock, rects.Consumer())

	// 認証不要
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		PerMinute: cfg.RateLimit.PerMinute,
		Burst:     cfg.RateLimit.Burst,
	})
	identity.RegisterRoutes(r.Group("/", limiter.Middleware()), identities)
	profile.RegisterRoutes(r, profile.NewService(d.DB, clock))

	// 認証必須
	gated := r.Group("/", auth.RequireAuth(iss, identities.Directory()))
	attendance.RegisterRoutes(gated, records)
	rectification.RegisterRoutes(gated, rects)

	r.NoRoute(func(c *gin.Context) {
		apierr.Write(c, apierr.NotFound("route not found"))
	})
	return r
}
