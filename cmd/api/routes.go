package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/rrmms-api/internal/auth"
	"github.com/yourusername/rrmms-api/internal/config"
	"github.com/yourusername/rrmms-api/internal/logger"
	"github.com/yourusername/rrmms-api/internal/resource"
	"github.com/yourusername/rrmms-api/internal/web"
)

const (
	serviceName    = "rrmms-api"
	serviceVersion = "0.1.0"
	healthTimeout  = 2 * time.Second
)

// setupRouter はミドルウェアとルーティングを設定したルーターを返します。
func setupRouter(cfg *config.Config, deps *dependencies) *gin.Engine {
	// gin.Default のロガーの代わりに構造化ログを使う
	router := gin.New()
	router.Use(
		gin.Recovery(),
		logger.RequestID(),
		logger.Access(),
		deps.metrics.Middleware(),
	)

	// セッションCookieの設定（中身はトークンのみ）
	store := auth.NewCookieStore(auth.CookieConfig{
		Secret:      cfg.SessionSecret,
		MaxLifetime: cfg.SessionMaxLifetime,
		Secure:      cfg.GinMode == gin.ReleaseMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, store))
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	authManager := auth.NewManager(
		auth.NewCredentials(deps.store, cfg.BcryptCost),
		deps.sessions,
		auth.Options{
			LoginMaxAttempts: cfg.LoginMaxAttempts,
			Metrics:          deps.metrics,
		},
	)
	resources := resource.NewHandler(deps.store, deps.store)
	pages := web.New(cfg.PublicDir)

	// 誰でも叩けるエンドポイント
	router.GET("/health", handleHealth(deps))
	router.GET("/metrics", gin.WrapH(deps.metrics.Handler()))

	// 画面
	router.GET("/", authManager.RedirectIfLoggedIn("/"+web.Screen1Page), pages.Serve(web.LoginPage))
	router.GET("/"+web.Screen1Page, authManager.RequireLogin(), pages.Serve(web.Screen1Page))

	// 認証
	router.POST("/register", authManager.Register)
	router.POST("/login", authManager.Login)
	router.GET("/logout", authManager.Logout)

	// requests
	router.GET("/data", resources.ListRequests)
	router.PATCH("/data/:id/status", resources.UpdateRequestStatus)

	// usermanagements1
	router.POST("/api/users", resources.CreateProfile)
	router.GET("/usermanagements1", resources.ListProfiles)

	router.NoRoute(pages.Static(web.Screen1Page))
	return router
}

// corsConfig は CORS_ALLOWED_ORIGINS から設定を作ります。"*" は全オリジン許可です。
func corsConfig(allowed string) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{logger.RequestIDHeader}

	var origins []string
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	return corsCfg
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(deps *dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := http.StatusOK
		status := "ok"

		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := deps.store.Ping(ctx); err != nil {
			logger.FromContext(c).Error().Err(err).Msg("health: store ping failed")
			code = http.StatusServiceUnavailable
			status = "unavailable"
		}

		c.JSON(code, gin.H{
			"status":  status,
			"service": serviceName,
			"version": serviceVersion,
			"store":   status,
		})
	}
}
