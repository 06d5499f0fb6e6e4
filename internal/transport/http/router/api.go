package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"staffdesk/internal/core/auth"
	"staffdesk/internal/transport/http/handler"
	mdw "staffdesk/internal/transport/http/middleware"
)

type Deps struct {
	Log     *zap.Logger
	JWTer   *auth.JWTer
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Exports *handler.ExportHandler

	// UploadDir is served under /uploads/users so stored image paths
	// resolve for the dashboard.
	UploadDir string
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.UploadDir != "" {
		r.Static("/uploads/users", d.UploadDir)
	}

	api := r.Group("/api/v1")

	// Public: signup + login.
	d.Auth.Mount(api)

	// Authenticated: listing, lookup, profile edit, exports.
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer, false))

	// Admin only: activity toggle and soft delete.
	admin := api.Group("")
	admin.Use(mdw.AuthJWT(d.JWTer, true))

	d.Users.Mount(authed, admin)
	d.Exports.Mount(authed)

	return r
}
