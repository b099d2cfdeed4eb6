package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wego/internal/core/session"
	"wego/internal/domain"
	"wego/internal/service"
	"wego/internal/transport/http/ez"
	"wego/internal/transport/http/handler"
	mdw "wego/internal/transport/http/middleware"
)

// Deps carries everything the engine mounts. All wiring happens in main;
// the router only arranges groups and middleware.
type Deps struct {
	Logger   *zap.Logger
	Sessions *session.Manager
	Users    domain.UserRepository

	Auth     *service.AuthService
	UserSvc  *service.UserService
	Apps     *service.AppService
	Settings *service.SettingService
	Proxy    *service.ProxyService
	Files    *service.FileService

	FilesDir string
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	cc := cors.DefaultConfig()
	cc.AllowAllOrigins = true
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization")

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(50, 100),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(15*time.Second),
		ginzap.RecoveryWithZap(d.Logger, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Logger),
		cors.New(cc),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/files", d.FilesDir)

	api := r.Group("/api")

	authed := api.Group("")
	authed.Use(mdw.AuthSession(d.Sessions, d.Users))

	pub := ez.New(api)
	priv := ez.New(authed)

	handler.MountAuth(pub, priv, d.Auth)
	handler.MountUsers(priv, d.UserSvc)
	handler.MountApps(priv, d.Apps)
	handler.MountSettings(priv, d.Settings)
	handler.MountProxy(authed, d.Proxy)
	handler.MountFiles(authed, d.Files)

	return r
}
