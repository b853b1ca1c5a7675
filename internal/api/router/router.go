package router

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/api/handler"
	"github.com/RNikdata/RAB/internal/api/middleware"
	"github.com/RNikdata/RAB/internal/service"
	"github.com/RNikdata/RAB/pkg/jwt"
	"github.com/RNikdata/RAB/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎；rdb 为 nil 时黑名单与限流降级
func Setup(cfg *config.Config, h *handler.Handler, tmpl *template.Template, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	cookieName := handler.NewSessionCookie(&cfg.Auth.Cookie).Name()
	loginLimit := middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 看板页面 ──
	r.GET("/login", h.Web.LoginPage)
	r.POST("/login", loginLimit, h.Web.Login)

	pages := r.Group("")
	pages.Use(middleware.SessionAuth(jwtMgr, rdb, cookieName, "/login"))
	{
		pages.GET("/", h.Web.Board)
		pages.POST("/logout", h.Web.Logout)
		pages.GET("/photos/:id", h.Photo.Get)
		pages.POST("/board/requests", h.Web.Submit)
		pages.POST("/board/requests/:id/decision", h.Web.Decide)
		pages.POST("/board/requests/:id/delete", h.Web.Remove)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", loginLimit, h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, cookieName))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 员工与看板视图（所有角色可读）
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Board.ListEmployees)
				employees.GET("/kpis", h.Board.KPIs)
				employees.GET("/:id/photo", h.Photo.Get)
			}
			authorized.GET("/board/options", h.Board.Options)
			authorized.GET("/summary", h.Board.Summary)

			// 调岗申请
			requests := authorized.Group("/requests")
			{
				requests.GET("", h.Request.List)
				requests.POST("", middleware.RoleAuth(service.RoleAdmin, service.RoleManager), h.Request.Create)
				requests.POST("/:id/approve", middleware.RoleAuth(service.RoleAdmin, service.RoleManager), h.Request.Approve)
				requests.POST("/:id/reject", middleware.RoleAuth(service.RoleAdmin, service.RoleManager), h.Request.Reject)
				requests.DELETE("/:id", middleware.RoleAuth(service.RoleAdmin), h.Request.Delete)
			}

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/requests", h.Export.ExportRequests)
				export.GET("/summary", h.Export.ExportSummary)
			}
		}
	}

	return r
}
