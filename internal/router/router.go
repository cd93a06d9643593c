package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/handler"
)

const sessionName = "pagecraft_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret, uploadDir, uploadURLPath string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 本地媒体文件，使用对象存储时该目录为空
	if uploadDir != "" {
		uploadURLPath = "/" + strings.Trim(uploadURLPath, "/")
		if uploadURLPath == "/" {
			uploadURLPath = "/static/uploads"
		}
		r.Static(uploadURLPath, uploadDir)
		if uploadURLPath != "/uploads" {
			r.Static("/uploads", uploadDir)
		}
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// 公开页面
	r.GET("/", api.PublicHome)
	r.GET("/api/pages/:slug", api.PublicPage)

	// 后台管理路由
	admin := r.Group("/admin/api")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.Dashboard)
			auth.GET("/section-types", api.SectionTypes)

			auth.GET("/pages", api.ListPages)
			auth.POST("/pages", api.CreatePage)
			auth.GET("/pages/:id", api.GetPageBuilder)
			auth.DELETE("/pages/:id", api.DeletePage)
			auth.GET("/pages/:id/preview", api.PreviewPage)
			auth.GET("/pages/:id/changes", api.ChangedSections)
			auth.POST("/pages/:id/publish", api.PublishPage)
			auth.POST("/pages/:id/discard", api.DiscardPage)
			auth.POST("/pages/:id/sections", api.CreateSection)

			auth.GET("/sections/:id", api.GetSection)
			auth.POST("/sections/:id", api.UpdateSectionDraft)
			auth.PUT("/sections/:id/config", api.ReplaceSectionConfig)
			auth.POST("/sections/:id/toggle", api.ToggleSection)
			auth.DELETE("/sections/:id", api.DeleteSection)
			auth.POST("/sections/:id/move/:direction", api.MoveSection)
			auth.GET("/sections/:id/resolve", api.ResolveSection)

			auth.GET("/media", api.ListMedia)
			auth.POST("/media", api.UploadImage)
			auth.GET("/media/:id", api.GetMedia)
		}
	}

	return r
}
