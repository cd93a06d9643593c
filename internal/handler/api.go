package handler

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/cache"
	"github.com/pagecraft/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	pages    *service.PageService
	sections *service.SectionService
	media    *service.MediaService
	cache    cache.PageCache
}

// NewAPI constructs a handler set with shared services. A nil cache disables
// public page caching.
func NewAPI(gdb *gorm.DB, store service.ObjectStore, mediaFolder string, pageCache cache.PageCache) *API {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &API{
		db:       gdb,
		pages:    service.NewPageService(gdb),
		sections: service.NewSectionService(gdb),
		media:    service.NewMediaService(gdb, store, mediaFolder),
		cache:    pageCache,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// invalidatePage 在区块或发布状态变化后清除公开页面缓存，缓存失败只记录日志。
func (a *API) invalidatePage(c *gin.Context, pageID uint) {
	ctx := context.Background()
	if c != nil && c.Request != nil {
		ctx = c.Request.Context()
	}
	if err := a.cache.Invalidate(ctx, pageID); err != nil {
		log.Warn("failed to invalidate public page cache", "page", pageID, "err", err)
	}
}
