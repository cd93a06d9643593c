package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/cache"
	"github.com/pagecraft/internal/config"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/handler"
	"github.com/pagecraft/internal/router"
	"github.com/pagecraft/internal/service"
	"github.com/pagecraft/internal/storage"
)

func main() {
	if err := run(config.Load()); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// run 完成初始化并阻塞在 HTTP 服务上；返回前会执行所有清理。
func run(cfg config.AppConfig) error {
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	if _, _, err := service.NewPageService(db.DB).EnsureDefaultPage(); err != nil {
		return fmt.Errorf("ensure default page: %w", err)
	}

	if created, err := db.EnsureUser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		return fmt.Errorf("ensure super root user: %w", err)
	} else if created {
		log.Info("created super root user", "username", cfg.SuperRootUserName)
	}

	var pageCache cache.PageCache = cache.Noop{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisPageCache(cfg.RedisURL, cfg.PublicCacheTTL)
		if err != nil {
			log.Warn("redis unavailable, public page cache disabled", "err", err)
		} else {
			defer redisCache.Close()
			pageCache = redisCache
		}
	}

	store, localUploads, err := objectStore(cfg)
	if err != nil {
		return err
	}
	api := handler.NewAPI(db.DB, store, cfg.MediaFolder, pageCache)

	r := router.SetupRouter(api, cfg.SessionSecret, localUploads, cfg.UploadURLPath)
	log.Info("server listening", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}

// objectStore 选择媒体存储：配置了 MEDIA_ENDPOINT 时使用对象存储，否则写入本地目录。
// 第二个返回值是需要由 gin 提供静态访问的本地目录。
func objectStore(cfg config.AppConfig) (service.ObjectStore, string, error) {
	if cfg.MediaEndpoint != "" {
		store, err := storage.NewMinioStore(storage.MinioConfig{
			Endpoint:      cfg.MediaEndpoint,
			AccessKey:     cfg.MediaAccessKey,
			SecretKey:     cfg.MediaSecretKey,
			Bucket:        cfg.MediaBucket,
			UseSSL:        cfg.MediaUseSSL,
			PublicBaseURL: cfg.MediaPublicBaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("create media store: %w", err)
		}
		return store, "", nil
	}
	return storage.NewLocalStore(cfg.UploadDir, cfg.LocalMediaBaseURL()), cfg.UploadDir, nil
}
