package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	LogLevel          string
	UploadDir         string
	UploadURLPath     string
	SuperRootUserName string
	SuperRootPassword string
	SiteBaseURL       string

	// RedisURL 为空时禁用公开页面缓存。
	RedisURL       string
	PublicCacheTTL time.Duration

	// MediaEndpoint 为空时媒体文件写入本地 UploadDir。
	MediaEndpoint      string
	MediaAccessKey     string
	MediaSecretKey     string
	MediaBucket        string
	MediaUseSSL        bool
	MediaPublicBaseURL string
	MediaFolder        string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := getenv("PORT", "8080")

	return AppConfig{
		ListenAddr:        getenv("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:              port,
		DatabasePath:      getenv("DATABASE_PATH", "pagecraft.db"),
		SessionSecret:     getenv("SESSION_SECRET", "pagecraft-dev-secret"),
		GinMode:           getenv("GIN_MODE", "release"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		UploadDir:         getenv("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath:     getenv("UPLOAD_URL_PATH", "/static/uploads"),
		SuperRootUserName: getenv("SUPER_ROOT_USER_NAME", ""),
		SuperRootPassword: getenv("SUPER_ROOT_PASSWORD", ""),
		SiteBaseURL:       getenv("SITE_BASE_URL", "http://localhost:"+port),

		RedisURL:       getenv("REDIS_URL", ""),
		PublicCacheTTL: time.Duration(getenvInt("PUBLIC_CACHE_TTL_SECONDS", 300)) * time.Second,

		MediaEndpoint:      getenv("MEDIA_ENDPOINT", ""),
		MediaAccessKey:     getenv("MEDIA_ACCESS_KEY", ""),
		MediaSecretKey:     getenv("MEDIA_SECRET_KEY", ""),
		MediaBucket:        getenv("MEDIA_BUCKET", "pagecraft-media"),
		MediaUseSSL:        getenvBool("MEDIA_USE_SSL", true),
		MediaPublicBaseURL: getenv("MEDIA_PUBLIC_BASE_URL", ""),
		MediaFolder:        getenv("MEDIA_FOLDER", "pagecraft/uploads"),
	}
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// LocalMediaBaseURL 返回本地存储媒体文件的绝对 URL 前缀：SITE_BASE_URL 加 UPLOAD_URL_PATH。
// SITE_BASE_URL 为空时退回站内相对路径。
func (c AppConfig) LocalMediaBaseURL() string {
	uploadPath := "/" + strings.Trim(c.UploadURLPath, "/")
	base := strings.TrimRight(c.SiteBaseURL, "/")
	return base + uploadPath
}
