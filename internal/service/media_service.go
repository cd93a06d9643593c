package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrMediaFileMissing = fmt.Errorf("image file is required: %w", ErrValidation)
	ErrMediaUpload      = errors.New("media upload failed")
)

// ObjectStore 是媒体文件的持久化目标。
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (storage.Object, error)
}

// MediaUpload 描述一次上传请求。
type MediaUpload struct {
	Filename string
	Data     []byte
	Folder   string
	Tags     []string
}

// MediaService 负责图片的转码、上传与元数据记录。
type MediaService struct {
	db       *gorm.DB
	store    ObjectStore
	folder   string
	attempts int
	backoff  time.Duration
	limits   compressionLimits
}

// NewMediaService creates a MediaService writing to store under folder.
func NewMediaService(gdb *gorm.DB, store ObjectStore, folder string) *MediaService {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = "pagecraft/uploads"
	}
	return &MediaService{
		db:       gdb,
		store:    store,
		folder:   folder,
		attempts: 3,
		backoff:  500 * time.Millisecond,
		limits:   defaultCompressionLimits,
	}
}

// Upload 转码图片并上传原图与缩略图，成功后写入 MediaAsset。
// 转码失败返回 ErrTransform 分类错误，上传失败时不写入任何记录。
func (s *MediaService) Upload(ctx context.Context, input MediaUpload) (*db.MediaAsset, error) {
	if len(input.Data) == 0 {
		return nil, ErrMediaFileMissing
	}

	transformed, err := transformImage(input.Data, s.limits)
	if err != nil {
		return nil, err
	}

	folder := strings.Trim(strings.TrimSpace(input.Folder), "/")
	if folder == "" {
		folder = s.folder
	}

	publicID, err := s.uniquePublicID(folder, input.Filename)
	if err != nil {
		return nil, err
	}

	original, err := s.putWithRetry(ctx, publicID+".jpg", transformed.Data)
	if err != nil {
		return nil, err
	}
	thumb, err := s.putWithRetry(ctx, publicID+"_thumb.jpg", transformed.Thumb)
	if err != nil {
		return nil, err
	}

	asset := db.MediaAsset{
		Title:     strings.TrimSpace(input.Filename),
		PublicID:  publicID,
		SecureURL: original.URL,
		WebURL:    original.URL,
		ThumbURL:  thumb.URL,
		BytesSize: len(transformed.Data),
		Width:     transformed.Width,
		Height:    transformed.Height,
		Format:    "jpg",
		TagsCSV:   joinTags(input.Tags),
		IsActive:  true,
	}
	if asset.Title == "" {
		asset.Title = path.Base(publicID)
	}
	if err := s.db.Create(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("public id %s: %w", publicID, ErrConflict)
		}
		return nil, err
	}
	return &asset, nil
}

// ListMedia returns active assets, newest first.
func (s *MediaService) ListMedia(limit int) ([]db.MediaAsset, error) {
	if limit <= 0 {
		limit = 100
	}
	var assets []db.MediaAsset
	if err := s.db.Where("is_active = ?", true).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// GetMedia fetches an asset by id.
func (s *MediaService) GetMedia(id uint) (*db.MediaAsset, error) {
	var asset db.MediaAsset
	if err := s.db.First(&asset, id).Error; err != nil {
		return nil, notFound(err, ErrMediaNotFound)
	}
	return &asset, nil
}

// uniquePublicID 由文件名生成 folder/slug，已存在时追加 -1、-2 ...
func (s *MediaService) uniquePublicID(folder, filename string) (string, error) {
	base := slugify(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = uuid.NewString()
	}

	for idx := 0; idx < 1000; idx++ {
		candidate := base
		if idx > 0 {
			candidate = withSuffix(base, idx)
		}
		publicID := folder + "/" + candidate

		var count int64
		if err := s.db.Model(&db.MediaAsset{}).Where("public_id = ?", publicID).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return publicID, nil
		}
	}
	return folder + "/" + base + "-" + uuid.NewString(), nil
}

func (s *MediaService) putWithRetry(ctx context.Context, key string, body []byte) (storage.Object, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		obj, err := s.store.Put(ctx, key, body, "image/jpeg")
		if err == nil {
			return obj, nil
		}
		lastErr = err
		if attempt == s.attempts {
			break
		}

		log.Warn("media upload failed, retrying", "key", key, "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return storage.Object{}, fmt.Errorf("%w: %w", ErrMediaUpload, ctx.Err())
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
	return storage.Object{}, fmt.Errorf("%w after %d attempts: %w", ErrMediaUpload, s.attempts, lastErr)
}

func joinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}
