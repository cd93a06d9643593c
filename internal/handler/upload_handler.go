package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/service"
)

// maxUploadBytes 限制读取的原始文件大小，压缩后的体积由 MediaService 另行控制。
const maxUploadBytes = 50 << 20

// UploadImage 处理图片上传请求：转码、上传并记录媒体资源。
// 文件类型由解码结果决定，不依赖请求中的 Content-Type。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		file, err = c.FormFile("file")
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	if file.Size > maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "图片文件过大")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取图片失败")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取图片失败")
		return
	}

	asset, err := a.media.Upload(c.Request.Context(), service.MediaUpload{
		Filename: file.Filename,
		Data:     data,
		Folder:   c.PostForm("folder"),
		Tags:     strings.Split(c.PostForm("tags"), ","),
	})
	if err != nil {
		respondServiceError(c, err, "上传失败")
		return
	}

	c.JSON(http.StatusCreated, mediaResponse(asset))
}

// ListMedia 返回媒体库中的图片，limit 默认 100
func (a *API) ListMedia(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	assets, err := a.media.ListMedia(limit)
	if err != nil {
		respondServiceError(c, err, "获取媒体失败")
		return
	}
	items := make([]gin.H, 0, len(assets))
	for i := range assets {
		items = append(items, mediaResponse(&assets[i]))
	}
	c.JSON(http.StatusOK, gin.H{"media": items})
}

func mediaResponse(asset *db.MediaAsset) gin.H {
	return gin.H{
		"id":         asset.ID,
		"title":      asset.Title,
		"public_id":  asset.PublicID,
		"secure_url": asset.SecureURL,
		"url":        asset.WebURL,
		"thumb_url":  asset.ThumbURL,
		"width":      asset.Width,
		"height":     asset.Height,
		"bytes":      asset.BytesSize,
		"format":     asset.Format,
		"tags":       asset.TagsCSV,
		"created_at": asset.CreatedAt,
	}
}

// GetMedia 返回单个媒体资源
func (a *API) GetMedia(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的媒体ID")
		return
	}
	asset, err := a.media.GetMedia(id)
	if err != nil {
		respondServiceError(c, err, "获取媒体失败")
		return
	}
	c.JSON(http.StatusOK, mediaResponse(asset))
}
