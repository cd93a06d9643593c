package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError 按错误分类映射 HTTP 状态码。
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTransform):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrValidation):
		var fieldErr *content.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Error(), "field": fieldErr.Field})
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Error(fallback, "path", c.FullPath(), "err", err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseUintQuerySlice 解析逗号分隔或重复出现的 ID 参数，任一值非法时返回错误。
func parseUintQuerySlice(values []string) ([]uint, error) {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			parsed, err := strconv.ParseUint(trimmed, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q", trimmed)
			}
			ids = append(ids, uint(parsed))
		}
	}
	return ids, nil
}
