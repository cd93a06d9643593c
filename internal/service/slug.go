package service

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// slugify 将名称转换为 URL 友好的 slug：非 ASCII 字符先音译，下划线视为分隔符。
// 没有可用字符时返回空字符串。
func slugify(raw string) string {
	return slug.Make(strings.ReplaceAll(raw, "_", " "))
}

func withSuffix(base string, idx int) string {
	return base + "-" + strconv.Itoa(idx)
}
