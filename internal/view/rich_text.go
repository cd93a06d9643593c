// Package view prepares resolved section documents for public rendering.
package view

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pagecraft/internal/content"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// richTextFields 是按 Markdown 书写的长文本字段。
var richTextFields = []string{"body_text", "intro_text"}

// RenderRichText converts markdown to sanitized HTML.
func RenderRichText(markdown string) (template.HTML, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// PublicDocument 返回面向访客的文档副本：长文本字段额外输出 <field>_html，
// 页脚社交链接附带图标。show_section 为 false 时 visible 为 false。
func PublicDocument(doc content.Document) (content.Document, bool, error) {
	out := doc.Clone()
	if out == nil {
		out = content.Document{}
	}

	for _, field := range richTextFields {
		raw, ok := out[field].(string)
		if !ok || raw == "" {
			continue
		}
		rendered, err := RenderRichText(raw)
		if err != nil {
			return nil, false, err
		}
		out[field+"_html"] = string(rendered)
	}

	if links, ok := out["social_links"].([]any); ok {
		for _, item := range links {
			if link, ok := item.(map[string]any); ok {
				platform, _ := link["platform"].(string)
				link["icon_svg"] = SocialIconSVG(platform)
			}
		}
	}

	visible := true
	if show, ok := out["show_section"].(bool); ok {
		visible = show
	}
	return out, visible, nil
}
