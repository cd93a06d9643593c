package view

import (
	"strings"
	"testing"

	"github.com/pagecraft/internal/content"
)

func TestRenderRichTextSanitizes(t *testing.T) {
	html, err := RenderRichText("**Bold** move\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderRichText returned error: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "<strong>Bold</strong>") {
		t.Fatalf("expected markdown to be rendered, got %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected script to be stripped, got %s", out)
	}

	empty, err := RenderRichText("  ")
	if err != nil || empty != "" {
		t.Fatalf("expected empty output, got %q err=%v", empty, err)
	}
}

func TestPublicDocumentAddsDerivedFields(t *testing.T) {
	doc := content.Document{
		"body_text":    "Hello *world*",
		"show_section": false,
		"social_links": []any{
			map[string]any{"platform": "GitHub", "url": "https://github.com/kim"},
			map[string]any{"platform": "myspace", "url": "https://myspace.com/kim"},
		},
	}

	out, visible, err := PublicDocument(doc)
	if err != nil {
		t.Fatalf("PublicDocument returned error: %v", err)
	}
	if visible {
		t.Fatal("expected hidden section to be reported invisible")
	}
	if html, _ := out["body_text_html"].(string); !strings.Contains(html, "<em>world</em>") {
		t.Fatalf("expected rendered body_text_html, got %q", html)
	}

	links := out["social_links"].([]any)
	if svg := links[0].(map[string]any)["icon_svg"]; svg != SocialIconSVG("github") {
		t.Fatal("expected github icon")
	}
	if svg := links[1].(map[string]any)["icon_svg"]; svg != SocialIconSVG("") {
		t.Fatal("expected fallback icon for unknown platform")
	}

	if _, ok := doc["body_text_html"]; ok {
		t.Fatal("input document must not be modified")
	}
	if _, ok := doc["social_links"].([]any)[0].(map[string]any)["icon_svg"]; ok {
		t.Fatal("input list items must not be modified")
	}
}

func TestSocialIconOptions(t *testing.T) {
	options := SocialIconOptions()
	if len(options) == 0 || options[0].Key != "email" {
		t.Fatalf("unexpected options %+v", options)
	}
	if SocialIconSVG("twitter") != SocialIconSVG("x") {
		t.Fatal("twitter should alias x")
	}
}
