package content

import (
	"net/url"
	"strings"
)

// toggleFields 在每次表单映射时都会写入，渲染端依赖它们存在。
var toggleFields = []string{
	"show_section",
	"show_divider_above",
	"show_divider_below",
	"emphasize_as_key_section",
}

// MapForm translates flat form input into the nested document shape for t.
//
// A recognised field is written only when it is present in the form, so
// absent fields leave the prior value untouched once the result is merged
// over an existing document. The gradient and the toggle fields are always
// written. List content is never produced here.
func MapForm(form url.Values, t SectionType) Document {
	schema, _ := Lookup(t)
	doc := Document{}

	for _, field := range schema.Fields {
		if has(form, field) {
			doc[field] = form.Get(field)
		}
	}

	if schema.Image && has(form, "image_url") {
		doc["image"] = map[string]any{
			"url":      form.Get("image_url"),
			"alt_text": form.Get("image_alt_text"),
		}
		if has(form, "image_position") {
			doc["image_position"] = valueOr(form, "image_position", schema.ImagePosition)
		}
	}

	if schema.PrimaryButton && has(form, "primary_button_label") {
		doc["primary_button"] = formButton(form, "primary_button", primaryButtonDefaults)
	}
	if schema.SecondaryButton && has(form, "secondary_button_label") {
		doc["secondary_button"] = formButton(form, "secondary_button", secondaryButtonDefaults)
	}

	if schema.SupplementalLink && has(form, "supplemental_link_label") {
		doc["supplemental_link_label"] = form.Get("supplemental_link_label")
		doc["supplemental_link_url"] = form.Get("supplemental_link_url")
	}

	if has(form, "background_image_url") {
		doc["background_image"] = map[string]any{
			"url":      form.Get("background_image_url"),
			"alt_text": form.Get("background_image_alt"),
		}
	}
	if has(form, "layout_variant") {
		doc["layout_variant"] = form.Get("layout_variant")
	}
	if has(form, "background_style") {
		doc["background_style"] = form.Get("background_style")
	}

	doc["gradient"] = gradient(
		valueOr(form, "gradient_type", "none"),
		splitColors(form.Get("gradient_colors")),
		valueOr(form, "gradient_direction", "to-right"),
	)

	for _, toggle := range toggleFields {
		doc[toggle] = checked(form.Get(toggle))
	}

	return doc
}

// Merge overlays patch onto a deep copy of base. Keys absent from patch,
// including list content, keep their base values.
func Merge(base, patch Document) Document {
	merged := base.Clone()
	for key, value := range patch.Clone() {
		merged[key] = value
	}
	return merged
}

func formButton(form url.Values, prefix string, defaults ButtonDefaults) map[string]any {
	return button(
		form.Get(prefix+"_label"),
		form.Get(prefix+"_url"),
		valueOr(form, prefix+"_variant", defaults.Variant),
		valueOr(form, prefix+"_shape", defaults.Shape),
	)
}

func has(form url.Values, key string) bool {
	_, ok := form[key]
	return ok
}

// valueOr falls back only when the key is missing; an empty submitted value is kept.
func valueOr(form url.Values, key, fallback string) string {
	if !has(form, key) {
		return fallback
	}
	return form.Get(key)
}

func splitColors(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	colors := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			colors = append(colors, trimmed)
		}
	}
	return colors
}

func checked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}
