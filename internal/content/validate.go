package content

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidURL 表示链接既不是完整 URL，也不是锚点或站内相对路径。
var ErrInvalidURL = errors.New("enter a valid URL (http://...), anchor link (#section), or relative path (/page)")

// FieldError 指出文档中未通过校验的字段。
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var (
	validate = validator.New()

	// urlKeys are the URL-shaped keys checked anywhere in a document.
	urlKeys = map[string]struct{}{
		"url":                   {},
		"button_url":            {},
		"supplemental_link_url": {},
	}
)

// ValidateURL accepts an empty value, an anchor (#id), a relative path (/x)
// or an absolute http(s)/ftp(s)/mailto/tel URL.
func ValidateURL(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "/") {
		return nil
	}

	if err := validate.Var(trimmed, "url"); err != nil {
		return ErrInvalidURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ErrInvalidURL
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "ftp", "ftps":
		if parsed.Host == "" {
			return ErrInvalidURL
		}
	case "mailto", "tel":
		if parsed.Opaque == "" {
			return ErrInvalidURL
		}
	default:
		return ErrInvalidURL
	}
	return nil
}

// ValidateDocument walks the document and checks every URL-shaped field,
// including those nested inside list items.
func ValidateDocument(doc Document) error {
	return validateValue("", map[string]any(doc))
}

func validateValue(path string, value any) error {
	switch typed := value.(type) {
	case map[string]any:
		for key, nested := range typed {
			fieldPath := joinPath(path, key)
			if _, ok := urlKeys[key]; ok {
				if raw, isString := nested.(string); isString {
					if err := ValidateURL(raw); err != nil {
						return &FieldError{Field: fieldPath, Value: raw, Err: err}
					}
					continue
				}
			}
			if err := validateValue(fieldPath, nested); err != nil {
				return err
			}
		}
	case Document:
		return validateValue(path, map[string]any(typed))
	case []any:
		for i, nested := range typed {
			if err := validateValue(fmt.Sprintf("%s[%d]", path, i), nested); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
