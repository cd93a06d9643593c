package content

import (
	"encoding/json"
	"errors"
	"fmt"

	deep "github.com/brunoga/deep/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/tailscale/hujson"
)

// ErrInvalidDocument 表示文档不是合法的 JSON 对象。
var ErrInvalidDocument = errors.New("document must be a JSON object")

// Document 是区块在某一状态下的内容 JSON 对象。
type Document map[string]any

// IsEmpty reports whether the document holds no keys. nil and {} are both empty.
func (d Document) IsEmpty() bool {
	return len(d) == 0
}

// Clone returns a deep copy; nested maps and slices are never shared.
// A nil document clones to an empty one.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	return deep.Clone(d)
}

// Headline returns the document's headline, if any.
func (d Document) Headline() string {
	if value, ok := d["headline"].(string); ok {
		return value
	}
	return ""
}

// Equal compares two documents structurally: object key order is irrelevant,
// array order is significant and numbers compare by value.
func Equal(a, b Document) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() == b.IsEmpty()
	}
	left, err := canonical(a)
	if err != nil {
		return false
	}
	right, err := canonical(b)
	if err != nil {
		return false
	}
	return cmp.Equal(left, right)
}

// HasPendingChanges reports whether a draft carries edits not yet published.
// An empty draft means nothing is pending.
func HasPendingChanges(draft, published Document) bool {
	if draft.IsEmpty() {
		return false
	}
	return !Equal(draft, published)
}

func canonical(d Document) (any, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseDocument decodes a JSON or JSONC (comments, trailing commas) object.
func ParseDocument(raw []byte) (Document, error) {
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var decoded any
	if err := json.Unmarshal(standardized, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	object, ok := decoded.(map[string]any)
	if !ok {
		return nil, ErrInvalidDocument
	}
	return Document(object), nil
}
