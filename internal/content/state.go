package content

import "strings"

// Mode selects which document a render path should see.
type Mode string

const (
	ModePreview Mode = "preview"
	ModePublic  Mode = "public"
)

// ParseMode defaults to public for anything other than "preview".
func ParseMode(raw string) Mode {
	if strings.EqualFold(strings.TrimSpace(raw), string(ModePreview)) {
		return ModePreview
	}
	return ModePublic
}

// State 是区块三份文档的显式和类型：Empty | Legacy | Migrated。
// Legacy 只能通过 Migrate 转换为 Migrated，且 Legacy 不提供 Resolve，
// 读取前必须先完成迁移。
type State interface {
	isState()
}

// Empty 表示三份文档均为空，渲染端使用类型默认值。
type Empty struct{}

// Legacy 表示迁移前状态：草稿与发布文档为空，仅旧版文档有内容。
type Legacy struct {
	Doc Document
}

// Migrated 表示草稿/发布两态模型，Legacy 字段仅作为公开模式的兜底。
type Migrated struct {
	Draft     Document
	Published Document
	Legacy    Document
}

func (Empty) isState()    {}
func (Legacy) isState()   {}
func (Migrated) isState() {}

// Classify derives the state from the three persisted documents.
func Classify(legacy, draft, published Document) State {
	switch {
	case draft.IsEmpty() && published.IsEmpty() && legacy.IsEmpty():
		return Empty{}
	case draft.IsEmpty() && published.IsEmpty():
		return Legacy{Doc: legacy}
	default:
		return Migrated{Draft: draft, Published: published, Legacy: legacy}
	}
}

// Migrate copies the legacy document into both draft and published.
func (l Legacy) Migrate() Migrated {
	return Migrated{
		Draft:     l.Doc.Clone(),
		Published: l.Doc.Clone(),
		Legacy:    l.Doc,
	}
}

// Resolve picks the document a mode renders. Preview prefers draft, then
// published, then legacy; public prefers published, then legacy.
func (m Migrated) Resolve(mode Mode) Document {
	chain := []Document{m.Published, m.Legacy}
	if mode == ModePreview {
		chain = []Document{m.Draft, m.Published, m.Legacy}
	}
	for _, doc := range chain {
		if !doc.IsEmpty() {
			return doc.Clone()
		}
	}
	return Document{}
}

// Editable returns the document an edit starts from.
func (m Migrated) Editable() Document {
	return m.Resolve(ModePreview)
}
