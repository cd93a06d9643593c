package content

import "strings"

// SectionType 是区块类型的封闭枚举，决定文档的字段结构。
type SectionType string

const (
	SectionHero                 SectionType = "hero"
	SectionStatistics           SectionType = "statistics"
	SectionCredibility          SectionType = "credibility"
	SectionTestimonials         SectionType = "testimonials"
	SectionPainPoints           SectionType = "pain_points"
	SectionWhatMakesMeDifferent SectionType = "what_makes_me_different"
	SectionFeaturedPublications SectionType = "featured_publications"
	SectionServices             SectionType = "services"
	SectionMeetKim              SectionType = "meet_kim"
	SectionMission              SectionType = "mission"
	SectionFreeResource         SectionType = "free_resource"
	SectionFooter               SectionType = "footer"
)

// SectionTypes lists every section type in the order the builder offers them.
func SectionTypes() []SectionType {
	types := make([]SectionType, 0, len(schemas))
	for _, schema := range schemas {
		types = append(types, schema.Type)
	}
	return types
}

// ParseSectionType normalizes raw input and reports whether it names a known type.
func ParseSectionType(raw string) (SectionType, bool) {
	candidate := SectionType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := Lookup(candidate); !ok {
		return "", false
	}
	return candidate, true
}

// Valid reports whether t belongs to the enumeration.
func (t SectionType) Valid() bool {
	_, ok := Lookup(t)
	return ok
}

// DisplayName 返回后台展示用的类型名称。
func (t SectionType) DisplayName() string {
	if schema, ok := Lookup(t); ok {
		return schema.Name
	}
	return string(t)
}
