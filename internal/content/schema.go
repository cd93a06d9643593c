package content

// ButtonDefaults 描述按钮子对象缺省的 variant 与 shape。
type ButtonDefaults struct {
	Variant string
	Shape   string
}

// Schema 声明某个区块类型的文档结构：表单可写的平铺字段、
// 由多个表单字段组装的子对象，以及只能通过批量 JSON 维护的数组字段。
// 新增区块类型只需要在 schemas 中追加一项。
type Schema struct {
	Type SectionType
	Name string

	// Fields 是直接拷贝的字符串字段。
	Fields []string
	// Lists 是数组内容，表单映射从不写入，编辑时原样保留。
	Lists []string

	Image            bool
	ImagePosition    string
	PrimaryButton    bool
	SecondaryButton  bool
	SupplementalLink bool

	LayoutVariant   string
	BackgroundStyle string
	EmphasizeKey    bool
}

var (
	primaryButtonDefaults   = ButtonDefaults{Variant: "primary", Shape: "rounded"}
	secondaryButtonDefaults = ButtonDefaults{Variant: "link", Shape: "pill"}
)

var schemas = []Schema{
	{
		Type:            SectionHero,
		Name:            "Hero Section",
		Fields:          []string{"headline", "subheadline", "body_text", "quote_text", "quote_attribution", "icon"},
		Image:           true,
		ImagePosition:   "right",
		PrimaryButton:   true,
		SecondaryButton: true,
		LayoutVariant:   "text_left_image_right",
		BackgroundStyle: "dark_band",
		EmphasizeKey:    true,
	},
	{
		Type:            SectionStatistics,
		Name:            "Statistics Section",
		Fields:          []string{"headline", "intro_text"},
		Lists:           []string{"stats"},
		PrimaryButton:   true,
		LayoutVariant:   "cards_grid",
		BackgroundStyle: "dark_band",
	},
	{
		Type:            SectionCredibility,
		Name:            "Credibility Section",
		Fields:          []string{"headline", "subheadline", "intro_text"},
		Lists:           []string{"credibility_items", "highlight_stats"},
		Image:           true,
		ImagePosition:   "right",
		PrimaryButton:   true,
		LayoutVariant:   "two_column_text_image",
		BackgroundStyle: "light_surface",
	},
	{
		Type:            SectionTestimonials,
		Name:            "Testimonials Section",
		Fields:          []string{"headline", "subheadline"},
		Lists:           []string{"testimonials"},
		PrimaryButton:   true,
		LayoutVariant:   "cards_grid",
		BackgroundStyle: "light_surface",
	},
	{
		Type:            SectionPainPoints,
		Name:            "Pain Points & Solutions Section",
		Fields:          []string{"headline", "subheadline", "intro_text", "golden_thread_quote_text", "golden_thread_quote_attribution"},
		Lists:           []string{"pain_points"},
		PrimaryButton:   true,
		LayoutVariant:   "stacked_pairs",
		BackgroundStyle: "dark_band",
	},
	{
		Type:            SectionWhatMakesMeDifferent,
		Name:            "What Makes Me Different Section",
		Fields:          []string{"headline", "subheadline", "intro_text"},
		Lists:           []string{"differentiator_cards"},
		PrimaryButton:   true,
		LayoutVariant:   "four_column_grid",
		BackgroundStyle: "light_surface",
	},
	{
		Type:            SectionFeaturedPublications,
		Name:            "Featured Publications Section",
		Fields:          []string{"headline", "subheadline", "intro_text"},
		Lists:           []string{"publications"},
		LayoutVariant:   "cards_row",
		BackgroundStyle: "light_surface",
	},
	{
		Type:            SectionServices,
		Name:            "Services Section",
		Fields:          []string{"headline", "subheadline", "intro_quote", "intro_quote_attribution"},
		Lists:           []string{"services"},
		LayoutVariant:   "cards_grid",
		BackgroundStyle: "soft_gradient",
		EmphasizeKey:    true,
	},
	{
		Type:            SectionMeetKim,
		Name:            "Meet Kim Herrlein Section",
		Fields:          []string{"headline", "subheadline", "body_text", "quote_text", "quote_attribution"},
		Image:           true,
		ImagePosition:   "left",
		PrimaryButton:   true,
		LayoutVariant:   "two_column_text_image",
		BackgroundStyle: "light_surface",
	},
	{
		Type:             SectionMission,
		Name:             "Mission Section",
		Fields:           []string{"headline", "body_text", "icon"},
		SupplementalLink: true,
		LayoutVariant:    "centered_stack",
		BackgroundStyle:  "light_surface",
	},
	{
		Type:            SectionFreeResource,
		Name:            "Free Resource Section",
		Fields:          []string{"headline", "subheadline", "body_text"},
		Image:           true,
		ImagePosition:   "right",
		PrimaryButton:   true,
		LayoutVariant:   "two_column_text_image",
		BackgroundStyle: "light_surface",
		EmphasizeKey:    true,
	},
	{
		Type:            SectionFooter,
		Name:            "Footer Section",
		Fields:          []string{"brand_line", "tagline", "phone", "email", "location_line", "legal_line", "copyright_text"},
		Lists:           []string{"social_links", "footer_links"},
		LayoutVariant:   "multi_column",
		BackgroundStyle: "dark_band",
	},
}

var schemaIndex = func() map[SectionType]Schema {
	index := make(map[SectionType]Schema, len(schemas))
	for _, schema := range schemas {
		index[schema.Type] = schema
	}
	return index
}()

// Lookup returns the schema declared for t.
func Lookup(t SectionType) (Schema, bool) {
	schema, ok := schemaIndex[t]
	return schema, ok
}

// DefaultDocument 返回新建区块时使用的默认文档；未知类型返回空文档。
func DefaultDocument(t SectionType) Document {
	schema, ok := Lookup(t)
	if !ok {
		return Document{}
	}

	doc := Document{}
	for _, field := range schema.Fields {
		doc[field] = ""
	}
	for _, list := range schema.Lists {
		doc[list] = []any{}
	}
	if schema.Image {
		doc["image"] = map[string]any{"url": "", "alt_text": ""}
		doc["image_position"] = schema.ImagePosition
	}
	if schema.PrimaryButton {
		doc["primary_button"] = button("", "", primaryButtonDefaults.Variant, primaryButtonDefaults.Shape)
	}
	if schema.SecondaryButton {
		doc["secondary_button"] = button("", "", secondaryButtonDefaults.Variant, secondaryButtonDefaults.Shape)
	}
	if schema.SupplementalLink {
		doc["supplemental_link_label"] = ""
		doc["supplemental_link_url"] = ""
	}

	doc["layout_variant"] = schema.LayoutVariant
	doc["background_style"] = schema.BackgroundStyle
	doc["background_image"] = map[string]any{"url": "", "alt_text": ""}
	doc["gradient"] = gradient("none", nil, "to-right")
	doc["show_section"] = true
	doc["show_divider_above"] = false
	doc["show_divider_below"] = false
	doc["emphasize_as_key_section"] = schema.EmphasizeKey
	return doc
}

func button(label, url, variant, shape string) map[string]any {
	return map[string]any{
		"label":   label,
		"url":     url,
		"variant": variant,
		"shape":   shape,
	}
}

func gradient(kind string, colors []string, direction string) map[string]any {
	values := make([]any, 0, len(colors))
	for _, color := range colors {
		values = append(values, color)
	}
	return map[string]any{
		"type":      kind,
		"colors":    values,
		"direction": direction,
	}
}
