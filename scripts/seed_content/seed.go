package main

import (
	"github.com/pagecraft/internal/content"
	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/service"
	"gorm.io/gorm"
)

// seedOverrides 是各类型在默认文档之上的示例内容。
var seedOverrides = map[content.SectionType]content.Document{
	content.SectionHero: {
		"headline":          "You've Built Success. Now Build a Life That Feels Like Yours.",
		"subheadline":       "Somewhere in your 40s or 50s you realized you're living on someone else's terms.",
		"body_text":         "What you're sensing isn't a crisis to fix.\nIt's a calling to redesign.",
		"quote_text":        "Reinvention is your birthright. It's not a crisis, it's a calling.",
		"quote_attribution": "Kim Herrlein",
		"primary_button":    map[string]any{"label": "Schedule Your Free Clarity Call", "url": "#clarity-call", "variant": "primary", "shape": "pill"},
		"image":             map[string]any{"url": "https://images.unsplash.com/photo-1551836022-d5d88e9218df?w=800&h=1000&fit=crop&q=80", "alt_text": "Coach smiling in a softly lit space"},
	},
	content.SectionStatistics: {
		"headline":   "Your Desire for Reinvention Is a Powerful, Collective Trend.",
		"intro_text": "The drive you feel to reclaim your life is part of a global movement.",
		"stats": []any{
			map[string]any{"label": "1 in 3 professionals aged 45-54", "value": "33%", "description": "are planning a career change", "icon": ""},
		},
	},
	content.SectionCredibility: {
		"headline": "Two Decades of Guiding Leaders Through Change",
	},
	content.SectionTestimonials: {
		"headline": "What Clients Say",
		"testimonials": []any{
			map[string]any{"quote": "I finally feel like my life is mine again.", "name": "Former client", "role": "Executive"},
		},
	},
	content.SectionPainPoints: {
		"headline": "Does This Sound Familiar?",
	},
	content.SectionWhatMakesMeDifferent: {
		"headline": "What Makes This Work Different",
	},
	content.SectionFeaturedPublications: {
		"headline": "As Featured In",
	},
	content.SectionServices: {
		"headline":   "Ways to Work Together",
		"intro_text": "Choose the path that fits where you are right now.",
	},
	content.SectionMeetKim: {
		"headline":  "Meet Your Guide",
		"body_text": "Coach, speaker and author helping people in midlife redesign work and life.",
	},
	content.SectionMission: {
		"headline": "Our Mission",
	},
	content.SectionFreeResource: {
		"headline":       "Download the Free Reinvention Guide",
		"primary_button": map[string]any{"label": "Get the Guide", "url": "/guide", "variant": "primary", "shape": "pill"},
	},
	content.SectionFooter: {
		"headline": "Let's Stay Connected",
		"social_links": []any{
			map[string]any{"platform": "linkedin", "url": "https://www.linkedin.com/"},
			map[string]any{"platform": "email", "url": "mailto:hello@example.com"},
		},
		"footer_links": []any{
			map[string]any{"label": "Accessibility Statement", "url": "#accessibility"},
		},
	},
}

// seedContent 清空首页已有区块后按类型顺序写入旧版文档，草稿与发布文档留空，
// 模拟迁移前的数据。
func seedContent(gdb *gorm.DB) (*db.Page, int, error) {
	page, _, err := service.NewPageService(gdb).EnsureDefaultPage()
	if err != nil {
		return nil, 0, err
	}

	count := 0
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", page.ID).Delete(&db.Section{}).Error; err != nil {
			return err
		}

		for i, sectionType := range content.SectionTypes() {
			legacy := content.Merge(content.DefaultDocument(sectionType), seedOverrides[sectionType])
			section := db.Section{
				PageID:          page.ID,
				SectionType:     string(sectionType),
				InternalLabel:   sectionType.DisplayName(),
				SortOrder:       i + 1,
				IsEnabled:       true,
				LegacyConfig:    db.JSONMap(legacy),
				DraftConfig:     db.JSONMap(nil),
				PublishedConfig: db.JSONMap(nil),
			}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page, count, nil
}
