package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-forge-api/internal/domain/entity"
)

func TestParseToc(t *testing.T) {
	content := `# Adventure Outline

Here is the table of contents:

- Goblin Camp [Type: location]
- The Cursed Blade [Type: Item]
- Session Zero Notes
-
- Chapter One: Arrival [Type: chapter]

That concludes the outline.`

	entries := ParseToc(content)
	require.Len(t, entries, 4)

	assert.Equal(t, TocEntry{Title: "Goblin Camp", Type: entity.SectionTypeLocation}, entries[0])
	// 类型标注统一转小写
	assert.Equal(t, TocEntry{Title: "The Cursed Blade", Type: entity.SectionTypeItem}, entries[1])
	// 缺少类型标注的条目归为 unknown
	assert.Equal(t, TocEntry{Title: "Session Zero Notes", Type: entity.SectionTypeUnknown}, entries[2])
	assert.Equal(t, TocEntry{Title: "Chapter One: Arrival", Type: entity.SectionTypeChapter}, entries[3])
}

func TestParseTocEmptyContent(t *testing.T) {
	assert.Empty(t, ParseToc(""))
	assert.Empty(t, ParseToc("No dashes here.\nJust prose."))
}

func TestInferSectionType(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		declared string
		want     string
	}{
		{
			name:     "concrete declared type kept",
			title:    "Monsters of the Vale",
			declared: "location",
			want:     entity.SectionTypeLocation,
		},
		{
			name:     "declared type normalized to lowercase",
			title:    "Anything",
			declared: "  NPC  ",
			want:     entity.SectionTypeNPC,
		},
		{
			name:     "unknown re-inferred from title",
			title:    "NPCs of the Vale",
			declared: entity.SectionTypeUnknown,
			want:     entity.SectionTypeNPC,
		},
		{
			name:     "empty declared type inferred",
			title:    "Important Locations",
			declared: "",
			want:     entity.SectionTypeLocation,
		},
		{
			name:     "other treated as vague",
			title:    "Side Quests",
			declared: "other",
			want:     entity.SectionTypeQuest,
		},
		{
			name:     "generic treated as vague",
			title:    "The World Beyond",
			declared: entity.SectionTypeGeneric,
			want:     entity.SectionTypeWorldDetail,
		},
		{
			name:     "keyword matching respects word boundaries",
			title:    "Nonplayer Entities",
			declared: "",
			want:     entity.SectionTypeGeneric,
		},
		{
			name:     "earlier keyword wins on multiple matches",
			title:    "Monsters and Characters",
			declared: "",
			want:     entity.SectionTypeMonster,
		},
		{
			name:     "no keyword falls back to generic",
			title:    "The Shattered Crown",
			declared: "",
			want:     entity.SectionTypeGeneric,
		},
		{
			name:     "singular keyword matches",
			title:    "A Cursed Item",
			declared: "unknown",
			want:     entity.SectionTypeItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSectionType(tt.title, tt.declared))
		})
	}
}
