package generation

import (
	"regexp"
	"strings"

	"campaign-forge-api/internal/domain/entity"
)

// TocEntry 从 LLM 输出解析出的目录条目
type TocEntry struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// tocLineRe 匹配 "- <标题> [Type: <类型>]" 形式的目录行
var tocLineRe = regexp.MustCompile(`^-\s*(.+?)\s*\[Type:\s*([^\]]+)\]\s*$`)

// dashLineRe 匹配缺少类型标注的普通目录行
var dashLineRe = regexp.MustCompile(`^-\s*(.+?)\s*$`)

// ParseToc 将 LLM 生成的目录文本解析为条目序列
//
// 非 "-" 开头的行（标题、空行、解说）直接丢弃；缺少类型标注的条目
// 归为 unknown，待后续按标题推断。
func ParseToc(content string) []TocEntry {
	var entries []TocEntry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "-") {
			continue
		}

		if m := tocLineRe.FindStringSubmatch(line); m != nil {
			title := strings.TrimSpace(m[1])
			if title == "" {
				continue
			}
			entries = append(entries, TocEntry{
				Title: title,
				Type:  strings.ToLower(strings.TrimSpace(m[2])),
			})
			continue
		}

		if m := dashLineRe.FindStringSubmatch(line); m != nil {
			title := strings.TrimSpace(m[1])
			if title == "" {
				continue
			}
			entries = append(entries, TocEntry{Title: title, Type: entity.SectionTypeUnknown})
		}
	}
	return entries
}

// typeKeywords 标题关键词到章节类型的有序映射，从具体到泛化，先命中者胜
var typeKeywords = []struct {
	re          *regexp.Regexp
	sectionType string
}{
	{regexp.MustCompile(`(?i)\bmonsters?\b`), entity.SectionTypeMonster},
	{regexp.MustCompile(`(?i)\bcharacters?\b`), entity.SectionTypeCharacter},
	{regexp.MustCompile(`(?i)\bnpcs?\b`), entity.SectionTypeNPC},
	{regexp.MustCompile(`(?i)\blocations?\b`), entity.SectionTypeLocation},
	{regexp.MustCompile(`(?i)\bitems?\b`), entity.SectionTypeItem},
	{regexp.MustCompile(`(?i)\bquests?\b`), entity.SectionTypeQuest},
	{regexp.MustCompile(`(?i)\bchapters?\b`), entity.SectionTypeChapter},
	{regexp.MustCompile(`(?i)\bnotes?\b`), entity.SectionTypeNote},
	{regexp.MustCompile(`(?i)\bworld\b`), entity.SectionTypeWorldDetail},
}

// vagueTypes 需要按标题重新推断的模糊类型
var vagueTypes = map[string]bool{
	"":                        true,
	"other":                   true,
	entity.SectionTypeUnknown: true,
	entity.SectionTypeGeneric: true,
}

// InferSectionType 按标题关键词推断章节类型
//
// 仅当声明类型模糊（unknown/generic/other/空）时生效，匹配按词边界进行。
func InferSectionType(title, declaredType string) string {
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	if !vagueTypes[declared] {
		return declared
	}

	for _, tk := range typeKeywords {
		if tk.re.MatchString(title) {
			return tk.sectionType
		}
	}
	return entity.SectionTypeGeneric
}
