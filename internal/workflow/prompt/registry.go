package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptCampaignConceptV1 PromptID = "campaign_concept_v1"
	PromptTocDisplayV1      PromptID = "toc_display_v1"
	PromptTocHomebreweryV1  PromptID = "toc_homebrewery_v1"
	PromptSectionContentV1  PromptID = "section_content_v1"
	PromptSectionTitlesV1   PromptID = "section_titles_v1"
	PromptCharacterChatV1   PromptID = "character_chat_v1"
	PromptMemorySummaryV1   PromptID = "memory_summary_v1"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptCampaignConceptV1:
		return "templates/campaign_concept_v1.system.txt", "templates/campaign_concept_v1.user.txt", nil
	case PromptTocDisplayV1:
		return "templates/toc_display_v1.system.txt", "templates/toc_display_v1.user.txt", nil
	case PromptTocHomebreweryV1:
		return "templates/toc_homebrewery_v1.system.txt", "templates/toc_homebrewery_v1.user.txt", nil
	case PromptSectionContentV1:
		return "templates/section_content_v1.system.txt", "templates/section_content_v1.user.txt", nil
	case PromptSectionTitlesV1:
		return "templates/section_titles_v1.system.txt", "templates/section_titles_v1.user.txt", nil
	case PromptCharacterChatV1:
		return "templates/character_chat_v1.system.txt", "templates/character_chat_v1.user.txt", nil
	case PromptMemorySummaryV1:
		return "templates/memory_summary_v1.system.txt", "templates/memory_summary_v1.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
