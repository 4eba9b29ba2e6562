package seeding

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"campaign-forge-api/internal/application/generation"
	"campaign-forge-api/internal/domain/entity"
	"campaign-forge-api/internal/domain/repository"
	"campaign-forge-api/pkg/logger"
	"campaign-forge-api/pkg/metrics"
)

// RunInput 一次种子化运行的输入
type RunInput struct {
	Campaign *entity.Campaign
	// Entries 已解析的目录条目，按出现顺序
	Entries []generation.TocEntry
	// AutoPopulate 为 false 时全部章节使用占位内容
	AutoPopulate bool
	// CreationPrompt 调用方附加的创作指示，逐条目透传给生成层
	CreationPrompt string
	Hints          generation.GenerateHints
}

// Pipeline 章节种子化管线
//
// replace-all 语义：先清空战役既有章节，再逐条生成并落库。
// 单条目失败只产生一条 error 事件并落占位内容，批次从不中止。
type Pipeline struct {
	sections repository.SectionRepository
	gen      *generation.Service
	resolver *generation.Resolver
}

// NewPipeline 创建种子化管线
func NewPipeline(sections repository.SectionRepository, gen *generation.Service, resolver *generation.Resolver) *Pipeline {
	return &Pipeline{
		sections: sections,
		gen:      gen,
		resolver: resolver,
	}
}

// Run 执行种子化并向 sink 推送事件
//
// sink 写入失败意味着调用方断开：停止推进，最后尽力补发一条
// 终止事件后返回，不做任何重试。
func (p *Pipeline) Run(ctx context.Context, in RunInput, sink Sink) error {
	start := time.Now()
	defer func() {
		metrics.SeedingRunDuration.WithLabelValues(strconv.FormatBool(in.AutoPopulate)).
			Observe(time.Since(start).Seconds())
	}()

	if in.Campaign == nil {
		return fmt.Errorf("campaign is required")
	}

	if err := p.sections.DeleteByCampaign(ctx, in.Campaign.ID); err != nil {
		_ = sink.Send(NewErrorEvent("failed to clear existing sections: " + err.Error()))
		return err
	}

	// 无可用供应商时退化为占位填充，不算错误
	populate := in.AutoPopulate
	if populate {
		if _, err := p.resolver.Resolve(ctx, generation.ResolveInput{
			ExplicitProvider: in.Hints.Provider,
			RequestModel:     in.Hints.Model,
			EntityPreference: in.Hints.EntityPreference,
			UserID:           in.Hints.UserID,
		}); err != nil {
			logger.Warn(ctx, "no provider available for seeding, using placeholder content",
				"campaign_id", in.Campaign.ID, "error", err.Error())
			populate = false
		}
	}

	total := len(in.Entries)
	processed := 0
	written := make([]string, 0, total)

	for i, entry := range in.Entries {
		sectionType := generation.InferSectionType(entry.Title, entry.Type)

		content, genErr := p.sectionContent(ctx, in, entry.Title, sectionType,
			strings.Join(written, "\n"), populate)
		if genErr != nil {
			metrics.SeedingSectionsTotal.WithLabelValues("placeholder").Inc()
			if err := sink.Send(NewErrorEvent(fmt.Sprintf(
				"failed to generate content for %q: %s", entry.Title, genErr.Error()))); err != nil {
				return p.abortWithSink(sink, processed, total)
			}
		} else if populate {
			metrics.SeedingSectionsTotal.WithLabelValues("generated").Inc()
		} else {
			metrics.SeedingSectionsTotal.WithLabelValues("placeholder").Inc()
		}

		section := entity.NewSection(in.Campaign.ID, entry.Title, content, i, sectionType)
		if err := p.sections.Create(ctx, section); err != nil {
			metrics.SeedingSectionsTotal.WithLabelValues("failed").Inc()
			logger.Error(ctx, "failed to persist section", err,
				"campaign_id", in.Campaign.ID, "title", entry.Title)
			if sendErr := sink.Send(NewErrorEvent(fmt.Sprintf(
				"failed to persist section %q: %s", entry.Title, err.Error()))); sendErr != nil {
				return p.abortWithSink(sink, processed, total)
			}
			continue
		}

		processed++
		written = append(written, section.Title)
		progress := 100 * float64(i+1) / float64(total)
		if err := sink.Send(NewSectionUpdateEvent(progress, section.Title, section)); err != nil {
			return p.abortWithSink(sink, processed, total)
		}
	}

	return sink.Send(NewCompleteEvent(
		fmt.Sprintf("seeding finished, %d sections processed", processed), processed))
}

// sectionContent 取单条目内容，生成失败回落到占位文本
//
// existingSummary 为本次运行中已落库章节的标题汇总。
func (p *Pipeline) sectionContent(ctx context.Context, in RunInput, title, sectionType, existingSummary string, populate bool) (string, error) {
	placeholder := fmt.Sprintf("Content for %q has not been written yet.", title)
	if !populate {
		return placeholder, nil
	}

	out, err := p.gen.GenerateSectionContent(ctx, generation.SectionContentInput{
		CampaignConcept: in.Campaign.Concept,
		ExistingSummary: existingSummary,
		CreationPrompt:  in.CreationPrompt,
		SectionTitle:    title,
		SectionType:     sectionType,
		Hints:           in.Hints,
	})
	if err != nil {
		return placeholder, err
	}
	return out.Text, nil
}

// abort 调用方已断开且补发也失败时直接收尾
func (p *Pipeline) abort(processed, total int) error {
	return fmt.Errorf("event stream closed after %d/%d sections", processed, total)
}

// abortWithSink 尽力补发一条终止事件后收尾
func (p *Pipeline) abortWithSink(sink Sink, processed, total int) error {
	_ = sink.Send(NewCompleteEvent(
		fmt.Sprintf("seeding stopped early, %d sections processed", processed), processed))
	return p.abort(processed, total)
}
