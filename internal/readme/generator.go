package readme

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/weibaohui/readmegen/internal/analyzer"
	"github.com/weibaohui/readmegen/internal/utils"
	"k8s.io/klog/v2"
)

// Result 一次生成的产物
type Result struct {
	Content           string   `json:"content"`
	SectionsGenerated []string `json:"sections_generated"`
	Optimization      bool     `json:"optimization"` // true 表示走的是已有 README 的改进路径
}

// Generator README 生成编排器。
// 先生成头部，再按 Order 逐章节生成；单章节失败只影响该章节，
// 头部失败则整次生成失败。
type Generator struct {
	client  CompletionClient
	refiner *Refiner
	workers int
}

// NewGenerator 创建生成编排器。workers>1 时章节并发生成，拼接顺序不变。
func NewGenerator(client CompletionClient, refiner *Refiner, workers int) *Generator {
	if workers <= 0 {
		workers = 1
	}
	return &Generator{
		client:  client,
		refiner: refiner,
		workers: workers,
	}
}

// Generate 为仓库生成 README。
// existing 非空时不做全新生成，改为用合成反馈走修订路径（既有内容优先）。
func (g *Generator) Generate(ctx context.Context, repo *analyzer.RepositoryInfo, sections []Section, existing string) (*Result, error) {
	sorted := SortSections(sections)
	names := make([]string, 0, len(sorted))
	for _, s := range sorted {
		names = append(names, s.Name)
	}

	if existing != "" {
		klog.V(6).Infof("[Generator] 发现已有 README, 改为修订路径: sections=%v", names)
		content := g.refiner.Refine(ctx, existing, improvementFeedback(repo, names))
		return &Result{
			Content:           content,
			SectionsGenerated: names,
			Optimization:      true,
		}, nil
	}

	// 头部失败对整次生成是致命的
	header, err := g.client.Complete(ctx, BuildHeaderPrompt(repo), 0)
	if err != nil {
		return nil, fmt.Errorf("generate header: %w", err)
	}
	header = strings.TrimSpace(utils.ExtractMarkdown(header))

	bodies := g.generateSections(ctx, repo, sorted)

	full := header + "\n\n" + strings.Join(bodies, "\n\n")
	filtered := filterToRequested(full, sorted)

	return &Result{
		Content:           filtered,
		SectionsGenerated: names,
		Optimization:      false,
	}, nil
}

// generateSections 逐章节生成，结果按排序后的章节顺序排列。
// workers>1 时用协程池并发执行，单章节失败互不影响。
func (g *Generator) generateSections(ctx context.Context, repo *analyzer.RepositoryInfo, sorted []Section) []string {
	bodies := make([]string, len(sorted))

	if g.workers <= 1 || len(sorted) <= 1 {
		for i, section := range sorted {
			bodies[i] = g.generateSection(ctx, repo, section, sorted)
		}
		return bodies
	}

	pool, err := ants.NewPool(g.workers)
	if err != nil {
		klog.Warningf("[Generator] 协程池创建失败, 退回串行: %v", err)
		for i, section := range sorted {
			bodies[i] = g.generateSection(ctx, repo, section, sorted)
		}
		return bodies
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, section := range sorted {
		i, section := i, section
		wg.Add(1)
		task := func() {
			defer wg.Done()
			bodies[i] = g.generateSection(ctx, repo, section, sorted)
		}
		if err := pool.Submit(task); err != nil {
			// 提交失败直接在当前协程执行，保证每个章节都有产出
			task()
		}
	}
	wg.Wait()

	return bodies
}

// generateSection 生成单个章节，任何失败都以占位符兜底
func (g *Generator) generateSection(ctx context.Context, repo *analyzer.RepositoryInfo, section Section, all []Section) string {
	// Project Structure 不走模型，直接嵌入目录树
	if NormalizeName(section.Name) == "project structure" {
		if repo.FileStructure != "" {
			return fmt.Sprintf("## %s\n\n```\n%s\n```", section.Name, repo.FileStructure)
		}
		return fmt.Sprintf("## %s\n\n*File structure not available.*", section.Name)
	}

	prompt := BuildSectionPrompt(section, repo, all)
	if IsUsageLike(section.Name) {
		prompt += CodeSampleContext(repo.CodeSamples)
	}

	content, err := g.client.Complete(ctx, prompt, 0)
	if err != nil {
		klog.Errorf("[Generator] 章节生成失败: section=%s, err=%v", section.Name, err)
		return fmt.Sprintf("## %s\n\n*Content generation failed for this section.*", section.Name)
	}
	return strings.TrimSpace(utils.ExtractMarkdown(content))
}

// filterToRequested 按标题过滤，只保留与请求章节名模糊匹配（互为子串）的块。
// 过滤结果不足 5 行时视为过滤过度，返回原文。
func filterToRequested(content string, sections []Section) string {
	requested := make([]string, 0, len(sections))
	for _, s := range sections {
		requested = append(requested, NormalizeName(s.Name))
	}

	var filtered []string
	include := true
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			heading := NormalizeName(strings.TrimLeft(strings.TrimSpace(line), "#"))
			include = false
			for _, req := range requested {
				if strings.Contains(heading, req) || strings.Contains(req, heading) {
					include = true
					break
				}
			}
			if include {
				filtered = append(filtered, line)
			}
			continue
		}
		if include {
			filtered = append(filtered, line)
		}
	}

	if len(filtered) < 5 {
		klog.Warningf("[Generator] 过滤结果过短(%d 行), 返回未过滤内容", len(filtered))
		return content
	}
	return strings.Join(filtered, "\n")
}

// improvementFeedback 合成“增强已有 README”的反馈文本
func improvementFeedback(repo *analyzer.RepositoryInfo, sectionNames []string) string {
	return fmt.Sprintf(`Please improve this existing README by enhancing or adding the following sections: %s.

Repository Information:
- Name: %s
- Description: %s
- Primary Language: %s
- Clone URL: %s
- License: %s
- License File: %s

Guidelines:
- Keep good existing content but enhance it
- Add missing sections from the requested list
- Improve existing sections to be more comprehensive and professional
- Use the repository information above for accuracy
- Only link to license files that actually exist
- Follow modern README best practices`,
		strings.Join(sectionNames, ", "),
		orDefault(repo.Name, "Unknown"),
		orDefault(repo.Description, "No description provided"),
		orDefault(repo.Language, "Not specified"),
		orDefault(repo.CloneURL, "https://github.com/username/repository.git"),
		orDefault(repo.License, "Not specified"),
		orDefault(repo.LicenseFile, "None found"),
	)
}
