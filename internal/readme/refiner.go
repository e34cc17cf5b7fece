package readme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weibaohui/readmegen/internal/markdown"
	"github.com/weibaohui/readmegen/internal/utils"
	"k8s.io/klog/v2"
)

// CompletionClient 补全客户端：一个 prompt 换一段文本。
// maxTokens<=0 表示使用默认上限。
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ErrTruncated 模型输出疑似被截断
var ErrTruncated = errors.New("refinement appears to be truncated")

// Refiner 基于反馈修订 README。
// 三档策略依次降级：整体重写 -> 放大 token 上限重写 -> 定向修订，
// 全部失败时以注释形式把反馈挂在原文前返回，绝不向调用方报错。
type Refiner struct {
	client            CompletionClient
	maxTokens         int
	fallbackMaxTokens int
}

// NewRefiner 创建修订编排器。
// fallbackMaxTokens<=maxTokens 时自动取 2 倍默认上限。
func NewRefiner(client CompletionClient, maxTokens, fallbackMaxTokens int) *Refiner {
	if fallbackMaxTokens <= maxTokens {
		fallbackMaxTokens = maxTokens * 2
	}
	return &Refiner{
		client:            client,
		maxTokens:         maxTokens,
		fallbackMaxTokens: fallbackMaxTokens,
	}
}

type refineTier struct {
	name string
	run  func(ctx context.Context, content, feedback string) (string, error)
}

// Refine 根据反馈修订 content。
// 前一档失败（含截断检测）是进入下一档的唯一条件，档内不重试。
func (r *Refiner) Refine(ctx context.Context, content, feedback string) string {
	tiers := []refineTier{
		{"standard", func(ctx context.Context, content, feedback string) (string, error) {
			return r.refineWhole(ctx, content, feedback, r.maxTokens)
		}},
		{"high-budget", func(ctx context.Context, content, feedback string) (string, error) {
			return r.refineWhole(ctx, content, feedback, r.fallbackMaxTokens)
		}},
		{"targeted", r.refineTargeted},
	}

	for _, tier := range tiers {
		result, err := tier.run(ctx, content, feedback)
		if err == nil {
			klog.V(6).Infof("[Refiner] %s 档修订成功, 长度=%d", tier.name, len(result))
			return result
		}
		klog.Warningf("[Refiner] %s 档修订失败: %v, 进入下一档", tier.name, err)
	}

	// 终极兜底：不改动原文，把反馈以注释形式挂在最前面
	return r.minimalRefinement(content, feedback)
}

// refineWhole 整体重写整篇 README
func (r *Refiner) refineWhole(ctx context.Context, content, feedback string, maxTokens int) (string, error) {
	prompt := "You are an expert technical writer specializing in improving README documentation.\n\n" +
		"Below is a README.md file that needs to be refined based on user feedback:\n\n" +
		"```markdown\n" + content + "\n```\n\n" +
		"User feedback:\n" + feedback + "\n\n" +
		"Please revise the README to address this feedback while maintaining professional quality, " +
		"proper Markdown formatting, and comprehensive coverage of the project.\n\n" +
		"Respond with ONLY the revised README.md content in Markdown format, without any additional explanation or conversation."

	result, err := r.client.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return "", err
	}

	result = strings.TrimSpace(utils.ExtractMarkdown(result))
	if isTruncated(result) {
		return "", ErrTruncated
	}
	return result, nil
}

// isTruncated 输出以省略号结尾视为被截断
func isTruncated(s string) bool {
	return strings.HasSuffix(s, "...") || strings.HasSuffix(s, "…")
}

// refineTargeted 定向修订：先让模型判定反馈涉及哪些章节，
// 整体性反馈按一级标题分块逐块修订，否则只重写点名的章节。
func (r *Refiner) refineTargeted(ctx context.Context, content, feedback string) (string, error) {
	classifyPrompt := "Analyze the following feedback for a README.md file and identify which specific sections need to be refined.\n\n" +
		"README feedback:\n" + feedback + "\n\n" +
		"Respond with ONLY a comma-separated list of section names that need to be refined.\n" +
		"If the feedback is general or applies to the entire document, respond with \"ALL\".\n" +
		"Do not include any other text in your response."

	answer, err := r.client.Complete(ctx, classifyPrompt, 0)
	if err != nil {
		return "", fmt.Errorf("classify feedback: %w", err)
	}
	answer = strings.TrimSpace(answer)

	if strings.EqualFold(answer, "ALL") {
		return r.refineChunks(ctx, content, feedback)
	}
	return r.refineSections(ctx, content, feedback, answer)
}

// refineChunks 按一级标题分块，逐块修订后重新拼接
func (r *Refiner) refineChunks(ctx context.Context, content, feedback string) (string, error) {
	chunks := markdown.SplitChunks(content)
	klog.V(6).Infof("[Refiner] 按整体反馈分块修订, 块数=%d", len(chunks))

	refined := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		prompt := "Refine the following portion of a README.md file based on this feedback:\n\n" +
			"Feedback: " + feedback + "\n\n" +
			"README portion:\n```markdown\n" + chunk + "\n```\n\n" +
			"Respond with ONLY the refined portion in Markdown format.\n" +
			"Maintain all section headings and structure exactly as they appear."

		result, err := r.client.Complete(ctx, prompt, 0)
		if err != nil {
			return "", fmt.Errorf("refine chunk: %w", err)
		}
		refined = append(refined, strings.TrimSpace(utils.ExtractMarkdown(result)))
	}
	return strings.Join(refined, "\n\n"), nil
}

// refineSections 只重写被点名的章节，未命中的名字静默跳过
func (r *Refiner) refineSections(ctx context.Context, content, feedback, namesCSV string) (string, error) {
	sections := markdown.Split(content)

	for _, name := range strings.Split(namesCSV, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		body, ok := sections.Get(name)
		if !ok {
			klog.V(6).Infof("[Refiner] 反馈点名的章节不存在, 跳过: %s", name)
			continue
		}

		prompt := "Refine the following section of a README.md file based on this feedback:\n\n" +
			"Feedback: " + feedback + "\n\n" +
			"Section: " + name + "\n```markdown\n" + body + "\n```\n\n" +
			"Respond with ONLY the refined section in Markdown format.\n" +
			"Maintain the section heading exactly as it appears."

		result, err := r.client.Complete(ctx, prompt, 0)
		if err != nil {
			return "", fmt.Errorf("refine section %q: %w", name, err)
		}
		sections.Set(name, strings.TrimSpace(utils.ExtractMarkdown(result)))
	}

	return sections.Merge(), nil
}

// minimalRefinement 终极兜底：原文前加一段携带反馈的注释，永不失败
func (r *Refiner) minimalRefinement(content, feedback string) string {
	note := "<!--\nFeedback received:\n" + feedback + "\n\nThis README requires further refinement based on the feedback above.\n-->"
	return note + "\n\n" + content
}
