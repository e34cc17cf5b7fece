package readme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// mockClient 可编程的补全客户端
type mockClient struct {
	mu      sync.Mutex
	prompts []string
	fn      func(prompt string, maxTokens int) (string, error)
}

func (m *mockClient) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(prompt, maxTokens)
	}
	return "ok", nil
}

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// sectionEcho 为章节提示词返回可识别的章节内容
func sectionEcho(prompt string, _ int) (string, error) {
	switch {
	case strings.Contains(prompt, "header section"):
		return "# widget\nA widget toolkit.", nil
	case strings.Contains(prompt, `"A"`):
		return "## A\n\nbody A", nil
	case strings.Contains(prompt, `"B"`):
		return "## B\n\nbody B", nil
	case strings.Contains(prompt, `"C"`):
		return "## C\n\nbody C", nil
	}
	return "", fmt.Errorf("unexpected prompt")
}

func newTestGenerator(client CompletionClient, workers int) *Generator {
	return NewGenerator(client, NewRefiner(client, 4096, 8192), workers)
}

func TestGenerateOrdering(t *testing.T) {
	client := &mockClient{fn: sectionEcho}
	gen := newTestGenerator(client, 1)

	sections := []Section{
		{Name: "C", Description: "c", Order: 3},
		{Name: "A", Description: "a", Order: 1},
		{Name: "B", Description: "b", Order: 2},
	}

	result, err := gen.Generate(context.Background(), testRepo(), sections, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	posA := strings.Index(result.Content, "body A")
	posB := strings.Index(result.Content, "body B")
	posC := strings.Index(result.Content, "body C")
	if posA < 0 || posB < 0 || posC < 0 {
		t.Fatalf("missing section bodies:\n%s", result.Content)
	}
	if !(posA < posB && posB < posC) {
		t.Errorf("expected order A,B,C, got positions %d %d %d", posA, posB, posC)
	}

	want := []string{"A", "B", "C"}
	if len(result.SectionsGenerated) != 3 {
		t.Fatalf("expected 3 sections generated, got %v", result.SectionsGenerated)
	}
	for i, name := range want {
		if result.SectionsGenerated[i] != name {
			t.Errorf("sections_generated[%d]: expected %s, got %s", i, name, result.SectionsGenerated[i])
		}
	}
	if result.Optimization {
		t.Error("expected optimization=false for fresh generation")
	}
}

func TestGenerateStableTieBreak(t *testing.T) {
	client := &mockClient{fn: sectionEcho}
	gen := newTestGenerator(client, 1)

	// Order 相同，应保持输入相对顺序
	sections := []Section{
		{Name: "B", Description: "b", Order: 1},
		{Name: "A", Description: "a", Order: 1},
	}

	result, err := gen.Generate(context.Background(), testRepo(), sections, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if result.SectionsGenerated[0] != "B" || result.SectionsGenerated[1] != "A" {
		t.Errorf("expected stable tie-break B,A, got %v", result.SectionsGenerated)
	}
	if strings.Index(result.Content, "body B") > strings.Index(result.Content, "body A") {
		t.Error("expected B body before A body")
	}
}

func TestGenerateSectionFailureIsolated(t *testing.T) {
	client := &mockClient{fn: func(prompt string, maxTokens int) (string, error) {
		if strings.Contains(prompt, `"B"`) {
			return "", errors.New("completion failed")
		}
		return sectionEcho(prompt, maxTokens)
	}}
	gen := newTestGenerator(client, 1)

	sections := []Section{
		{Name: "A", Description: "a", Order: 1},
		{Name: "B", Description: "b", Order: 2},
		{Name: "C", Description: "c", Order: 3},
	}

	result, err := gen.Generate(context.Background(), testRepo(), sections, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if !strings.Contains(result.Content, "## B\n\n*Content generation failed for this section.*") {
		t.Errorf("expected placeholder for failed section:\n%s", result.Content)
	}
	if !strings.Contains(result.Content, "body A") || !strings.Contains(result.Content, "body C") {
		t.Error("expected surviving sections to keep real content")
	}
	if len(result.SectionsGenerated) != 3 {
		t.Errorf("expected all requested names listed, got %v", result.SectionsGenerated)
	}
}

func TestGenerateHeaderFailureIsFatal(t *testing.T) {
	client := &mockClient{fn: func(prompt string, _ int) (string, error) {
		if strings.Contains(prompt, "header section") {
			return "", errors.New("completion failed")
		}
		return "ok", nil
	}}
	gen := newTestGenerator(client, 1)

	_, err := gen.Generate(context.Background(), testRepo(), []Section{{Name: "A", Order: 1}}, "")
	if err == nil {
		t.Fatal("expected header failure to abort the run")
	}
}

func TestGenerateProjectStructureBypassesModel(t *testing.T) {
	client := &mockClient{fn: sectionEcho}
	gen := newTestGenerator(client, 1)

	repo := testRepo()
	repo.FileStructure = "├── cmd/\n└── main.go"

	sections := []Section{{Name: "Project Structure", Order: 1}}
	result, err := gen.Generate(context.Background(), repo, sections, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if !strings.Contains(result.Content, "```\n├── cmd/\n└── main.go\n```") {
		t.Errorf("expected file structure embedded verbatim:\n%s", result.Content)
	}
	// 只应有头部这一次模型调用
	if client.callCount() != 1 {
		t.Errorf("expected 1 completion call (header only), got %d", client.callCount())
	}
}

func TestGenerateProjectStructureMissing(t *testing.T) {
	client := &mockClient{fn: sectionEcho}
	gen := newTestGenerator(client, 1)

	sections := []Section{{Name: "Project Structure", Order: 1}}
	result, err := gen.Generate(context.Background(), testRepo(), sections, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.Contains(result.Content, "*File structure not available.*") {
		t.Errorf("expected placeholder for missing structure:\n%s", result.Content)
	}
}

func TestGenerateUsageGetsCodeSamples(t *testing.T) {
	var usagePrompt string
	client := &mockClient{fn: func(prompt string, maxTokens int) (string, error) {
		if strings.Contains(prompt, `"Usage"`) {
			usagePrompt = prompt
			return "## Usage\n\nuse it", nil
		}
		return sectionEcho(prompt, maxTokens)
	}}
	gen := newTestGenerator(client, 1)

	repo := testRepo()
	repo.CodeSamples = map[string]string{"main.go": "package main"}

	_, err := gen.Generate(context.Background(), repo, []Section{{Name: "Usage", Order: 1}}, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.Contains(usagePrompt, "Code Samples for Reference") {
		t.Error("expected code sample context appended to usage prompt")
	}
	if !strings.Contains(usagePrompt, "package main") {
		t.Error("expected sample content in prompt")
	}
}

func TestFilterSafetyValve(t *testing.T) {
	// 过滤后不足 5 行时应返回原文
	content := "# zz\nline"
	sections := []Section{{Name: "does-not-match-anything"}}
	if got := filterToRequested(content, sections); got != content {
		t.Errorf("expected unfiltered content, got %q", got)
	}
}

func TestFilterDropsUnsolicitedSections(t *testing.T) {
	content := strings.Join([]string{
		"## Usage",
		"use line 1",
		"use line 2",
		"use line 3",
		"use line 4",
		"",
		"## Changelog",
		"unsolicited",
	}, "\n")

	got := filterToRequested(content, []Section{{Name: "Usage"}})
	if strings.Contains(got, "Changelog") {
		t.Errorf("expected unsolicited section dropped:\n%s", got)
	}
	if !strings.Contains(got, "use line 4") {
		t.Errorf("expected requested section kept:\n%s", got)
	}
}

func TestFilterFuzzyMatchesSubstrings(t *testing.T) {
	content := strings.Join([]string{
		"## Advanced Usage",
		"line 1",
		"line 2",
		"line 3",
		"line 4",
	}, "\n")

	// 请求名是标题的子串，双向模糊匹配应当命中
	got := filterToRequested(content, []Section{{Name: "Usage"}})
	if !strings.Contains(got, "Advanced Usage") {
		t.Errorf("expected fuzzy substring match to keep section:\n%s", got)
	}
}

func TestGenerateExistingReadmePrecedence(t *testing.T) {
	refined := "# widget\n\nrefined by feedback"
	var sawImprovement bool
	client := &mockClient{fn: func(prompt string, _ int) (string, error) {
		if strings.Contains(prompt, "enhancing or adding the following sections") {
			sawImprovement = true
		}
		return refined, nil
	}}
	gen := newTestGenerator(client, 1)

	sections := []Section{{Name: "Usage", Order: 1}, {Name: "License", Order: 2}}
	result, err := gen.Generate(context.Background(), testRepo(), sections, "# old readme\n\nstale")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if !result.Optimization {
		t.Error("expected optimization=true when existing readme supplied")
	}
	if result.Content != refined {
		t.Errorf("expected refinement result, got %q", result.Content)
	}
	if !sawImprovement {
		t.Error("expected synthesized improvement feedback embedded in prompt")
	}
	if len(result.SectionsGenerated) != 2 || result.SectionsGenerated[0] != "Usage" {
		t.Errorf("unexpected sections_generated: %v", result.SectionsGenerated)
	}
}

func TestGenerateParallelPreservesOrder(t *testing.T) {
	client := &mockClient{fn: sectionEcho}
	gen := newTestGenerator(client, 4)

	sections := []Section{
		{Name: "C", Description: "c", Order: 3},
		{Name: "A", Description: "a", Order: 1},
		{Name: "B", Description: "b", Order: 2},
	}

	result, err := gen.Generate(context.Background(), testRepo(), sections, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	posA := strings.Index(result.Content, "body A")
	posB := strings.Index(result.Content, "body B")
	posC := strings.Index(result.Content, "body C")
	if !(posA >= 0 && posA < posB && posB < posC) {
		t.Errorf("expected order A,B,C under parallel generation, got %d %d %d", posA, posB, posC)
	}
}

func TestGenerateParallelFailureIsolated(t *testing.T) {
	client := &mockClient{fn: func(prompt string, maxTokens int) (string, error) {
		if strings.Contains(prompt, `"B"`) {
			return "", errors.New("completion failed")
		}
		return sectionEcho(prompt, maxTokens)
	}}
	gen := newTestGenerator(client, 3)

	sections := []Section{
		{Name: "A", Description: "a", Order: 1},
		{Name: "B", Description: "b", Order: 2},
		{Name: "C", Description: "c", Order: 3},
	}

	result, err := gen.Generate(context.Background(), testRepo(), sections, "")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.Contains(result.Content, "*Content generation failed for this section.*") {
		t.Error("expected placeholder under parallel generation")
	}
	if !strings.Contains(result.Content, "body A") || !strings.Contains(result.Content, "body C") {
		t.Error("expected sibling sections unaffected by the failure")
	}
}
