package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/weibaohui/readmegen/config"
	"github.com/weibaohui/readmegen/internal/analyzer"
	"github.com/weibaohui/readmegen/internal/eventbus"
	"github.com/weibaohui/readmegen/internal/model"
	"github.com/weibaohui/readmegen/internal/readme"
	"github.com/weibaohui/readmegen/internal/repository"
	"github.com/weibaohui/readmegen/internal/utils"
	"k8s.io/klog/v2"
)

// ReadmeService README 生成服务，串联仓库分析、生成编排与历史记录
type ReadmeService struct {
	cfg         *config.Config
	generator   *readme.Generator
	refiner     *readme.Refiner
	historyRepo repository.HistoryRepository
	bus         *eventbus.Bus
}

// NewReadmeService 创建 README 生成服务
func NewReadmeService(cfg *config.Config, client readme.CompletionClient, historyRepo repository.HistoryRepository) *ReadmeService {
	refiner := readme.NewRefiner(client, cfg.LLM.MaxTokens, cfg.LLM.FallbackMaxTokens)
	return &ReadmeService{
		cfg:         cfg,
		generator:   readme.NewGenerator(client, refiner, cfg.Generator.Workers),
		refiner:     refiner,
		historyRepo: historyRepo,
	}
}

// SetEventBus 挂接生成事件总线，nil 表示不发布事件
func (s *ReadmeService) SetEventBus(bus *eventbus.Bus) {
	s.bus = bus
}

// GenerateRequest 生成请求
type GenerateRequest struct {
	Path        string   `json:"path" binding:"required"`
	URL         string   `json:"url"`
	Sections    []string `json:"sections"`
	UseExisting bool     `json:"use_existing"`
}

// GenerateResult 生成结果
type GenerateResult struct {
	EntryID           string                   `json:"entry_id"`
	Content           string                   `json:"content"`
	SectionsGenerated []string                 `json:"sections_generated"`
	GenerationType    string                   `json:"generation_type"`
	Repository        *analyzer.RepositoryInfo `json:"repository"`
}

// Generate 分析本地仓库并生成 README。
// 请求未指定章节时使用默认章节集合；UseExisting 且仓库已有 README 时走改进路径。
func (s *ReadmeService) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	svc, err := analyzer.New(req.Path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	info, err := svc.Analyze()
	if err != nil {
		return nil, fmt.Errorf("analyze repository: %w", err)
	}

	// 请求里带了远端地址时以请求为准
	if req.URL != "" {
		remote := analyzer.ParseGitURL(req.URL)
		info.CloneURL = remote.CloneURL
		if remote.Repo != "" {
			info.Name = remote.Repo
		}
	}

	ids := req.Sections
	if len(ids) == 0 {
		ids = readme.DefaultSectionIDs
	}
	sections := readme.FindSections(ids)
	if len(sections) == 0 {
		return nil, fmt.Errorf("no matching sections for %v", req.Sections)
	}

	existing := ""
	if req.UseExisting {
		if er := svc.ExistingReadme(); er != nil {
			klog.V(6).Infof("[ReadmeService] 使用已有 README: %s, %d 字节", er.Path, er.Size)
			existing = er.Content
		}
	}

	result, err := s.generator.Generate(ctx, info, sections, existing)
	if err != nil {
		return nil, err
	}

	generationType := model.GenerationNew
	if result.Optimization {
		generationType = model.GenerationImproved
	}

	entryID := s.recordHistory(info.Name, info.CloneURL, result.Content, result.SectionsGenerated, generationType)
	s.publish(ctx, eventbus.EventGenerated, entryID, info.Name, generationType, result.Content)

	return &GenerateResult{
		EntryID:           entryID,
		Content:           result.Content,
		SectionsGenerated: result.SectionsGenerated,
		GenerationType:    generationType,
		Repository:        info,
	}, nil
}

// RefineRequest 修订请求，Content 与 EntryID 二选一
type RefineRequest struct {
	EntryID  string `json:"entry_id"`
	Content  string `json:"content"`
	Feedback string `json:"feedback" binding:"required"`
}

// RefineResult 修订结果
type RefineResult struct {
	EntryID string `json:"entry_id"`
	Content string `json:"content"`
}

// Refine 基于反馈修订 README。
// Content 为空时按 EntryID 取历史内容；修订结果作为新的历史记录保存。
func (s *ReadmeService) Refine(ctx context.Context, req *RefineRequest) (*RefineResult, error) {
	content := req.Content
	repoName := ""
	repoURL := ""
	if content == "" {
		if req.EntryID == "" {
			return nil, fmt.Errorf("either content or entry_id is required")
		}
		entry, err := s.historyRepo.Get(req.EntryID)
		if err != nil {
			return nil, err
		}
		content = entry.Content
		repoName = entry.RepositoryName
		repoURL = entry.RepositoryURL
	}

	refined := s.refiner.Refine(ctx, content, req.Feedback)

	entryID := s.recordHistory(repoName, repoURL, refined, nil, model.GenerationRefined)
	s.publish(ctx, eventbus.EventRefined, entryID, repoName, model.GenerationRefined, refined)

	return &RefineResult{
		EntryID: entryID,
		Content: refined,
	}, nil
}

// Sections 返回全部内置章节模板
func (s *ReadmeService) Sections() []readme.Section {
	return readme.DefaultSections
}

// History 按创建时间倒序返回生成历史
func (s *ReadmeService) History(limit int) ([]model.HistoryEntry, error) {
	return s.historyRepo.List(limit)
}

// HistoryEntry 获取单条生成历史
func (s *ReadmeService) HistoryEntry(entryID string) (*model.HistoryEntry, error) {
	return s.historyRepo.Get(entryID)
}

// DeleteHistory 删除一条生成历史
func (s *ReadmeService) DeleteHistory(entryID string) error {
	return s.historyRepo.Delete(entryID)
}

// recordHistory 保存生成历史。持久化失败只记日志，不影响本次生成结果。
func (s *ReadmeService) recordHistory(repoName, repoURL, content string, sections []string, generationType string) string {
	if repoName == "" {
		repoName = "unknown"
	}
	sectionsJSON := ""
	if len(sections) > 0 {
		sectionsJSON = utils.ToJSON(sections)
	}

	entry := &model.HistoryEntry{
		EntryID:           uuid.NewString(),
		RepositoryURL:     repoURL,
		RepositoryName:    repoName,
		Content:           content,
		SectionsGenerated: sectionsJSON,
		GenerationType:    generationType,
		FileSize:          len(content),
	}
	if err := s.historyRepo.Create(entry); err != nil {
		klog.Errorf("[ReadmeService] 历史记录保存失败: %v", err)
		return ""
	}
	klog.V(6).Infof("[ReadmeService] 历史记录已保存: entry=%s, repo=%s, type=%s", entry.EntryID, repoName, generationType)
	return entry.EntryID
}

// publish 发布生成事件。订阅者失败只记日志，不影响调用方。
func (s *ReadmeService) publish(ctx context.Context, eventType eventbus.EventType, entryID, repoName, generationType, content string) {
	if s.bus == nil {
		return
	}
	err := s.bus.Publish(ctx, eventbus.Event{
		Type:           eventType,
		EntryID:        entryID,
		RepositoryName: repoName,
		GenerationType: generationType,
		Content:        content,
	})
	if err != nil {
		klog.Errorf("[ReadmeService] 生成事件处理失败: %v", err)
	}
}
