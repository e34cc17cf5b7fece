package repository

import (
	"encoding/json"

	"github.com/weibaohui/readmegen/internal/model"
	"gorm.io/gorm"
	"k8s.io/klog/v2"
)

const recentFeedbackLimit = 5

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建反馈数据仓库
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create 创建反馈记录
func (r *feedbackRepository) Create(fb *model.Feedback) error {
	return r.db.Create(fb).Error
}

// List 按创建时间倒序返回反馈，limit<=0 表示不限制
func (r *feedbackRepository) List(limit int) ([]model.Feedback, error) {
	var items []model.Feedback
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}

// GetByEntry 返回某条生成历史关联的全部反馈
func (r *feedbackRepository) GetByEntry(entryID string) ([]model.Feedback, error) {
	var items []model.Feedback
	err := r.db.Where("entry_id = ?", entryID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// Stats 汇总反馈统计：总数、平均分、评级分布、章节提及计数、最近反馈
func (r *feedbackRepository) Stats() (*model.FeedbackStats, error) {
	stats := &model.FeedbackStats{
		Distribution:        make(map[string]int64),
		HelpfulSections:     make(map[string]int),
		ProblematicSections: make(map[string]int),
	}

	var rows []struct {
		Rating string
		Count  int64
	}
	err := r.db.Model(&model.Feedback{}).
		Select("rating, COUNT(*) as count").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var scoreSum int64
	for _, row := range rows {
		stats.Distribution[row.Rating] = row.Count
		stats.Total += row.Count
		scoreSum += int64(model.RatingScores[row.Rating]) * row.Count
	}
	if stats.Total > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.Total)
	}

	// 章节提及计数需要解析 JSON 列，只取两列减少拷贝
	var mentions []struct {
		HelpfulSections     string
		ProblematicSections string
	}
	err = r.db.Model(&model.Feedback{}).
		Select("helpful_sections, problematic_sections").
		Scan(&mentions).Error
	if err != nil {
		return nil, err
	}
	for _, m := range mentions {
		countSections(m.HelpfulSections, stats.HelpfulSections)
		countSections(m.ProblematicSections, stats.ProblematicSections)
	}

	recent, err := r.List(recentFeedbackLimit)
	if err != nil {
		return nil, err
	}
	stats.Recent = recent

	return stats, nil
}

// countSections 解析 JSON 数组并累加章节提及次数，解析失败只记日志不中断统计
func countSections(raw string, counts map[string]int) {
	if raw == "" {
		return
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		klog.V(6).Infof("[FeedbackRepo] 章节列表解析失败, 跳过: %v", err)
		return
	}
	for _, name := range names {
		counts[name]++
	}
}
