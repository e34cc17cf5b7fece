package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/weibaohui/readmegen/internal/model"
	"github.com/weibaohui/readmegen/internal/repository"
	"github.com/weibaohui/readmegen/internal/utils"
)

// ErrInvalidRating 评级取值不合法
var ErrInvalidRating = fmt.Errorf("invalid rating")

// FeedbackService 反馈收集与统计服务
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	historyRepo  repository.HistoryRepository
}

// NewFeedbackService 创建反馈服务
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, historyRepo repository.HistoryRepository) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		historyRepo:  historyRepo,
	}
}

// FeedbackRequest 反馈提交请求
type FeedbackRequest struct {
	EntryID             string   `json:"entry_id"`
	Rating              string   `json:"rating" binding:"required"`
	HelpfulSections     []string `json:"helpful_sections"`
	ProblematicSections []string `json:"problematic_sections"`
	Comments            string   `json:"comments"`
	Suggestions         string   `json:"suggestions"`
}

// Create 保存一条反馈。评级必须合法；指定 entry_id 时校验历史记录存在。
func (s *FeedbackService) Create(req *FeedbackRequest) (*model.Feedback, error) {
	if !model.ValidRating(req.Rating) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRating, req.Rating)
	}
	if req.EntryID != "" {
		if _, err := s.historyRepo.Get(req.EntryID); err != nil {
			return nil, err
		}
	}

	fb := &model.Feedback{
		FeedbackID:          uuid.NewString(),
		EntryID:             req.EntryID,
		Rating:              req.Rating,
		HelpfulSections:     marshalSections(req.HelpfulSections),
		ProblematicSections: marshalSections(req.ProblematicSections),
		Comments:            req.Comments,
		Suggestions:         req.Suggestions,
	}
	if err := s.feedbackRepo.Create(fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// List 按创建时间倒序返回反馈
func (s *FeedbackService) List(limit int) ([]model.Feedback, error) {
	return s.feedbackRepo.List(limit)
}

// GetByEntry 返回某条生成历史的全部反馈
func (s *FeedbackService) GetByEntry(entryID string) ([]model.Feedback, error) {
	return s.feedbackRepo.GetByEntry(entryID)
}

// Stats 反馈统计信息
func (s *FeedbackService) Stats() (*model.FeedbackStats, error) {
	return s.feedbackRepo.Stats()
}

func marshalSections(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return utils.ToJSON(names)
}
