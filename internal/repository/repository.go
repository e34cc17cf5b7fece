package repository

import (
	"errors"

	"github.com/weibaohui/readmegen/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

type HistoryRepository interface {
	Create(entry *model.HistoryEntry) error
	List(limit int) ([]model.HistoryEntry, error)
	Get(entryID string) (*model.HistoryEntry, error)
	GetByRepository(name string) ([]model.HistoryEntry, error)
	Save(entry *model.HistoryEntry) error
	Delete(entryID string) error
}

type FeedbackRepository interface {
	Create(fb *model.Feedback) error
	List(limit int) ([]model.Feedback, error)
	GetByEntry(entryID string) ([]model.Feedback, error)
	Stats() (*model.FeedbackStats, error)
}
