package repository

import (
	"errors"

	"github.com/weibaohui/readmegen/internal/model"
	"gorm.io/gorm"
)

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 创建生成历史数据仓库
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create 创建生成历史记录
func (r *historyRepository) Create(entry *model.HistoryEntry) error {
	return r.db.Create(entry).Error
}

// List 按创建时间倒序返回历史记录，limit<=0 表示不限制
func (r *historyRepository) List(limit int) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// Get 按 entry_id 获取单条历史记录
func (r *historyRepository) Get(entryID string) (*model.HistoryEntry, error) {
	var entry model.HistoryEntry
	err := r.db.Where("entry_id = ?", entryID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByRepository 按仓库名返回该仓库的全部生成历史
func (r *historyRepository) GetByRepository(name string) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := r.db.Where("repository_name = ?", name).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Save 保存历史记录变更
func (r *historyRepository) Save(entry *model.HistoryEntry) error {
	return r.db.Save(entry).Error
}

// Delete 按 entry_id 删除历史记录，记录不存在时返回 ErrNotFound
func (r *historyRepository) Delete(entryID string) error {
	result := r.db.Where("entry_id = ?", entryID).Delete(&model.HistoryEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
