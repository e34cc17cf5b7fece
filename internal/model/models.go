package model

import (
	"time"
)

// GenerationType 取值
const (
	GenerationNew      = "new"      // 全新生成
	GenerationImproved = "improved" // 基于已有 README 改进
	GenerationRefined  = "refined"  // 基于用户反馈修订
)

type HistoryEntry struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	EntryID           string    `json:"entry_id" gorm:"size:64;uniqueIndex"` // UUID
	RepositoryURL     string    `json:"repository_url" gorm:"size:500"`
	RepositoryName    string    `json:"repository_name" gorm:"size:255;not null"`
	Content           string    `json:"content" gorm:"type:text"`
	SectionsGenerated string    `json:"sections_generated" gorm:"size:2000"` // JSON 数组
	GenerationType    string    `json:"generation_type" gorm:"size:50;default:new"` // new, improved, refined
	FileSize          int       `json:"file_size" gorm:"default:0"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Feedback struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	FeedbackID          string    `json:"feedback_id" gorm:"size:64;uniqueIndex"` // UUID
	EntryID             string    `json:"entry_id" gorm:"size:64;index"`          // 关联的历史记录
	Rating              string    `json:"rating" gorm:"size:20;not null"` // excellent, good, average, poor, terrible
	HelpfulSections     string    `json:"helpful_sections" gorm:"size:2000"`     // JSON 数组
	ProblematicSections string    `json:"problematic_sections" gorm:"size:2000"` // JSON 数组
	Comments            string    `json:"comments" gorm:"size:4000"`
	Suggestions         string    `json:"suggestions" gorm:"size:4000"`
	CreatedAt           time.Time `json:"created_at"`
}

// RatingScores 评级到分值的映射，统计平均分时使用
var RatingScores = map[string]int{
	"excellent": 5,
	"good":      4,
	"average":   3,
	"poor":      2,
	"terrible":  1,
}

// ValidRating 校验评级取值
func ValidRating(rating string) bool {
	_, ok := RatingScores[rating]
	return ok
}

// FeedbackStats 反馈统计信息
type FeedbackStats struct {
	Total               int64            `json:"total"`
	AverageScore        float64          `json:"average_score"`
	Distribution        map[string]int64 `json:"distribution"`
	HelpfulSections     map[string]int   `json:"helpful_sections"`
	ProblematicSections map[string]int   `json:"problematic_sections"`
	Recent              []Feedback       `json:"recent"`
}
