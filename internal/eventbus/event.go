package eventbus

import "context"

type EventType string

const (
	// EventGenerated README 生成（含改进路径）完成
	EventGenerated EventType = "readme.generated"
	// EventRefined README 基于反馈修订完成
	EventRefined EventType = "readme.refined"
)

// Event 一次生成或修订的结果事件
type Event struct {
	Type           EventType
	EntryID        string
	RepositoryName string
	GenerationType string
	Content        string
}

type Handler func(ctx context.Context, event Event) error
