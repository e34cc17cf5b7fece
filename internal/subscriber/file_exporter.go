// Package subscriber 挂接生成事件的落地动作。
package subscriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/weibaohui/readmegen/internal/eventbus"
	"k8s.io/klog/v2"
)

// FileExporter 把每次生成的 README 落盘到数据目录，作为历史记录之外的文件副本
type FileExporter struct {
	dir string
}

// NewFileExporter 创建文件导出订阅者，目录不存在时自动创建
func NewFileExporter(dataDir string) (*FileExporter, error) {
	dir := filepath.Join(dataDir, "readmes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &FileExporter{dir: dir}, nil
}

// Register 订阅生成与修订事件，返回取消订阅的函数
func (e *FileExporter) Register(bus *eventbus.Bus) func() {
	unsubGenerated := bus.Subscribe(eventbus.EventGenerated, e.export)
	unsubRefined := bus.Subscribe(eventbus.EventRefined, e.export)
	return func() {
		unsubGenerated()
		unsubRefined()
	}
}

func (e *FileExporter) export(_ context.Context, event eventbus.Event) error {
	name := sanitizeName(event.RepositoryName)
	if name == "" {
		name = "readme"
	}
	path := filepath.Join(e.dir, fmt.Sprintf("%s-%s.md", name, event.EntryID))
	if err := os.WriteFile(path, []byte(event.Content), 0644); err != nil {
		return fmt.Errorf("export readme: %w", err)
	}
	klog.V(6).Infof("[FileExporter] README 已导出: %s", path)
	return nil
}

// sanitizeName 文件名只保留字母数字与 -_.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
