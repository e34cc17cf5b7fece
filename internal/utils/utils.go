// Package utils 模型输出的清洗与序列化辅助。
package utils

import (
	"encoding/json"
	"strings"

	"k8s.io/klog/v2"
)

// ToJSON 序列化为 JSON 字符串，失败时返回空串
func ToJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		klog.Errorf("JSON序列化失败: %v", err)
		return ""
	}
	return string(data)
}

// ExtractMarkdown 剥掉模型输出外层的 ``` 围栏。
// 模型偶尔会把整篇 README 包进 ```markdown 代码块里，
// 这里只剥最外层围栏，正文内部的代码块原样保留。
// 没有围栏时返回原始内容。
func ExtractMarkdown(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return content
	}

	// 去掉开栏行（``` 或 ```markdown）
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return content
	}
	fence := strings.TrimSpace(trimmed[3:nl])
	if fence != "" && !strings.EqualFold(fence, "markdown") && !strings.EqualFold(fence, "md") {
		// 围栏语言不是 markdown，说明不是整篇包裹
		return content
	}
	body := trimmed[nl+1:]

	// 收栏必须在末尾，否则不视为整篇包裹
	body = strings.TrimRight(body, " \t\r\n")
	if !strings.HasSuffix(body, "```") {
		return content
	}
	body = strings.TrimSuffix(body, "```")
	return strings.TrimRight(body, " \t\r\n")
}
