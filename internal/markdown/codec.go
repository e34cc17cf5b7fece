// Package markdown 提供 README 文档的分节编解码能力。
// Split 把文档按标题切成有序的分节映射，Merge 按插入顺序拼回文档。
package markdown

import (
	"strings"
)

// preambleKey 是无标题内容的隐式键。
// 文档一个标题都没有时，整篇内容挂在该键下，保证 Merge 仍能还原原文。
const preambleKey = ""

// SectionMap 标题 -> 分节内容的映射，保留插入顺序。
// 键是规范化后的标题文本，值包含标题行本身。
type SectionMap struct {
	keys   []string
	bodies map[string]string
}

// NewSectionMap 创建空的分节映射
func NewSectionMap() *SectionMap {
	return &SectionMap{bodies: make(map[string]string)}
}

// NormalizeHeading 标题规范化：去掉 # 前缀、首尾空白并小写。
// Split 与按名检索必须使用同一套规范化，否则分节会静默丢失。
func NormalizeHeading(line string) string {
	text := strings.TrimSpace(line)
	text = strings.TrimLeft(text, "#")
	return strings.ToLower(strings.TrimSpace(text))
}

// IsHeading 判断一行是否为 Markdown 标题
func IsHeading(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// Set 写入或覆盖一个分节，键会被规范化；首次写入的位置决定输出顺序
func (m *SectionMap) Set(name, body string) {
	key := NormalizeHeading(name)
	if _, ok := m.bodies[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.bodies[key] = body
}

// Get 按名取出分节内容
func (m *SectionMap) Get(name string) (string, bool) {
	body, ok := m.bodies[NormalizeHeading(name)]
	return body, ok
}

// Keys 按插入顺序返回全部键
func (m *SectionMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len 分节数量
func (m *SectionMap) Len() int {
	return len(m.keys)
}

// Split 将 Markdown 文档按标题行切分。
// 任意级别的标题（# 开头）都会开启一个新分节，分节内容从标题行开始、
// 到下一个标题行之前结束。第一个标题之前的内容被丢弃。
// 文档没有任何标题时，整篇内容作为单个隐式分节返回。
func Split(doc string) *SectionMap {
	m := NewSectionMap()
	lines := strings.Split(doc, "\n")

	var current string
	var body []string
	flush := func() {
		if current == "" && len(body) == 0 {
			return
		}
		m.Set(current, strings.TrimRight(strings.Join(body, "\n"), "\n"))
		body = nil
	}

	started := false
	for _, line := range lines {
		if IsHeading(line) {
			if started {
				flush()
			}
			started = true
			current = NormalizeHeading(line)
			body = []string{line}
			continue
		}
		if started {
			body = append(body, line)
		}
	}
	if started {
		flush()
		return m
	}

	// 无标题文档：保留为隐式分节
	m.Set(preambleKey, strings.TrimRight(doc, "\n"))
	return m
}

// Merge 按插入顺序拼接所有分节，分节之间以空行分隔。
// 不做重排序，也不校验标题级别。
func (m *SectionMap) Merge() string {
	parts := make([]string, 0, len(m.keys))
	for _, key := range m.keys {
		parts = append(parts, strings.TrimRight(m.bodies[key], "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// SplitChunks 按一级标题（行首 "# "）把文档切成块。
// 第一个一级标题之前的内容（若有）作为首块保留。
// 没有任何一级标题时返回整篇文档作为单块。
func SplitChunks(doc string) []string {
	lines := strings.Split(doc, "\n")

	var starts []int
	offset := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "# ") {
			starts = append(starts, offset)
		}
		offset += len(line) + 1
	}

	if len(starts) == 0 {
		return []string{doc}
	}
	if starts[0] > 0 {
		starts = append([]int{0}, starts...)
	}
	starts = append(starts, len(doc))

	var chunks []string
	for i := 0; i < len(starts)-1; i++ {
		end := starts[i+1]
		if end > len(doc) {
			end = len(doc)
		}
		chunk := strings.TrimSpace(doc[starts[i]:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
