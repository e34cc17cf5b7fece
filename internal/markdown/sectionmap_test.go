package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionMapSetGet(t *testing.T) {
	m := NewSectionMap()
	m.Set("## Usage", "## Usage\n\nbody")

	body, ok := m.Get("usage")
	assert.True(t, ok, "规范化后的键应能命中")
	assert.Equal(t, "## Usage\n\nbody", body)

	body, ok = m.Get("  USAGE  ")
	assert.True(t, ok, "大小写与空白不应影响检索")
	assert.Equal(t, "## Usage\n\nbody", body)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestSectionMapOverwriteKeepsPosition(t *testing.T) {
	m := NewSectionMap()
	m.Set("First", "1")
	m.Set("Second", "2")
	m.Set("First", "1-updated")

	assert.Equal(t, []string{"first", "second"}, m.Keys(), "覆盖写入不应改变首次插入的位置")
	assert.Equal(t, 2, m.Len())

	body, _ := m.Get("First")
	assert.Equal(t, "1-updated", body)
}

func TestNormalizeHeading(t *testing.T) {
	assert.Equal(t, "usage", NormalizeHeading("## Usage"))
	assert.Equal(t, "usage", NormalizeHeading("#Usage"))
	assert.Equal(t, "table of contents", NormalizeHeading("  ### Table of Contents  "))
	assert.Equal(t, "", NormalizeHeading("###"))
}

func TestIsHeading(t *testing.T) {
	assert.True(t, IsHeading("# Title"))
	assert.True(t, IsHeading("   ## Indented"))
	assert.False(t, IsHeading("plain text"))
	assert.False(t, IsHeading("```go"))
}
