// Package readme 实现 README 的分章节生成与基于反馈的修订编排。
package readme

import (
	"sort"
	"strings"
)

// Section 一个可排序的 README 章节描述
type Section struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Order       int    `json:"order"`
}

// NormalizeName 章节名规范化：裁剪空白并小写。
// 生成、过滤、定向修订使用同一套规范化。
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SortSections 按 Order 稳定排序，Order 相同保持输入相对顺序
func SortSections(sections []Section) []Section {
	sorted := make([]Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// DefaultSections 内置章节模板
var DefaultSections = []Section{
	{ID: "introduction", Name: "Introduction", Description: "Brief overview explaining what the project does, the problem it solves, and its key benefits", Required: true, Order: 1},
	{ID: "table_of_contents", Name: "Table of Contents", Description: "Navigational links to all major sections in the README", Required: true, Order: 2},
	{ID: "features", Name: "Features", Description: "Comprehensive list of the project's key features and capabilities", Required: true, Order: 3},
	{ID: "tech_stack", Name: "Tech Stack", Description: "Technologies, frameworks, and libraries used in the project", Required: true, Order: 4},
	{ID: "prerequisites", Name: "Prerequisites", Description: "System requirements and dependencies needed before installation", Required: true, Order: 5},
	{ID: "installation", Name: "Installation", Description: "Step-by-step instructions for setting up and installing the project locally", Required: true, Order: 6},
	{ID: "configuration", Name: "Configuration", Description: "Environment variables, configuration files, and setup options", Required: false, Order: 7},
	{ID: "usage", Name: "Usage", Description: "Code examples and instructions showing how to use the project", Required: true, Order: 8},
	{ID: "api_reference", Name: "API Reference", Description: "API endpoints, methods, parameters, and responses documentation", Required: false, Order: 9},
	{ID: "project_structure", Name: "Project Structure", Description: "Overview of the codebase organization, key directories, and files", Required: false, Order: 10},
	{ID: "testing", Name: "Testing", Description: "Instructions for running tests and understanding test coverage", Required: false, Order: 11},
	{ID: "deployment", Name: "Deployment", Description: "Steps and requirements for deploying the project to production", Required: false, Order: 12},
	{ID: "contributing", Name: "Contributing", Description: "Guidelines and workflow for contributing code, reporting issues, and submitting pull requests", Required: true, Order: 13},
	{ID: "license", Name: "License", Description: "Project licensing information and usage terms", Required: true, Order: 14},
}

// DefaultSectionIDs 交互/配置场景下的默认勾选集合
var DefaultSectionIDs = []string{
	"introduction", "features", "installation", "usage", "contributing", "license",
}

// FindSections 按 id 或名字（不区分大小写）从内置模板中挑选章节，保持模板顺序
func FindSections(idsOrNames []string) []Section {
	wanted := make(map[string]bool, len(idsOrNames))
	for _, s := range idsOrNames {
		wanted[NormalizeName(s)] = true
	}
	var out []Section
	for _, section := range DefaultSections {
		if wanted[section.ID] || wanted[NormalizeName(section.Name)] {
			out = append(out, section)
		}
	}
	return out
}
