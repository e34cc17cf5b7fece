package readme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/weibaohui/readmegen/internal/analyzer"
)

// Prompt 装配是纯文本拼接，不触发任何模型调用，便于独立测试。
// 提示词直接以结构化字段拼装，用户内容不需要任何转义。

const commonGuidelines = `CRITICAL WRITING GUIDELINES - Write as a Senior Technical Writer:

TONE & VOICE:
- Write with authority and professionalism
- Use active voice and imperative mood for instructions
- Be direct and concise - every word must add value
- Assume readers have basic technical knowledge
- NEVER use first person (We/I/Our) - use second person (You) or third person (The project/This library)

CONTENT QUALITY:
- Be specific - provide exact versions, commands, and values
- Avoid filler words and unnecessary explanations
- Don't state the obvious (e.g., "You should clone using the URL below")
- Use precise technical terminology
- Focus on what users need to know, not what you want to say

STRUCTURE:
- Start with the most important information
- Use clear headings and logical flow
- Keep paragraphs short (2-4 sentences max)
- Use lists for steps or multiple items
- Use code blocks for all commands, code, and configuration

WHAT TO AVOID:
- Vague statements like "recent version", "as needed", "if applicable"
- Redundant instructions or explanations
- Flowery language or marketing speak
- Overly casual phrases like "getting bogged down", "just run"
- Apologetic or uncertain language`

// sectionInstructions 章节名 -> 写作要求
var sectionInstructions = map[string]string{
	"introduction": `- Open with a single, clear sentence stating what the project does
- State the specific problem or use case it addresses
- Highlight 2-3 key benefits or value propositions
- Maximum 2-3 short paragraphs
- Avoid marketing language, flowery introductions, or background stories`,

	"table of contents": `- Create markdown links to ALL sections that will appear in the README
- Use a bulleted list format with proper anchor links
- Link format: [Section Name](#section-name) where section-name is lowercase with hyphens and spaces replaced
- Include all H2 (##) sections that come AFTER this Table of Contents
- Do NOT include the Table of Contents itself in the links
- Order links to match the actual section order in the document
- Example format:
  - [Introduction](#introduction)
  - [Features](#features)
  - [Installation](#installation)
- Keep it clean and simple - no decorations or emojis`,

	"features": `- Use concise bullet points (one line per feature)
- State user-facing capabilities, not implementation details
- Be specific - avoid vague terms like "powerful" or "flexible"
- Focus on what users can accomplish
- Group related features with sub-bullets if needed`,

	"tech stack": `- Identify and list primary technologies from repository files (package.json, requirements.txt, go.mod, Cargo.toml, etc.)
- Include version numbers if clearly specified in dependency files
- Organize by category (Backend, Frontend, Database, DevOps, Testing, etc.)
- Use bullet points with framework/library names
- Focus on major dependencies only (5-10 key technologies)
- Do NOT leave this section empty - analyze the repository to find technologies
- If using badges, include them for major frameworks/languages`,

	"prerequisites": `- List required software with minimum version numbers
- Include system requirements if relevant
- Mention accounts or API keys needed
- Use bullet points for clarity
- Separate required vs optional prerequisites`,

	"installation": `- Provide numbered steps in logical order
- Include git clone command with the repository URL
- Show package installation commands (npm install, pip install -r requirements.txt, etc.)
- Include database setup/migrations if applicable
- Include environment variable setup if needed
- One code block per distinct step
- STOP after installation is complete - do NOT include running the application
- Do NOT repeat steps that belong in Usage section (like running servers or creating users)`,

	"configuration": `- List configuration options in a table format
- Include: option name, type, default value, description
- Show example configuration files
- Document environment variables with examples
- Explicitly mark required vs optional settings`,

	"usage": `- START with how to run the application (e.g., npm start, python manage.py runserver)
- Show the simplest working example of using the project
- Provide actual, runnable code samples (not pseudocode)
- Include necessary imports or setup for code examples
- Demonstrate 2-3 common use cases with code
- Use appropriate language syntax highlighting
- Show expected output only if it adds value
- Do NOT repeat installation steps - assume installation is already complete
- Focus on "how to use" not "how to install"`,

	"api reference": `- Document key endpoints, functions, or classes
- Use consistent format: signature, parameters, return value, example
- Include HTTP methods and routes for REST APIs
- Show request/response examples
- Provide type information where applicable
- Keep descriptions technical and precise`,

	"project structure": `- Display directory tree of key folders and files
- Use code block with tree-like formatting
- Add brief descriptions for important directories
- Focus on what developers need to know
- Explain purpose of main configuration files`,

	"testing": `- Provide commands to run tests
- List test frameworks/runners used
- Explain different test types if applicable (unit, integration, e2e)
- Show how to run specific test suites
- Include coverage commands if available`,

	"deployment": `- Provide deployment steps in sequential order
- Specify target platforms (Vercel, Heroku, AWS, Docker, etc.)
- Include build/compilation commands
- Show environment variable configuration
- Link to platform-specific documentation if needed`,

	"contributing": `- State how to report issues and submit PRs
- Provide development setup steps
- Describe coding standards or style guide
- Explain branch naming and commit conventions
- Be welcoming but professional`,

	"license": `- State license type prominently at the top
- Link to LICENSE file ONLY if it exists (check license_file field)
- Briefly explain key permissions and restrictions
- No placeholder links to non-existent files
- Keep it factual - no legal interpretation`,
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// baseRepoInfo 所有提示词共享的仓库信息块
func baseRepoInfo(repo *analyzer.RepositoryInfo) string {
	topics := "None"
	if len(repo.Topics) > 0 {
		topics = strings.Join(repo.Topics, ", ")
	}
	return fmt.Sprintf(`Repository Information:
- Name: %s
- Description: %s
- Primary Language: %s
- Clone URL: %s
- Topics/Tags: %s`,
		orDefault(repo.Name, "Unknown"),
		orDefault(repo.Description, "No description provided"),
		orDefault(repo.Language, "Not specified"),
		orDefault(repo.CloneURL, "https://github.com/username/repository.git"),
		topics,
	)
}

// licenseContext License 章节附加上下文，避免链接到不存在的许可证文件
func licenseContext(repo *analyzer.RepositoryInfo) string {
	var b strings.Builder
	b.WriteString("Additional License Information:\n")
	if repo.License != "" {
		fmt.Fprintf(&b, "- License Type: %s\n", repo.License)
	}
	if repo.LicenseFile != "" {
		fmt.Fprintf(&b, "- License File: %s (exists in repository)\n", repo.LicenseFile)
	} else {
		b.WriteString("- No license file found in repository root\n")
	}
	return b.String()
}

// tocContext 列出除目录自身外的全部章节，作为目录链接目标
func tocContext(self Section, all []Section) string {
	var b strings.Builder
	b.WriteString("Sections to include in Table of Contents:\n")
	for _, s := range all {
		if NormalizeName(s.Name) == NormalizeName(self.Name) {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", s.Name)
	}
	return b.String()
}

// BuildHeaderPrompt 生成 README 头部（H1 标题 + 一句话描述 + 徽章）的提示词
func BuildHeaderPrompt(repo *analyzer.RepositoryInfo) string {
	name := orDefault(repo.Name, "Project Name")
	return fmt.Sprintf(`Create only the header section of a README.md for the repository: %s

%s

REQUIREMENTS:
1. Start with H1 title: # %s
2. Add a brief one-sentence description of what the project does (plain text, not a heading)
3. Include relevant badges if appropriate (build status, version, license, language, etc.)

FORMAT:
# Project Name
Brief one-line description here.

[Badges here if applicable]

%s

IMPORTANT:
- The H1 title MUST be the first line
- ONLY include the header section, no other sections like Introduction or Table of Contents
- Do NOT add any ## headings in this section`,
		name, baseRepoInfo(repo), name, commonGuidelines)
}

// BuildSectionPrompt 生成单个章节的提示词。
// 未收录的章节名退化为基于 Section.Description 的通用模板。
func BuildSectionPrompt(section Section, repo *analyzer.RepositoryInfo, allSections []Section) string {
	name := NormalizeName(section.Name)
	instructions, known := sectionInstructions[name]

	if !known {
		return fmt.Sprintf(`Create ONLY the "%s" section for this README.

%s

Section Description: %s

This section should address the described purpose while being:
- Clear and actionable
- Relevant to the project
- Well-formatted in Markdown

%s

Format as: ## %s`,
			section.Name, baseRepoInfo(repo), section.Description, commonGuidelines, section.Name)
	}

	context := ""
	switch name {
	case "license":
		context = licenseContext(repo)
	case "table of contents":
		context = tocContext(section, allSections)
	}

	prompt := fmt.Sprintf(`Create ONLY the "%s" section for this README.

%s
`, section.Name, baseRepoInfo(repo))
	if context != "" {
		prompt += "\n" + context
	}
	prompt += fmt.Sprintf(`
This section should:
%s

%s

Format as: ## %s`, instructions, commonGuidelines, section.Name)

	return prompt
}

const codeSampleLimit = 500

// usageLikeSections 需要附带代码样例上下文的章节
var usageLikeSections = map[string]bool{
	"usage":           true,
	"examples":        true,
	"getting started": true,
}

// IsUsageLike 判断章节是否属于用法类章节
func IsUsageLike(name string) bool {
	return usageLikeSections[NormalizeName(name)]
}

// CodeSampleContext 把代码样例截断后拼成提示词附加段，样例为空时返回空串
func CodeSampleContext(samples map[string]string) string {
	if len(samples) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nCode Samples for Reference:\n")
	for _, path := range sortedKeys(samples) {
		content := samples[path]
		if len(content) > codeSampleLimit {
			content = content[:codeSampleLimit] + "..."
		}
		fmt.Fprintf(&b, "\nFile: %s\n```\n%s\n```\n", path, content)
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
