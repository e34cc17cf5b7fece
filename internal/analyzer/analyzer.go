// Package analyzer 扫描本地仓库，收集 README 生成所需的元数据。
package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"k8s.io/klog/v2"
)

// RepositoryInfo 仓库元数据，生成阶段只读
type RepositoryInfo struct {
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Language      string            `json:"language,omitempty"`
	Languages     map[string]int64  `json:"languages,omitempty"`
	Topics        []string          `json:"topics,omitempty"`
	Homepage      string            `json:"homepage,omitempty"`
	CloneURL      string            `json:"clone_url,omitempty"`
	License       string            `json:"license,omitempty"`
	LicenseFile   string            `json:"license_file,omitempty"`
	FileStructure string            `json:"file_structure,omitempty"`
	CodeSamples   map[string]string `json:"code_samples,omitempty"`
}

// ExistingReadme 已存在的 README 文件
type ExistingReadme struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int    `json:"size"`
}

// Service 本地仓库分析服务
type Service struct {
	root string
}

// packageInfo 从各类包描述文件中嗅探到的信息
type packageInfo struct {
	Name        string
	Description string
	Keywords    []string
	Homepage    string
	License     string
}

var ignoreDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"__pycache__":  true,
	"target":       true,
	".cargo":       true,
	"vendor":       true,
}

// New 创建指向 root 目录的分析服务
func New(root string) (*Service, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %s", abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", abs)
	}
	return &Service{root: abs}, nil
}

// Root 返回分析的根目录
func (s *Service) Root() string {
	return s.root
}

// Analyze 分析仓库并返回元数据
func (s *Service) Analyze() (*RepositoryInfo, error) {
	klog.V(6).Infof("[analyzer] 开始分析仓库: %s", s.root)

	pkg := s.packageInfo()
	languages := s.detectLanguages()
	primary := primaryLanguage(languages)
	licenseFile := s.findLicenseFile()

	name := pkg.Name
	if name == "" {
		if remote := s.gitRemoteInfo(); remote.Repo != "" {
			name = remote.Repo
		}
	}
	if name == "" {
		name = filepath.Base(s.root)
	}

	info := &RepositoryInfo{
		Name:          name,
		Description:   pkg.Description,
		Language:      primary,
		Languages:     languages,
		Topics:        pkg.Keywords,
		Homepage:      pkg.Homepage,
		CloneURL:      s.gitRemoteInfo().CloneURL,
		License:       s.detectLicense(pkg, licenseFile),
		LicenseFile:   licenseFile,
		FileStructure: s.FileStructure(2),
		CodeSamples:   s.CodeSamples(primary),
	}

	klog.V(6).Infof("[analyzer] 分析完成: name=%s, language=%s, samples=%d", info.Name, info.Language, len(info.CodeSamples))
	return info, nil
}

// packageInfo 依次尝试 package.json、pyproject.toml、setup.py、Cargo.toml、go.mod
func (s *Service) packageInfo() packageInfo {
	if info, ok := s.packageJSON(); ok {
		return info
	}
	if info, ok := s.pyprojectTOML(); ok {
		return info
	}
	if info, ok := s.setupPy(); ok {
		return info
	}
	if info, ok := s.cargoTOML(); ok {
		return info
	}
	if info, ok := s.goMod(); ok {
		return info
	}
	return packageInfo{}
}

func (s *Service) packageJSON() (packageInfo, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, "package.json"))
	if err != nil {
		return packageInfo{}, false
	}
	var raw struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Keywords    []string `json:"keywords"`
		Homepage    string   `json:"homepage"`
		License     string   `json:"license"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return packageInfo{}, false
	}
	return packageInfo{
		Name:        raw.Name,
		Description: raw.Description,
		Keywords:    raw.Keywords,
		Homepage:    raw.Homepage,
		License:     raw.License,
	}, true
}

func (s *Service) pyprojectTOML() (packageInfo, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, "pyproject.toml"))
	if err != nil {
		return packageInfo{}, false
	}
	var raw struct {
		Project struct {
			Name        string   `toml:"name"`
			Description string   `toml:"description"`
			Keywords    []string `toml:"keywords"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name        string   `toml:"name"`
				Description string   `toml:"description"`
				Keywords    []string `toml:"keywords"`
				Homepage    string   `toml:"homepage"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return packageInfo{}, false
	}
	info := packageInfo{
		Name:        raw.Tool.Poetry.Name,
		Description: raw.Tool.Poetry.Description,
		Keywords:    raw.Tool.Poetry.Keywords,
		Homepage:    raw.Tool.Poetry.Homepage,
	}
	if info.Name == "" {
		info.Name = raw.Project.Name
	}
	if info.Description == "" {
		info.Description = raw.Project.Description
	}
	if len(info.Keywords) == 0 {
		info.Keywords = raw.Project.Keywords
	}
	if info.Name == "" && info.Description == "" {
		return packageInfo{}, false
	}
	return info, true
}

var (
	setupNameRe = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	setupDescRe = regexp.MustCompile(`description\s*=\s*["']([^"']+)["']`)
	goModuleRe  = regexp.MustCompile(`(?m)^module\s+(\S+)`)
)

func (s *Service) setupPy() (packageInfo, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, "setup.py"))
	if err != nil {
		return packageInfo{}, false
	}
	content := string(data)
	info := packageInfo{}
	if m := setupNameRe.FindStringSubmatch(content); m != nil {
		info.Name = m[1]
	}
	if m := setupDescRe.FindStringSubmatch(content); m != nil {
		info.Description = m[1]
	}
	if info.Name == "" && info.Description == "" {
		return packageInfo{}, false
	}
	return info, true
}

func (s *Service) cargoTOML() (packageInfo, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, "Cargo.toml"))
	if err != nil {
		return packageInfo{}, false
	}
	var raw struct {
		Package struct {
			Name        string   `toml:"name"`
			Description string   `toml:"description"`
			Keywords    []string `toml:"keywords"`
			Homepage    string   `toml:"homepage"`
			License     string   `toml:"license"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return packageInfo{}, false
	}
	if raw.Package.Name == "" {
		return packageInfo{}, false
	}
	return packageInfo{
		Name:        raw.Package.Name,
		Description: raw.Package.Description,
		Keywords:    raw.Package.Keywords,
		Homepage:    raw.Package.Homepage,
		License:     raw.Package.License,
	}, true
}

func (s *Service) goMod() (packageInfo, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, "go.mod"))
	if err != nil {
		return packageInfo{}, false
	}
	m := goModuleRe.FindStringSubmatch(string(data))
	if m == nil {
		return packageInfo{}, false
	}
	return packageInfo{Name: filepath.Base(m[1])}, true
}

var extLanguages = map[string]string{
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".py":     "Python",
	".java":   "Java",
	".cpp":    "C++",
	".c":      "C",
	".h":      "C",
	".hpp":    "C++",
	".cs":     "C#",
	".go":     "Go",
	".rs":     "Rust",
	".rb":     "Ruby",
	".php":    "PHP",
	".kt":     "Kotlin",
	".swift":  "Swift",
	".scala":  "Scala",
	".sh":     "Shell",
	".ps1":    "PowerShell",
	".html":   "HTML",
	".css":    "CSS",
	".scss":   "SCSS",
	".less":   "Less",
	".vue":    "Vue",
	".svelte": "Svelte",
	".dart":   "Dart",
	".lua":    "Lua",
	".r":      "R",
	".sql":    "SQL",
}

// detectLanguages 按扩展名统计各语言源码字节数
func (s *Service) detectLanguages() map[string]int64 {
	languages := make(map[string]int64)

	filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if ignoreDirs[d.Name()] && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		lang, ok := extLanguages[strings.ToLower(filepath.Ext(d.Name()))]
		if !ok {
			return nil
		}
		if info, err := d.Info(); err == nil {
			languages[lang] += info.Size()
		}
		return nil
	})

	return languages
}

// primaryLanguage 字节数最多的语言
func primaryLanguage(languages map[string]int64) string {
	if len(languages) == 0 {
		return "Unknown"
	}
	best := ""
	var bestSize int64 = -1
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if languages[name] > bestSize {
			best = name
			bestSize = languages[name]
		}
	}
	return best
}

// FileStructure 生成 maxDepth 层的目录树文本
func (s *Service) FileStructure(maxDepth int) string {
	var lines []string
	s.walkTree(s.root, "", 0, maxDepth, &lines)
	if len(lines) == 0 {
		return "No files found"
	}
	return strings.Join(lines, "\n")
}

func (s *Service) walkTree(dir, prefix string, depth, maxDepth int, lines *[]string) {
	if depth >= maxDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	// 目录优先，名字不区分大小写排序
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	visible := entries[:0]
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") && name != ".env.example" && name != ".gitignore" {
			continue
		}
		if ignoreDirs[name] {
			continue
		}
		visible = append(visible, e)
	}

	for i, e := range visible {
		last := i == len(visible)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		if e.IsDir() {
			*lines = append(*lines, prefix+connector+e.Name()+"/")
			s.walkTree(filepath.Join(dir, e.Name()), childPrefix, depth+1, maxDepth, lines)
		} else {
			*lines = append(*lines, prefix+connector+e.Name())
		}
	}
}

const sampleLimit = 1000

var importantFiles = []string{
	"README.md", "package.json", "pyproject.toml", "requirements.txt",
	"Cargo.toml", "go.mod", "pom.xml", "build.gradle",
}

var entryPoints = map[string][]string{
	"JavaScript": {"index.js", "app.js", "main.js", "src/index.js"},
	"TypeScript": {"index.ts", "app.ts", "main.ts", "src/index.ts"},
	"Python":     {"main.py", "app.py", "__init__.py", "setup.py"},
	"Java":       {"Main.java", "App.java"},
	"Go":         {"main.go"},
	"Rust":       {"main.rs", "lib.rs"},
	"C++":        {"main.cpp", "main.cc"},
	"C":          {"main.c"},
	"Ruby":       {"app.rb", "main.rb"},
	"PHP":        {"index.php", "app.php"},
}

// CodeSamples 采集代表性文件片段，每个文件截取前 1000 字符
func (s *Service) CodeSamples(primary string) map[string]string {
	samples := make(map[string]string)

	candidates := append([]string{}, importantFiles...)
	candidates = append(candidates, entryPoints[primary]...)

	for _, name := range candidates {
		if _, ok := samples[name]; ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, name))
		if err != nil {
			continue
		}
		content := string(data)
		if len(content) > sampleLimit {
			content = content[:sampleLimit]
		}
		samples[name] = content
	}

	return samples
}

var licenseFileNames = []string{
	"LICENSE", "LICENSE.md", "LICENSE.txt",
	"License", "License.md", "License.txt",
	"license", "license.md", "license.txt",
}

// findLicenseFile 查找仓库根目录下的许可证文件
func (s *Service) findLicenseFile() string {
	for _, name := range licenseFileNames {
		if _, err := os.Stat(filepath.Join(s.root, name)); err == nil {
			return name
		}
	}
	return ""
}

// detectLicense 先看包描述文件声明，再按许可证内容做启发式识别
func (s *Service) detectLicense(pkg packageInfo, licenseFile string) string {
	if pkg.License != "" {
		return pkg.License
	}
	if licenseFile == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(s.root, licenseFile))
	if err != nil {
		return ""
	}
	content := strings.ToUpper(string(data))
	switch {
	case strings.Contains(content, "MIT"):
		return "MIT"
	case strings.Contains(content, "APACHE"):
		return "Apache 2.0"
	case strings.Contains(content, "GPL"):
		return "GPL"
	case strings.Contains(content, "BSD"):
		return "BSD"
	case strings.Contains(content, "ISC"):
		return "ISC"
	}
	return "Custom"
}

var readmeFileNames = []string{
	"README.md", "README.rst", "README.txt", "README",
	"readme.md", "readme.rst", "readme.txt", "readme",
}

// ExistingReadme 查找已有的 README 文件，未找到返回 nil
func (s *Service) ExistingReadme() *ExistingReadme {
	for _, name := range readmeFileNames {
		path := filepath.Join(s.root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return &ExistingReadme{
			Path:    path,
			Content: string(data),
			Size:    len(data),
		}
	}
	return nil
}
