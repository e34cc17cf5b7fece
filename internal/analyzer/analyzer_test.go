package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s error: %v", name, err)
	}
}

func TestAnalyzePackageJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
  "name": "awesome-app",
  "description": "An awesome web app",
  "keywords": ["web", "app"],
  "license": "MIT"
}`)
	writeFile(t, dir, "index.js", "console.log('hi')")

	svc, err := New(dir)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	info, err := svc.Analyze()
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if info.Name != "awesome-app" {
		t.Errorf("expected name awesome-app, got %s", info.Name)
	}
	if info.Description != "An awesome web app" {
		t.Errorf("unexpected description: %s", info.Description)
	}
	if info.Language != "JavaScript" {
		t.Errorf("expected JavaScript, got %s", info.Language)
	}
	if info.License != "MIT" {
		t.Errorf("expected MIT license, got %s", info.License)
	}
	if len(info.Topics) != 2 {
		t.Errorf("expected 2 topics, got %v", info.Topics)
	}
}

func TestAnalyzeGoMod(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module github.com/acme/widget\n\ngo 1.24\n")
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")

	svc, err := New(dir)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	info, err := svc.Analyze()
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if info.Name != "widget" {
		t.Errorf("expected name widget, got %s", info.Name)
	}
	if info.Language != "Go" {
		t.Errorf("expected Go, got %s", info.Language)
	}
	if _, ok := info.CodeSamples["main.go"]; !ok {
		t.Errorf("expected main.go code sample, got %v", keysOf(info.CodeSamples))
	}
}

func TestAnalyzeCargoTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"ferris\"\ndescription = \"A crab\"\n")

	svc, _ := New(dir)
	info, err := svc.Analyze()
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if info.Name != "ferris" {
		t.Errorf("expected name ferris, got %s", info.Name)
	}
	if info.Description != "A crab" {
		t.Errorf("unexpected description: %s", info.Description)
	}
}

func TestDetectLicenseFromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "LICENSE", "Apache License\nVersion 2.0, January 2004\n")

	svc, _ := New(dir)
	info, err := svc.Analyze()
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if info.License != "Apache 2.0" {
		t.Errorf("expected Apache 2.0, got %s", info.License)
	}
	if info.LicenseFile != "LICENSE" {
		t.Errorf("expected LICENSE file, got %s", info.LicenseFile)
	}
}

func TestFileStructure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/index.js", "x")
	writeFile(t, dir, "node_modules/dep/index.js", "x")
	writeFile(t, dir, "README.md", "x")

	svc, _ := New(dir)
	tree := svc.FileStructure(2)

	if !strings.Contains(tree, "src/") {
		t.Errorf("expected src/ in tree:\n%s", tree)
	}
	if !strings.Contains(tree, "index.js") {
		t.Errorf("expected nested file in tree:\n%s", tree)
	}
	if strings.Contains(tree, "node_modules") {
		t.Errorf("expected node_modules to be ignored:\n%s", tree)
	}
}

func TestCodeSampleTruncation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", strings.Repeat("a", 5000))

	svc, _ := New(dir)
	samples := svc.CodeSamples("Go")
	if got := len(samples["main.go"]); got != 1000 {
		t.Errorf("expected sample truncated to 1000 chars, got %d", got)
	}
}

func TestExistingReadme(t *testing.T) {
	dir := t.TempDir()

	svc, _ := New(dir)
	if r := svc.ExistingReadme(); r != nil {
		t.Fatalf("expected no readme, got %+v", r)
	}

	writeFile(t, dir, "README.md", "# Hello\n")
	r := svc.ExistingReadme()
	if r == nil {
		t.Fatal("expected readme to be found")
	}
	if r.Content != "# Hello\n" || r.Size != 8 {
		t.Errorf("unexpected readme: %+v", r)
	}
}

func TestGitRemoteFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".git/config", `[core]
	repositoryformatversion = 0
[remote "origin"]
	url = git@github.com:acme/widget.git
	fetch = +refs/heads/*:refs/remotes/origin/*
`)

	svc, _ := New(dir)
	remote := svc.gitRemoteInfo()
	if remote.Repo != "widget" {
		t.Errorf("expected repo widget, got %s", remote.Repo)
	}
	if remote.CloneURL != "https://github.com/acme/widget.git" {
		t.Errorf("unexpected clone url: %s", remote.CloneURL)
	}
}

func TestParseGitURL(t *testing.T) {
	cases := []struct {
		in       string
		repo     string
		cloneURL string
	}{
		{"git@github.com:acme/widget.git", "widget", "https://github.com/acme/widget.git"},
		{"https://github.com/acme/widget.git", "widget", "https://github.com/acme/widget.git"},
		{"https://github.com/acme/widget", "widget", "https://github.com/acme/widget.git"},
		{"https://gitlab.example.com/acme/widget.git", "", "https://gitlab.example.com/acme/widget.git"},
		{"", "", ""},
	}
	for _, c := range cases {
		got := ParseGitURL(c.in)
		if got.Repo != c.repo || got.CloneURL != c.cloneURL {
			t.Errorf("ParseGitURL(%q) = %+v, want repo=%q cloneURL=%q", c.in, got, c.repo, c.cloneURL)
		}
	}
}

func TestNewRejectsMissingPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func keysOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
