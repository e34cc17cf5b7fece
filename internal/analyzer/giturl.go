package analyzer

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// RemoteInfo origin 远端解析结果
type RemoteInfo struct {
	Repo     string
	CloneURL string
}

var (
	sshURLRe   = regexp.MustCompile(`^git@github\.com:(.+)/(.+?)(?:\.git)?$`)
	httpsURLRe = regexp.MustCompile(`github\.com/(.+)/(.+?)(?:\.git)?/?$`)
)

// ParseGitURL 解析 git 远端 URL，SSH 形式统一转换为 HTTPS clone 地址
func ParseGitURL(url string) RemoteInfo {
	url = strings.TrimSpace(url)
	if url == "" {
		return RemoteInfo{}
	}

	if strings.HasPrefix(url, "git@") {
		if m := sshURLRe.FindStringSubmatch(url); m != nil {
			return RemoteInfo{
				Repo:     m[2],
				CloneURL: "https://github.com/" + m[1] + "/" + m[2] + ".git",
			}
		}
	}

	if strings.Contains(url, "github.com") {
		if m := httpsURLRe.FindStringSubmatch(url); m != nil {
			repo := strings.TrimSuffix(m[2], ".git")
			return RemoteInfo{
				Repo:     repo,
				CloneURL: "https://github.com/" + m[1] + "/" + repo + ".git",
			}
		}
	}

	return RemoteInfo{CloneURL: url}
}

var remoteURLRe = regexp.MustCompile(`(?s)\[remote "origin"\].*?url\s*=\s*(\S+)`)

// gitRemoteInfo 从 .git/config 读取 origin 远端地址。
// 非 git 仓库或没有 origin 时返回零值。
func (s *Service) gitRemoteInfo() RemoteInfo {
	data, err := os.ReadFile(filepath.Join(s.root, ".git", "config"))
	if err != nil {
		return RemoteInfo{}
	}
	m := remoteURLRe.FindStringSubmatch(string(data))
	if m == nil {
		return RemoteInfo{}
	}
	return ParseGitURL(m[1])
}
