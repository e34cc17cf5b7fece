package cli

import (
	"os"
	"path/filepath"

	"github.com/weibaohui/readmegen/config"
	"gopkg.in/yaml.v3"
)

// Settings CLI 本地配置，保存在 ~/.readmegen/config.yaml。
// 环境变量仍然优先于这里的值。
type Settings struct {
	APIKey          string   `yaml:"api_key,omitempty"`
	APIURL          string   `yaml:"api_url,omitempty"`
	Model           string   `yaml:"model,omitempty"`
	DefaultSections []string `yaml:"default_sections,omitempty"`
}

func settingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".readmegen", "config.yaml"), nil
}

// LoadSettings 读取 CLI 配置，文件不存在时返回空配置
func LoadSettings() (*Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save 写回 CLI 配置，目录不存在时自动创建。API key 属于敏感信息，收紧权限。
func (s *Settings) Save() error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Apply 把 CLI 配置叠加到运行配置上，空字段不覆盖
func (s *Settings) Apply(cfg *config.Config) {
	if s.APIKey != "" && os.Getenv("OPENAI_API_KEY") == "" {
		cfg.LLM.APIKey = s.APIKey
	}
	if s.APIURL != "" && os.Getenv("OPENAI_BASE_URL") == "" {
		cfg.LLM.APIURL = s.APIURL
	}
	if s.Model != "" && os.Getenv("OPENAI_MODEL_NAME") == "" {
		cfg.LLM.Model = s.Model
	}
}

// MaskKey 遮蔽 API key，只露出首尾各 4 个字符
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
