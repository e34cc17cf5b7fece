package cli

import (
	"strings"
	"testing"
)

func TestMaskKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"short", "****"},
		{"sk-abcdefgh12345678", "sk-a...5678"},
	}
	for _, c := range cases {
		if got := MaskKey(c.key); got != c.want {
			t.Errorf("MaskKey(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s := &Settings{
		APIKey:          "sk-test",
		Model:           "gpt-4o",
		DefaultSections: []string{"introduction", "usage"},
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if loaded.APIKey != "sk-test" || loaded.Model != "gpt-4o" {
		t.Fatalf("unexpected settings: %+v", loaded)
	}
	if len(loaded.DefaultSections) != 2 || loaded.DefaultSections[0] != "introduction" {
		t.Fatalf("unexpected sections: %v", loaded.DefaultSections)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s.APIKey != "" || len(s.DefaultSections) != 0 {
		t.Fatalf("expected empty settings, got %+v", s)
	}
}

func TestParseSelection(t *testing.T) {
	// 空输入回退默认集合
	ids := parseSelection("")
	if len(ids) != 6 || ids[0] != "introduction" {
		t.Errorf("expected default ids, got %v", ids)
	}

	// 序号按模板顺序映射
	ids = parseSelection("1, 3")
	if len(ids) != 2 || ids[0] != "introduction" || ids[1] != "features" {
		t.Errorf("unexpected ids for numbers: %v", ids)
	}

	// id 与名字直接透传
	ids = parseSelection("usage, License")
	if len(ids) != 2 || ids[0] != "usage" || ids[1] != "License" {
		t.Errorf("unexpected ids for names: %v", ids)
	}

	// 越界序号被忽略，全部无效时回退默认
	ids = parseSelection("99")
	if len(ids) != 6 {
		t.Errorf("expected fallback to defaults, got %v", ids)
	}
}

func TestPromptSectionsOutput(t *testing.T) {
	var out strings.Builder
	ids := promptSections(strings.NewReader("2,4\n"), &out)

	if !strings.Contains(out.String(), "Available sections:") {
		t.Error("expected section listing printed")
	}
	if len(ids) != 2 || ids[0] != "table_of_contents" || ids[1] != "tech_stack" {
		t.Errorf("unexpected selection: %v", ids)
	}
}
