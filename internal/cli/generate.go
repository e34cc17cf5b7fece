package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weibaohui/readmegen/config"
	"github.com/weibaohui/readmegen/internal/analyzer"
	"github.com/weibaohui/readmegen/internal/pkg/llm"
	"github.com/weibaohui/readmegen/internal/readme"
)

func newGenerateCmd() *cobra.Command {
	var (
		path          string
		url           string
		output        string
		sections      []string
		useExisting   bool
		overwrite     bool
		noInteractive bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Analyze a repository and generate its README",
		Long: `Analyze a local repository and generate a README.md with an LLM.

Sections can be given by id or name (see "readmegen sections").
Without --sections the command asks interactively; --no-interactive
falls back to the default section set.

Examples:
  readmegen generate --path .
  readmegen generate --path ./myrepo --sections introduction,usage,license
  readmegen generate --path . --use-existing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(path, url, output, sections, useExisting, overwrite, noInteractive)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Path to the repository to analyze")
	cmd.Flags().StringVar(&url, "url", "", "Repository remote URL, overrides the detected origin")
	cmd.Flags().StringVarP(&output, "output", "o", "README.md", "Output file, relative to the repository path")
	cmd.Flags().StringSliceVarP(&sections, "sections", "s", nil, "Sections to generate, by id or name")
	cmd.Flags().BoolVar(&useExisting, "use-existing", false, "Improve the existing README instead of generating from scratch")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite the output file if it exists")
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "Never prompt; use defaults when no sections are given")

	return cmd
}

func runGenerate(path, url, output string, sectionIDs []string, useExisting, overwrite, noInteractive bool) error {
	cfg := config.GetConfig()
	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	settings.Apply(cfg)
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("API key not configured: set OPENAI_API_KEY or run `readmegen config --set-api-key <key>`")
	}

	svc, err := analyzer.New(path)
	if err != nil {
		return err
	}
	info, err := svc.Analyze()
	if err != nil {
		return err
	}
	if url != "" {
		remote := analyzer.ParseGitURL(url)
		info.CloneURL = remote.CloneURL
		if remote.Repo != "" {
			info.Name = remote.Repo
		}
	}

	if len(sectionIDs) == 0 {
		sectionIDs = settings.DefaultSections
	}
	if len(sectionIDs) == 0 {
		if noInteractive {
			sectionIDs = readme.DefaultSectionIDs
		} else {
			sectionIDs = promptSections(os.Stdin, os.Stdout)
		}
	}
	selected := readme.FindSections(sectionIDs)
	if len(selected) == 0 {
		return fmt.Errorf("no matching sections for %v", sectionIDs)
	}

	outPath := output
	if !filepath.IsAbs(output) && !strings.ContainsAny(output, "/\\") {
		outPath = filepath.Join(svc.Root(), output)
	}

	existing := ""
	if useExisting {
		if er := svc.ExistingReadme(); er != nil {
			fmt.Printf("Improving existing README: %s (%d bytes)\n", er.Path, er.Size)
			existing = er.Content
		}
	} else if _, err := os.Stat(outPath); err == nil && !overwrite {
		return fmt.Errorf("%s already exists: use --overwrite to replace it or --use-existing to improve it", outPath)
	}

	client := llm.NewClient(cfg)
	refiner := readme.NewRefiner(client, cfg.LLM.MaxTokens, cfg.LLM.FallbackMaxTokens)
	generator := readme.NewGenerator(client, refiner, cfg.Generator.Workers)

	fmt.Printf("Generating README for %s (%d sections)...\n", info.Name, len(selected))
	result, err := generator.Generate(context.Background(), info, selected, existing)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, []byte(result.Content), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(result.Content))
	fmt.Printf("Sections: %s\n", strings.Join(result.SectionsGenerated, ", "))
	return nil
}

// promptSections 交互式选择章节，空输入使用默认集合
func promptSections(in io.Reader, out io.Writer) []string {
	fmt.Fprintln(out, "Available sections:")
	defaults := make(map[string]bool, len(readme.DefaultSectionIDs))
	for _, id := range readme.DefaultSectionIDs {
		defaults[id] = true
	}
	for i, s := range readme.DefaultSections {
		marker := " "
		if defaults[s.ID] {
			marker = "*"
		}
		fmt.Fprintf(out, "  %2d. [%s] %s\n", i+1, marker, s.Name)
	}
	fmt.Fprint(out, "Select sections (numbers or ids, comma-separated, empty for defaults *): ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return readme.DefaultSectionIDs
	}
	return parseSelection(scanner.Text())
}

// parseSelection 解析交互输入：序号（1 起）或章节 id/名字，空输入回退默认集合
func parseSelection(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return readme.DefaultSectionIDs
	}

	var ids []string
	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if n, err := strconv.Atoi(token); err == nil {
			if n >= 1 && n <= len(readme.DefaultSections) {
				ids = append(ids, readme.DefaultSections[n-1].ID)
			}
			continue
		}
		ids = append(ids, token)
	}
	if len(ids) == 0 {
		return readme.DefaultSectionIDs
	}
	return ids
}
