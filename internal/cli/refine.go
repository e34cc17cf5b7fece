package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/weibaohui/readmegen/config"
	"github.com/weibaohui/readmegen/internal/pkg/llm"
	"github.com/weibaohui/readmegen/internal/readme"
)

func newRefineCmd() *cobra.Command {
	var (
		file     string
		output   string
		feedback string
	)

	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Refine an existing README based on feedback",
		Long: `Refine a README file based on free-form feedback.

Examples:
  readmegen refine --file README.md --feedback "the installation steps are outdated"
  readmegen refine --file README.md -o README.new.md --feedback "add docker usage"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefine(file, output, feedback)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "README.md", "README file to refine")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to overwriting the input)")
	cmd.Flags().StringVar(&feedback, "feedback", "", "Feedback describing what to change")
	cmd.MarkFlagRequired("feedback")

	return cmd
}

func runRefine(file, output, feedback string) error {
	cfg := config.GetConfig()
	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	settings.Apply(cfg)
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("API key not configured: set OPENAI_API_KEY or run `readmegen config --set-api-key <key>`")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	client := llm.NewClient(cfg)
	refiner := readme.NewRefiner(client, cfg.LLM.MaxTokens, cfg.LLM.FallbackMaxTokens)

	fmt.Printf("Refining %s...\n", file)
	refined := refiner.Refine(context.Background(), string(data), feedback)

	if output == "" {
		output = file
	}
	if err := os.WriteFile(output, []byte(refined), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", output, len(refined))
	return nil
}
