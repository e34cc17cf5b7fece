package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weibaohui/readmegen/internal/analyzer"
)

func newAnalyzeCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a repository and print the collected metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(path)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Path to the repository to analyze")

	return cmd
}

func runAnalyze(path string) error {
	svc, err := analyzer.New(path)
	if err != nil {
		return err
	}
	info, err := svc.Analyze()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
