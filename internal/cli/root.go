// Package cli 实现 readmegen 命令行入口。
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "readmegen",
		Short:         "Generate professional README files for local repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(),
		newRefineCmd(),
		newAnalyzeCmd(),
		newSectionsCmd(),
		newConfigCmd(),
	)
	return root
}
