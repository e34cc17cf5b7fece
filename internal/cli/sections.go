package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weibaohui/readmegen/internal/readme"
)

func newSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the built-in section templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := make(map[string]bool, len(readme.DefaultSectionIDs))
			for _, id := range readme.DefaultSectionIDs {
				defaults[id] = true
			}

			fmt.Println("Built-in sections (* = generated by default):")
			for _, s := range readme.DefaultSections {
				marker := " "
				if defaults[s.ID] {
					marker = "*"
				}
				fmt.Printf("  %s %-18s %s\n", marker, s.ID, s.Description)
			}
			return nil
		},
	}
}
