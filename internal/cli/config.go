package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weibaohui/readmegen/internal/readme"
)

func newConfigCmd() *cobra.Command {
	var (
		setAPIKey   string
		getAPIKey   bool
		setAPIURL   string
		setModel    string
		setSections string
		getSections bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration (~/.readmegen/config.yaml)",
		Long: `Manage persistent CLI configuration.

Examples:
  readmegen config --set-api-key sk-xxxx
  readmegen config --get-api-key
  readmegen config --set-sections introduction,usage,license
  readmegen config --get-sections`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(setAPIKey, getAPIKey, setAPIURL, setModel, setSections, getSections)
		},
	}

	cmd.Flags().StringVar(&setAPIKey, "set-api-key", "", "Store the LLM API key")
	cmd.Flags().BoolVar(&getAPIKey, "get-api-key", false, "Show the stored API key (masked)")
	cmd.Flags().StringVar(&setAPIURL, "set-api-url", "", "Store the LLM API base URL")
	cmd.Flags().StringVar(&setModel, "set-model", "", "Store the model name")
	cmd.Flags().StringVar(&setSections, "set-sections", "", "Store default sections, comma-separated")
	cmd.Flags().BoolVar(&getSections, "get-sections", false, "Show the stored default sections")

	return cmd
}

func runConfig(setAPIKey string, getAPIKey bool, setAPIURL, setModel, setSections string, getSections bool) error {
	settings, err := LoadSettings()
	if err != nil {
		return err
	}

	changed := false
	if setAPIKey != "" {
		settings.APIKey = setAPIKey
		changed = true
	}
	if setAPIURL != "" {
		settings.APIURL = setAPIURL
		changed = true
	}
	if setModel != "" {
		settings.Model = setModel
		changed = true
	}
	if setSections != "" {
		var ids []string
		for _, token := range strings.Split(setSections, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			ids = append(ids, token)
		}
		if len(readme.FindSections(ids)) == 0 {
			return fmt.Errorf("no matching sections for %v", ids)
		}
		settings.DefaultSections = ids
		changed = true
	}

	if changed {
		if err := settings.Save(); err != nil {
			return err
		}
		fmt.Println("Configuration saved.")
	}

	if getAPIKey {
		fmt.Printf("api_key: %s\n", MaskKey(settings.APIKey))
	}
	if getSections {
		if len(settings.DefaultSections) == 0 {
			fmt.Printf("default_sections: %s (built-in default)\n", strings.Join(readme.DefaultSectionIDs, ", "))
		} else {
			fmt.Printf("default_sections: %s\n", strings.Join(settings.DefaultSections, ", "))
		}
	}

	if !changed && !getAPIKey && !getSections {
		fmt.Printf("api_key: %s\n", MaskKey(settings.APIKey))
		if settings.APIURL != "" {
			fmt.Printf("api_url: %s\n", settings.APIURL)
		}
		if settings.Model != "" {
			fmt.Printf("model: %s\n", settings.Model)
		}
	}
	return nil
}
