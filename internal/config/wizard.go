package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to iepsite! Let's configure the site.")
	fmt.Println()

	cfg := DefaultConfig()

	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.Site.Title,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.Site.Title = title

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	dataPrompt := promptui.Prompt{
		Label:   "Data directory for the local store",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	driverPrompt := promptui.Select{
		Label: "Remote project store",
		Items: []string{
			"none       keep projects in the local store only",
			"firestore  Google Cloud Firestore",
			"memory     in-process store (development)",
		},
	}
	driverIdx, _, err := driverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("remote driver: %w", err)
	}
	cfg.Remote.Driver = []RemoteDriver{RemoteNone, RemoteFirestore, RemoteMemory}[driverIdx]

	if cfg.Remote.Driver == RemoteFirestore {
		projectPrompt := promptui.Prompt{
			Label: "Google Cloud project ID",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("project ID is required")
				}
				return nil
			},
		}
		if cfg.Remote.ProjectID, err = projectPrompt.Run(); err != nil {
			return nil, fmt.Errorf("project id: %w", err)
		}

		credsPrompt := promptui.Prompt{
			Label:   "Service account credentials file (blank for default credentials)",
			Default: "",
		}
		if cfg.Remote.CredentialsFile, err = credsPrompt.Run(); err != nil {
			return nil, fmt.Errorf("credentials file: %w", err)
		}
	}

	tagsPrompt := promptui.Prompt{
		Label:   "Suggested tags (comma-separated)",
		Default: strings.Join(cfg.Site.TagSuggestions, ","),
	}
	tagsStr, err := tagsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("tag suggestions: %w", err)
	}
	cfg.Site.TagSuggestions = splitAndTrim(tagsStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
