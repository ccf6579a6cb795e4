package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ruleaudit configuration",
	Long: `View or initialize the ruleaudit configuration.

Configuration is resolved in order of precedence:
1. Command-line flags
2. Environment variables (RULEAUDIT_*)
3. Config file ($HOME/.ruleaudit/config.yaml)
4. Built-in defaults

API keys are never stored in the config file. Set them in the
environment instead:
  OPENAI_API_KEY     for the openai provider
  ANTHROPIC_API_KEY  for the anthropic provider
  OLLAMA_BASE_URL    to override the local ollama endpoint`,
}

// configShowCmd prints the effective default configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the default configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

// configInitCmd writes a starter config file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create $HOME/.ruleaudit/config.yaml with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		dir := filepath.Join(home, ".ruleaudit")
		path := filepath.Join(dir, "config.yaml")

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		header := []byte(`# ruleaudit configuration.
# Values here are overridden by RULEAUDIT_* environment variables
# and command-line flags. API keys stay in the environment:
# OPENAI_API_KEY, ANTHROPIC_API_KEY, OLLAMA_BASE_URL.
`)

		if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("Created %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
