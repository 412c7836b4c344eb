package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure retrieval settings and embedding providers.

Settings live in a TOML file under the config directory and can also be
edited there directly. Long-running servers pick up ranking weight
changes without a restart.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by dotted key, e.g.

  confluo settings set ranking.semantic_weight 0.7
  confluo settings set embedding.provider ollama

Values that parse as numbers or booleans are stored typed.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	RunE:  runSettingsEmbedding,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Ranking]")
	cmd.Printf("  Semantic weight: %s\n", floatOrDefault("ranking.semantic_weight", "0.6 (default)"))
	cmd.Printf("  Text weight: %s\n", floatOrDefault("ranking.text_weight", "0.4 (default)"))
	cmd.Println()

	cmd.Println("[Embedding]")
	provider := configStore.GetString("embedding.provider")
	if provider == "" {
		provider = "ollama (default)"
	}
	cmd.Printf("  Provider: %s\n", provider)
	if key := configStore.GetString("embedding.openai.api_key"); key != "" {
		cmd.Printf("  OpenAI API key: %s\n", maskAPIKey(key))
	}
	cmd.Println()

	cmd.Println("[Vector Index]")
	if conn := configStore.GetString("postgres.connection_string"); conn != "" {
		cmd.Println("  Backend: pgvector")
	} else {
		cmd.Println("  Backend: (none, lexical-only)")
	}
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseValue(raw)); err != nil {
		return fmt.Errorf("saving setting: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	cmd.Println("  1. Ollama (local, no API key)")
	cmd.Println("  2. OpenAI")
	cmd.Print("\nEnter choice [1]: ")

	switch readLine(reader) {
	case "", "1":
		if err := configStore.Set("embedding.provider", "ollama"); err != nil {
			return err
		}
		cmd.Printf("Enter base URL [http://localhost:11434]: ")
		if url := readLine(reader); url != "" {
			if err := configStore.Set("embedding.ollama.base_url", url); err != nil {
				return err
			}
		}
		cmd.Println("Embedding provider configured: ollama")
	case "2":
		cmd.Print("Enter API key: ")
		apiKey := readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for OpenAI")
		}
		if err := configStore.Set("embedding.provider", "openai"); err != nil {
			return err
		}
		if err := configStore.Set("embedding.openai.api_key", apiKey); err != nil {
			return err
		}
		cmd.Println("Embedding provider configured: openai")
	default:
		return errors.New("invalid selection")
	}

	return nil
}

// Helper functions.

func floatOrDefault(key, fallback string) string {
	if v, ok := configStore.Get(key); ok {
		return fmt.Sprintf("%v", v)
	}
	return fallback
}

// parseValue stores numeric and boolean strings typed so the typed
// getters see them.
func parseValue(raw string) any {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return raw
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
