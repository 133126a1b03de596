package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochronus/gocomppare/internal/services/comppare"
)

const configTemplate = `# Optional. Base URL of the CompPare API, default "{{BASE_URL}}"
base_url = "{{BASE_URL}}"

# Optional log level, default "info". Use "debug" to trace every request.
loglevel = "info"

# Optional. Account used by 'gocomppare demo'. Both values can also be given
# through COMPPARE_EMAIL and COMPPARE_PASSWORD.
[credentials]
email = "usuario@email.com"
password = "senha123"
`

// ConfigTemplate returns the commented configuration file written by
// GenerateConfig
func ConfigTemplate(baseURL string) string {
	if baseURL == "" {
		baseURL = comppare.DefaultBaseURL
	}
	return strings.ReplaceAll(configTemplate, "{{BASE_URL}}", baseURL)
}

// GenerateConfig writes a configuration template to configPath, backing up
// any existing file to configPath.bak
func GenerateConfig(configPath, baseURL string, out io.Writer) error {
	fmt.Fprintf(out, "Generating config %s\n", configPath)

	// Check if config file already exists and back it up
	if _, err := os.Stat(configPath); err == nil {
		backupPath := configPath + ".bak"
		fmt.Fprintf(out, "Backing up config %s\n", configPath)
		if err := os.Rename(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may hold a password
	fmt.Fprintf(out, "Writing %s\n", configPath)
	if err := os.WriteFile(configPath, []byte(ConfigTemplate(baseURL)), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
