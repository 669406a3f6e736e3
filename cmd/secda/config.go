package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/secda/internal/config"
	"github.com/verte-zerg/secda/internal/tui"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# secda configuration
# Uncomment a value to enable it. CLI flags override config values,
# config values override %s, %s and %s.

[game]
# terms = "/path/to/terms.toml"    # Term list file (.toml or tab-separated)
# deck = "security"                # Imported deck name (see: secda deck list)
# skip-intro = false               # Skip the mission briefing
# difficulty = "normal"            # Difficulty preselected in the menu
# seed = 0                         # Random seed (0 = time based)
# accent = %q                # Accent colour

[log]
# level = %q                     # debug, info, warn, error or disabled
# file = %q
`,
		envTerms,
		envDeck,
		envLogLevel,
		tui.DefaultAccent,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}
