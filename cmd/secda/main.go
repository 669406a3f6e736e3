// Package main provides the CLI entrypoint for secda.
package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/secda/internal/config"
	"github.com/verte-zerg/secda/internal/generator"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/tui"
)

const defaultLogLevel = "info"

// Environment variables read after .env is loaded.
const (
	envTerms    = "SECDA_TERMS"
	envDeck     = "SECDA_DECK"
	envLogLevel = "SECDA_LOG_LEVEL"
)

var (
	playTerms     string
	playDeck      string
	playSkipIntro bool
	playDiff      string
	playSeed      int64
	playAccent    string
	logLevel      string
	logFile       string
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "secda",
		Short:         "Security vocabulary typing game",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			// A missing .env file is fine.
			_ = godotenv.Load()
		},
		RunE: runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&playTerms, "terms", "", "term list file (.toml or tab-separated)")
	rootCmd.PersistentFlags().StringVar(&playDeck, "deck", "", "imported deck name")
	rootCmd.Flags().BoolVar(&playSkipIntro, "skip-intro", false, "skip the mission briefing")
	rootCmd.Flags().StringVar(&playDiff, "difficulty", "", "difficulty preselected in the menu (easy, normal, hard, expert)")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed (0 = time based)")
	rootCmd.Flags().StringVar(&playAccent, "accent", tui.DefaultAccent, "accent colour (#RRGGBB or ANSI 0-255)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error, disabled)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file (default: XDG state dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDeckCmd())
	rootCmd.AddCommand(newTermsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("secda needs an interactive terminal")
	}

	log, closeLog, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	terms, source, err := resolveTerms(context.Background(), cfg)
	if err != nil {
		return err
	}
	log.Info().Str("source", source).Int("terms", len(terms)).Msg("vocabulary loaded")

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(cfg.Seed)
	}
	m, err := tui.NewModel(cfg, terms, gen, log)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("tui stopped")
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveConfig merges flags, the config file and the environment. A flag set on the
// command line wins, then the config file, then the environment.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	applyStringEnv(cmd, "terms", &playTerms, envTerms)
	applyStringEnv(cmd, "deck", &playDeck, envDeck)
	applyStringEnv(cmd, "log-level", &logLevel, envLogLevel)

	applyStringConfig(cmd, "terms", &playTerms, fileCfg.Game.Terms)
	applyStringConfig(cmd, "deck", &playDeck, fileCfg.Game.Deck)
	applyBoolConfig(cmd, "skip-intro", &playSkipIntro, fileCfg.Game.SkipIntro)
	applyStringConfig(cmd, "difficulty", &playDiff, fileCfg.Game.Difficulty)
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Game.Seed)
	applyStringConfig(cmd, "accent", &playAccent, fileCfg.Game.Accent)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	pickVocabularySource(cmd, fileCfg.Game)

	cfg := model.Config{
		TermsPath:  strings.TrimSpace(playTerms),
		Deck:       strings.TrimSpace(playDeck),
		SkipIntro:  playSkipIntro,
		Difficulty: strings.TrimSpace(playDiff),
		Seed:       playSeed,
		Accent:     strings.TrimSpace(playAccent),
		LogLevel:   strings.TrimSpace(logLevel),
		LogFile:    strings.TrimSpace(logFile),
	}
	if cfg.LogFile == "" {
		cfg.LogFile = config.DefaultLogPath()
	}
	return cfg, nil
}

// pickVocabularySource keeps terms and deck from the highest layer that names either of
// them, so a flag or file entry replaces a lower-layer choice of the other kind. Naming both
// in one layer is left for validateConfig to reject.
func pickVocabularySource(cmd *cobra.Command, game config.GameConfig) {
	termsFlag, deckFlag := flagChanged(cmd, "terms"), flagChanged(cmd, "deck")
	termsSet, deckSet := termsFlag, deckFlag
	if !termsFlag && !deckFlag {
		termsSet, deckSet = game.Terms != nil, game.Deck != nil
	}
	switch {
	case termsSet && !deckSet:
		playDeck = ""
	case deckSet && !termsSet:
		playTerms = ""
	}
}

func validateConfig(cfg model.Config) error {
	if cfg.TermsPath != "" && cfg.Deck != "" {
		return fmt.Errorf("--terms and --deck are mutually exclusive")
	}
	if cfg.Difficulty != "" {
		if _, err := model.ParseDifficulty(cfg.Difficulty); err != nil {
			return fmt.Errorf("--difficulty: %w", err)
		}
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	if cfg.Accent != "" && !validColor(cfg.Accent) {
		return fmt.Errorf("--accent must be #RRGGBB or an ANSI colour number 0-255")
	}
	return nil
}

func validColor(value string) bool {
	if hexColor.MatchString(value) {
		return true
	}
	n, err := strconv.Atoi(value)
	return err == nil && n >= 0 && n <= 255
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func applyStringEnv(cmd *cobra.Command, name string, target *string, key string) {
	if flagChanged(cmd, name) {
		return
	}
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*target = v
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
