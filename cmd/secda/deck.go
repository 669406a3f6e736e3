package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/secda/internal/browse"

	"github.com/verte-zerg/secda/internal/config"
	"github.com/verte-zerg/secda/internal/model"
	"github.com/verte-zerg/secda/internal/stats"
	"github.com/verte-zerg/secda/internal/store"
	"github.com/verte-zerg/secda/internal/vocab"
)

var (
	deckReplace bool
	termsBrowse bool
)

func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage imported vocabulary decks",
	}

	importCmd := &cobra.Command{
		Use:   "import <name> <file>",
		Short: "Import a term list as a deck",
		Args:  cobra.ExactArgs(2),
		RunE:  runDeckImportCmd,
	}
	importCmd.Flags().BoolVar(&deckReplace, "replace", false, "overwrite an existing deck")

	cmd.AddCommand(importCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List imported decks",
		Args:  cobra.NoArgs,
		RunE:  runDeckListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an imported deck",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeckDeleteCmd,
	})
	return cmd
}

func newTermsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terms",
		Short: "Print the vocabulary the game would use",
		Args:  cobra.NoArgs,
		RunE:  runTermsCmd,
	}
	cmd.Flags().BoolVar(&termsBrowse, "browse", false, "open an interactive browser over terms and decks")
	return cmd
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func runDeckImportCmd(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]
	terms, err := vocab.LoadTerms(path)
	if err != nil {
		return fmt.Errorf("failed to load term list: %w", err)
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.ImportDeck(cmd.Context(), name, terms, deckReplace); err != nil {
		return fmt.Errorf("failed to import deck: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d terms into deck %q\n", len(terms), name); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runDeckListCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	decks, err := st.ListDecks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list decks: %w", err)
	}
	if len(decks) == 0 {
		logErrln("No decks imported. Import one with: secda deck import <name> <file>")
		return nil
	}
	return printLines(cmd, stats.DeckTable(decks))
}

func runDeckDeleteCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.DeleteDeck(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}

func runTermsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	terms, source, err := resolveTerms(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if termsBrowse {
		return runBrowser(source, terms)
	}
	logErrf("%d terms from %s\n", len(terms), source)
	return printLines(cmd, stats.TermTable(terms))
}

func runBrowser(source string, terms []model.Term) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("browser requires an interactive terminal")
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	program := tea.NewProgram(browse.NewModel(source, terms, st), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

// resolveTerms loads the vocabulary from the configured deck, the configured file or the
// built-in list, in that order. It also returns a description of where the terms came from.
func resolveTerms(ctx context.Context, cfg model.Config) ([]model.Term, string, error) {
	switch {
	case cfg.Deck != "":
		st, closeStore, err := openStore()
		if err != nil {
			return nil, "", err
		}
		defer closeStore()
		terms, err := st.LoadDeck(ctx, cfg.Deck)
		if err != nil {
			if errors.Is(err, store.ErrDeckNotFound) {
				return nil, "", fmt.Errorf("%w\nRun: secda deck list", err)
			}
			return nil, "", fmt.Errorf("failed to load deck: %w", err)
		}
		terms = vocab.Filter(terms)
		if err := vocab.Validate(terms); err != nil {
			return nil, "", fmt.Errorf("deck %q: %w", cfg.Deck, err)
		}
		return terms, "deck " + cfg.Deck, nil
	case cfg.TermsPath != "":
		terms, err := vocab.LoadTerms(cfg.TermsPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load term list: %w", err)
		}
		return terms, cfg.TermsPath, nil
	default:
		terms, err := vocab.Default()
		if err != nil {
			return nil, "", err
		}
		return terms, "built-in vocabulary", nil
	}
}

func printLines(cmd *cobra.Command, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
