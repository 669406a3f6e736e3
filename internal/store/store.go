// Package store keeps imported vocabulary decks in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/secda/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrDeckNotFound reports a deck name with no stored deck.
var ErrDeckNotFound = errors.New("deck not found")

// Store wraps SQLite access for vocabulary decks.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decks (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			imported_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS terms (
			deck_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			PRIMARY KEY (deck_id, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ImportDeck stores terms under name. An existing deck is only overwritten when replace is
// set. Term order is preserved.
func (s *Store) ImportDeck(ctx context.Context, name string, terms []model.Term, replace bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("deck name is required")
	}
	if len(terms) == 0 {
		return fmt.Errorf("deck %q has no terms", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM decks WHERE name = ?`, name).Scan(&existing)
	switch {
	case err == nil:
		if !replace {
			err = fmt.Errorf("deck %q already exists", name)
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM terms WHERE deck_id = ?`, existing); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, existing); err != nil {
			return err
		}
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO decks (name, imported_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO terms (deck_id, position, source, target) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, term := range terms {
		if _, err = stmt.ExecContext(ctx, id, i, term.Source, term.Target); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

// LoadDeck returns the terms of the named deck in import order.
func (s *Store) LoadDeck(ctx context.Context, name string) ([]model.Term, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM decks WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, target FROM terms WHERE deck_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var terms []model.Term
	for rows.Next() {
		var term model.Term
		if err := rows.Scan(&term.Source, &term.Target); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return terms, nil
}

// ListDecks returns every stored deck ordered by name.
func (s *Store) ListDecks(ctx context.Context) ([]model.DeckInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.name, d.imported_at, COUNT(t.position)
		 FROM decks d LEFT JOIN terms t ON t.deck_id = d.id
		 GROUP BY d.id
		 ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var decks []model.DeckInfo
	for rows.Next() {
		var (
			info       model.DeckInfo
			importedAt string
		)
		if err := rows.Scan(&info.Name, &importedAt, &info.Terms); err != nil {
			return nil, err
		}
		info.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse import time of deck %q: %w", info.Name, err)
		}
		decks = append(decks, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return decks, nil
}

// DeleteDeck removes the named deck and its terms.
func (s *Store) DeleteDeck(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM terms WHERE deck_id IN (SELECT id FROM decks WHERE name = ?)`, name); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = fmt.Errorf("%w: %s", ErrDeckNotFound, name)
		return err
	}
	err = tx.Commit()
	return err
}
