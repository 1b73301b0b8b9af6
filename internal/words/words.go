package words

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/livioambr/CLDE-Gruppe-6/internal/repository/storage/sqlite"
)

var ErrNoWords = errors.New("word list is empty")

// DefaultWords seeds the word table on first start. All uppercase; the
// guess engine compares letters against the uppercase word.
var DefaultWords = []string{
	"JAVASCRIPT", "PROGRAMMIEREN", "COMPUTER", "INTERNET", "ENTWICKLER",
	"AMAZON", "CLOUD", "SERVER", "DATABASE", "SOFTWARE",
	"ALGORITHMUS", "FUNKTION", "VARIABLE", "SCHNITTSTELLE", "FRAMEWORK",
	"MICROSERVICE", "KUBERNETES", "CONTAINER", "DEPLOYMENT", "SICHERHEIT",
}

// Source supplies the secret word for a new round.
type Source interface {
	NextWord(ctx context.Context) (string, error)
}

// SQLiteSource draws random words from the words table.
type SQLiteSource struct {
	db *sql.DB
}

func NewSQLiteSource(storage *sqlite.Storage) *SQLiteSource {
	return &SQLiteSource{db: storage.Connection}
}

// Seed fills the words table with the default list when it is empty.
func (that *SQLiteSource) Seed(ctx context.Context) error {
	var count int
	if err := that.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&count); err != nil {
		return fmt.Errorf("can't count words: %w", err)
	}

	if count > 0 {
		return nil
	}

	for _, word := range DefaultWords {
		if _, err := that.db.ExecContext(ctx, `INSERT INTO words (word) VALUES (?)`, word); err != nil {
			return fmt.Errorf("can't seed word %q: %w", word, err)
		}
	}

	return nil
}

func (that *SQLiteSource) NextWord(ctx context.Context) (string, error) {
	var word string

	err := that.db.QueryRowContext(ctx, `SELECT word FROM words ORDER BY RANDOM() LIMIT 1`).Scan(&word)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoWords
	}

	if err != nil {
		return "", fmt.Errorf("can't select word: %w", err)
	}

	return word, nil
}
