package wordlist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sundayezeilo/passwordgen/internal/errx"
)

// ErrResourceMissing reports that the configured word list does not exist or
// holds no words. It is an operator fault, not a client one.
var ErrResourceMissing = errors.New("word list resource missing")

// Source loads the raw word corpus.
type Source interface {
	Load(ctx context.Context) ([]string, error)
	String() string
}

// FileSource reads a word list from a flat text file.
type FileSource struct {
	Path string
}

// NewFileSource returns a Source reading the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) String() string { return "file:" + s.Path }

// Load opens and parses the word list file.
func (s *FileSource) Load(ctx context.Context) ([]string, error) {
	const op = "wordlist.FileSource.Load"

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errx.E(op, errx.Misconfigured, fmt.Errorf("%w: %s", ErrResourceMissing, s.Path))
		}
		return nil, errx.E(op, errx.Internal, err)
	}
	defer func() {
		_ = f.Close()
	}()

	words, err := Parse(f)
	if errors.Is(err, bufio.ErrTooLong) {
		return nil, errx.E(op, errx.Misconfigured, fmt.Errorf("%s: %w", s.Path, err))
	}
	if err != nil {
		return nil, errx.E(op, errx.Internal, err)
	}
	if len(words) == 0 {
		return nil, errx.E(op, errx.Misconfigured, fmt.Errorf("%w: %s contains no words", ErrResourceMissing, s.Path))
	}
	return words, nil
}

// querier is the subset of *pgxpool.Pool used by PostgresSource.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads a word list from a table with "id" and "word" columns.
type PostgresSource struct {
	db    querier
	table string
}

// NewPostgresSource returns a Source reading words from table, which may be
// schema-qualified ("dict.words").
func NewPostgresSource(db querier, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

func (s *PostgresSource) String() string { return "postgres:" + s.table }

// Load selects every word ordered by id. Rows go through the same trimming
// and comment rules as file lines.
func (s *PostgresSource) Load(ctx context.Context) ([]string, error) {
	const op = "wordlist.PostgresSource.Load"

	ident := pgx.Identifier(strings.Split(s.table, "."))
	rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT word FROM %s ORDER BY id", ident.Sanitize()))
	if err != nil {
		return nil, mapQueryError(op, s.table, err)
	}

	raw, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapQueryError(op, s.table, err)
	}

	words := make([]string, 0, len(raw))
	for _, line := range raw {
		if word, ok := parseLine(line); ok {
			words = append(words, word)
		}
	}
	if len(words) == 0 {
		return nil, errx.E(op, errx.Misconfigured, fmt.Errorf("%w: table %s has no words", ErrResourceMissing, s.table))
	}
	return words, nil
}

func mapQueryError(op, table string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errx.E(op, errx.Canceled, err)
	case isUndefinedTable(err):
		return errx.E(op, errx.Misconfigured, fmt.Errorf("%w: table %s: %v", ErrResourceMissing, table, err))
	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UndefinedTable
}
