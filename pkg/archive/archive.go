// Package archive stores finished (or abandoned) games in sqlite, so they
// can be listed and reopened for analysis later.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/pgn"
	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

var ErrNotFound = errors.New("archive: game not found")

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          TEXT PRIMARY KEY,
	result      TEXT NOT NULL,
	final       TEXT NOT NULL,
	plies       INTEGER NOT NULL,
	created_utc TEXT NOT NULL,
	text        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_created ON games(created_utc);
`

// Stored game
type Record struct {
	ID      string
	Result  uttt.Result
	Final   string // notation of the final position
	Plies   int
	Created time.Time
	Text    string // exported game text
}

// Reopen the stored game, the returned position is at the last move
func (r Record) Game() (uttt.Position, error) {
	return pgn.ImportText(r.Text)
}

type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Open the sqlite database at dsn and create the schema if needed
func Open(dsn string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to open database: %w", err)
	}

	// In-memory databases exist per connection
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: failed to initialize schema: %w", err)
	}

	return &Store{db: db, log: log, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save validates the game by importing it, then stores it under a new id
func (s *Store) Save(ctx context.Context, game pgn.ExportedGame) (Record, error) {
	pos, err := pgn.Import(game)
	if err != nil {
		return Record{}, fmt.Errorf("archive: %w", err)
	}

	result := game.Result
	if result == "" {
		result = pos.Result()
	}

	rec := Record{
		ID:      uuid.New().String(),
		Result:  result,
		Final:   pos.Notation(),
		Plies:   game.Plies(),
		Created: s.now().UTC(),
		Text:    game.String(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id, result, final, plies, created_utc, text) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Result), rec.Final, rec.Plies, rec.Created.Format(time.RFC3339Nano), rec.Text,
	)
	if err != nil {
		return Record{}, fmt.Errorf("archive: insert failed: %w", err)
	}

	s.log.Info("game archived",
		zap.String("id", rec.ID),
		zap.String("result", rec.Result.String()),
		zap.Int("plies", rec.Plies))
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec     Record
		result  string
		created string
	)
	if err := row.Scan(&rec.ID, &result, &rec.Final, &rec.Plies, &created, &rec.Text); err != nil {
		return Record{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Record{}, fmt.Errorf("archive: bad timestamp %q: %w", created, err)
	}
	rec.Created = t
	rec.Result = uttt.Result(result)
	return rec, nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, result, final, plies, created_utc, text FROM games WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("archive: query failed: %w", err)
	}
	return rec, nil
}

// List returns the most recent games first, at most limit of them (all if limit <= 0)
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, result, final, plies, created_utc, text FROM games ORDER BY created_utc DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("archive: query failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archive: delete failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive: delete failed: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
