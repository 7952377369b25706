package scores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id           UUID PRIMARY KEY,
	player_name  TEXT NOT NULL,
	score        INTEGER NOT NULL CHECK (score >= 0),
	level        INTEGER NOT NULL,
	theme_id     TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	play_time_ms BIGINT NOT NULL,
	day          DATE NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS scores_day_score_idx ON scores (day, score DESC);
CREATE INDEX IF NOT EXISTS scores_player_idx ON scores (player_name);
`

const selectColumns = `id, player_name, score, level, theme_id, outcome, play_time_ms, created_at`

// PostgresStore keeps scores in a Postgres table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenPostgres connects with a connection string (e.g. os.Getenv("DATABASE_URL")).
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping scores database: %w", err)
	}
	s, err := NewPostgresStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore accepts an existing DB handle and creates the schema.
func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create scores schema: %w", err)
	}
	return &PostgresStore{db: db, now: time.Now}, nil
}

func (s *PostgresStore) Submit(ctx context.Context, e Entry) (Entry, error) {
	e, err := prepare(e, s.now())
	if err != nil {
		return Entry{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scores (id, player_name, score, level, theme_id, outcome, play_time_ms, day, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.PlayerName, e.Score, e.Level, e.ThemeID, e.Outcome, e.PlayTime.Milliseconds(), e.Date.Format("2006-01-02"), e.Date)
	if err != nil {
		return Entry{}, fmt.Errorf("insert score: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) Daily(ctx context.Context, day time.Time, limit int) ([]Entry, error) {
	return s.query(ctx, `
		SELECT `+selectColumns+`
		FROM scores
		WHERE day = $1
		ORDER BY score DESC, created_at ASC
		LIMIT $2
	`, day.Format("2006-01-02"), limitOrDefault(limit))
}

func (s *PostgresStore) AllTime(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, `
		SELECT `+selectColumns+`
		FROM scores
		ORDER BY score DESC, created_at ASC
		LIMIT $1
	`, limitOrDefault(limit))
}

func (s *PostgresStore) UserHigh(ctx context.Context, player string) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(score), 0) FROM scores WHERE player_name = $1`, player).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("query user high score: %w", err)
	}
	return best, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var playMs int64
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &e.Level, &e.ThemeID, &e.Outcome, &playMs, &e.Date); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		e.PlayTime = time.Duration(playMs) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}
