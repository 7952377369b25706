// Package scores persists finished-match results and serves leaderboards.
package scores

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"monsterlane/internal/config"

	"github.com/google/uuid"
)

// DefaultLeaderboardSize is used when the configuration does not set one.
const DefaultLeaderboardSize = 10

var (
	ErrInvalidScore  = errors.New("invalid score")
	ErrUnknownDriver = errors.New("unknown score store driver")
)

// Entry represents a single high score entry
type Entry struct {
	ID         uuid.UUID     `json:"id"`
	PlayerName string        `json:"player_name"`
	Score      int           `json:"score"`
	Level      int           `json:"level"`
	ThemeID    string        `json:"theme_id"`
	Outcome    string        `json:"outcome"`
	PlayTime   time.Duration `json:"play_time"`
	Date       time.Time     `json:"date"`
}

// Store is a leaderboard backend.
type Store interface {
	// Submit validates and records an entry, filling in its id and date.
	Submit(ctx context.Context, e Entry) (Entry, error)
	// Daily returns the best entries recorded on the calendar day of day.
	Daily(ctx context.Context, day time.Time, limit int) ([]Entry, error)
	AllTime(ctx context.Context, limit int) ([]Entry, error)
	// UserHigh returns a player's best score, or zero if they have none.
	UserHigh(ctx context.Context, player string) (int, error)
	Close() error
}

// Open builds the store selected by cfg.
func Open(ctx context.Context, cfg config.ScoresConfig) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		path := cfg.Path
		if path == "" {
			path = "highscores.json"
		}
		if filepath.Base(path) == path {
			path = getAppSavePath(path)
		}
		return NewFileStore(path), nil
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// prepare rejects bad entries and fills defaults.
func prepare(e Entry, now time.Time) (Entry, error) {
	if e.Score < 0 {
		return Entry{}, fmt.Errorf("%w: %d is negative", ErrInvalidScore, e.Score)
	}
	if strings.TrimSpace(e.PlayerName) == "" {
		e.PlayerName = "anonymous"
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = now
	}
	return e, nil
}

// sortEntries orders by score descending; earlier entries win ties.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Date.Before(entries[j].Date)
	})
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardSize
	}
	return limit
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// IsHighScore checks if a score qualifies for a leaderboard of the given size
func IsHighScore(entries []Entry, score, size int) bool {
	if len(entries) < limitOrDefault(size) {
		return true
	}
	return score > entries[len(entries)-1].Score
}

// GetRank returns the rank (1-based) that this score would achieve
func GetRank(entries []Entry, score int) int {
	for i, entry := range entries {
		if score > entry.Score {
			return i + 1
		}
	}
	return len(entries) + 1
}
