package scores

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// maxStoredEntries bounds the JSON file; the lowest scores are dropped first.
const maxStoredEntries = 500

type fileData struct {
	Entries []Entry `json:"entries"`
}

// FileStore keeps every entry in one JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path is the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// load reads the file; a missing or unreadable file is an empty leaderboard.
func (s *FileStore) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read high scores: %w", err)
	}
	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, nil
	}
	return fd.Entries, nil
}

func (s *FileStore) save(entries []Entry) error {
	data, err := json.MarshalIndent(fileData{Entries: entries}, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create saves dir: %w", err)
		}
	}
	return os.WriteFile(s.path, data, 0644)
}

func (s *FileStore) Submit(ctx context.Context, e Entry) (Entry, error) {
	e, err := prepare(e, s.now())
	if err != nil {
		return Entry{}, err
	}
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	entries = append(entries, e)
	sortEntries(entries)
	if len(entries) > maxStoredEntries {
		entries = entries[:maxStoredEntries]
	}
	if err := s.save(entries); err != nil {
		return Entry{}, fmt.Errorf("save high scores: %w", err)
	}
	return e, nil
}

func (s *FileStore) Daily(ctx context.Context, day time.Time, limit int) ([]Entry, error) {
	return s.query(ctx, limit, func(e Entry) bool { return sameDay(e.Date, day) })
}

func (s *FileStore) AllTime(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, limit, func(Entry) bool { return true })
}

func (s *FileStore) UserHigh(ctx context.Context, player string) (int, error) {
	entries, err := s.query(ctx, 1, func(e Entry) bool { return e.PlayerName == player })
	if err != nil || len(entries) == 0 {
		return 0, err
	}
	return entries[0].Score, nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) query(ctx context.Context, limit int, keep func(Entry) bool) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	entries, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sortEntries(out)
	if limit = limitOrDefault(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
