package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultSize is how many entries a board keeps.
const DefaultSize = 10

// storeData is the on-disk document.
type storeData struct {
	Entries []Entry `msgpack:"entries"`
	Plays   int64   `msgpack:"plays"`
}

// Store is a Service backed by a msgpack file. An empty path keeps the board
// in memory only.
type Store struct {
	mu     sync.Mutex
	path   string
	size   int
	data   storeData
	logger *log.Logger
	now    func() time.Time
}

// Compile-time check that Store implements Service.
var _ Service = (*Store)(nil)

// OpenStore loads the board at path. A missing file starts an empty board;
// an unreadable one is logged and replaced on the next write.
func OpenStore(path string, size int, logger *log.Logger) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{path: path, size: size, logger: logger, now: time.Now}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read leaderboard %s: %w", path, err)
	}

	if err := msgpack.Unmarshal(raw, &s.data); err != nil {
		s.logger.Warn("leaderboard file unreadable, starting empty", "path", path, "err", err)
		s.data = storeData{}
	}
	slices.SortStableFunc(s.data.Entries, compareEntries)
	if len(s.data.Entries) > s.size {
		s.data.Entries = s.data.Entries[:s.size]
	}
	return s, nil
}

// FetchLeaderboard returns the board, best first.
func (s *Store) FetchLeaderboard(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := slices.Clone(s.data.Entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// SubmitScore records a finished game. The returned entry is stored only if
// it ranks within the board size; otherwise its Rank is 0.
func (s *Store) SubmitScore(ctx context.Context, sub Submission) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	sub, err := sub.Normalize()
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:         uuid.New(),
		Initials:   sub.Initials,
		Score:      sub.Score,
		Level:      sub.Level,
		DurationMs: sub.DurationMs,
		Difficulty: sub.Difficulty,
		CreatedAt:  s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := len(s.data.Entries)
	for i, e := range s.data.Entries {
		if ranksAbove(entry, e) {
			pos = i
			break
		}
	}
	if pos >= s.size {
		s.logger.Debug("score below the board", "initials", entry.Initials, "score", entry.Score)
		return entry, nil
	}
	s.data.Entries = slices.Insert(s.data.Entries, pos, entry)
	if len(s.data.Entries) > s.size {
		s.data.Entries = s.data.Entries[:s.size]
	}

	if err := s.persistLocked(); err != nil {
		return entry, err
	}
	entry.Rank = pos + 1
	s.logger.Info("score recorded", "initials", entry.Initials, "score", entry.Score, "rank", pos+1)
	return entry, nil
}

// FetchPlayCount returns how many games have been started.
func (s *Store) FetchPlayCount(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Plays, nil
}

// IncrementPlayCount counts one more game and returns the new total.
func (s *Store) IncrementPlayCount(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Plays++
	return s.data.Plays, s.persistLocked()
}

// persistLocked writes the board atomically. Must be called with mu held.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	raw, err := msgpack.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write leaderboard: %w", err)
	}
	return nil
}

func compareEntries(a, b Entry) int {
	switch {
	case ranksAbove(a, b):
		return -1
	case ranksAbove(b, a):
		return 1
	default:
		return 0
	}
}
