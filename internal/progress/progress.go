// Package progress keeps per-level statistics (best and average score,
// play count, unlock flag) and persists them through a key-value Backend.
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// NoNextLevel is passed to RecordResult when the level is the last one.
const NoNextLevel = 0

// Backend is the durable key-value store behind a Store.
// PutBatch must apply all entries or none.
type Backend interface {
	Get(key string) (string, bool, error)
	PutBatch(entries map[string]string) error
}

// Stats is the persisted record for one level.
type Stats struct {
	Best       int  `json:"best"`
	Avg        int  `json:"avg"`
	Plays      int  `json:"plays"`
	TotalScore int  `json:"totalScore"`
	Unlocked   bool `json:"unlocked"`
}

// valid reports whether a decoded record can be trusted.
func (s Stats) valid() bool {
	if s.Best < 0 || s.Avg < 0 || s.Plays < 0 || s.TotalScore < 0 {
		return false
	}
	if s.Plays == 0 {
		return s.TotalScore == 0
	}
	return s.Avg == s.TotalScore/s.Plays
}

// Update describes the effect of one RecordResult call.
type Update struct {
	LevelID      int
	Stats        Stats
	PreviousBest int
	NewBest      bool
	// UnlockedLevel is the id of a level unlocked by this result, or 0.
	UnlockedLevel int
}

// Key returns the backend key for a level.
func Key(levelID int) string {
	return fmt.Sprintf("level_%d", levelID)
}

// Store holds level statistics in memory and writes every change through
// to its Backend. The in-memory view is authoritative: a failed write is
// reported but never rolled back.
type Store struct {
	mu      sync.Mutex
	backend Backend
	firstID int
	stats   map[int]Stats
	devMode bool
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithDevMode makes every level report as unlocked without touching
// stored unlock flags.
func WithDevMode(enabled bool) Option {
	return func(s *Store) {
		s.devMode = enabled
	}
}

// WithLogger sets the logger used for recovered errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store. firstLevelID is the level that is always unlocked.
// A nil backend keeps statistics in memory only.
func New(backend Backend, firstLevelID int, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		firstID: firstLevelID,
		stats:   make(map[int]Stats),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the stored record of every listed level. Unreadable or corrupt
// records fall back to defaults; Load itself never fails.
func (s *Store) Load(levelIDs []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range levelIDs {
		s.stats[id] = s.read(id)
	}
}

// read fetches one record from the backend. Caller holds mu.
func (s *Store) read(levelID int) Stats {
	def := s.defaults(levelID)
	if s.backend == nil {
		return def
	}

	raw, ok, err := s.backend.Get(Key(levelID))
	if err != nil {
		s.logger.Warn("cannot read level stats, using defaults", "level", levelID, "error", err)
		return def
	}
	if !ok {
		return def
	}

	var st Stats
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.logger.Warn("corrupt level stats, using defaults", "level", levelID, "error", err)
		return def
	}
	if !st.valid() {
		s.logger.Warn("inconsistent level stats, using defaults", "level", levelID, "stats", raw)
		return def
	}

	if levelID == s.firstID {
		st.Unlocked = true
	}
	return st
}

func (s *Store) defaults(levelID int) Stats {
	return Stats{Unlocked: levelID == s.firstID}
}

// lookup returns the in-memory record, materializing it on first use.
// Caller holds mu.
func (s *Store) lookup(levelID int) Stats {
	st, ok := s.stats[levelID]
	if !ok {
		st = s.read(levelID)
		s.stats[levelID] = st
	}
	return st
}

// GetOrDefault returns the statistics for a level, creating the default
// record the first time a level is seen.
func (s *Store) GetOrDefault(levelID int) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(levelID)
}

// IsUnlocked reports whether a level may be started.
func (s *Store) IsUnlocked(levelID int) bool {
	if s.devMode {
		return true
	}
	return s.GetOrDefault(levelID).Unlocked
}

// DevMode reports whether developer mode is enabled.
func (s *Store) DevMode() bool {
	return s.devMode
}

// RecordResult adds a completed play of levelID scoring rawScore and, when
// nextLevelID is not NoNextLevel, unlocks the next level. Both records are
// updated together in memory and written in a single batch. A write error
// is returned, but the in-memory update stands.
func (s *Store) RecordResult(levelID, rawScore, nextLevelID int) (Update, error) {
	rawScore = max(rawScore, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.lookup(levelID)
	prevBest := cur.Best

	cur.Plays++
	cur.TotalScore += rawScore
	cur.Avg = cur.TotalScore / cur.Plays
	cur.Best = max(cur.Best, rawScore)

	upd := Update{
		LevelID:      levelID,
		Stats:        cur,
		PreviousBest: prevBest,
		NewBest:      rawScore > prevBest,
	}

	changed := map[int]Stats{levelID: cur}

	if nextLevelID != NoNextLevel && nextLevelID != levelID {
		next := s.lookup(nextLevelID)
		if !next.Unlocked {
			next.Unlocked = true
			changed[nextLevelID] = next
			upd.UnlockedLevel = nextLevelID
		}
	}

	for id, st := range changed {
		s.stats[id] = st
	}

	if err := s.persist(changed); err != nil {
		s.logger.Error("cannot persist level stats", "level", levelID, "error", err)
		return upd, err
	}
	return upd, nil
}

// persist writes records in one batch. Caller holds mu.
func (s *Store) persist(records map[int]Stats) error {
	if s.backend == nil {
		return nil
	}

	entries := make(map[string]string, len(records))
	for id, st := range records {
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("progress: cannot encode level %d: %w", id, err)
		}
		entries[Key(id)] = string(data)
	}

	if err := s.backend.PutBatch(entries); err != nil {
		return fmt.Errorf("progress: cannot save: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the records for the given levels.
func (s *Store) Snapshot(levelIDs []int) map[int]Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]Stats, len(levelIDs))
	for _, id := range levelIDs {
		out[id] = s.lookup(id)
	}
	return out
}

// Summary aggregates records across a group of levels.
type Summary struct {
	Levels     int
	Played     int
	Unlocked   int
	TotalBest  int
	TotalPlays int
}

// Summarize aggregates the records of levelIDs, honouring developer mode
// for the unlocked count.
func (s *Store) Summarize(levelIDs []int) Summary {
	sum := Summary{Levels: len(levelIDs)}
	for _, st := range s.Snapshot(levelIDs) {
		if st.Plays > 0 {
			sum.Played++
		}
		if st.Unlocked || s.devMode {
			sum.Unlocked++
		}
		sum.TotalBest += st.Best
		sum.TotalPlays += st.Plays
	}
	return sum
}
