package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"campus-map-quiz/internal/domain"
)

const (
	// DefaultScoresKey is the storage key of the best-times board.
	DefaultScoresKey = "csunMapQuizScores"
	// MaxScores caps the board length.
	MaxScores = 5
)

// KeyValueStore abstracts where the score blob lives (in-memory, Redis, Postgres).
type KeyValueStore interface {
	// GetString returns ok=false when the key has never been written.
	GetString(ctx context.Context, key string) (value string, ok bool, err error)
	SetString(ctx context.Context, key, value string) error
}

// PlayerScoresKey scopes base to one player. An empty playerID keeps the shared key.
func PlayerScoresKey(base, playerID string) string {
	if base == "" {
		base = DefaultScoresKey
	}
	if playerID == "" {
		return base
	}
	return base + ":" + playerID
}

// ScoreStore keeps the five fastest perfect runs under a single key.
type ScoreStore struct {
	kv  KeyValueStore
	key string
	now func() time.Time
}

func NewScoreStore(kv KeyValueStore, key string) *ScoreStore {
	return NewScoreStoreWithClock(kv, key, time.Now)
}

// NewScoreStoreWithClock is used by tests that need a fixed date label.
func NewScoreStoreWithClock(kv KeyValueStore, key string, now func() time.Time) *ScoreStore {
	if key == "" {
		key = DefaultScoresKey
	}
	return &ScoreStore{kv: kv, key: key, now: now}
}

// Key returns the storage key in use.
func (s *ScoreStore) Key() string {
	return s.key
}

// Load returns the stored board. A missing key or an unreadable blob yields an empty board.
func (s *ScoreStore) Load(ctx context.Context) (domain.ScoreBoard, error) {
	raw, ok, err := s.kv.GetString(ctx, s.key)
	if err != nil {
		return domain.ScoreBoard{}, fmt.Errorf("load scores: %w", err)
	}
	if !ok {
		return domain.ScoreBoard{}, nil
	}
	return decodeBoard(raw), nil
}

// Record adds a completion time and writes the trimmed board back.
// Records against the same key are serialised within the process.
func (s *ScoreStore) Record(ctx context.Context, elapsedSeconds int) (domain.ScoreBoard, error) {
	unlock := recordLocks.lock(s.key)
	defer unlock()

	board, err := s.Load(ctx)
	if err != nil {
		return domain.ScoreBoard{}, err
	}

	board = append(board, domain.ScoreEntry{
		ElapsedSeconds: elapsedSeconds,
		DateLabel:      domain.DateLabel(s.now()),
	})
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].ElapsedSeconds < board[j].ElapsedSeconds
	})
	if len(board) > MaxScores {
		board = board[:MaxScores]
	}

	data, err := json.Marshal(board)
	if err != nil {
		return domain.ScoreBoard{}, fmt.Errorf("encode scores: %w", err)
	}
	if err := s.kv.SetString(ctx, s.key, string(data)); err != nil {
		return domain.ScoreBoard{}, fmt.Errorf("save scores: %w", err)
	}
	return board, nil
}

var recordLocks = &keyedMutex{locks: make(map[string]*sync.Mutex)}

// keyedMutex hands out one mutex per board key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func decodeBoard(raw string) domain.ScoreBoard {
	if raw == "" {
		return domain.ScoreBoard{}
	}
	var board domain.ScoreBoard
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		return domain.ScoreBoard{}
	}
	if board == nil {
		return domain.ScoreBoard{}
	}
	return board
}
