package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

var (
	_ domain.HabitRepository      = (*InMemoryHabitRepository)(nil)
	_ domain.HabitEntryRepository = (*InMemoryEntryRepository)(nil)
	_ domain.DayLogRepository     = (*InMemoryDayLogRepository)(nil)
)

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		if habits[i].SortOrder != habits[j].SortOrder {
			return habits[i].SortOrder < habits[j].SortOrder
		}
		return habits[i].ID < habits[j].ID
	})

	return habits, nil
}

type InMemoryEntryRepository struct {
	// keyed by habit id + date key, so a second completion on the same day conflicts
	store map[string]*domain.HabitEntry

	mu sync.RWMutex
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{
		store: make(map[string]*domain.HabitEntry),
	}
}

func (r *InMemoryEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := entry.HabitID + "|" + entry.DateKey()
	if existing, ok := r.store[key]; ok && existing.DeletedAt == nil {
		return domain.ErrEntryConflict
	}
	r.store[key] = entry
	return nil
}

func (r *InMemoryEntryRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.HabitEntry
	for _, e := range r.store {
		if e.UserID == userID && e.DeletedAt == nil {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CompletionDate.Before(entries[j].CompletionDate)
	})
	return entries, nil
}

type InMemoryDayLogRepository struct {
	store map[string]domain.DayLogs

	mu sync.RWMutex
}

func NewInMemoryDayLogRepository() *InMemoryDayLogRepository {
	return &InMemoryDayLogRepository{
		store: make(map[string]domain.DayLogs),
	}
}

func (r *InMemoryDayLogRepository) Upsert(ctx context.Context, userID string, log domain.DayLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs, ok := r.store[userID]
	if !ok {
		logs = make(domain.DayLogs)
		r.store[userID] = logs
	}
	logs[log.Date] = log
	return nil
}

func (r *InMemoryDayLogRepository) ListByUserID(ctx context.Context, userID string) ([]domain.DayLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]domain.DayLog, 0, len(r.store[userID]))
	for _, l := range r.store[userID] {
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
	return logs, nil
}

// Snapshot is the offline exchange format: a user's habits, the dates each
// habit was completed on, and optional day logs.
type Snapshot struct {
	UserID      string              `json:"user_id"`
	Habits      []domain.Habit      `json:"habits"`
	Completions map[string][]string `json:"completions"`
	DayLogs     []domain.DayLog     `json:"day_logs,omitempty"`
}

// Store bundles the three in-memory repositories.
type Store struct {
	Habits  *InMemoryHabitRepository
	Entries *InMemoryEntryRepository
	DayLogs *InMemoryDayLogRepository
}

func NewStore() *Store {
	return &Store{
		Habits:  NewInMemoryHabitRepository(),
		Entries: NewInMemoryEntryRepository(),
		DayLogs: NewInMemoryDayLogRepository(),
	}
}

// LoadSnapshotFile reads a JSON snapshot from disk.
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.UserID == "" {
		return nil, fmt.Errorf("decode snapshot: %w", domain.ErrHabitInvalidUserID)
	}
	return &snap, nil
}

// NewStoreFromSnapshot validates schedules and dates before loading them.
// Duplicate completion dates collapse into one entry.
func NewStoreFromSnapshot(ctx context.Context, snap *Snapshot) (*Store, error) {
	s := NewStore()

	for i := range snap.Habits {
		h := snap.Habits[i]
		if err := h.Schedule.Validate(); err != nil {
			return nil, fmt.Errorf("habit %s: %w", h.ID, err)
		}
		h.UserID = snap.UserID
		if err := s.Habits.Create(ctx, &h); err != nil {
			return nil, err
		}
	}

	for habitID, dates := range snap.Completions {
		for _, key := range dates {
			day, err := time.Parse(domain.DateKeyLayout, key)
			if err != nil {
				return nil, fmt.Errorf("habit %s: bad completion date %q: %w", habitID, key, err)
			}
			err = s.Entries.Create(ctx, domain.NewHabitEntry(habitID, snap.UserID, day))
			if err != nil && !errors.Is(err, domain.ErrEntryConflict) {
				return nil, err
			}
		}
	}

	for _, l := range snap.DayLogs {
		if err := s.DayLogs.Upsert(ctx, snap.UserID, l); err != nil {
			return nil, err
		}
	}

	return s, nil
}
