package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
)

var colorRegex = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

const (
	MaxTitleLen = 100
)

type Habit struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	Color      string     `json:"color,omitempty"`
	SortOrder  int        `json:"sort_order"`
	Schedule   Schedule   `json:"schedule"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func NewHabit(userID, title, color string, schedule Schedule) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return nil, ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return nil, ErrHabitTitleTooLong
	}

	if color != "" && !colorRegex.MatchString(color) {
		return nil, ErrInvalidColor
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     trimmedTitle,
		Color:     color,
		Schedule:  schedule,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ActiveIn reports whether the habit belongs to the roster of the given year:
// habits archived before January 1st of that year are left out.
func (h *Habit) ActiveIn(year int) bool {
	if h.ArchivedAt == nil {
		return true
	}
	return h.ArchivedAt.Year() >= year
}

func (h *Habit) Archive(at time.Time) {
	if h.ArchivedAt != nil {
		return
	}

	at = at.UTC()
	h.ArchivedAt = &at
	h.UpdatedAt = at
}
