package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewHabitEntry(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Rome")
	if loc == nil {
		loc = time.UTC
	}

	// Shortly after midnight in Rome is still the previous day in UTC.
	inputDate := time.Date(2026, 1, 28, 0, 30, 0, 0, loc)
	habitID := "habit-123"
	userID := "user-456"

	entry := NewHabitEntry(habitID, userID, inputDate)

	t.Run("Should set core identity fields correctly", func(t *testing.T) {
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, habitID, entry.HabitID)
		assert.Equal(t, userID, entry.UserID)
		assert.False(t, entry.CreatedAt.IsZero(), "CreatedAt must be set")
		assert.Nil(t, entry.DeletedAt, "DeletedAt must be nil on creation")
	})

	t.Run("Should keep the calendar date of the input", func(t *testing.T) {
		assert.Equal(t, "2026-01-28", entry.DateKey())
		assert.Equal(t, time.UTC, entry.CompletionDate.Location())
		assert.Equal(t, 0, entry.CompletionDate.Hour())
	})
}

func TestHabitEntry_Validate(t *testing.T) {
	valid := NewHabitEntry("h1", "u1", time.Now())
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		entry HabitEntry
	}{
		{"Missing habit", HabitEntry{UserID: "u1", CompletionDate: time.Now()}},
		{"Missing user", HabitEntry{HabitID: "h1", CompletionDate: time.Now()}},
		{"Missing date", HabitEntry{HabitID: "h1", UserID: "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.entry.Validate(), ErrInvalidEntry)
		})
	}
}
