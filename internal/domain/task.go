package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Limits on task fields, matching the tasks table column sizes.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000

	// MaxRecentTasks is the fixed page size of the recent incomplete list.
	MaxRecentTasks = 5
)

// Task is a titled unit of work with a completion flag and timestamps.
// ID is zero until the task has been persisted; the store assigns it.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask creates an unsaved, incomplete Task with CreatedAt equal to UpdatedAt.
// The title is trimmed; an empty description is treated as absent.
// Returns a *ValidationError if the title or description is invalid.
func NewTask(title string, description *string) (*Task, error) {
	now := currentTime()

	task := &Task{
		Title:       strings.TrimSpace(title),
		Description: normalizeDescription(description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required", ErrEmptyContent)
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return NewValidationError("title", "must be at most 255 characters", ErrValidation)
	}

	if t.Description != nil && utf8.RuneCountInString(*t.Description) > MaxDescriptionLength {
		return NewValidationError("description", "must be at most 1000 characters", ErrValidation)
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		return NewValidationError("updatedAt", "cannot be before createdAt", ErrValidation)
	}

	return nil
}

// MarkCompleted sets the completion flag and refreshes UpdatedAt.
// Completing an already completed task is allowed; it only moves UpdatedAt.
func (t *Task) MarkCompleted() {
	t.Completed = true
	t.touch()
}

// touch refreshes UpdatedAt, never letting it fall behind CreatedAt.
func (t *Task) touch() {
	now := currentTime()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// currentTime returns the current UTC time at the microsecond precision
// PostgreSQL stores, so saved timestamps read back unchanged.
func currentTime() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ClampRecentLimit bounds a requested page size to (0, MaxRecentTasks].
// Non-positive values fall back to the maximum.
func ClampRecentLimit(limit int) int {
	if limit <= 0 || limit > MaxRecentTasks {
		return MaxRecentTasks
	}
	return limit
}
