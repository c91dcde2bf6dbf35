package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WorkStatus tracks the handling state of an assigned work item
type WorkStatus string

const (
	WorkStatusRequested  WorkStatus = "requested"
	WorkStatusInProgress WorkStatus = "in_progress"
	WorkStatusCompleted  WorkStatus = "completed"
)

// IsValid checks if the status is a known value
func (s WorkStatus) IsValid() bool {
	switch s {
	case WorkStatusRequested, WorkStatusInProgress, WorkStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo checks whether a work status change is allowed
func (s WorkStatus) CanTransitionTo(target WorkStatus) bool {
	switch s {
	case WorkStatusRequested:
		return target == WorkStatusInProgress
	case WorkStatusInProgress:
		return target == WorkStatusCompleted
	}
	return false
}

// Work is a staff-assigned task with progress tracking. The requester owns
// the work; the assignee carries it out.
type Work struct {
	shared.OwnedAggregateRoot
	Title       string     `gorm:"not null;size:200"`
	Description string     `gorm:"size:5000"`
	AssigneeID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status      WorkStatus `gorm:"not null;default:'requested';size:20;index"`
	DueDate     *time.Time
	CompletedAt *time.Time
	Progress    []ProgressEntry `gorm:"foreignKey:WorkID"`
}

// TableName returns the database table name
func (Work) TableName() string {
	return "works"
}

// NewWork creates a requested work item
func NewWork(requesterID, assigneeID uuid.UUID, title, description string, dueDate *time.Time) (*Work, error) {
	title = strings.TrimSpace(title)
	if requesterID == uuid.Nil || assigneeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "requester and assignee are required")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "title is required")
	}
	return &Work{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(requesterID),
		Title:              title,
		Description:        strings.TrimSpace(description),
		AssigneeID:         assigneeID,
		Status:             WorkStatusRequested,
		DueDate:            dueDate,
	}, nil
}

// ChangeStatus validates and applies a status transition
func (w *Work) ChangeStatus(target WorkStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown work status: %s", target))
	}
	if !w.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("cannot change work status from %s to %s", w.Status, target))
	}
	now := time.Now()
	w.Status = target
	if target == WorkStatusCompleted {
		w.CompletedAt = &now
	}
	w.UpdatedAt = now
	return nil
}

// RecordProgress appends a progress entry. Starting progress on a requested
// work moves it to in_progress; 100% completes it.
func (w *Work) RecordProgress(recordedBy uuid.UUID, step string, percent int, note string) (*ProgressEntry, error) {
	step = strings.TrimSpace(step)
	if step == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "step label is required")
	}
	if percent < 0 || percent > 100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "percent must be between 0 and 100")
	}
	if w.Status == WorkStatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATE", "completed work cannot record progress")
	}

	entry := &ProgressEntry{
		BaseEntity: shared.NewBaseEntity(),
		WorkID:     w.ID,
		RecordedBy: recordedBy,
		Step:       step,
		Percent:    percent,
		Note:       strings.TrimSpace(note),
	}
	w.Progress = append(w.Progress, *entry)

	if w.Status == WorkStatusRequested {
		w.Status = WorkStatusInProgress
	}
	if percent == 100 {
		now := time.Now()
		w.Status = WorkStatusCompleted
		w.CompletedAt = &now
	}
	w.UpdatedAt = time.Now()
	return entry, nil
}

// ProgressEntry is an append-only progress record on a work item
type ProgressEntry struct {
	shared.BaseEntity
	WorkID     uuid.UUID `gorm:"type:uuid;not null;index"`
	RecordedBy uuid.UUID `gorm:"type:uuid;not null"`
	Step       string    `gorm:"not null;size:100"`
	Percent    int       `gorm:"not null"`
	Note       string    `gorm:"size:1000"`
}

// TableName returns the database table name
func (ProgressEntry) TableName() string {
	return "work_progress_entries"
}
