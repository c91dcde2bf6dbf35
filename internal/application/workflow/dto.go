package workflow

import (
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// Actor identifies the requesting user and whether they hold a staff role
type Actor struct {
	UserID uuid.UUID
	Staff  bool
}

// CreateWorkInput contains input for assigning a work item
type CreateWorkInput struct {
	Actor       Actor
	AssigneeID  uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
}

// ChangeStatusInput contains input for a work status transition
type ChangeStatusInput struct {
	WorkID uuid.UUID
	Actor  Actor
	Status string
}

// RecordProgressInput contains input for appending a progress entry
type RecordProgressInput struct {
	WorkID  uuid.UUID
	Actor   Actor
	Step    string
	Percent int
	Note    string
}

// ListWorksInput contains input for listing work items
type ListWorksInput struct {
	Actor  Actor
	Filter shared.Filter
}

// WorkInfo is the work representation returned by services
type WorkInfo struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	AssigneeID  uuid.UUID  `json:"assignee_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProgressInfo is a progress entry representation
type ProgressInfo struct {
	ID         uuid.UUID `json:"id"`
	RecordedBy uuid.UUID `json:"recorded_by"`
	Step       string    `json:"step"`
	Percent    int       `json:"percent"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewWorkInfo maps a work aggregate to its service representation
func NewWorkInfo(w *workflow.Work) WorkInfo {
	return WorkInfo{
		ID:          w.ID,
		RequesterID: w.OwnerID,
		AssigneeID:  w.AssigneeID,
		Title:       w.Title,
		Description: w.Description,
		Status:      string(w.Status),
		DueDate:     w.DueDate,
		CompletedAt: w.CompletedAt,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// NewProgressInfo maps a progress entry to its service representation
func NewProgressInfo(e *workflow.ProgressEntry) ProgressInfo {
	return ProgressInfo{
		ID:         e.ID,
		RecordedBy: e.RecordedBy,
		Step:       e.Step,
		Percent:    e.Percent,
		Note:       e.Note,
		CreatedAt:  e.CreatedAt,
	}
}
