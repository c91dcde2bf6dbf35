package workflow

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkService handles staff-assigned work items and their progress tracking
type WorkService struct {
	workRepo workflow.Repository
	logger   *zap.Logger
}

// NewWorkService creates a new work service
func NewWorkService(workRepo workflow.Repository, logger *zap.Logger) *WorkService {
	return &WorkService{workRepo: workRepo, logger: logger}
}

// Create assigns a new work item (staff only)
func (s *WorkService) Create(ctx context.Context, input CreateWorkInput) (*WorkInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	work, err := workflow.NewWork(input.Actor.UserID, input.AssigneeID, input.Title, input.Description, input.DueDate)
	if err != nil {
		return nil, err
	}
	if err := s.workRepo.Save(ctx, work); err != nil {
		s.logger.Error("Failed to save work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create work")
	}

	s.logger.Info("Work assigned",
		zap.String("work_id", work.ID.String()),
		zap.String("assignee_id", work.AssigneeID.String()))

	info := NewWorkInfo(work)
	return &info, nil
}

// Get returns a work item visible to the requester, assignee or staff
func (s *WorkService) Get(ctx context.Context, workID uuid.UUID, actor Actor) (*WorkInfo, error) {
	work, err := s.loadVisible(ctx, workID, actor)
	if err != nil {
		return nil, err
	}
	info := NewWorkInfo(work)
	return &info, nil
}

// ListRequested returns works the user requested
func (s *WorkService) ListRequested(ctx context.Context, input ListWorksInput) (*shared.Paginated[WorkInfo], error) {
	works, err := s.workRepo.FindAllForOwner(ctx, input.Actor.UserID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list works", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list works")
	}
	total, err := s.workRepo.CountForOwner(ctx, input.Actor.UserID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to count works", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list works")
	}
	result := shared.NewPaginated(mapWorks(works), total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// ListAssigned returns works assigned to the user
func (s *WorkService) ListAssigned(ctx context.Context, input ListWorksInput) (*shared.Paginated[WorkInfo], error) {
	works, total, err := s.workRepo.FindForAssignee(ctx, input.Actor.UserID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list works", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list works")
	}
	result := shared.NewPaginated(mapWorks(works), total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// ListAll returns every work item (staff only)
func (s *WorkService) ListAll(ctx context.Context, input ListWorksInput) (*shared.Paginated[WorkInfo], error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	works, err := s.workRepo.FindAll(ctx, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list works", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list works")
	}
	total, err := s.workRepo.Count(ctx, input.Filter)
	if err != nil {
		s.logger.Error("Failed to count works", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list works")
	}
	result := shared.NewPaginated(mapWorks(works), total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// ChangeStatus applies a work status transition. Only the assignee or
// staff may move the work.
func (s *WorkService) ChangeStatus(ctx context.Context, input ChangeStatusInput) (*WorkInfo, error) {
	work, err := s.loadVisible(ctx, input.WorkID, input.Actor)
	if err != nil {
		return nil, err
	}
	if !input.Actor.Staff && work.AssigneeID != input.Actor.UserID {
		return nil, shared.ErrForbidden
	}
	if err := work.ChangeStatus(workflow.WorkStatus(input.Status)); err != nil {
		return nil, err
	}
	if err := s.workRepo.Save(ctx, work); err != nil {
		s.logger.Error("Failed to save work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update work")
	}

	s.logger.Info("Work status changed",
		zap.String("work_id", work.ID.String()),
		zap.String("status", string(work.Status)))

	info := NewWorkInfo(work)
	return &info, nil
}

// RecordProgress appends a progress entry. Only the assignee or staff may
// record progress.
func (s *WorkService) RecordProgress(ctx context.Context, input RecordProgressInput) (*WorkInfo, error) {
	work, err := s.loadVisible(ctx, input.WorkID, input.Actor)
	if err != nil {
		return nil, err
	}
	if !input.Actor.Staff && work.AssigneeID != input.Actor.UserID {
		return nil, shared.ErrForbidden
	}
	if _, err := work.RecordProgress(input.Actor.UserID, input.Step, input.Percent, input.Note); err != nil {
		return nil, err
	}
	if err := s.workRepo.Save(ctx, work); err != nil {
		s.logger.Error("Failed to save work", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record progress")
	}
	info := NewWorkInfo(work)
	return &info, nil
}

// ListProgress returns the progress history of a work item, oldest first
func (s *WorkService) ListProgress(ctx context.Context, workID uuid.UUID, actor Actor) ([]ProgressInfo, error) {
	if _, err := s.loadVisible(ctx, workID, actor); err != nil {
		return nil, err
	}
	entries, err := s.workRepo.FindProgress(ctx, workID)
	if err != nil {
		s.logger.Error("Failed to list progress", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list progress")
	}

	items := make([]ProgressInfo, 0, len(entries))
	for i := range entries {
		items = append(items, NewProgressInfo(&entries[i]))
	}
	return items, nil
}

// Delete removes a work item (requester or staff)
func (s *WorkService) Delete(ctx context.Context, workID uuid.UUID, actor Actor) error {
	work, err := s.loadVisible(ctx, workID, actor)
	if err != nil {
		return err
	}
	if !actor.Staff && !work.IsOwnedBy(actor.UserID) {
		return shared.ErrForbidden
	}
	if err := s.workRepo.Delete(ctx, workID); err != nil {
		s.logger.Error("Failed to delete work", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete work")
	}
	return nil
}

// loadVisible loads a work and hides it from users who are neither the
// requester nor the assignee.
func (s *WorkService) loadVisible(ctx context.Context, workID uuid.UUID, actor Actor) (*workflow.Work, error) {
	work, err := s.workRepo.FindByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && !work.IsOwnedBy(actor.UserID) && work.AssigneeID != actor.UserID {
		return nil, shared.ErrNotFound
	}
	return work, nil
}

func mapWorks(works []workflow.Work) []WorkInfo {
	items := make([]WorkInfo, 0, len(works))
	for i := range works {
		items = append(items, NewWorkInfo(&works[i]))
	}
	return items
}
