package persistence

import (
	"context"
	"errors"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkRepository implements workflow.Repository using GORM
type GormWorkRepository struct {
	db *gorm.DB
}

// NewGormWorkRepository creates a new GormWorkRepository
func NewGormWorkRepository(db *gorm.DB) *GormWorkRepository {
	return &GormWorkRepository{db: db}
}

// Save persists a work and its progress entries
func (r *GormWorkRepository) Save(ctx context.Context, work *workflow.Work) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Progress").Save(work).Error; err != nil {
			return err
		}
		for i := range work.Progress {
			work.Progress[i].WorkID = work.ID
			if err := tx.Save(&work.Progress[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a work with its progress history loaded
func (r *GormWorkRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.Work, error) {
	var work workflow.Work
	if err := r.db.WithContext(ctx).
		Preload("Progress").
		First(&work, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &work, nil
}

// FindAll returns works matching the filter (staff view)
func (r *GormWorkRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workflow.Work, error) {
	var works []workflow.Work
	query := r.applyFilter(r.db.WithContext(ctx).Model(&workflow.Work{}), filter)
	query = applySort(query, filter, WorkSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&works).Error; err != nil {
		return nil, err
	}
	return works, nil
}

// FindAllForOwner returns works requested by the user
func (r *GormWorkRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]workflow.Work, error) {
	var works []workflow.Work
	query := r.applyFilter(r.db.WithContext(ctx).Model(&workflow.Work{}), filter).
		Where("owner_id = ?", ownerID)
	query = applySort(query, filter, WorkSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&works).Error; err != nil {
		return nil, err
	}
	return works, nil
}

// Count returns the number of works matching the filter
func (r *GormWorkRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&workflow.Work{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOwner returns the number of works requested by the user
func (r *GormWorkRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&workflow.Work{}), filter).
		Where("owner_id = ?", ownerID)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a work and its progress history
func (r *GormWorkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_id = ?", id).Delete(&workflow.ProgressEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&workflow.Work{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindForAssignee returns works assigned to the user
func (r *GormWorkRepository) FindForAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]workflow.Work, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&workflow.Work{}), filter).
		Where("assignee_id = ?", assigneeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var works []workflow.Work
	query = applySort(query, filter, WorkSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&works).Error; err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

// FindProgress returns the progress history for one work, oldest first
func (r *GormWorkRepository) FindProgress(ctx context.Context, workID uuid.UUID) ([]workflow.ProgressEntry, error) {
	var entries []workflow.ProgressEntry
	if err := r.db.WithContext(ctx).
		Where("work_id = ?", workID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// applyFilter applies filter options to the query
func (r *GormWorkRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if status, ok := filter.Filters["status_not"]; ok {
		query = query.Where("status <> ?", status)
	}
	if due, ok := filter.Filters["due_before"]; ok {
		query = query.Where("due_date IS NOT NULL AND due_date <= ?", due)
	}
	return query
}

// Ensure GormWorkRepository implements Repository
var _ workflow.Repository = (*GormWorkRepository)(nil)
