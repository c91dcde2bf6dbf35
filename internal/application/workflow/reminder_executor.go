package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/workflow"
	"github.com/agoramall/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reminderPageSize = 200

// AssigneeNotifier delivers a reminder to a work assignee. The
// notification service implements it.
type AssigneeNotifier interface {
	NotifyUser(ctx context.Context, recipientID uuid.UUID, title, message, link string) error
}

// ReminderExecutor runs the daily work-reminder job: assignees of open
// works due within the reminder horizon get a notification.
type ReminderExecutor struct {
	workRepo workflow.Repository
	notifier AssigneeNotifier
	horizon  time.Duration
	logger   *zap.Logger
}

// NewReminderExecutor creates a new reminder executor
func NewReminderExecutor(workRepo workflow.Repository, notifier AssigneeNotifier, logger *zap.Logger) *ReminderExecutor {
	return &ReminderExecutor{
		workRepo: workRepo,
		notifier: notifier,
		horizon:  24 * time.Hour,
		logger:   logger,
	}
}

// Execute implements scheduler.JobExecutor
func (e *ReminderExecutor) Execute(ctx context.Context, job *scheduler.Job) error {
	if job.JobType != scheduler.JobTypeWorkReminder {
		return scheduler.ErrInvalidJobType
	}

	filter := shared.DefaultFilter()
	filter.PageSize = reminderPageSize
	filter.Filters["status_not"] = string(workflow.WorkStatusCompleted)
	filter.Filters["due_before"] = job.PeriodEnd.Add(e.horizon)

	var reminded int
	for page := 1; ; page++ {
		filter.Page = page
		works, err := e.workRepo.FindAll(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to load due works: %w", err)
		}
		if len(works) == 0 {
			break
		}

		for i := range works {
			work := &works[i]
			message := fmt.Sprintf("'%s' 작업의 마감이 다가옵니다", work.Title)
			if work.DueDate != nil && work.DueDate.Before(job.PeriodEnd) {
				message = fmt.Sprintf("'%s' 작업의 마감일이 지났습니다", work.Title)
			}
			link := fmt.Sprintf("/works/%s", work.ID)
			if err := e.notifier.NotifyUser(ctx, work.AssigneeID, "작업 마감 알림", message, link); err != nil {
				e.logger.Warn("Failed to send work reminder",
					zap.String("work_id", work.ID.String()), zap.Error(err))
				continue
			}
			reminded++
		}

		if len(works) < reminderPageSize {
			break
		}
	}

	e.logger.Info("Work reminders sent",
		zap.Int("count", reminded),
		zap.Time("period_end", job.PeriodEnd))
	return nil
}

// Ensure ReminderExecutor implements scheduler.JobExecutor
var _ scheduler.JobExecutor = (*ReminderExecutor)(nil)
