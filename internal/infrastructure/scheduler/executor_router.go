package scheduler

import (
	"context"
	"fmt"
)

// ExecutorRouter dispatches jobs to the executor registered for their type.
// The scheduler itself runs a single JobExecutor, the router lets each
// application package contribute its own.
type ExecutorRouter struct {
	executors map[JobType]JobExecutor
}

// NewExecutorRouter creates an empty router
func NewExecutorRouter() *ExecutorRouter {
	return &ExecutorRouter{executors: make(map[JobType]JobExecutor)}
}

// Register binds an executor to a job type. Registration happens during
// startup, before the scheduler runs, so no locking is needed.
func (r *ExecutorRouter) Register(jobType JobType, executor JobExecutor) {
	r.executors[jobType] = executor
}

// Execute implements JobExecutor
func (r *ExecutorRouter) Execute(ctx context.Context, job *Job) error {
	executor, ok := r.executors[job.JobType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.JobType)
	}
	return executor.Execute(ctx, job)
}
