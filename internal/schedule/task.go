package schedule

import "context"

// Task is one schedulable unit of work. A Run error is reported to the
// scheduler, which logs it and keeps the trigger alive.
type Task interface {
	Run(ctx context.Context) error
	Name() string
}

// TaskFunc adapts a plain function to Task.
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

func (t TaskFunc) Run(ctx context.Context) error {
	return t.Fn(ctx)
}

func (t TaskFunc) Name() string {
	return t.TaskName
}
