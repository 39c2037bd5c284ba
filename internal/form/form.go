// Package form holds uncommitted task input until it is submitted.
package form

import (
	"context"

	"taskgrid/internal/logger"
	"taskgrid/internal/task"
)

// Creator is the write side of the task store.
type Creator interface {
	Create(ctx context.Context, title, description string) task.Task
}

// Form keeps the two draft fields. Blank drafts are submitted as is.
type Form struct {
	Title       string
	Description string

	creator Creator
}

func New(c Creator) *Form {
	return &Form{creator: c}
}

func (f *Form) SetTitle(v string)       { f.Title = v }
func (f *Form) SetDescription(v string) { f.Description = v }

// Submit hands the drafts to the creator once and clears both fields.
func (f *Form) Submit(ctx context.Context) task.Task {
	log := logger.FromContext(ctx).With("where", "form")
	t := f.creator.Create(ctx, f.Title, f.Description)
	log.Debug("form: submitted", "id", t.ID)
	f.Title = ""
	f.Description = ""
	return t
}
