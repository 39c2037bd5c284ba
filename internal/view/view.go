// Package view renders the task page: the form followed by the task grid.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"taskgrid/internal/task"
	"taskgrid/pkg/cache"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmptyText is shown instead of the grid when there are no tasks.
const EmptyText = "No tasks yet"

// FormData is what the form template shows in its fields.
type FormData struct {
	Title       string
	Description string
}

type page struct {
	Form FormData
	List template.HTML
}

type Renderer struct {
	tmpl  *template.Template
	cache *cache.MemoryCache
}

// New parses the embedded templates. c may be nil to disable list caching.
func New(c *cache.MemoryCache) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, cache: c}, nil
}

// List renders the grid fragment for tasks. The result is cached under rev,
// so callers must pass the revision the tasks were read at.
func (r *Renderer) List(tasks []task.Task, rev uint64) (template.HTML, error) {
	key := "list:" + strconv.FormatUint(rev, 10)
	if r.cache != nil {
		if s, ok := r.cache.Get(key); ok {
			return template.HTML(s), nil
		}
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "list", tasks); err != nil {
		return "", fmt.Errorf("view: render list: %w", err)
	}
	if r.cache != nil {
		r.cache.Set(key, buf.String())
	}
	return template.HTML(buf.String()), nil
}

// Page writes the full document.
func (r *Renderer) Page(w io.Writer, f FormData, tasks []task.Task, rev uint64) error {
	list, err := r.List(tasks, rev)
	if err != nil {
		return err
	}
	if err := r.tmpl.ExecuteTemplate(w, "page", page{Form: f, List: list}); err != nil {
		return fmt.Errorf("view: render page: %w", err)
	}
	return nil
}

// Invalidate drops cached fragments. It has the mq handler signature so it
// can be subscribed to store change events directly.
func (r *Renderer) Invalidate([]byte) error {
	if r.cache != nil {
		r.cache.Purge()
	}
	return nil
}
