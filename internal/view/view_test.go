package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"taskgrid/internal/task"
	"taskgrid/pkg/cache"
)

func newRenderer(t *testing.T, c *cache.MemoryCache) *Renderer {
	t.Helper()
	r, err := New(c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestList_EmptyShowsOnlyPlaceholder(t *testing.T) {
	r := newRenderer(t, nil)
	got, err := r.List(nil, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	s := string(got)
	if !strings.Contains(s, EmptyText) {
		t.Fatalf("missing placeholder: %q", s)
	}
	if strings.Contains(s, `class="card"`) || strings.Contains(s, `class="grid"`) {
		t.Fatalf("empty list rendered items: %q", s)
	}
}

func TestList_RendersItemsInOrder(t *testing.T) {
	r := newRenderer(t, nil)
	got, err := r.List(task.Seed(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	s := string(got)
	if strings.Contains(s, EmptyText) {
		t.Fatalf("placeholder shown with tasks")
	}
	if n := strings.Count(s, `class="card"`); n != 3 {
		t.Fatalf("rendered %d cards, want 3", n)
	}
	i0 := strings.Index(s, `data-key="0"`)
	i1 := strings.Index(s, `data-key="1"`)
	i2 := strings.Index(s, `data-key="2"`)
	if i0 < 0 || i0 > i1 || i1 > i2 {
		t.Fatalf("cards out of order: %d %d %d", i0, i1, i2)
	}
	if !strings.Contains(s, `action="/tasks/1/delete"`) {
		t.Fatalf("missing delete control: %q", s)
	}
}

func TestList_EscapesText(t *testing.T) {
	r := newRenderer(t, nil)
	got, err := r.List([]task.Task{{ID: 0, Title: "<script>x</script>", Description: "a & b"}}, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	s := string(got)
	if strings.Contains(s, "<script>") {
		t.Fatalf("title not escaped: %q", s)
	}
	if !strings.Contains(s, "&lt;script&gt;x&lt;/script&gt;") || !strings.Contains(s, "a &amp; b") {
		t.Fatalf("unexpected escaping: %q", s)
	}
}

func TestList_CachedByRevision(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	r := newRenderer(t, c)
	if _, err := r.List(task.Seed(), 7); err != nil {
		t.Fatalf("List: %v", err)
	}
	// same revision hits the cache even if the caller passes other tasks
	got, _ := r.List(nil, 7)
	if strings.Contains(string(got), EmptyText) {
		t.Fatalf("expected cached fragment for rev 7")
	}
	_ = r.Invalidate(nil)
	if _, ok := c.Get("list:7"); ok {
		t.Fatalf("Invalidate left the rev 7 fragment")
	}
	got, _ = r.List(nil, 7)
	if !strings.Contains(string(got), EmptyText) {
		t.Fatalf("expected fresh render after Invalidate")
	}
}

func TestPage_ContainsFormAndList(t *testing.T) {
	r := newRenderer(t, nil)
	var buf bytes.Buffer
	if err := r.Page(&buf, FormData{}, task.Seed(), 1); err != nil {
		t.Fatalf("Page: %v", err)
	}
	s := buf.String()
	fi := strings.Index(s, `action="/tasks"`)
	li := strings.Index(s, `class="grid"`)
	if fi < 0 || li < 0 || fi > li {
		t.Fatalf("form should precede list: form=%d list=%d", fi, li)
	}
	if !strings.Contains(s, `name="title" placeholder="Write your task" value=""`) {
		t.Fatalf("title field not empty: %q", s)
	}
}

func TestList_CollidingIDsStayValid(t *testing.T) {
	r := newRenderer(t, nil)
	tasks := []task.Task{{ID: 0}, {ID: 2, Title: "seed"}, {ID: 2, Title: "new"}}
	got, err := r.List(tasks, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	s := string(got)
	if n := strings.Count(s, `data-key="2"`); n != 2 {
		t.Fatalf("data-key=2 appears %d times, want 2", n)
	}
	if strings.Contains(s, ` id="`) {
		t.Fatalf("cards must not carry element ids: %q", s)
	}
}
