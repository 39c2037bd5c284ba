package store

import (
	"context"
	"encoding/json"
	"sync"

	"taskgrid/internal/logger"
	"taskgrid/internal/task"
	"taskgrid/pkg/mq"
)

// TopicChanged carries a JSON ChangeEvent after every mutation.
const TopicChanged = "tasks.changed"

const (
	OpInitialize = "initialize"
	OpCreate     = "create"
	OpDelete     = "delete"
)

type ChangeEvent struct {
	Op       string `json:"op"`
	ID       int    `json:"id"`
	Revision uint64 `json:"revision"`
	Count    int    `json:"count"`
}

// Store is the in-memory task collection. Insertion order is display order.
type Store struct {
	mu    sync.RWMutex
	tasks []task.Task
	rev   uint64
	seed  []task.Task
	pub   mq.Publisher
}

type Option func(*Store)

// WithPublisher sets where change events go. Defaults to mq.Noop.
func WithPublisher(p mq.Publisher) Option {
	return func(s *Store) {
		if p != nil {
			s.pub = p
		}
	}
}

// WithSeed overrides the collection Initialize loads.
func WithSeed(seed []task.Task) Option {
	return func(s *Store) {
		s.seed = make([]task.Task, len(seed))
		copy(s.seed, seed)
	}
}

// New returns an empty store. Call Initialize to load the seed.
func New(opts ...Option) *Store {
	s := &Store{
		tasks: []task.Task{},
		seed:  task.Seed(),
		pub:   mq.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize replaces the collection with the seed.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.tasks = make([]task.Task, len(s.seed))
	copy(s.tasks, s.seed)
	s.rev++
	ev := ChangeEvent{Op: OpInitialize, ID: -1, Revision: s.rev, Count: len(s.tasks)}
	s.mu.Unlock()

	logger.FromContext(ctx).With("where", "store").Debug("store: initialized from seed", "count", ev.Count)
	s.publish(ctx, ev)
}

// Create appends a task whose id is the collection length at insertion
// time. After a delete this can repeat an id that is still in use.
func (s *Store) Create(ctx context.Context, title, description string) task.Task {
	s.mu.Lock()
	t := task.Task{ID: len(s.tasks), Title: title, Description: description}
	s.tasks = append(s.tasks, t)
	s.rev++
	ev := ChangeEvent{Op: OpCreate, ID: t.ID, Revision: s.rev, Count: len(s.tasks)}
	s.mu.Unlock()

	logger.FromContext(ctx).With("where", "store").Debug("store: task created", "id", t.ID)
	s.publish(ctx, ev)
	return t
}

// Delete removes every task with the given id and reports how many went.
// An unknown id is a no-op and emits no event.
func (s *Store) Delete(ctx context.Context, id int) int {
	s.mu.Lock()
	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	s.tasks = kept
	s.rev++
	ev := ChangeEvent{Op: OpDelete, ID: id, Revision: s.rev, Count: len(s.tasks)}
	s.mu.Unlock()

	logger.FromContext(ctx).With("where", "store").Debug("store: task deleted", "id", id, "removed", removed)
	s.publish(ctx, ev)
	return removed
}

// List returns a copy of the collection.
func (s *Store) List(ctx context.Context) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Snapshot returns the collection together with the revision it belongs to.
func (s *Store) Snapshot(ctx context.Context) ([]task.Task, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, s.rev
}

// ---- helpers ----
func (s *Store) publish(ctx context.Context, ev ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.FromContext(ctx).Error("store: encode change event", "error", err)
		return
	}
	if err := s.pub.Publish(TopicChanged, payload); err != nil {
		logger.FromContext(ctx).Warn("store: change subscriber failed", "op", ev.Op, "error", err)
	}
}

// DecodeEvent parses a TopicChanged payload.
func DecodeEvent(payload []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	err := json.Unmarshal(payload, &ev)
	return ev, err
}
