package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tgienger/tagboard/internal/api"
	"github.com/tgienger/tagboard/internal/models"
)

// ErrEmptyName is returned when a task or tag name is blank. No request is
// made in that case.
var ErrEmptyName = errors.New("board: name is empty")

// Backend is the subset of the REST API the board needs.
type Backend interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListTasks(ctx context.Context) ([]api.TaskRecord, error)
	CreateTask(ctx context.Context, name, additionalData string) error
	CreateTag(ctx context.Context, name string) error
	DeleteTask(ctx context.Context, id int64) error
	DeleteTag(ctx context.Context, id int64) error
	UpdateTaskTags(ctx context.Context, id int64, tagIDs string) error
}

// Sync performs the board's backend calls. Every failure is logged here so
// callers can fire and forget.
type Sync struct {
	backend Backend
	log     *slog.Logger
}

// NewSync wraps a backend. A nil logger uses slog.Default().
func NewSync(backend Backend, log *slog.Logger) *Sync {
	if log == nil {
		log = slog.Default()
	}
	return &Sync{backend: backend, log: log}
}

// Load fetches tags, then tasks, and resolves each task's tag ids against
// the freshly fetched catalog.
func (s *Sync) Load(ctx context.Context, version uint64) (Snapshot, error) {
	tags, err := s.backend.ListTags(ctx)
	if err != nil {
		return Snapshot{}, s.fail("fetch tags", fmt.Errorf("fetch tags: %w", err))
	}
	catalog := models.NewCatalog(tags)

	records, err := s.backend.ListTasks(ctx)
	if err != nil {
		return Snapshot{}, s.fail("fetch tasks", fmt.Errorf("fetch tasks: %w", err))
	}

	tasks := make([]models.Task, len(records))
	for i, rec := range records {
		tasks[i] = models.Task{
			ID:             rec.ID,
			Name:           rec.Name,
			AdditionalData: rec.AdditionalData,
			Tags:           catalog.Resolve(string(rec.Tags)),
		}
	}

	s.log.Debug("board loaded",
		slog.Uint64("version", version),
		slog.Int("tags", catalog.Len()),
		slog.Int("tasks", len(tasks)),
	)
	return Snapshot{Version: version, Tags: catalog.Tags(), Tasks: tasks}, nil
}

// AddTask creates a task with no tags.
func (s *Sync) AddTask(ctx context.Context, name, additionalData string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := s.backend.CreateTask(ctx, name, additionalData); err != nil {
		return s.fail("add task", err, slog.String("name", name))
	}
	return nil
}

// AddTag creates a tag. Names are not checked for uniqueness.
func (s *Sync) AddTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := s.backend.CreateTag(ctx, name); err != nil {
		return s.fail("add tag", err, slog.String("name", name))
	}
	return nil
}

// DeleteTask removes a task.
func (s *Sync) DeleteTask(ctx context.Context, id int64) error {
	if err := s.backend.DeleteTask(ctx, id); err != nil {
		return s.fail("delete task", err, slog.Int64("task_id", id))
	}
	return nil
}

// DeleteTag removes a tag from the catalog. Tasks still referencing it drop
// it on the next load.
func (s *Sync) DeleteTag(ctx context.Context, id int64) error {
	if err := s.backend.DeleteTag(ctx, id); err != nil {
		return s.fail("delete tag", err, slog.Int64("tag_id", id))
	}
	return nil
}

// PushTags sends a task's full tag list. The caller has already applied it
// locally and does not roll back on error.
func (s *Sync) PushTags(ctx context.Context, u Update) error {
	if err := s.backend.UpdateTaskTags(ctx, u.TaskID, u.Encoded()); err != nil {
		return s.fail("update task tags", err,
			slog.Int64("task_id", u.TaskID),
			slog.String("tags", u.Encoded()),
		)
	}
	return nil
}

func (s *Sync) fail(op string, err error, attrs ...any) error {
	args := append([]any{slog.String("op", op), slog.Any("error", err)}, attrs...)
	s.log.Error("backend call failed", args...)
	return err
}
