// Package board holds the task board's client-side state: the resolved task
// list, the tag catalog and the data version that drives reloads.
//
// Tag drops and removals are applied locally before the backend confirms
// them. A failed write is only logged; local state converges to the
// server's on the next reload.
package board

import (
	"slices"

	"github.com/tgienger/tagboard/internal/models"
)

// Snapshot is one complete load of the backend.
type Snapshot struct {
	Version uint64
	Tags    []models.Tag
	Tasks   []models.Task
}

// Update is a task's new tag assignment, ready to be sent.
type Update struct {
	TaskID int64
	Tags   []models.Tag
}

// Encoded returns the id string the backend stores ("1,2").
func (u Update) Encoded() string {
	return models.EncodeTagIDs(u.Tags)
}

// Board is the locally cached copy of the backend. It is not safe for
// concurrent use; the UI mutates it from its update loop only.
type Board struct {
	tasks   []models.Task
	catalog models.Catalog

	version uint64 // bumped by every mutating action
	applied uint64 // version of the last snapshot committed
	loaded  bool
}

// New returns an empty board at version 0.
func New() *Board {
	return &Board{catalog: models.NewCatalog(nil)}
}

// Version is the current data version. Loads are tagged with it.
func (b *Board) Version() uint64 {
	return b.version
}

// Bump records a mutation and returns the version the next load should use.
func (b *Board) Bump() uint64 {
	b.version++
	return b.version
}

// Loaded reports whether any snapshot has been committed.
func (b *Board) Loaded() bool {
	return b.loaded
}

// Apply commits a snapshot. Snapshots older than the last one committed are
// ignored and Apply returns false.
func (b *Board) Apply(s Snapshot) bool {
	if b.loaded && s.Version < b.applied {
		return false
	}
	b.catalog = models.NewCatalog(s.Tags)
	b.tasks = slices.Clone(s.Tasks)
	b.applied = s.Version
	b.loaded = true
	return true
}

// Tasks returns the task list in backend order.
func (b *Board) Tasks() []models.Task {
	return b.tasks
}

// Tags returns the tag catalog ordered by id.
func (b *Board) Tags() []models.Tag {
	return b.catalog.Tags()
}

// Task finds a task by id.
func (b *Board) Task(id int64) (models.Task, bool) {
	i := b.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return b.tasks[i], true
}

// DropTag appends tag to a task. It returns false, changing nothing, when the
// task is unknown, already carries the tag, or is full.
func (b *Board) DropTag(taskID int64, tag models.Tag) (Update, bool) {
	i := b.indexOf(taskID)
	if i < 0 {
		return Update{}, false
	}
	task := b.tasks[i]
	if !task.CanTakeTag(tag.ID) {
		return Update{}, false
	}

	tags := make([]models.Tag, 0, len(task.Tags)+1)
	tags = append(tags, task.Tags...)
	tags = append(tags, tag)
	b.replace(i, task.WithTags(tags))
	return Update{TaskID: taskID, Tags: tags}, true
}

// RemoveTag drops a tag from a task. It returns false when the task is
// unknown or does not carry the tag.
func (b *Board) RemoveTag(taskID, tagID int64) (Update, bool) {
	i := b.indexOf(taskID)
	if i < 0 {
		return Update{}, false
	}
	task := b.tasks[i]
	if !task.HasTag(tagID) {
		return Update{}, false
	}

	tags := make([]models.Tag, 0, len(task.Tags))
	for _, t := range task.Tags {
		if t.ID != tagID {
			tags = append(tags, t)
		}
	}
	b.replace(i, task.WithTags(tags))
	return Update{TaskID: taskID, Tags: tags}, true
}

// replace swaps in a new task value without touching slices shared with
// earlier snapshots.
func (b *Board) replace(i int, task models.Task) {
	tasks := slices.Clone(b.tasks)
	tasks[i] = task
	b.tasks = tasks
}

func (b *Board) indexOf(id int64) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
