package board

import (
	"reflect"
	"testing"

	"github.com/tgienger/tagboard/internal/models"
)

var (
	urgent = models.Tag{ID: 1, Name: "urgent"}
	home   = models.Tag{ID: 2, Name: "home"}
	work   = models.Tag{ID: 3, Name: "work"}
	later  = models.Tag{ID: 4, Name: "later"}
)

func loadedBoard(tasks ...models.Task) *Board {
	b := New()
	b.Apply(Snapshot{Tags: []models.Tag{urgent, home, work, later}, Tasks: tasks})
	return b
}

func TestDropTagAppendsAndEncodes(t *testing.T) {
	b := loadedBoard(models.Task{ID: 5, Name: "Buy milk", Tags: []models.Tag{urgent}})

	upd, ok := b.DropTag(5, home)
	if !ok {
		t.Fatal("expected drop to apply")
	}
	if upd.TaskID != 5 || upd.Encoded() != "1,2" {
		t.Fatalf("unexpected update: %+v (%s)", upd, upd.Encoded())
	}
	task, _ := b.Task(5)
	if !reflect.DeepEqual(task.Tags, []models.Tag{urgent, home}) {
		t.Fatalf("unexpected local tags: %v", task.Tags)
	}
}

func TestDropDuplicateIsNoop(t *testing.T) {
	b := loadedBoard(models.Task{ID: 5, Tags: []models.Tag{urgent}})
	if _, ok := b.DropTag(5, urgent); ok {
		t.Fatal("duplicate drop must be a no-op")
	}
	task, _ := b.Task(5)
	if len(task.Tags) != 1 {
		t.Fatalf("unexpected tags: %v", task.Tags)
	}
}

func TestDropFourthTagIsNoop(t *testing.T) {
	b := loadedBoard(models.Task{ID: 5, Tags: []models.Tag{urgent, home, work}})
	if _, ok := b.DropTag(5, later); ok {
		t.Fatal("fourth tag must be refused")
	}
	task, _ := b.Task(5)
	if len(task.Tags) != models.MaxTags {
		t.Fatalf("unexpected tags: %v", task.Tags)
	}
}

func TestDropOnUnknownTaskIsNoop(t *testing.T) {
	b := loadedBoard()
	if _, ok := b.DropTag(99, urgent); ok {
		t.Fatal("unknown task must be a no-op")
	}
}

func TestRemoveTag(t *testing.T) {
	b := loadedBoard(models.Task{ID: 5, Tags: []models.Tag{urgent, home}})

	upd, ok := b.RemoveTag(5, 1)
	if !ok {
		t.Fatal("expected removal")
	}
	if upd.Encoded() != "2" {
		t.Fatalf("unexpected encoded tags: %q", upd.Encoded())
	}
	task, _ := b.Task(5)
	if !reflect.DeepEqual(task.Tags, []models.Tag{home}) {
		t.Fatalf("unexpected local tags: %v", task.Tags)
	}

	if _, ok := b.RemoveTag(5, 1); ok {
		t.Fatal("removing an absent tag must be a no-op")
	}
	if _, ok := b.RemoveTag(6, 2); ok {
		t.Fatal("unknown task must be a no-op")
	}
}

func TestRemoveLastTagEncodesEmpty(t *testing.T) {
	b := loadedBoard(models.Task{ID: 5, Tags: []models.Tag{home}})
	upd, ok := b.RemoveTag(5, 2)
	if !ok || upd.Encoded() != "" || len(upd.Tags) != 0 {
		t.Fatalf("unexpected update: %+v", upd)
	}
}

func TestOptimisticEditDoesNotLeakIntoSnapshot(t *testing.T) {
	snapTasks := []models.Task{{ID: 5, Tags: []models.Tag{urgent}}}
	b := New()
	b.Apply(Snapshot{Tags: []models.Tag{urgent, home}, Tasks: snapTasks})

	b.DropTag(5, home)
	if len(snapTasks[0].Tags) != 1 {
		t.Fatalf("snapshot mutated: %v", snapTasks[0].Tags)
	}
}

func TestApplyIgnoresStaleSnapshots(t *testing.T) {
	b := New()
	v1 := b.Bump()
	v2 := b.Bump()

	if !b.Apply(Snapshot{Version: v2, Tags: []models.Tag{home}}) {
		t.Fatal("expected newest snapshot to apply")
	}
	if b.Apply(Snapshot{Version: v1, Tags: []models.Tag{urgent}}) {
		t.Fatal("expected stale snapshot to be ignored")
	}
	if !reflect.DeepEqual(b.Tags(), []models.Tag{home}) {
		t.Fatalf("stale snapshot overwrote state: %v", b.Tags())
	}
}

func TestVersionBumps(t *testing.T) {
	b := New()
	if b.Version() != 0 || b.Loaded() {
		t.Fatalf("unexpected initial state: %d %v", b.Version(), b.Loaded())
	}
	if b.Bump() != 1 || b.Bump() != 2 || b.Version() != 2 {
		t.Fatalf("unexpected version after bumps: %d", b.Version())
	}
}

func TestInvariantsHoldUnderDrops(t *testing.T) {
	b := loadedBoard(models.Task{ID: 1}, models.Task{ID: 2, Tags: []models.Tag{work}})
	all := []models.Tag{urgent, home, work, later, urgent, work}
	for _, task := range []int64{1, 2} {
		for _, tag := range all {
			b.DropTag(task, tag)
		}
	}

	for _, task := range b.Tasks() {
		if len(task.Tags) > models.MaxTags {
			t.Fatalf("task %d has %d tags", task.ID, len(task.Tags))
		}
		seen := map[int64]bool{}
		for _, tag := range task.Tags {
			if seen[tag.ID] {
				t.Fatalf("task %d has duplicate tag %d", task.ID, tag.ID)
			}
			seen[tag.ID] = true
		}
	}
}
