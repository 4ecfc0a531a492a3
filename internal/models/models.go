package models

// MaxTags is the most tags a task can carry
const MaxTags = 3

// Tag represents a label that can be applied to tasks
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Task represents a single task with its resolved tags
type Task struct {
	ID             int64
	Name           string
	AdditionalData string
	Tags           []Tag // resolved against the tag catalog when loading tasks
}

// HasTag reports whether the task already carries the tag
func (t Task) HasTag(tagID int64) bool {
	for _, tag := range t.Tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}

// CanTakeTag reports whether tag can be appended without breaking the
// uniqueness and MaxTags limits
func (t Task) CanTakeTag(tagID int64) bool {
	return !t.HasTag(tagID) && len(t.Tags) < MaxTags
}

// WithTags returns a copy of the task holding tags
func (t Task) WithTags(tags []Tag) Task {
	t.Tags = tags
	return t
}
