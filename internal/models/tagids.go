package models

import (
	"sort"
	"strconv"
	"strings"
)

// EncodeTagIDs joins tag ids the way the backend stores them: "1,2,3"
func EncodeTagIDs(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = strconv.FormatInt(t.ID, 10)
	}
	return strings.Join(parts, ",")
}

// DecodeTagIDs splits a comma-joined id string. Blank and non-numeric parts
// are skipped.
func DecodeTagIDs(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Catalog is the id lookup built from the fetched tag list
type Catalog struct {
	byID map[int64]Tag
	tags []Tag
}

// NewCatalog builds a catalog. A repeated id keeps the last name seen.
func NewCatalog(tags []Tag) Catalog {
	byID := make(map[int64]Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	sorted := make([]Tag, 0, len(byID))
	for _, t := range byID {
		sorted = append(sorted, t)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	return Catalog{byID: byID, tags: sorted}
}

// Tags returns the catalog ordered by id
func (c Catalog) Tags() []Tag {
	return c.tags
}

// Len returns the number of distinct tags
func (c Catalog) Len() int {
	return len(c.tags)
}

// Lookup finds a tag by id
func (c Catalog) Lookup(id int64) (Tag, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Resolve turns a stored id string into tags. Ids missing from the catalog
// and repeats are dropped, and at most MaxTags tags are kept.
func (c Catalog) Resolve(raw string) []Tag {
	tags := []Tag{}
	seen := make(map[int64]bool)
	for _, id := range DecodeTagIDs(raw) {
		if seen[id] {
			continue
		}
		t, ok := c.byID[id]
		if !ok {
			continue
		}
		seen[id] = true
		tags = append(tags, t)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}
