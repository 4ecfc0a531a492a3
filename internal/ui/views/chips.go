package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tagboard/internal/models"
	"github.com/tgienger/tagboard/internal/ui/styles"
)

// DragPayload is what a grabbed tag chip carries to its drop target
type DragPayload struct {
	ID   int64
	Name string
}

// Tag converts the payload back into a tag
func (p DragPayload) Tag() models.Tag {
	return models.Tag{ID: p.ID, Name: p.Name}
}

// chipState selects how a chip is drawn
type chipState int

const (
	chipNormal chipState = iota
	chipSelected
	chipDragging
)

// TagChip is a draggable tag. OnRemove is the handler for the remove
// gesture; palette chips leave it nil.
type TagChip struct {
	Tag      models.Tag
	OnRemove func(tagID int64) tea.Cmd
}

// Payload returns the drag payload for the chip
func (c TagChip) Payload() DragPayload {
	return DragPayload{ID: c.Tag.ID, Name: c.Tag.Name}
}

// Remove invokes the remove handler with the chip's tag id
func (c TagChip) Remove() tea.Cmd {
	if c.OnRemove == nil {
		return nil
	}
	return c.OnRemove(c.Tag.ID)
}

func (c TagChip) render(s *styles.Styles, state chipState) string {
	switch state {
	case chipSelected:
		return s.TagSelected.Render(c.Tag.Name)
	case chipDragging:
		return s.TagDragging.Render(c.Tag.Name)
	default:
		return s.Tag.Render(c.Tag.Name)
	}
}

// TaskCard renders a task and is the drop target for tag chips. It does no
// validation of its own; every gesture goes to the caller's handlers.
type TaskCard struct {
	Task   models.Task
	Active bool

	OnDrop      func(taskID int64, tag models.Tag) tea.Cmd
	OnRemoveTag func(taskID, tagID int64) tea.Cmd
	OnDelete    func(taskID int64) tea.Cmd
	OnToggle    func(taskID int64, active bool) tea.Cmd
}

// Drop hands a payload to the drop handler
func (c TaskCard) Drop(p DragPayload) tea.Cmd {
	if c.OnDrop == nil {
		return nil
	}
	return c.OnDrop(c.Task.ID, p.Tag())
}

// Chips returns the assigned tags as chips whose remove gesture targets this task
func (c TaskCard) Chips() []TagChip {
	chips := make([]TagChip, len(c.Task.Tags))
	for i, tag := range c.Task.Tags {
		chips[i] = TagChip{
			Tag: tag,
			OnRemove: func(tagID int64) tea.Cmd {
				if c.OnRemoveTag == nil {
					return nil
				}
				return c.OnRemoveTag(c.Task.ID, tagID)
			},
		}
	}
	return chips
}

// Delete invokes the delete handler
func (c TaskCard) Delete() tea.Cmd {
	if c.OnDelete == nil {
		return nil
	}
	return c.OnDelete(c.Task.ID)
}

// Toggle asks the handler to flip the active flag
func (c TaskCard) Toggle() tea.Cmd {
	if c.OnToggle == nil {
		return nil
	}
	return c.OnToggle(c.Task.ID, !c.Active)
}

// ToggleLabel is the toggle button's text
func (c TaskCard) ToggleLabel() string {
	if c.Active {
		return "Stop"
	}
	return "Active"
}

type cardOptions struct {
	width        int
	focused      bool
	dropTarget   bool
	selectedChip int
}

func (c TaskCard) render(s *styles.Styles, opts cardOptions) string {
	var chips []string
	for i, chip := range c.Chips() {
		state := chipNormal
		if opts.focused && i == opts.selectedChip {
			state = chipSelected
		}
		chips = append(chips, chip.render(s, state))
	}
	tagsLine := s.TitleMuted.Render("no tags")
	if len(chips) > 0 {
		tagsLine = strings.Join(chips, "")
	}

	toggle := s.Button
	if c.Active {
		toggle = s.ButtonFocused
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		toggle.Render(c.ToggleLabel()),
		" ",
		s.Button.Render("Delete"),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Name: ")+c.Task.Name,
		s.TitleMuted.Render("Tags: ")+tagsLine,
		s.TitleMuted.Render("Additional Data: ")+c.Task.AdditionalData,
		buttons,
	)

	frame := s.Card
	switch {
	case opts.dropTarget:
		frame = s.CardTarget
	case opts.focused:
		frame = s.CardFocus
	}
	return frame.Width(max(opts.width-2, 20)).Render(body)
}
