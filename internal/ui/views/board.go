package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tagboard/internal/board"
	"github.com/tgienger/tagboard/internal/models"
	"github.com/tgienger/tagboard/internal/ui/keys"
	"github.com/tgienger/tagboard/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FlagStore keeps the per-task "active" flag on this machine
type FlagStore interface {
	ActiveTasks(taskIDs []int64) (map[int64]bool, error)
	SetTaskActive(taskID int64, active bool) error
}

// Pane represents which part of the board has focus
type Pane int

const (
	PaneTaskForm Pane = iota
	PaneTagForm
	PaneTasks
	PanePalette
	PaneCatalog
	paneCount
)

// card height including border, used for scrolling
const cardHeight = 6

type boardLoadedMsg struct {
	snapshot board.Snapshot
}

type boardLoadFailedMsg struct {
	version uint64
	err     error
}

type mutationDoneMsg struct {
	op  string
	err error
}

type tagsPushedMsg struct {
	update board.Update
	err    error
}

// BoardView is the task board: task cards, the tag palette and tag management
type BoardView struct {
	board  *board.Board
	sync   *board.Sync
	flags  FlagStore
	themes *styles.Store
	keys   keys.KeyMap
	help   help.Model
	log    *slog.Logger

	width  int
	height int

	// UI state
	pane          Pane
	taskCursor    int
	chipCursor    int // selected chip on the focused card, -1 for none
	paletteCursor int
	catalogCursor int
	scrollY       int
	drag          *DragPayload
	active        map[int64]bool
	showHelpPopup bool

	// Pending input
	taskName    textinput.Model
	taskData    textinput.Model
	tagName     textinput.Model
	taskFormIdx int // 0=name, 1=additional data
}

// NewBoardView creates the board. flags may be nil, in which case active
// flags only live in memory.
func NewBoardView(sync *board.Sync, flags FlagStore, themes *styles.Store, log *slog.Logger) *BoardView {
	if log == nil {
		log = slog.Default()
	}

	taskName := textinput.New()
	taskName.Placeholder = "Task name"
	taskName.CharLimit = 200

	taskData := textinput.New()
	taskData.Placeholder = "Additional data"
	taskData.CharLimit = 500

	tagName := textinput.New()
	tagName.Placeholder = "Tag name"
	tagName.CharLimit = 50

	return &BoardView{
		board:      board.New(),
		sync:       sync,
		flags:      flags,
		themes:     themes,
		keys:       keys.DefaultKeyMap(),
		help:       help.New(),
		log:        log,
		pane:       PaneTasks,
		chipCursor: -1,
		active:     make(map[int64]bool),
		taskName:   taskName,
		taskData:   taskData,
		tagName:    tagName,
	}
}

// Board exposes the local state, mostly for tests
func (v *BoardView) Board() *board.Board {
	return v.board
}

// Dragging returns the grabbed payload, if any
func (v *BoardView) Dragging() (DragPayload, bool) {
	if v.drag == nil {
		return DragPayload{}, false
	}
	return *v.drag, true
}

// Capturing reports whether keystrokes are going into a text field
func (v *BoardView) Capturing() bool {
	return v.pane == PaneTaskForm || v.pane == PaneTagForm
}

// Init loads the board
func (v *BoardView) Init() tea.Cmd {
	return v.load(v.board.Version())
}

func (v *BoardView) load(version uint64) tea.Cmd {
	return func() tea.Msg {
		snap, err := v.sync.Load(context.Background(), version)
		if err != nil {
			return boardLoadFailedMsg{version: version, err: err}
		}
		return boardLoadedMsg{snapshot: snap}
	}
}

// reload bumps the data version and loads it
func (v *BoardView) reload() tea.Cmd {
	return v.load(v.board.Bump())
}

// mutate runs a backend call; success triggers a reload
func (v *BoardView) mutate(op string, call func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{op: op, err: call(context.Background())}
	}
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth/2-6, 10, 30)
		v.taskName.Width = inputWidth
		v.taskData.Width = inputWidth
		v.tagName.Width = inputWidth
		v.help.Width = contentWidth
		return v, nil

	case boardLoadedMsg:
		if v.board.Apply(msg.snapshot) {
			v.refreshActive()
			v.clampCursors()
		}
		return v, nil

	case boardLoadFailedMsg:
		// Already logged by the sync layer; keep showing what we have.
		return v, nil

	case mutationDoneMsg:
		if msg.err != nil {
			return v, nil
		}
		return v, v.reload()

	case tagsPushedMsg:
		// No rollback: a failed push is corrected by the next reload.
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		switch v.pane {
		case PaneTaskForm:
			return v.updateTaskForm(msg)
		case PaneTagForm:
			return v.updateTagForm(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.drag = nil
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, v.focusInputs()

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, v.focusInputs()

	case key.Matches(msg, v.keys.NewTask):
		v.setPane(PaneTaskForm)
		v.taskFormIdx = 0
		return v, v.focusInputs()

	case key.Matches(msg, v.keys.NewTag):
		v.setPane(PaneTagForm)
		return v, v.focusInputs()

	case key.Matches(msg, v.keys.Reload):
		return v, v.reload()

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	switch v.pane {
	case PaneTasks:
		return v.updateTasks(msg)
	case PanePalette:
		return v.updatePalette(msg)
	case PaneCatalog:
		return v.updateCatalog(msg)
	}
	return v, nil
}

func (v *BoardView) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := v.board.Tasks()

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.taskCursor > 0 {
			v.taskCursor--
			v.chipCursor = -1
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.taskCursor < len(tasks)-1 {
			v.taskCursor++
			v.chipCursor = -1
			v.ensureVisible()
		}
		return v, nil
	}

	if len(tasks) == 0 {
		return v, nil
	}
	card := v.card(tasks[v.taskCursor])

	// Dropping takes priority while a chip is held
	if v.drag != nil {
		if key.Matches(msg, v.keys.Grab) || key.Matches(msg, v.keys.Enter) {
			payload := *v.drag
			v.drag = nil
			return v, card.Drop(payload)
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Left):
		if v.chipCursor > -1 {
			v.chipCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Right):
		if v.chipCursor < len(card.Task.Tags)-1 {
			v.chipCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Grab):
		// Assigned chips can be dragged onto another task too
		if chip, ok := v.selectedChip(card); ok {
			payload := chip.Payload()
			v.drag = &payload
		}
		return v, nil

	case key.Matches(msg, v.keys.Remove):
		if chip, ok := v.selectedChip(card); ok {
			return v, chip.Remove()
		}
		return v, nil

	case key.Matches(msg, v.keys.Activate):
		return v, card.Toggle()

	case key.Matches(msg, v.keys.Delete):
		return v, card.Delete()
	}
	return v, nil
}

func (v *BoardView) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := v.board.Tags()
	switch {
	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
		if v.paletteCursor > 0 {
			v.paletteCursor--
		}
	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
		if v.paletteCursor < len(tags)-1 {
			v.paletteCursor++
		}
	case key.Matches(msg, v.keys.Grab), key.Matches(msg, v.keys.Enter):
		if v.paletteCursor < len(tags) {
			payload := TagChip{Tag: tags[v.paletteCursor]}.Payload()
			v.drag = &payload
			v.setPane(PaneTasks)
		}
	}
	return v, nil
}

func (v *BoardView) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := v.board.Tags()
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.catalogCursor > 0 {
			v.catalogCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.catalogCursor < len(tags)-1 {
			v.catalogCursor++
		}
	case key.Matches(msg, v.keys.Delete), key.Matches(msg, v.keys.Enter):
		if v.catalogCursor < len(tags) {
			return v, v.deleteTag(tags[v.catalogCursor].ID)
		}
	}
	return v, nil
}

func (v *BoardView) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		v.setPane(PaneTasks)
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, v.focusInputs()

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, v.focusInputs()

	case key.Matches(msg, v.keys.Up), key.Matches(msg, v.keys.Down):
		if msg.Type == tea.KeyUp || msg.Type == tea.KeyDown {
			v.taskFormIdx = 1 - v.taskFormIdx
			return v, v.focusInputs()
		}

	case key.Matches(msg, v.keys.Enter), msg.String() == "ctrl+s":
		if v.taskFormIdx == 0 && msg.String() == "enter" {
			v.taskFormIdx = 1
			return v, v.focusInputs()
		}
		return v, v.addTask()
	}

	var cmd tea.Cmd
	if v.taskFormIdx == 0 {
		v.taskName, cmd = v.taskName.Update(msg)
	} else {
		v.taskData, cmd = v.taskData.Update(msg)
	}
	return v, cmd
}

func (v *BoardView) updateTagForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		v.setPane(PaneTasks)
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, v.focusInputs()

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, v.focusInputs()

	case key.Matches(msg, v.keys.Enter), msg.String() == "ctrl+s":
		return v, v.addTag()
	}

	var cmd tea.Cmd
	v.tagName, cmd = v.tagName.Update(msg)
	return v, cmd
}

// addTask clears both inputs right away; the request runs in the background
func (v *BoardView) addTask() tea.Cmd {
	name := v.taskName.Value()
	data := v.taskData.Value()
	v.taskName.Reset()
	v.taskData.Reset()
	v.taskFormIdx = 0

	if strings.TrimSpace(name) == "" {
		return v.focusInputs()
	}
	return tea.Batch(v.focusInputs(), v.mutate("add task", func(ctx context.Context) error {
		return v.sync.AddTask(ctx, name, data)
	}))
}

// addTag leaves the tag input as typed
func (v *BoardView) addTag() tea.Cmd {
	name := v.tagName.Value()
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return v.mutate("add tag", func(ctx context.Context) error {
		return v.sync.AddTag(ctx, name)
	})
}

func (v *BoardView) deleteTask(taskID int64) tea.Cmd {
	return v.mutate("delete task", func(ctx context.Context) error {
		return v.sync.DeleteTask(ctx, taskID)
	})
}

func (v *BoardView) deleteTag(tagID int64) tea.Cmd {
	return v.mutate("delete tag", func(ctx context.Context) error {
		return v.sync.DeleteTag(ctx, tagID)
	})
}

// dropTag applies the drop locally and pushes the full list
func (v *BoardView) dropTag(taskID int64, tag models.Tag) tea.Cmd {
	upd, ok := v.board.DropTag(taskID, tag)
	if !ok {
		return nil
	}
	return v.pushTags(upd)
}

func (v *BoardView) removeTag(taskID, tagID int64) tea.Cmd {
	upd, ok := v.board.RemoveTag(taskID, tagID)
	if !ok {
		return nil
	}
	if task, found := v.board.Task(taskID); found && v.chipCursor >= len(task.Tags) {
		v.chipCursor = len(task.Tags) - 1
	}
	return v.pushTags(upd)
}

func (v *BoardView) pushTags(upd board.Update) tea.Cmd {
	return func() tea.Msg {
		return tagsPushedMsg{update: upd, err: v.sync.PushTags(context.Background(), upd)}
	}
}

// toggleActive flips the local flag. A store failure is logged and the
// in-memory flag still flips.
func (v *BoardView) toggleActive(taskID int64, active bool) tea.Cmd {
	v.active[taskID] = active
	if v.flags == nil {
		return nil
	}
	if err := v.flags.SetTaskActive(taskID, active); err != nil {
		v.log.Error("persist active flag",
			slog.Int64("task_id", taskID),
			slog.Any("error", err),
		)
	}
	return nil
}

func (v *BoardView) refreshActive() {
	if v.flags == nil {
		return
	}
	tasks := v.board.Tasks()
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	flags, err := v.flags.ActiveTasks(ids)
	if err != nil {
		v.log.Error("load active flags", slog.Any("error", err))
		return
	}
	v.active = flags
}

// card wires a task to this view's handlers
func (v *BoardView) card(task models.Task) TaskCard {
	return TaskCard{
		Task:        task,
		Active:      v.active[task.ID],
		OnDrop:      v.dropTag,
		OnRemoveTag: v.removeTag,
		OnDelete:    v.deleteTask,
		OnToggle:    v.toggleActive,
	}
}

func (v *BoardView) selectedChip(card TaskCard) (TagChip, bool) {
	chips := card.Chips()
	if v.chipCursor < 0 || v.chipCursor >= len(chips) {
		return TagChip{}, false
	}
	return chips[v.chipCursor], true
}

func (v *BoardView) setPane(p Pane) {
	v.pane = p
	v.chipCursor = -1
	v.taskName.Blur()
	v.taskData.Blur()
	v.tagName.Blur()
}

func (v *BoardView) cycleFocus(dir int) {
	v.setPane(Pane((int(v.pane) + dir + int(paneCount)) % int(paneCount)))
}

// focusInputs focuses the text field matching the current pane
func (v *BoardView) focusInputs() tea.Cmd {
	v.taskName.Blur()
	v.taskData.Blur()
	v.tagName.Blur()
	switch v.pane {
	case PaneTaskForm:
		if v.taskFormIdx == 0 {
			return v.taskName.Focus()
		}
		return v.taskData.Focus()
	case PaneTagForm:
		return v.tagName.Focus()
	}
	return nil
}

func (v *BoardView) clampCursors() {
	if v.taskCursor >= len(v.board.Tasks()) {
		v.taskCursor = max(0, len(v.board.Tasks())-1)
	}
	if v.paletteCursor >= len(v.board.Tags()) {
		v.paletteCursor = max(0, len(v.board.Tags())-1)
	}
	if v.catalogCursor >= len(v.board.Tags()) {
		v.catalogCursor = max(0, len(v.board.Tags())-1)
	}
	if tasks := v.board.Tasks(); len(tasks) > 0 && v.chipCursor >= len(tasks[v.taskCursor].Tags) {
		v.chipCursor = -1
	}
	if v.drag != nil {
		if _, ok := v.catalogHas(v.drag.ID); !ok {
			v.drag = nil
		}
	}
	v.ensureVisible()
}

func (v *BoardView) catalogHas(id int64) (models.Tag, bool) {
	for _, t := range v.board.Tags() {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tag{}, false
}

func (v *BoardView) visibleCards() int {
	// header, forms, palette and catalog take roughly 16 lines
	available := v.height - 16
	return max(available/cardHeight, 1)
}

func (v *BoardView) ensureVisible() {
	visible := v.visibleCards()
	if v.taskCursor < v.scrollY {
		v.scrollY = v.taskCursor
	} else if v.taskCursor >= v.scrollY+visible {
		v.scrollY = v.taskCursor - visible + 1
	}
}

// View renders the board
func (v *BoardView) View() string {
	s := styles.NewStyles(v.themes.Current())

	if v.showHelpPopup {
		return v.renderHelpPopup(s)
	}

	if !v.board.Loaded() {
		return s.TitleMuted.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Tasks"))
	b.WriteString("\n")
	b.WriteString(v.renderForms(s))
	b.WriteString("\n")
	b.WriteString(v.renderTaskList(s))
	b.WriteString("\n")
	b.WriteString(v.renderPalette(s))
	b.WriteString("\n\n")
	b.WriteString(v.renderCatalog(s))
	b.WriteString("\n")
	b.WriteString(v.renderStatus(s))
	b.WriteString(v.renderHelp(s))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *BoardView) renderForms(s *styles.Styles) string {
	nameStyle, dataStyle, tagStyle := s.Input, s.Input, s.Input
	taskBtn, tagBtn := s.Button, s.Button
	switch v.pane {
	case PaneTaskForm:
		taskBtn = s.ButtonFocused
		if v.taskFormIdx == 0 {
			nameStyle = s.InputFocused
		} else {
			dataStyle = s.InputFocused
		}
	case PaneTagForm:
		tagStyle = s.InputFocused
		tagBtn = s.ButtonFocused
	}

	addTask := lipgloss.JoinHorizontal(lipgloss.Center,
		nameStyle.Render(v.taskName.View()),
		dataStyle.Render(v.taskData.View()),
		taskBtn.Render("Add Task"),
	)
	addTag := lipgloss.JoinHorizontal(lipgloss.Center,
		tagStyle.Render(v.tagName.View()),
		tagBtn.Render("Add Tag"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, addTask, addTag)
}

func (v *BoardView) renderTaskList(s *styles.Styles) string {
	tasks := v.board.Tasks()
	if len(tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to add one.")
	}

	width := styles.ContentWidth(v.width)
	end := min(v.scrollY+v.visibleCards(), len(tasks))

	var cards []string
	for i := v.scrollY; i < end; i++ {
		focused := v.pane == PaneTasks && i == v.taskCursor
		cards = append(cards, v.card(tasks[i]).render(s, cardOptions{
			width:        width,
			focused:      focused,
			dropTarget:   focused && v.drag != nil,
			selectedChip: v.chipCursor,
		}))
	}
	if hidden := len(tasks) - end; hidden > 0 {
		cards = append(cards, s.TitleMuted.Render(fmt.Sprintf("%d more below", hidden)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (v *BoardView) renderPalette(s *styles.Styles) string {
	header := s.Section.Render("Tags")
	tags := v.board.Tags()
	if len(tags) == 0 {
		return header + "\n" + s.TitleMuted.Render("No tags. Press 't' to add one.")
	}

	var chips []string
	for i, tag := range tags {
		// Palette chips have nothing to remove from
		chip := TagChip{Tag: tag}
		state := chipNormal
		if v.drag != nil && v.drag.ID == tag.ID {
			state = chipDragging
		} else if v.pane == PanePalette && i == v.paletteCursor {
			state = chipSelected
		}
		chips = append(chips, chip.render(s, state))
	}
	return header + "\n" + lipgloss.NewStyle().Width(styles.ContentWidth(v.width)).Render(strings.Join(chips, ""))
}

func (v *BoardView) renderCatalog(s *styles.Styles) string {
	header := s.Section.Render("Delete tags")
	tags := v.board.Tags()
	if len(tags) == 0 {
		return header
	}

	var rows []string
	for i, tag := range tags {
		row := tag.Name + "  [Delete]"
		if v.pane == PaneCatalog && i == v.catalogCursor {
			rows = append(rows, s.ListSelected.Render(row))
		} else {
			rows = append(rows, s.ListItem.Render(row))
		}
	}
	return header + "\n" + lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *BoardView) renderStatus(s *styles.Styles) string {
	if v.drag == nil {
		return ""
	}
	return s.StatusBar.Render(fmt.Sprintf("Dragging %q: pick a task and press space to drop, esc to cancel", v.drag.Name)) + "\n"
}

func (v *BoardView) renderHelp(s *styles.Styles) string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	v.help.Styles.ShortKey = s.HelpKey
	v.help.Styles.ShortDesc = s.HelpDesc
	return s.Help.Render(v.help.View(v.keys))
}

func (v *BoardView) renderHelpPopup(s *styles.Styles) string {
	contentWidth := styles.ContentWidth(v.width)
	v.help.Styles.FullKey = s.HelpKey
	v.help.Styles.FullDesc = s.HelpDesc

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Keyboard Shortcuts"),
		"",
		v.help.FullHelpView(v.keys.FullHelp()),
		"",
		s.TitleMuted.Render("Press any key to close"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Input.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
