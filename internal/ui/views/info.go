package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/tgienger/tagboard/internal/ui/styles"
)

const infoMarkdown = `# Tag board

Tasks carry up to **three** tags. Grab a tag from the palette and drop it on a
task to assign it; remove it again from the card.

| Key | Action |
|-----|--------|
| tab | move between panes |
| space | grab a tag, then drop it on the focused task |
| x | remove the selected tag from a task |
| a | toggle Active / Stop |
| d | delete a task, or a tag in the tag list |
| n / t | new task / new tag |
| r | reload from the backend |
| 1 2 3 | Home, Info, Setting |
| q | quit |

Backend: ` + "`%s`" + `
`

// InfoView shows static help text rendered as markdown
type InfoView struct {
	apiURL string
	themes *styles.Store

	width  int
	height int

	// cached render, keyed on mode and width
	rendered string
	cacheKey string
}

func NewInfoView(apiURL string, themes *styles.Store) *InfoView {
	return &InfoView{apiURL: apiURL, themes: themes}
}

func (v *InfoView) Init() tea.Cmd {
	return nil
}

func (v *InfoView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.width = msg.Width
		v.height = msg.Height
	}
	return v, nil
}

func (v *InfoView) View() string {
	return styles.CenterView(v.render(), v.width, v.height)
}

func (v *InfoView) render() string {
	mode := v.themes.Current().Mode
	width := max(styles.ContentWidth(v.width), 20)
	key := fmt.Sprintf("%s:%d", mode, width)
	if key == v.cacheKey {
		return v.rendered
	}

	md := fmt.Sprintf(infoMarkdown, v.apiURL)
	out := md
	// Fixed standard style; auto style may block on terminal queries.
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(mode)),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = strings.TrimRight(rendered, "\n")
		}
	}

	v.rendered = out
	v.cacheKey = key
	return out
}
