package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/browse"
)

const (
	tickInterval = time.Second
	// statusFadeTicks is how many ticks an unchanged debug line stays up.
	statusFadeTicks = 5
	debugPaneHeight = 3
)

type tickMsg time.Time

// Model is the bubbletea model of the hierarchy browser. Navigation state
// lives in the session; the model only maps keys and draws.
type Model struct {
	ctx     context.Context
	session *browse.Session
	keys    KeyMap

	width  int
	height int
	ready  bool

	statusSeen  string
	statusTicks int
}

// NewModel creates a browser over session. ctx bounds every request made
// while handling input.
func NewModel(ctx context.Context, session *browse.Session, keys KeyMap) Model {
	return Model{ctx: ctx, session: session, keys: keys}
}

// Init implements tea.Model. Starts the status-line tick.
func (model Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model. While the modal is open it receives every
// key; otherwise keys are matched against the key map.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.session.Modal().Active() {
			return model.handleModalKeys(message)
		}
		if action := model.action(message); action != browse.ActionNone {
			if model.session.Dispatch(model.ctx, action) {
				return model, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.session.Navigator().InvalidateDetail()

	case tickMsg:
		model.fadeStatus()
		return model, tick()
	}
	return model, nil
}

func (model Model) action(message tea.KeyMsg) browse.Action {
	switch {
	case key.Matches(message, model.keys.Quit):
		return browse.ActionQuit
	case key.Matches(message, model.keys.Up):
		return browse.ActionUp
	case key.Matches(message, model.keys.Down):
		return browse.ActionDown
	case key.Matches(message, model.keys.Enter):
		return browse.ActionEnter
	case key.Matches(message, model.keys.Back):
		return browse.ActionBack
	case key.Matches(message, model.keys.Search):
		return browse.ActionSearch
	case key.Matches(message, model.keys.Create):
		return browse.ActionCreate
	}
	return browse.ActionNone
}

// handleModalKeys feeds the search or wizard buffer. Only ctrl+c escapes
// the modal without esc.
func (model Model) handleModalKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyCtrlC:
		return model, tea.Quit
	case tea.KeyEsc:
		model.session.Cancel()
	case tea.KeyEnter:
		model.session.Confirm(model.ctx)
	case tea.KeyBackspace:
		model.session.Erase()
	case tea.KeySpace:
		model.session.Type(' ')
	case tea.KeyRunes:
		model.session.Type(message.Runes...)
	}
	return model, nil
}

// fadeStatus clears the debug line once it has been shown unchanged for
// statusFadeTicks ticks.
func (model *Model) fadeStatus() {
	nav := model.session.Navigator()
	status := nav.Status()
	if status == "" {
		return
	}
	if status != model.statusSeen {
		model.statusSeen = status
		model.statusTicks = 0
		return
	}
	model.statusTicks++
	if model.statusTicks >= statusFadeTicks {
		nav.SetStatus("")
		model.statusSeen = ""
		model.statusTicks = 0
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}
	nav := model.session.Navigator()
	level := nav.Level()

	// The project and release column gives way once features are open.
	menuWidth := model.width * 30 / 100
	if level >= browse.LevelFeatures {
		menuWidth = 0
	}
	mainWidth := model.width - menuWidth

	var columns []string
	if menuWidth > 0 {
		projectHeight := model.height * 10 / 100
		if level == browse.LevelProject {
			projectHeight = model.height * 90 / 100
		}
		releaseHeight := model.height - projectHeight
		cache := nav.Cache()
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left,
			renderList("Projects", cache.Projects, menuWidth, projectHeight, level == browse.LevelProject),
			renderList("Releases", cache.Releases, menuWidth, releaseHeight, level == browse.LevelRelease),
		))
	}

	featureHeight := model.height * 10 / 100
	if level >= browse.LevelFeatures {
		featureHeight = model.height * 40 / 100
	}
	detailHeight := model.height - featureHeight - debugPaneHeight
	columns = append(columns, lipgloss.JoinVertical(lipgloss.Left,
		renderList("Features", nav.Cache().Features.Rows(), mainWidth, featureHeight, level == browse.LevelFeatures),
		renderPane("Feature", model.detail(mainWidth-2), mainWidth, detailHeight, level == browse.LevelFeature),
		renderPane("dbg", nav.Status(), mainWidth, debugPaneHeight, false),
	))

	view := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	modal := model.session.Modal()
	if modal.Active() {
		box := renderModal(modal.Prompt(), modal.Buffer(), model.width*60/100)
		view = centerOverlay(view, box, model.width, model.height)
	}
	return view
}

func (model Model) detail(width int) string {
	nav := model.session.Navigator()
	if nav.Level() != browse.LevelFeature {
		return helpText(model.keys, nav.Level())
	}
	return nav.Detail(func(record *aha.Record, kind aha.Kind) string {
		return formatDetail(record, kind, width)
	})
}

// renderList draws a titled, bordered list, scrolled so the selected row
// stays visible.
func renderList[T any](title string, list *browse.List[T], width, height int, active bool) string {
	visible := height - 3
	if visible < 0 {
		visible = 0
	}
	selected, hasSelection := list.Selected()
	start := 0
	if hasSelection && selected >= visible {
		start = selected - visible + 1
	}

	var lines []string
	for i, item := range list.Items() {
		if i < start {
			continue
		}
		if len(lines) == visible {
			break
		}
		if hasSelection && i == selected {
			lines = append(lines, selectedStyle.Render(">"+item.Label))
		} else {
			lines = append(lines, " "+item.Label)
		}
	}
	return renderPane(title, strings.Join(lines, "\n"), width, height, active)
}

// renderPane draws a bordered box of exactly width by height cells with
// the title on its first line. Content that does not fit is cut off.
func renderPane(title, body string, width, height int, active bool) string {
	if width < 2 || height < 2 {
		return ""
	}
	innerWidth := width - 2
	innerHeight := height - 2

	lines := append([]string{titleStyle.Render(title)}, strings.Split(body, "\n")...)
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, innerWidth, "")
	}

	color := borderColor
	if active {
		color = activeColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(color).
		Width(innerWidth).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}
