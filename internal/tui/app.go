package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/detail"
)

// fetchDoneMsg carries a finished fetch back into Update
type fetchDoneMsg struct {
	result detail.Result
}

// selection adapts the controller to detail.Selection for the Bubble Tea
// loop. Fetches issued by Select are queued and turned into commands by
// Update.
type selection struct {
	ctrl    *detail.Controller
	pending []*detail.Fetch
}

func (s *selection) OnSubjectChosen(subject airport.Airport) {
	s.pending = append(s.pending, s.ctrl.Select(subject))
}

func (s *selection) OnSubjectCleared() {
	s.ctrl.Deselect()
}

func (s *selection) Reload() {
	if current, ok := s.ctrl.Current(); ok {
		s.OnSubjectChosen(current)
	}
}

func (s *selection) drain() []*detail.Fetch {
	out := s.pending
	s.pending = nil
	return out
}

// AppModel is the map screen: pin list on the left, detail card on the right
type AppModel struct {
	ctx    context.Context
	cancel context.CancelFunc

	sel  *selection
	card *Card

	Pins    list.Model
	Spinner spinner.Model
	Help    help.Model
	Keys    keyMap

	// Follow makes the card track the list cursor
	Follow bool

	Width  int
	Height int

	source string
}

// NewAppModel creates the map screen for catalog. Fetches run with ctx and
// are cancelled when the user quits.
func NewAppModel(ctx context.Context, catalog *airport.Catalog, fetcher detail.Fetcher) AppModel {
	ctx, cancel := context.WithCancel(ctx)

	card := &Card{}
	sel := &selection{ctrl: detail.NewController(fetcher, card)}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	pins := list.New(pinItems(catalog.All()), pinDelegate{selected: card.Header}, 0, 0)
	pins.Title = "Airports"
	pins.Styles.Title = TitleStyle
	pins.SetShowStatusBar(false)
	pins.SetShowHelp(false)
	pins.SetFilteringEnabled(true)
	// q, ? and esc belong to the map screen
	pins.KeyMap.Quit.SetEnabled(false)
	pins.KeyMap.ShowFullHelp.SetEnabled(false)
	pins.KeyMap.CloseFullHelp.SetEnabled(false)

	return AppModel{
		ctx:     ctx,
		cancel:  cancel,
		sel:     sel,
		card:    card,
		Pins:    pins,
		Spinner: s,
		Help:    help.New(),
		Keys:    newKeyMap(),
		Width:   MinTerminalWidth,
		Height:  24,
		source:  catalog.Source(),
	}
}

// Init starts the spinner
func (m AppModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// State returns the controller's presentation state
func (m AppModel) State() detail.State {
	return m.sel.ctrl.State()
}

// Card returns the detail card
func (m AppModel) Card() *Card {
	return m.card
}

// Update handles all messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Pins.SetSize(m.listWidth(), m.bodyHeight())
		return m, nil

	case fetchDoneMsg:
		m.sel.ctrl.Complete(msg.result)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.Pins.FilterState() == list.Filtering {
			return m.updatePins(msg)
		}
		return m.updateKeys(msg)
	}

	return m.updatePins(msg)
}

func (m AppModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return m, nil

	case key.Matches(msg, m.Keys.Select):
		m.chooseCursor()
		return m, m.fetches()

	case key.Matches(msg, m.Keys.Deselect):
		// esc clears an applied filter once the card is already hidden
		if !m.card.Visible() && msg.String() == "esc" {
			return m.updatePins(msg)
		}
		m.sel.OnSubjectCleared()
		return m, nil

	case key.Matches(msg, m.Keys.Reload):
		m.sel.Reload()
		return m, m.fetches()

	case key.Matches(msg, m.Keys.Follow):
		m.Follow = !m.Follow
		if m.Follow {
			m.chooseCursor()
		}
		return m, m.fetches()
	}

	return m.updatePins(msg)
}

// updatePins forwards msg to the list; in follow mode a cursor move
// selects the pin under the cursor.
func (m AppModel) updatePins(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.cursorCode()

	var cmd tea.Cmd
	m.Pins, cmd = m.Pins.Update(msg)

	if m.Follow && m.cursorCode() != before {
		m.chooseCursor()
		return m, tea.Batch(cmd, m.fetches())
	}
	return m, cmd
}

func (m AppModel) cursorCode() string {
	if pin, ok := m.Pins.SelectedItem().(pinItem); ok {
		return pin.airport.Code
	}
	return ""
}

func (m AppModel) chooseCursor() {
	if pin, ok := m.Pins.SelectedItem().(pinItem); ok {
		m.sel.OnSubjectChosen(pin.airport)
	}
}

// fetches turns queued fetches into commands. Each command runs one fetch
// and reports back with a fetchDoneMsg.
func (m AppModel) fetches() tea.Cmd {
	pending := m.sel.drain()
	if len(pending) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(pending))
	for _, f := range pending {
		cmds = append(cmds, fetchCmd(m.ctx, f))
	}
	return tea.Batch(cmds...)
}

func fetchCmd(ctx context.Context, f *detail.Fetch) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{result: f.Run(ctx)}
	}
}

func (m AppModel) listWidth() int {
	w := m.Width - CardWidth - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m AppModel) bodyHeight() int {
	h := m.Height - 8
	if h < 4 {
		h = 4
	}
	return h
}

// View renders the map screen
func (m AppModel) View() string {
	left := lipgloss.NewStyle().Width(m.listWidth()).Render(m.Pins.View())

	right := m.card.View(CardWidth, m.Spinner.View())
	if right == "" {
		right = SubtitleStyle.Render("Select an airport to see its detail")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	status := ""
	if m.Follow {
		status = "follow"
	}
	if m.source != "" {
		if status != "" {
			status += " · "
		}
		status += m.source
	}

	return RenderApplicationContainer(body, status, m.Help.View(m.Keys), m.Width, m.Height)
}

// Run starts the map program and blocks until the user quits
func Run(ctx context.Context, catalog *airport.Catalog, fetcher detail.Fetcher) error {
	p := tea.NewProgram(NewAppModel(ctx, catalog, fetcher), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
