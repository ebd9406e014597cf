// Package tui is the terminal skin: the board rendered as a checklist with
// keyboard navigation, probed through the same sweep as the other skins.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/probe"
	"github.com/hazz-dev/svcdeck/internal/sweeper"
	"github.com/hazz-dev/svcdeck/internal/version"
)

// Config configures the terminal skin.
type Config struct {
	Sweep sweeper.Options
	// Interval between automatic sweeps. Zero uses sweeper.DefaultInterval.
	Interval time.Duration
	// Open launches a URL. Defaults to OpenBrowser.
	Open func(url string) error
}

type resultMsg struct {
	index  int
	result probe.Result
}

type sweepDoneMsg struct {
	tally   board.Tally
	elapsed time.Duration
}

type openedMsg struct {
	name string
	err  error
}

// Model is the bubbletea model for the terminal skin. Sweeps run on a
// sweeper.Sweeper whose hooks feed results and finished sweeps back to the
// program through events.
type Model struct {
	ctx     context.Context
	board   *board.Board
	sweeper *sweeper.Sweeper
	cfg     Config

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	filter  textinput.Model

	cursor    int
	filtering bool
	started   bool
	spinning  bool
	events    chan tea.Msg
	status    string
	width     int
	height    int
}

// New creates the model. Sweeps start with Init and stop when ctx is
// cancelled.
func New(ctx context.Context, b *board.Board, p sweeper.Prober, cfg Config) *Model {
	if cfg.Open == nil {
		cfg.Open = OpenBrowser
	}

	events := make(chan tea.Msg, 2*b.Len()+4)
	send := func(msg tea.Msg) {
		// The board already holds the data; a dropped event only delays a redraw.
		select {
		case events <- msg:
		default:
		}
	}
	sw := sweeper.New(b, p, cfg.Sweep, cfg.Interval, nil)
	sw.SetOnResult(func(i int, r probe.Result) {
		send(resultMsg{index: i, result: r})
	})
	sw.SetOnCycle(func(t board.Tally, elapsed time.Duration) {
		send(sweepDoneMsg{tally: t, elapsed: elapsed})
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StatusTextStyle

	ti := textinput.New()
	ti.Placeholder = "filter services"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return &Model{
		ctx:     ctx,
		board:   b,
		sweeper: sw,
		cfg:     cfg,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: s,
		filter:  ti,
		events:  events,
	}
}

// Run starts the terminal skin and blocks until the user quits or ctx ends.
func Run(ctx context.Context, b *board.Board, p sweeper.Prober, cfg Config) error {
	sweepCtx, cancel := context.WithCancel(ctx)
	m := New(sweepCtx, b, p, cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	cancel()
	m.sweeper.Wait()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) selected() (board.FlatService, bool) {
	rows := m.visible()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return board.FlatService{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) visible() []board.FlatService {
	return board.Filter(m.board.Snapshot(), m.filter.Value())
}

func (m *Model) Init() tea.Cmd {
	if !m.started {
		m.started = true
		m.sweeper.Start(m.ctx)
	}
	m.spinning = true
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

func (m *Model) waitForEvent() tea.Cmd {
	ctx, events := m.ctx, m.events
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKeys(msg)
		}
		return m.handleKeys(msg)

	case resultMsg:
		if !m.spinning {
			m.spinning = true
			return m, tea.Batch(m.waitForEvent(), m.spinner.Tick)
		}
		return m, m.waitForEvent()

	case sweepDoneMsg:
		m.status = fmt.Sprintf("swept %d services in %s", msg.tally.Total, msg.elapsed.Round(time.Millisecond))
		return m, m.waitForEvent()

	case openedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = "opened " + msg.name
		}
		return m, nil

	case spinner.TickMsg:
		if !m.sweeper.Running() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.visible())

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		if n > 0 {
			m.cursor = n - 1
		}
	case key.Matches(msg, m.keys.Refresh):
		if !m.sweeper.Refresh() {
			m.status = "refresh already pending"
			return m, nil
		}
		m.status = "refreshing"
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Escape):
		m.filter.SetValue("")
		m.cursor = 0
	case key.Matches(msg, m.keys.Open):
		return m, m.openSelected()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m *Model) openSelected() tea.Cmd {
	svc, ok := m.selected()
	if !ok {
		return nil
	}
	if svc.URL == "" {
		m.status = svc.Name + " has no url"
		return nil
	}
	open := m.cfg.Open
	return func() tea.Msg {
		return openedMsg{name: svc.Name, err: open(svc.URL)}
	}
}

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render("svcdeck " + version.Version))
	sb.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		sb.WriteString(m.filter.View())
		sb.WriteString("\n")
	}

	rows := m.visible()
	if len(rows) == 0 {
		if m.board.Len() == 0 {
			sb.WriteString(DescStyle.Render("no services configured"))
		} else {
			sb.WriteString(DescStyle.Render("no services match the filter"))
		}
		sb.WriteString("\n")
	}

	category := ""
	for i, svc := range rows {
		if i == 0 || svc.Category != category {
			category = svc.Category
			sb.WriteString(CategoryStyle.Render(category))
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderRow(svc, i == m.cursor))
		sb.WriteString("\n")
	}

	sb.WriteString(FooterStyle.Render(m.footer()))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return AppStyle.Render(sb.String())
}

func (m *Model) renderRow(svc board.FlatService, selected bool) string {
	pending := ""
	if m.sweeper.Running() {
		pending = m.spinner.View()
	}
	line := glyph(svc, pending) + " " + svc.Name
	if svc.Desc != "" {
		line += "  " + DescStyle.Render(svc.Desc)
	}
	if svc.Status == probe.StatusReachable && svc.ResponseMs > 0 {
		line += DescStyle.Render(fmt.Sprintf("  %dms", svc.ResponseMs))
	}
	if selected {
		return SelectedItemStyle.Render(line)
	}
	return ItemStyle.Render(line)
}

func glyph(svc board.FlatService, pending string) string {
	switch svc.Status {
	case probe.StatusReachable:
		return GlyphOnline
	case probe.StatusUnreachable:
		return GlyphOffline
	default:
		if pending != "" {
			return pending
		}
		return GlyphUnknown
	}
}

func (m *Model) footer() string {
	t := m.board.Tally()
	parts := []string{
		OnlineStyle.Render(fmt.Sprintf("%d online", t.Online)),
		OfflineStyle.Render(fmt.Sprintf("%d offline", t.Offline)),
		fmt.Sprintf("%.0f%% health", t.Health()),
	}
	if m.sweeper.Running() {
		parts = append(parts, m.spinner.View()+" checking")
	}
	line := strings.Join(parts, " · ")
	if m.status != "" {
		line += "  " + StatusTextStyle.Render(m.status)
	}
	return line
}
