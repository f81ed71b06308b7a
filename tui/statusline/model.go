// Package statusline is the interactive terminal front end for a watch
// session: one status segment fed by the presenter, a scrolling event
// ledger, and a toggle key standing in for the status item's click command.
package statusline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/coverlay/statusbar"
	"github.com/grovetools/coverlay/tui/theme"
)

// StatusMsg carries a presenter update into the bubbletea loop.
type StatusMsg struct {
	Text    string
	Tooltip string
	Warn    bool
	Visible bool
}

// EventMsg is one ledger line.
type EventMsg string

// Model renders the coverage status segment and the event ledger.
type Model struct {
	viewport viewport.Model
	updates  chan StatusMsg
	events   chan EventMsg

	status StatusMsg
	lines  []string
	ready  bool
	width  int
	height int

	onToggle func()
}

// New creates a statusline model. onToggle runs when the user presses the
// toggle key; it should invoke the service's Toggle operation.
func New(onToggle func()) *Model {
	return &Model{
		updates:  make(chan StatusMsg, 32),
		events:   make(chan EventMsg, 100),
		onToggle: onToggle,
	}
}

// Item returns a statusbar.Item that feeds this model. Safe to drive from
// any goroutine.
func (m *Model) Item() statusbar.Item {
	return &channelItem{updates: m.updates}
}

// AddEvent appends a timestamped line to the ledger.
func (m *Model) AddEvent(line string) {
	select {
	case m.events <- EventMsg(fmt.Sprintf("%s  %s", time.Now().Format("15:04:05"), line)):
	default:
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForUpdate(), m.waitForEvent())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-3)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 3
		}
		m.refreshLedger()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "t":
			if m.onToggle != nil {
				m.onToggle()
			}
			return m, nil
		}

	case StatusMsg:
		m.status = msg
		return m, m.waitForUpdate()

	case EventMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > 500 {
			m.lines = m.lines[len(m.lines)-500:]
		}
		m.refreshLedger()
		m.viewport.GotoBottom()
		return m, m.waitForEvent()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if !m.ready {
		return "Initializing…"
	}

	t := theme.DefaultTheme
	segmentStyle := t.StatusItem
	if m.status.Warn {
		segmentStyle = t.WarnItem
	}

	segment := segmentStyle.Render(" " + m.status.Text + " ")
	if m.status.Tooltip != "" {
		segment += "  " + t.Muted.Render(m.status.Tooltip)
	}

	help := t.Help.Render("t toggle · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		segment,
		m.viewport.View(),
		help,
	)
}

func (m *Model) refreshLedger() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg { return <-m.updates }
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

// channelItem adapts presenter pushes into bubbletea messages. It snapshots
// the full status on every mutation; the loop only ever sees whole states.
type channelItem struct {
	mu      sync.Mutex
	status  StatusMsg
	updates chan StatusMsg
}

func (c *channelItem) push() {
	select {
	case c.updates <- c.status:
	default:
	}
}

func (c *channelItem) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Text = text
	c.push()
}

func (c *channelItem) SetTooltip(tooltip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Tooltip = tooltip
	c.push()
}

func (c *channelItem) SetCommand(string) {}

func (c *channelItem) SetWarn(warn bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Warn = warn
	c.push()
}

func (c *channelItem) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Visible = true
	c.push()
}

func (c *channelItem) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Visible = false
	c.push()
}

func (c *channelItem) Close() error { return nil }
