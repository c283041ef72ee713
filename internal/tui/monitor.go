package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/hublink/internal/protocol"
)

// StatusMsg carries one status poll result into the monitor.
type StatusMsg struct {
	HubID   string
	Devices []protocol.Device
}

// ConnMsg carries a connection state change into the monitor.
type ConnMsg struct {
	State string
	Err   error
}

// monitorKeyMap defines key bindings for the monitor screen
type monitorKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k monitorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k monitorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

var monitorKeys = monitorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the live device monitor. It renders the latest status poll
// in a table and tracks the connection state in the header.
type Model struct {
	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    monitorKeyMap

	statusCh <-chan StatusMsg
	connCh   <-chan ConnMsg
	nameOf   func(protocol.Device) string

	hubID      string
	connState  string
	connErr    error
	lastUpdate time.Time
	haveData   bool
	quitting   bool

	width  int
	height int
}

// New creates a monitor fed by the two channels. nameOf resolves a
// display name per device and may be nil.
func New(statusCh <-chan StatusMsg, connCh <-chan ConnMsg, nameOf func(protocol.Device) string) Model {
	columns := []table.Column{
		{Title: "Addr", Width: 8},
		{Title: "Name", Width: 22},
		{Title: "Type", Width: 24},
		{Title: "State", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(TextColor).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(PrimaryColor)
	ts.Selected = ts.Selected.Foreground(TextColor).Background(PrimaryColor)
	t.SetStyles(ts)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	return Model{
		table:     t,
		spinner:   sp,
		help:      help.New(),
		keys:      monitorKeys,
		statusCh:  statusCh,
		connCh:    connCh,
		nameOf:    nameOf,
		connState: "connecting",
	}
}

func waitStatus(ch <-chan StatusMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}

func waitConn(ch <-chan ConnMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitStatus(m.statusCh),
		waitConn(m.connCh),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case StatusMsg:
		m.hubID = msg.HubID
		m.lastUpdate = time.Now()
		m.haveData = true
		m.table.SetRows(deviceRows(msg.Devices, m.nameOf))
		return m, waitStatus(m.statusCh)

	case ConnMsg:
		m.connState = msg.State
		m.connErr = msg.Err
		return m, waitConn(m.connCh)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := TitleStyle.Render("hublink monitor")
	if m.hubID != "" {
		header += HubInfoStyle.Render("hub " + m.hubID)
	}
	header += "  " + renderConnState(m.connState, m.connErr)

	var body string
	if m.haveData {
		body = TableBorderStyle.Render(m.table.View())
	} else {
		body = fmt.Sprintf("\n  %s waiting for first status poll...\n", m.spinner.View())
	}

	footer := ""
	if m.haveData {
		footer = FooterStyle.Render(fmt.Sprintf("updated %s", m.lastUpdate.Format("15:04:05")))
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\n", header, body, footer, m.help.View(m.keys))
}

func renderConnState(state string, err error) string {
	switch state {
	case "ready":
		return ConnectedStyle.Render("● connected")
	case "reconnecting", "connecting", "handshaking":
		return ReconnectingStyle.Render("● " + state)
	default:
		s := "● " + state
		if err != nil {
			s += " (" + err.Error() + ")"
		}
		return DisconnectedStyle.Render(s)
	}
}

// deviceRows converts a status snapshot into table rows.
func deviceRows(devices []protocol.Device, nameOf func(protocol.Device) string) []table.Row {
	rows := make([]table.Row, 0, len(devices))
	for _, d := range devices {
		name := ""
		if nameOf != nil {
			name = nameOf(d)
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("0x%04X", d.ShortAddress),
			name,
			d.TypeName,
			renderState(d),
		})
	}
	return rows
}

// renderState formats the live state column for one device.
func renderState(d protocol.Device) string {
	s := d.State
	if s == nil {
		return "-"
	}
	onOff := "off"
	if s.On {
		onOff = "on"
	}
	switch d.Category {
	case protocol.CategoryLight:
		if !s.On {
			return onOff
		}
		return fmt.Sprintf("on %d%% temp %d", int(s.Brightness)*100/255, s.Temperature)
	case protocol.CategoryFan:
		if !s.On {
			return onOff
		}
		return fmt.Sprintf("on speed %d", s.Speed)
	case protocol.CategoryPlug:
		return onOff
	default:
		if len(s.Raw) > 0 {
			return fmt.Sprintf("raw %x", s.Raw)
		}
		return onOff
	}
}

// Run starts the monitor program and blocks until it exits.
func Run(statusCh <-chan StatusMsg, connCh <-chan ConnMsg, nameOf func(protocol.Device) string) error {
	p := tea.NewProgram(New(statusCh, connCh, nameOf), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
