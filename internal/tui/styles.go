package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the monitor UI
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - connected, on
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, disconnected
	WarningColor = lipgloss.Color("#FFA500") // Orange - reconnecting
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

var (
	// TitleStyle is for the monitor header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(1)

	// HubInfoStyle is for the hub identifier next to the title
	HubInfoStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// ConnectedStyle renders the Ready connection state
	ConnectedStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// ReconnectingStyle renders the transient connection states
	ReconnectingStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	// DisconnectedStyle renders the down states and errors
	DisconnectedStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// FooterStyle is for the last-update line under the table
	FooterStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// TableBorderStyle frames the device table
	TableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(PrimaryColor)
)
