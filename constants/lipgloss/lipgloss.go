package lipgloss

import "github.com/charmbracelet/lipgloss"

var (
	Red     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	Green   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	Yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F"))
	BlueSky = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
	Gray    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6C6C6C")).
			Padding(0, 1)

	// MessageBox frames the generated commit message.
	MessageBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6C6C6C")).
			Padding(1, 3)

	Message = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF")).Bold(true)
)
