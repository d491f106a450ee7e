package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kavantix/ticketflow/internal/messages"
	"github.com/Kavantix/ticketflow/internal/overlay"
)

type Model struct {
	title     string
	question  string
	warning   string
	onConfirm tea.Cmd
}

// assert
var _ overlay.ModalModel = Model{}

func Show(question string, onConfirm tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return Model{
			title:     "Confirm",
			question:  question,
			onConfirm: onConfirm,
		}
	}
}

// ShowDestructive asks before an action that cannot be undone.
func ShowDestructive(title, question string, onConfirm tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return Model{
			title:     title,
			question:  question,
			warning:   "This action cannot be undone.",
			onConfirm: onConfirm,
		}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y":
			return m, tea.Batch(m.onConfirm, messages.CloseModal)
		case "n", "esc":
			return m, messages.CloseModal
		case "ctrl+c":
			return m, messages.Quit
		}
	}
	return m, nil
}

func (m Model) OverlayTitle() string {
	return m.title
}

var (
	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m Model) View() string {
	content := m.question + " (y/n)"
	if m.warning != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, warningStyle.Render(m.warning))
	}
	return overlay.Place(2, 0, " "+m.title+" ", confirmStyle.Render(content))
}
