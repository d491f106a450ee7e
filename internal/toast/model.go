// Package toast shows a short lived notification line.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kavantix/ticketflow/internal/messages"
)

const Timeout = 3 * time.Second

type expiredMsg struct {
	id int
}

type Model struct {
	id      int
	visible bool
	kind    messages.ToastKind
	message string
}

func New() Model {
	return Model{}
}

// Show replaces the current toast. Only the newest toast's timer hides it, so
// an older timer firing late leaves a newer toast in place.
func (m Model) Show(msg messages.ToastMsg) (Model, tea.Cmd) {
	m.id++
	m.visible = true
	m.kind = msg.Kind
	m.message = msg.Message
	id := m.id
	return m, tea.Tick(Timeout, func(time.Time) tea.Msg {
		return expiredMsg{id: id}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ToastMsg:
		return m.Show(msg)
	case expiredMsg:
		if msg.id == m.id {
			m.visible = false
		}
	}
	return m, nil
}

func (m Model) Visible() bool {
	return m.visible
}

func (m Model) Message() string {
	if !m.visible {
		return ""
	}
	return m.message
}

var (
	baseStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("230"))
	successStyle = baseStyle.Background(lipgloss.Color("28"))
	errorStyle   = baseStyle.Background(lipgloss.Color("124"))
)

func (m Model) View() string {
	if !m.visible {
		return ""
	}
	if m.kind == messages.ToastError {
		return errorStyle.Render(m.message)
	}
	return successStyle.Render(m.message)
}
