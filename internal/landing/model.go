package landing

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/Kavantix/ticketflow/internal/messages"
)

const loginZone = "landing-login"

type Model struct {
	width  int
	height int
}

var _ tea.Model = Model{}

func New() Model {
	return Model{}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			zone.Get(loginZone).InBounds(msg) {
			return m, messages.Navigate(messages.Login)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "l", "enter":
			return m, messages.Navigate(messages.Login)
		case "q", "ctrl+c":
			return m, messages.Quit
		}
	}
	return m, nil
}

var (
	heroStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true).
			MarginTop(1)
	taglineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	buttonStyle  = lipgloss.NewStyle().
			Padding(0, 3).
			Margin(1, 0).
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230"))
	featureStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("239")).
			Padding(0, 1).
			Width(28)
	featureTitleStyle = lipgloss.NewStyle().Bold(true)
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

type feature struct {
	title string
	text  string
}

var features = []feature{
	{"Create Tickets", "Quickly create and assign support tickets"},
	{"Track Progress", "Monitor ticket status in real-time"},
	{"Team Collaboration", "Work together to resolve issues faster"},
}

func (m Model) View() string {
	boxes := make([]string, 0, len(features))
	for _, f := range features {
		boxes = append(boxes, featureStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left, featureTitleStyle.Render(f.title), f.text),
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		heroStyle.Render("TicketFlow"),
		taglineStyle.Render("Manage your support tickets seamlessly across teams"),
		zone.Mark(loginZone, buttonStyle.Render("Login (l)")),
		"Features",
		lipgloss.JoinHorizontal(lipgloss.Top, boxes...),
		footerStyle.Render("q quit"),
	)
	if m.width == 0 {
		return content
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, content)
}
