package dashboard

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/Kavantix/ticketflow/internal/messages"
	"github.com/Kavantix/ticketflow/internal/ticket"
)

const (
	manageZone = "dashboard-manage"
	createZone = "dashboard-create"
	logoutZone = "dashboard-logout"
)

type Model struct {
	ctx   context.Context
	store *ticket.Store

	width   int
	height  int
	loaded  bool
	summary ticket.Summary
}

var _ tea.Model = Model{}

func New(ctx context.Context, store *ticket.Store) Model {
	return Model{
		ctx:   ctx,
		store: store,
	}
}

func (m Model) Init() tea.Cmd {
	return ticket.Load(m.ctx, m.store)
}

func (m Model) Summary() ticket.Summary {
	return m.summary
}

func openCreateForm() tea.Msg {
	return messages.NavigateMsg{To: messages.Tickets, OpenCreateForm: true}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case ticket.TicketsUpdatedMsg:
		m.summary = ticket.Summarize(msg.Tickets)
		m.loaded = true
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		switch {
		case zone.Get(manageZone).InBounds(msg):
			return m, messages.Navigate(messages.Tickets)
		case zone.Get(createZone).InBounds(msg):
			return m, openCreateForm
		case zone.Get(logoutZone).InBounds(msg):
			return m, messages.Logout
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "t", "enter":
			return m, messages.Navigate(messages.Tickets)
		case "c":
			return m, openCreateForm
		case "o":
			return m, messages.Logout
		case "r":
			return m, ticket.Load(m.ctx, m.store)
		case "q", "ctrl+c":
			return m, messages.Quit
		}
	}
	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("63")).
			Padding(0, 2)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	statStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Width(20).
			Align(lipgloss.Center)
	statValueStyle = lipgloss.NewStyle().Bold(true)
	buttonStyle    = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(2).
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230"))
	secondaryButtonStyle = buttonStyle.Background(lipgloss.Color("239"))
	hintStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

func stat(value int, label string, color lipgloss.Color) string {
	return statStyle.BorderForeground(color).Render(lipgloss.JoinVertical(lipgloss.Center,
		statValueStyle.Foreground(color).Render(strconv.Itoa(value)),
		label,
	))
}

func (m Model) View() string {
	stats := "Loading..."
	if m.loaded {
		stats = lipgloss.JoinHorizontal(lipgloss.Top,
			stat(m.summary.Total, "Total Tickets", lipgloss.Color("63")),
			stat(m.summary.Open, "Open Tickets", lipgloss.Color("2")),
			stat(m.summary.InProgress, "In Progress", lipgloss.Color("3")),
			stat(m.summary.Closed, "Resolved Tickets", lipgloss.Color("245")),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("TicketFlow Dashboard"),
		sectionStyle.Render("Ticket Statistics"),
		stats,
		sectionStyle.Render("Quick Actions"),
		lipgloss.JoinHorizontal(lipgloss.Top,
			zone.Mark(manageZone, buttonStyle.Render("Manage Tickets (t)")),
			zone.Mark(createZone, secondaryButtonStyle.Render("Create New Ticket (c)")),
			zone.Mark(logoutZone, secondaryButtonStyle.Render("Logout (o)")),
		),
		hintStyle.Render("r refresh • q quit"),
	)
}
