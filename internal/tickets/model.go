package tickets

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Kavantix/ticketflow/internal/confirm"
	"github.com/Kavantix/ticketflow/internal/messages"
	"github.com/Kavantix/ticketflow/internal/ticket"
)

const (
	dateLayout       = "Jan 2, 2006"
	doubleClickDelay = 500 * time.Millisecond
)

type Model struct {
	ctx   context.Context
	store *ticket.Store
	keys  KeyMap
	help  help.Model

	delegate *listDelegate
	list     *list.Model
	tickets  []ticket.Ticket
	loaded   bool

	width  int
	height int

	lastClick *struct {
		ticketId string
		at       time.Time
	}
}

var _ tea.Model = Model{}

type item struct {
	ticket ticket.Ticket
}

func (i item) Title() string {
	return i.ticket.Title + " " + i.ticket.ShortID()
}

func (i item) Description() string {
	summary := fmt.Sprintf("%s · Priority: %s · %s",
		i.ticket.Status.Label(),
		i.ticket.Priority,
		i.ticket.CreatedAt.Local().Format(dateLayout),
	)
	if i.ticket.Description == "" {
		return summary
	}
	firstLine, _, _ := strings.Cut(i.ticket.Description, "\n")
	return summary + " · " + truncate.StringWithTail(firstLine, 40, "…")
}

func (i item) FilterValue() string {
	return i.ticket.Title + " " + i.ticket.ShortID() + " " + i.ticket.Description
}

type listDelegate struct {
	list.DefaultDelegate
	width int
}

func (d listDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	buffer := strings.Builder{}
	d.DefaultDelegate.Render(&buffer, m, index, listItem)
	t := listItem.(item).ticket
	content := buffer.String()
	content = strings.Replace(content, t.ShortID(), ticket.IdStyle().Render(t.ShortID()), 1)
	label := t.Status.Label()
	content = strings.Replace(content, label, StatusStyle(t.Status).Render(label), 1)
	fmt.Fprint(w, zone.Mark(t.ID, lipgloss.NewStyle().Width(d.width).Render(content)))
}

func StatusStyle(status ticket.Status) lipgloss.Style {
	switch status {
	case ticket.Open:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case ticket.InProgress:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	}
}

func New(ctx context.Context, store *ticket.Store) Model {
	delegate := listDelegate{list.NewDefaultDelegate(), 0}
	listModel := list.New(
		[]list.Item{},
		&delegate, 0, 0,
	)
	listModel.SetShowHelp(false)
	listModel.Title = "All Tickets (0)"
	listModel.SetStatusBarItemName("ticket", "tickets")
	listModel.DisableQuitKeybindings()
	return Model{
		ctx:      ctx,
		store:    store,
		keys:     DefaultKeyMap,
		help:     help.New(),
		delegate: &delegate,
		list:     &listModel,
	}
}

func (m Model) Init() tea.Cmd {
	return ticket.Load(m.ctx, m.store)
}

// Tickets returns the collection as last delivered by the store.
func (m Model) Tickets() []ticket.Ticket {
	return m.tickets
}

func (m Model) IsCapturingInput() bool {
	return m.list.SettingFilter()
}

var (
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("13"))
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("239")).
			Padding(0, 1)
	detailTitleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emptyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Padding(1, 2)
)

func (m Model) SetSize(width, height int) {
	styleX, styleY := listStyle.GetFrameSize()
	// One line for the help footer.
	listWidth := width*3/5 - styleX
	m.list.SetSize(listWidth, height-styleY-1)
	m.delegate.width = listWidth
}

func (m Model) selected() (ticket.Ticket, bool) {
	selected, ok := m.list.SelectedItem().(item)
	if !ok {
		return ticket.Ticket{}, false
	}
	return selected.ticket, true
}

func (m Model) setTickets(tickets []ticket.Ticket) tea.Cmd {
	var selectedTicketId string
	visibleItems := m.list.VisibleItems()
	selectedIndex := m.list.Index()
	if len(visibleItems) > 0 {
		if selectedIndex >= 0 && selectedIndex < len(visibleItems) {
			selectedTicketId = visibleItems[selectedIndex].(item).ticket.ID
		}
	}

	var items []list.Item
	var newSelectedIndex = selectedIndex
	for _, t := range tickets {
		if t.ID == selectedTicketId {
			newSelectedIndex = len(items)
		}
		items = append(items, item{ticket: t})
	}
	m.list.Title = fmt.Sprintf("All Tickets (%d)", len(tickets))
	cmd := m.list.SetItems(items)
	if newSelectedIndex != selectedIndex {
		m.list.Select(newSelectedIndex)
	}
	return cmd
}

func (m Model) confirmDelete(t ticket.Ticket) tea.Cmd {
	return confirm.ShowDestructive(
		"Confirm Delete",
		fmt.Sprintf("Are you sure you want to delete %q?", t.Title),
		ticket.Delete(m.ctx, m.store, t.ID),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case ticket.TicketsUpdatedMsg:
		m.tickets = msg.Tickets
		m.loaded = true
		return m, m.setTickets(msg.Tickets)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			newListModel := *m.list
			var cmd tea.Cmd
			switch msg.Button {
			case tea.MouseButtonWheelDown:
				newListModel, cmd = m.list.Update(tea.KeyMsg{Type: tea.KeyDown})
			case tea.MouseButtonWheelUp:
				newListModel, cmd = m.list.Update(tea.KeyMsg{Type: tea.KeyUp})
			case tea.MouseButtonLeft:
				visibleItems := newListModel.VisibleItems()
				for i, listItem := range visibleItems {
					item := listItem.(item)
					if zone.Get(item.ticket.ID).InBounds(msg) {
						newListModel.Select(i)
						if m.lastClick != nil &&
							m.lastClick.ticketId == item.ticket.ID &&
							time.Since(m.lastClick.at) < doubleClickDelay {
							m.lastClick = nil
							m.list = &newListModel
							return m, ticket.EditTicket(m.ctx, item.ticket, m.store)
						} else {
							m.lastClick = &struct {
								ticketId string
								at       time.Time
							}{
								item.ticket.ID, time.Now(),
							}
						}
						break
					}
				}
			}
			m.list = &newListModel
			return m, cmd
		}
	case tea.KeyMsg:
		if m.IsCapturingInput() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.ClearFilter) && m.list.IsFiltered():
			m.list.ResetFilter()
			return m, nil
		case key.Matches(msg, m.keys.Back):
			return m, messages.Navigate(messages.Dashboard)
		case key.Matches(msg, m.keys.Create):
			return m, ticket.NewTicket(m.ctx, m.store)
		case key.Matches(msg, m.keys.Edit):
			if t, ok := m.selected(); ok {
				return m, ticket.EditTicket(m.ctx, t, m.store)
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if t, ok := m.selected(); ok {
				return m, m.confirmDelete(t)
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, ticket.Load(m.ctx, m.store)
		case key.Matches(msg, m.keys.Logout):
			return m, messages.Logout
		case key.Matches(msg, m.keys.Quit):
			return m, messages.Quit
		}
	}
	newListModel, cmd := m.list.Update(msg)
	m.list = &newListModel
	return m, cmd
}

func (m Model) detailView(width, height int) string {
	frameX, frameY := detailStyle.GetFrameSize()
	innerWidth := max(10, width-frameX)
	t, ok := m.selected()
	if !ok {
		return detailStyle.Width(innerWidth).Height(max(1, height-frameY)).Render(mutedStyle.Render("No ticket selected"))
	}

	rows := []string{
		detailTitleStyle.Render(wordwrap.String(t.Title, innerWidth)),
		ticket.IdStyle().Render(t.ShortID()),
		"",
		"Status:   " + StatusStyle(t.Status).Render(t.Status.Label()),
		"Priority: " + t.Priority.Label(),
		"Created:  " + t.CreatedAt.Local().Format(dateLayout),
		"",
	}
	if t.Description != "" {
		rows = append(rows, wordwrap.String(t.Description, innerWidth))
	} else {
		rows = append(rows, mutedStyle.Render("No description"))
	}
	return detailStyle.
		Width(innerWidth).
		Height(max(1, height-frameY)).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) View() string {
	var body string
	if m.loaded && len(m.tickets) == 0 {
		body = emptyStyle.Render("No tickets yet. Create your first ticket to get started!")
	} else {
		body = m.list.View()
	}
	left := listStyle.
		Width(m.list.Width()).
		Height(m.list.Height()).
		Render(body)

	board := left
	if detailWidth := m.width - lipgloss.Width(left); detailWidth > 20 {
		board = lipgloss.JoinHorizontal(lipgloss.Top, left, m.detailView(detailWidth, lipgloss.Height(left)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, board, m.help.View(m.keys))
}
