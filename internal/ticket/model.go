package ticket

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kavantix/ticketflow/internal/confirm"
	"github.com/Kavantix/ticketflow/internal/messages"
	"github.com/Kavantix/ticketflow/internal/overlay"
)

type field int

const (
	titleField field = iota
	descriptionField
	statusField
	priorityField

	numberOfFields = int(iota)
)

// Model is the create/edit form shown as a modal over the ticket list.
type Model struct {
	ctx   context.Context
	store *Store

	width  int
	height int

	ticket           Ticket
	titleInput       *textinput.Model
	descriptionInput textarea.Model
	status           Status
	priority         Priority
	focus            field
	errors           FieldErrors
	saving           bool
}

// assert
var _ overlay.ModalModel = Model{}
var _ overlay.Sizeable = Model{}

var idStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("69")).
	Bold(true)

func IdStyle() lipgloss.Style {
	return idStyle
}

func NewModel(ctx context.Context, store *Store) Model {
	titleInput := textinput.New()
	titleInput.Focus()
	titleInput.Width = 1000
	titleInput.Placeholder = "Enter ticket title"

	descriptionInput := textarea.New()
	descriptionInput.Placeholder = "Enter ticket description (optional)"
	descriptionInput.Prompt = ""
	descriptionInput.CharLimit = 0
	descriptionInput.ShowLineNumbers = false
	return Model{
		ctx:              ctx,
		store:            store,
		titleInput:       &titleInput,
		descriptionInput: descriptionInput,
		status:           Open,
		priority:         Medium,
		errors:           FieldErrors{},
	}
}

func (m *Model) EditTicket(ticket Ticket) {
	m.ticket = ticket
	m.titleInput.SetValue(ticket.Title)
	m.descriptionInput.SetValue(ticket.Description)
	m.status = ticket.Status
	m.priority = ticket.Priority
	if m.priority == "" {
		m.priority = Medium
	}
}

// Errors returns the field errors of the last save attempt.
func (m Model) Errors() FieldErrors {
	return m.errors
}

func (m Model) SetSize(width, height int) overlay.ModalModel {
	styleWidth, styleHeight := formStyle.GetFrameSize()
	m.width = width
	m.height = height
	width -= styleWidth + 2
	height -= styleHeight
	titleWidth := width - 2
	if titleWidth != m.titleInput.Width {
		newTitleInput := textinput.New()
		if m.titleInput.Focused() {
			newTitleInput.Focus()
		}
		newTitleInput.SetValue(m.titleInput.Value())
		newTitleInput.Width = titleWidth
		newTitleInput.Placeholder = m.titleInput.Placeholder
		m.titleInput = &newTitleInput
	}
	m.descriptionInput.SetWidth(width)
	// Title, the labels, the selector rows, error lines and the help line.
	m.descriptionInput.SetHeight(max(3, height-12))
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) input() Input {
	return Input{
		Title:       strings.TrimSpace(m.titleInput.Value()),
		Description: strings.TrimSpace(m.descriptionInput.Value()),
		Status:      m.status,
		Priority:    m.priority,
	}
}

func (m Model) hasChanged() bool {
	in := m.input()
	if m.ticket.ID == "" {
		return in.Title != "" || in.Description != "" || in.Status != Open || in.Priority != Medium
	}
	return in != m.ticket.input()
}

func (m Model) setFocus(f field) Model {
	m.focus = f
	if f == titleField {
		m.titleInput.Focus()
	} else {
		m.titleInput.Blur()
	}
	if f == descriptionField {
		m.descriptionInput.Focus()
	} else {
		m.descriptionInput.Blur()
	}
	return m
}

func (m Model) clearError(name string) Model {
	if _, ok := m.errors[name]; !ok {
		return m
	}
	errs := maps.Clone(m.errors)
	delete(errs, name)
	m.errors = errs
	return m
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	if m.store == nil {
		return m, func() tea.Msg {
			return messages.CriticalFailureMsg{
				Err: fmt.Errorf("store was not set"),
			}
		}
	}

	in := m.input()
	if errs := Validate(in); len(errs) > 0 {
		m.errors = errs
		return m, messages.Toast(messages.ToastError, "Please fix the errors in the form")
	}

	// The form stays open until the store accepted the ticket so a failed save
	// can be retried.
	m.saving = true
	if m.ticket.ID != "" {
		return m, Update(m.ctx, m.store, m.ticket.ID, PatchFrom(in), messages.CloseModal)
	}
	return m, Create(m.ctx, m.store, in, messages.CloseModal)
}

// Saving reports whether a save is in flight.
func (m Model) Saving() bool {
	return m.saving
}

func (m Model) failed(msg FailedMsg) Model {
	m.saving = false
	var validationErr *ValidationError
	if errors.As(msg.Err, &validationErr) {
		m.errors = maps.Clone(validationErr.Fields)
	}
	return m
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FailedMsg:
		return m.failed(msg), nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.hasChanged() {
				return m, confirm.Show("Are you sure you want to discard your changes?", messages.CloseModal)
			}
			return m, messages.CloseModal
		case "ctrl+c":
			return m, messages.Quit
		case "ctrl+s":
			return m.submit()
		case "tab":
			return m.setFocus(field((int(m.focus) + 1) % numberOfFields)), nil
		case "shift+tab":
			return m.setFocus(field((int(m.focus) + numberOfFields - 1) % numberOfFields)), nil
		case "enter":
			if m.focus == titleField {
				return m.setFocus(descriptionField), nil
			}
			if m.focus == statusField || m.focus == priorityField {
				return m.submit()
			}
		case "left", "h", "right", "l":
			step := 1
			if s := msg.String(); s == "left" || s == "h" {
				step = -1
			}
			switch m.focus {
			case statusField:
				m.status = cycle(Statuses[:], m.status, step)
				return m.clearError(FieldStatus), nil
			case priorityField:
				m.priority = cycle(Priorities[:], m.priority, step)
				return m.clearError(FieldPriority), nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case titleField:
		before := m.titleInput.Value()
		newTitleInput, c := m.titleInput.Update(msg)
		m.titleInput = &newTitleInput
		cmd = c
		if newTitleInput.Value() != before {
			m = m.clearError(FieldTitle)
		}
	case descriptionField:
		before := m.descriptionInput.Value()
		m.descriptionInput, cmd = m.descriptionInput.Update(msg)
		if m.descriptionInput.Value() != before {
			m = m.clearError(FieldDescription)
		}
	}
	return m, cmd
}

func cycle[T comparable](options []T, current T, step int) T {
	for i, option := range options {
		if option == current {
			return options[(i+step+len(options))%len(options)]
		}
	}
	return options[0]
}

func (m Model) OverlayTitle() string {
	titleBuilder := strings.Builder{}
	if m.ticket.ID == "" {
		return "Create New Ticket"
	} else {
		titleBuilder.WriteString(idStyle.Render(m.ticket.ShortID()))
		titleBuilder.WriteRune(' ')
		titleBuilder.WriteString(m.ticket.Title)
		return titleBuilder.String()
	}
}

var (
	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1)

	labelStyle        = lipgloss.NewStyle().Bold(true)
	focusedLabelStyle = labelStyle.Foreground(lipgloss.Color("13"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	optionStyle       = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle     = optionStyle.
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("230"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) label(f field, text string) string {
	if m.focus == f {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m Model) fieldError(name string) string {
	if message, ok := m.errors[name]; ok {
		return errorStyle.Render(message)
	}
	return ""
}

func renderOptions[T ~string](options []T, selected T, label func(T) string) string {
	rendered := make([]string, 0, len(options))
	for _, option := range options {
		if option == selected {
			rendered = append(rendered, selectedStyle.Render(label(option)))
		} else {
			rendered = append(rendered, optionStyle.Render(label(option)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) View() string {
	if m.titleInput.Focused() {
		m.titleInput.TextStyle = m.descriptionInput.FocusedStyle.Text
		m.titleInput.PromptStyle = m.descriptionInput.FocusedStyle.Text
	} else {
		m.titleInput.TextStyle = m.descriptionInput.BlurredStyle.Text
		m.titleInput.PromptStyle = m.descriptionInput.BlurredStyle.Text
	}

	rows := []string{
		m.label(titleField, "Title *"),
		m.titleInput.View(),
	}
	if e := m.fieldError(FieldTitle); e != "" {
		rows = append(rows, e)
	}
	rows = append(rows, m.label(descriptionField, "Description"), m.descriptionInput.View())
	if e := m.fieldError(FieldDescription); e != "" {
		rows = append(rows, e)
	}
	rows = append(rows,
		m.label(statusField, "Status *"),
		renderOptions(Statuses[:], m.status, Status.Label),
	)
	if e := m.fieldError(FieldStatus); e != "" {
		rows = append(rows, e)
	}
	rows = append(rows,
		m.label(priorityField, "Priority"),
		renderOptions(Priorities[:], m.priority, Priority.Label),
	)
	if e := m.fieldError(FieldPriority); e != "" {
		rows = append(rows, e)
	}

	action := "create"
	if m.ticket.ID != "" {
		action = "update"
	}
	rows = append(rows, "", helpStyle.Render("ctrl+s "+action+" • tab next field • ←/→ change • esc cancel"))

	result := formStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return overlay.Place(4, 0, " "+m.OverlayTitle()+" ", result)
}
