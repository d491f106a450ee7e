package login

import (
	"context"
	"maps"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kavantix/ticketflow/internal/auth"
	"github.com/Kavantix/ticketflow/internal/messages"
)

type ResultMsg struct {
	Result auth.Result
}

type Model struct {
	ctx     context.Context
	session *auth.Session

	width  int
	height int

	emailInput    *textinput.Model
	passwordInput *textinput.Model
	errors        map[string]string
	submitting    bool
}

var _ tea.Model = Model{}

func New(ctx context.Context, session *auth.Session) Model {
	emailInput := textinput.New()
	emailInput.Placeholder = "you@example.com"
	emailInput.Prompt = ""
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Prompt = ""
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'

	return Model{
		ctx:           ctx,
		session:       session,
		emailInput:    &emailInput,
		passwordInput: &passwordInput,
		errors:        map[string]string{},
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Errors() map[string]string {
	return m.errors
}

func (m Model) toggleFocus() Model {
	if m.emailInput.Focused() {
		m.emailInput.Blur()
		m.passwordInput.Focus()
	} else {
		m.passwordInput.Blur()
		m.emailInput.Focus()
	}
	return m
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	email := m.emailInput.Value()
	password := m.passwordInput.Value()
	if errs := auth.ValidateLogin(email, password); len(errs) > 0 {
		m.errors = errs
		return m, nil
	}
	m.submitting = true
	ctx, session := m.ctx, m.session
	return m, func() tea.Msg {
		return ResultMsg{Result: session.Login(ctx, email, password)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case ResultMsg:
		m.submitting = false
		if !msg.Result.Success {
			return m, messages.Toast(messages.ToastError, msg.Result.Error)
		}
		return m, tea.Batch(
			messages.Toast(messages.ToastSuccess, "Login successful!"),
			messages.Navigate(messages.Dashboard),
		)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, messages.Quit
		case "esc":
			return m, messages.Navigate(messages.Landing)
		case "tab", "shift+tab", "up", "down":
			return m.toggleFocus(), nil
		case "enter":
			if m.emailInput.Focused() {
				return m.toggleFocus(), nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.emailInput.Focused() {
		before := m.emailInput.Value()
		newEmailInput, c := m.emailInput.Update(msg)
		m.emailInput = &newEmailInput
		cmd = c
		if newEmailInput.Value() != before {
			m = m.clearError("email")
		}
	} else {
		before := m.passwordInput.Value()
		newPasswordInput, c := m.passwordInput.Update(msg)
		m.passwordInput = &newPasswordInput
		cmd = c
		if newPasswordInput.Value() != before {
			m = m.clearError("password")
		}
	}
	return m, cmd
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

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 3)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248")).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	inputStyle    = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("239"))
	focusedInputStyle = inputStyle.BorderForeground(lipgloss.Color("13"))
	errorInputStyle   = inputStyle.BorderForeground(lipgloss.Color("9"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

func (m Model) renderField(label, name string, input *textinput.Model) string {
	style := inputStyle
	if _, ok := m.errors[name]; ok {
		style = errorInputStyle
	} else if input.Focused() {
		style = focusedInputStyle
	}
	rows := []string{labelStyle.Render(label), style.Render(input.View())}
	if message, ok := m.errors[name]; ok {
		rows = append(rows, errorStyle.Render(message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) View() string {
	rows := []string{
		titleStyle.Render("Welcome Back"),
		subtitleStyle.Render("Login to manage your tickets"),
		m.renderField("Email", "email", m.emailInput),
		m.renderField("Password", "password", m.passwordInput),
		hintStyle.Render("enter login • tab switch field • esc back"),
	}
	if m.session != nil && m.session.UsesTestCredentials() {
		rows = append(rows, hintStyle.Render(
			"Test credentials: "+auth.TestCredentials.Email+" / "+auth.TestCredentials.Password,
		))
	}
	content := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
