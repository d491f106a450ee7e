package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	charmansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/Kavantix/ticketflow/internal/auth"
	"github.com/Kavantix/ticketflow/internal/dashboard"
	"github.com/Kavantix/ticketflow/internal/landing"
	"github.com/Kavantix/ticketflow/internal/login"
	"github.com/Kavantix/ticketflow/internal/messages"
	"github.com/Kavantix/ticketflow/internal/overlay"
	"github.com/Kavantix/ticketflow/internal/storage"
	"github.com/Kavantix/ticketflow/internal/ticket"
	"github.com/Kavantix/ticketflow/internal/tickets"
	"github.com/Kavantix/ticketflow/internal/toast"
)

// Config wires the app to its storage. Open runs inside the first command so
// the spinner shows while a database is migrated or a server is dialed.
type Config struct {
	Open        func(ctx context.Context) (storage.Storage, error)
	Namespace   string
	SessionKey  string
	Credentials auth.Credentials
	Log         *slog.Logger
}

var errNoStorage = errors.New("no storage backend configured")

type Model struct {
	ctx context.Context
	cfg Config

	spinner      spinner.Model
	loaded       bool
	windowWidth  int
	windowHeight int
	quitting     bool

	storage storage.Storage
	store   *ticket.Store
	session *auth.Session

	screenID messages.Screen
	screen   tea.Model
	modals   []overlay.ModalModel
	toast    toast.Model

	criticalFailure messages.CriticalFailureMsg
}

var _ tea.Model = Model{}

func New(ctx context.Context, cfg Config) Model {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = ticket.DefaultNamespace
	}
	if cfg.SessionKey == "" {
		cfg.SessionKey = auth.DefaultSessionKey
	}
	return Model{
		ctx:     ctx,
		cfg:     cfg,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		toast:   toast.New(),
	}
}

type LoadedMsg struct {
	Storage storage.Storage
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	open := m.cfg.Open
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if open == nil {
			return messages.CriticalFailureMsg{
				Err:          errNoStorage,
				FriendlyText: "Failed to open storage",
			}
		}
		backend, err := open(ctx)
		if err != nil {
			return messages.CriticalFailureMsg{
				Err:          err,
				FriendlyText: "Failed to open storage",
			}
		}
		return LoadedMsg{Storage: backend}
	})
}

// Storage returns the opened backend, or nil before LoadedMsg arrived.
func (m Model) Storage() storage.Storage {
	return m.storage
}

func (m Model) Screen() messages.Screen {
	return m.screenID
}

func (m Model) ScreenModel() tea.Model {
	return m.screen
}

func (m Model) Modals() []overlay.ModalModel {
	return m.modals
}

func (m Model) Toast() toast.Model {
	return m.toast
}

func (m Model) newScreen(screen messages.Screen) tea.Model {
	switch screen {
	case messages.Login:
		return login.New(m.ctx, m.session)
	case messages.Dashboard:
		return dashboard.New(m.ctx, m.store)
	case messages.Tickets:
		return tickets.New(m.ctx, m.store)
	default:
		return landing.New()
	}
}

func (m Model) navigate(msg messages.NavigateMsg) (Model, tea.Cmd) {
	to := msg.To
	var cmds []tea.Cmd
	if to.RequiresSession() && !m.session.IsAuthenticated(m.ctx) {
		slog.Info("navigation_blocked", slog.String("to", to.String()))
		to = messages.Login
		cmds = append(cmds, messages.Toast(messages.ToastError, "Please log in to continue"))
	}

	m.modals = nil
	m.screenID = to
	m.screen = m.newScreen(to)
	if m.windowWidth > 0 {
		m.screen, _ = m.screen.Update(m.screenSize())
	}
	cmds = append(cmds, m.screen.Init())
	if msg.OpenCreateForm && to == messages.Tickets {
		cmds = append(cmds, ticket.NewTicket(m.ctx, m.store))
	}
	return m, tea.Batch(cmds...)
}

// screenSize leaves the bottom line for the toast.
func (m Model) screenSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.windowWidth, Height: max(0, m.windowHeight-1)}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.criticalFailure.Err != nil {
		return m, tea.Quit
	}

	var toastCmd tea.Cmd
	m.toast, toastCmd = m.toast.Update(msg)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case LoadedMsg:
		m.storage = msg.Storage
		m.store = ticket.NewStore(msg.Storage,
			ticket.WithNamespace(m.cfg.Namespace),
			ticket.WithLogger(m.cfg.Log),
		)
		m.session = auth.NewSession(msg.Storage, m.cfg.Credentials,
			auth.WithKey(m.cfg.SessionKey),
			auth.WithLogger(m.cfg.Log),
		)
		m.loaded = true
		start := messages.Landing
		if m.session.IsAuthenticated(m.ctx) {
			start = messages.Dashboard
		}
		return m.navigate(messages.NavigateMsg{To: start})
	case messages.CriticalFailureMsg:
		m.criticalFailure = msg
		return m, tea.ExitAltScreen
	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		if m.screen != nil {
			m.screen, cmd = m.screen.Update(m.screenSize())
		}
		return m, cmd
	case messages.ToastMsg:
		return m, toastCmd
	case ticket.FailedMsg:
		// The form that started the save is still open and shows field errors.
		if len(m.modals) > 0 {
			i := len(m.modals) - 1
			model, _ := m.modals[i].Update(msg)
			m.modals[i] = model.(overlay.ModalModel)
		}
		return m, tea.Batch(toastCmd, messages.Toast(messages.ToastError, msg.FriendlyText()))
	case ticket.TicketsUpdatedMsg:
		if m.screen != nil {
			m.screen, cmd = m.screen.Update(msg)
		}
		return m, tea.Batch(toastCmd, cmd)
	case messages.NavigateMsg:
		if !m.loaded {
			return m, toastCmd
		}
		m, cmd = m.navigate(msg)
		return m, tea.Batch(toastCmd, cmd)
	case messages.LogoutMsg:
		if !m.loaded {
			return m, toastCmd
		}
		if err := m.session.Logout(m.ctx); err != nil {
			slog.Error("logout_failed", slog.String("err", err.Error()))
			return m, tea.Batch(toastCmd, messages.Toast(messages.ToastError, "Failed to log out. Please try again."))
		}
		m, cmd = m.navigate(messages.NavigateMsg{To: messages.Landing})
		return m, tea.Batch(toastCmd, cmd, messages.Toast(messages.ToastSuccess, "Logged out"))
	case messages.QuitMsg:
		slog.Info("Quitting")
		m.quitting = true
		return m, tea.Quit
	case overlay.ModalModel:
		m.modals = append(m.modals, msg)
		return m, tea.Batch(toastCmd, msg.Init())
	case messages.CloseModalMsg:
		if len(m.modals) > 0 {
			m.modals = m.modals[:len(m.modals)-1]
		}
		return m, toastCmd
	}

	if len(m.modals) > 0 {
		i := len(m.modals) - 1
		model, cmd := m.modals[i].Update(msg)
		m.modals[i] = model.(overlay.ModalModel)
		return m, tea.Batch(toastCmd, cmd)
	}

	if m.screen != nil {
		m.screen, cmd = m.screen.Update(msg)
	}
	return m, tea.Batch(toastCmd, cmd)
}

var (
	failureStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("9")).
			Margin(1, 0)
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	dimmedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.criticalFailure.Err != nil {
		title := "Failed"
		if m.criticalFailure.FriendlyText != "" {
			title = m.criticalFailure.FriendlyText
		}
		title = failureStyle.Render(title)
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			lipgloss.NewStyle().
				Width(m.windowWidth).
				Render(m.criticalFailure.Err.Error()+"\n"),
		)
	}

	if !m.loaded || m.screen == nil {
		return m.spinner.View() + " Loading..."
	}

	view := lipgloss.JoinVertical(lipgloss.Left, m.screen.View(), m.toast.View())
	if len(m.modals) == 0 {
		return zone.Scan(view)
	}

	verticalMargin := 1
	horizontalMargin := 2
	modal := m.modals[len(m.modals)-1]
	var content string
	x, y := horizontalMargin, verticalMargin
	if sizeable, ok := modal.(overlay.Sizeable); ok {
		styleWidth, styleHeight := modalStyle.GetFrameSize()
		width := m.windowWidth - styleWidth - 2*horizontalMargin
		height := m.windowHeight - styleHeight - 2*verticalMargin
		sized := sizeable.SetSize(width, height)
		content = modalStyle.Render(lipgloss.NewStyle().
			Width(width).MaxWidth(width).
			Height(height).MaxHeight(height).
			Render(sized.View()))
	} else {
		content = modal.View()
		x = max(0, (m.windowWidth-lipgloss.Width(content))/2)
		y = max(0, (m.windowHeight-lipgloss.Height(content))/2)
	}

	return zone.Scan(overlay.Place(
		x, y,
		content, dimmedStyle.Render(charmansi.Strip(view)),
	))
}
