package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"

	"github.com/Kavantix/ticketflow/internal/auth"
	"github.com/Kavantix/ticketflow/internal/messages"
	"github.com/Kavantix/ticketflow/internal/storage"
	"github.com/Kavantix/ticketflow/internal/testutil"
	"github.com/Kavantix/ticketflow/internal/ticket"
	"github.com/Kavantix/ticketflow/internal/tickets"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
	code := m.Run()
	zone.Close()
	os.Exit(code)
}

const maxSteps = 500

// pump feeds msgs to m and keeps feeding whatever the resulting commands
// produce until nothing is left, like the program loop would.
func pump(t *testing.T, m tea.Model, msgs ...tea.Msg) Model {
	t.Helper()
	queue := append([]tea.Msg(nil), msgs...)
	for steps := 0; len(queue) > 0; steps++ {
		if steps > maxSteps {
			t.Fatalf("message loop did not settle, next message %#v", queue[0])
		}
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		queue = append(queue, testutil.Collect(cmd)...)
	}
	return m.(Model)
}

func keys(names ...string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, testutil.Key(name))
	}
	return msgs
}

func typed(text string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(text))
	for _, r := range text {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func start(t *testing.T, backend storage.Storage) Model {
	t.Helper()
	m := New(context.Background(), Config{
		Open: func(context.Context) (storage.Storage, error) {
			return backend, nil
		},
		Credentials: auth.TestCredentials,
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	msgs := append([]tea.Msg{tea.WindowSizeMsg{Width: 120, Height: 40}}, testutil.Collect(m.Init())...)
	return pump(t, m, msgs...)
}

func loggedIn(t *testing.T) storage.Storage {
	t.Helper()
	backend := storage.NewMemory()
	if err := backend.Write(context.Background(), auth.DefaultSessionKey, []byte(auth.TestCredentials.Email)); err != nil {
		t.Fatalf("write session: %v", err)
	}
	return backend
}

func TestStartsOnLandingWithoutSession(t *testing.T) {
	m := start(t, storage.NewMemory())

	if m.Screen() != messages.Landing {
		t.Fatalf("expected landing, got %s", m.Screen())
	}
	if !strings.Contains(m.View(), "TicketFlow") {
		t.Fatalf("expected the landing page to render")
	}
}

func TestStartsOnDashboardWithSession(t *testing.T) {
	m := start(t, loggedIn(t))

	if m.Screen() != messages.Dashboard {
		t.Fatalf("expected dashboard, got %s", m.Screen())
	}
	if !strings.Contains(m.View(), "TicketFlow Dashboard") {
		t.Fatalf("expected the dashboard to render")
	}
}

func TestProtectedScreensRedirectToLogin(t *testing.T) {
	for _, to := range []messages.Screen{messages.Dashboard, messages.Tickets} {
		t.Run(to.String(), func(t *testing.T) {
			m := start(t, storage.NewMemory())
			m = pump(t, m, messages.NavigateMsg{To: to})

			if m.Screen() != messages.Login {
				t.Fatalf("expected login, got %s", m.Screen())
			}
			if m.Toast().Message() != "Please log in to continue" {
				t.Fatalf("unexpected toast %q", m.Toast().Message())
			}
		})
	}
}

func TestLoginFlow(t *testing.T) {
	backend := storage.NewMemory()
	m := start(t, backend)

	m = pump(t, m, keys("l")...)
	if m.Screen() != messages.Login {
		t.Fatalf("expected login, got %s", m.Screen())
	}

	m = pump(t, m, typed(auth.TestCredentials.Email)...)
	m = pump(t, m, keys("enter")...)
	m = pump(t, m, typed("wrong")...)
	m = pump(t, m, keys("enter")...)
	if m.Screen() != messages.Login {
		t.Fatalf("expected to stay on login, got %s", m.Screen())
	}
	if m.Toast().Message() != "Invalid email or password" {
		t.Fatalf("unexpected toast %q", m.Toast().Message())
	}

	m = pump(t, m, keys("backspace", "backspace", "backspace", "backspace", "backspace")...)
	m = pump(t, m, typed(auth.TestCredentials.Password)...)
	m = pump(t, m, keys("enter")...)
	if m.Screen() != messages.Dashboard {
		t.Fatalf("expected dashboard after login, got %s", m.Screen())
	}
	if m.Toast().Message() != "Login successful!" {
		t.Fatalf("unexpected toast %q", m.Toast().Message())
	}
	if _, err := backend.Read(context.Background(), auth.DefaultSessionKey); err != nil {
		t.Fatalf("expected a stored session: %v", err)
	}
}

func TestLogout(t *testing.T) {
	backend := loggedIn(t)
	m := start(t, backend)

	m = pump(t, m, keys("o")...)
	if m.Screen() != messages.Landing {
		t.Fatalf("expected landing after logout, got %s", m.Screen())
	}
	if m.Toast().Message() != "Logged out" {
		t.Fatalf("unexpected toast %q", m.Toast().Message())
	}
	if _, err := backend.Read(context.Background(), auth.DefaultSessionKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected the session to be cleared, got %v", err)
	}

	m = pump(t, m, messages.NavigateMsg{To: messages.Tickets})
	if m.Screen() != messages.Login {
		t.Fatalf("expected login after logout, got %s", m.Screen())
	}
}

func ticketsScreen(t *testing.T, m Model) tickets.Model {
	t.Helper()
	screen, ok := m.ScreenModel().(tickets.Model)
	if !ok {
		t.Fatalf("expected the tickets screen, got %T", m.ScreenModel())
	}
	return screen
}

func TestCreateEditDeleteFromScreens(t *testing.T) {
	ctx := context.Background()
	backend := loggedIn(t)
	m := start(t, backend)

	m = pump(t, m, keys("c")...)
	if m.Screen() != messages.Tickets {
		t.Fatalf("expected tickets, got %s", m.Screen())
	}
	if len(m.Modals()) != 1 {
		t.Fatalf("expected the create form to open, got %d modals", len(m.Modals()))
	}
	if !strings.Contains(m.View(), "Create New Ticket") {
		t.Fatalf("expected the form to render over the list")
	}

	m = pump(t, m, typed("Network down")...)
	m = pump(t, m, keys("ctrl+s")...)
	if len(m.Modals()) != 0 {
		t.Fatalf("expected the form to close, got %d modals", len(m.Modals()))
	}
	if m.Toast().Message() != "Ticket created successfully!" {
		t.Fatalf("unexpected toast %q", m.Toast().Message())
	}
	list := ticketsScreen(t, m).Tickets()
	if len(list) != 1 || list[0].Title != "Network down" {
		t.Fatalf("expected the new ticket on screen, got %+v", list)
	}

	m = pump(t, m, keys("e")...)
	if len(m.Modals()) != 1 {
		t.Fatalf("expected the edit form to open, got %d modals", len(m.Modals()))
	}
	m = pump(t, m, keys("tab", "tab", "right", "ctrl+s")...)
	if m.Toast().Message() != "Ticket updated successfully!" {
		t.Fatalf("unexpected toast %q", m.Toast().Message())
	}
	if got := ticketsScreen(t, m).Tickets()[0].Status; got != ticket.InProgress {
		t.Fatalf("expected status %q, got %q", ticket.InProgress, got)
	}

	m = pump(t, m, keys("d")...)
	if len(m.Modals()) != 1 || !strings.Contains(m.View(), "Confirm Delete") {
		t.Fatalf("expected a delete confirmation")
	}
	m = pump(t, m, keys("y")...)
	if m.Toast().Message() != "Ticket deleted successfully!" {
		t.Fatalf("unexpected toast %q", m.Toast().Message())
	}
	if got := ticketsScreen(t, m).Tickets(); len(got) != 0 {
		t.Fatalf("expected no tickets on screen, got %+v", got)
	}
	if !strings.Contains(m.View(), "No tickets yet") {
		t.Fatalf("expected the empty state")
	}

	raw, err := backend.Read(ctx, ticket.DefaultNamespace)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected an empty stored collection, got %s", raw)
	}
}

// refusingStorage fails writes of the ticket collection while refuse is set.
type refusingStorage struct {
	*storage.MemoryStorage
	refuse bool
}

func (s *refusingStorage) Write(ctx context.Context, key string, value []byte) error {
	if s.refuse && key == ticket.DefaultNamespace {
		return errors.New("quota exceeded")
	}
	return s.MemoryStorage.Write(ctx, key, value)
}

func TestFailedSaveKeepsFormOpen(t *testing.T) {
	backend := &refusingStorage{MemoryStorage: loggedIn(t).(*storage.MemoryStorage), refuse: true}
	m := start(t, backend)

	m = pump(t, m, keys("c")...)
	m = pump(t, m, typed("Network down")...)
	m = pump(t, m, keys("ctrl+s")...)

	if m.Toast().Message() != "Failed to save ticket. Please try again." {
		t.Fatalf("unexpected toast %q", m.Toast().Message())
	}
	if len(m.Modals()) != 1 {
		t.Fatalf("expected the form to stay open, got %d modals", len(m.Modals()))
	}
	form, ok := m.Modals()[0].(ticket.Model)
	if !ok {
		t.Fatalf("expected the ticket form on top, got %T", m.Modals()[0])
	}
	if form.Saving() {
		t.Fatalf("expected the form to accept another save")
	}
	if got := ticketsScreen(t, m).Tickets(); len(got) != 0 {
		t.Fatalf("expected nothing saved, got %+v", got)
	}

	backend.refuse = false
	m = pump(t, m, keys("ctrl+s")...)
	if len(m.Modals()) != 0 {
		t.Fatalf("expected the form to close after a successful retry, got %d modals", len(m.Modals()))
	}
	list := ticketsScreen(t, m).Tickets()
	if len(list) != 1 || list[0].Title != "Network down" {
		t.Fatalf("expected the typed ticket to be saved on retry, got %+v", list)
	}
}

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	backend := loggedIn(t)
	store := ticket.NewStore(backend)
	for _, status := range ticket.Statuses {
		if _, err := store.Create(ctx, ticket.Input{Title: string(status), Status: status}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	m := start(t, backend)
	view := m.View()
	for _, want := range []string{"Total Tickets", "Open Tickets", "In Progress", "Resolved Tickets", "3"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in dashboard view:\n%s", want, view)
		}
	}
}

func TestOpenFailureIsCritical(t *testing.T) {
	m := New(context.Background(), Config{
		Open: func(context.Context) (storage.Storage, error) {
			return nil, errors.New("disk on fire")
		},
	})
	m = pump(t, m, testutil.Collect(m.Init())...)

	view := m.View()
	if !strings.Contains(view, "Failed to open storage") || !strings.Contains(view, "disk on fire") {
		t.Fatalf("expected the failure screen, got:\n%s", view)
	}
}
