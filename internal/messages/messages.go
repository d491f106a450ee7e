package messages

import (
	tea "github.com/charmbracelet/bubbletea"
)

type CloseModalMsg struct{}

func CloseModal() tea.Msg {
	return CloseModalMsg{}
}

type QuitMsg struct{}

func Quit() tea.Msg {
	return QuitMsg{}
}

type CriticalFailureMsg struct {
	Err          error
	FriendlyText string
}

type Screen int

const (
	Landing Screen = iota
	Login
	Dashboard
	Tickets
)

func (s Screen) String() string {
	switch s {
	case Landing:
		return "landing"
	case Login:
		return "login"
	case Dashboard:
		return "dashboard"
	case Tickets:
		return "tickets"
	default:
		return "unknown"
	}
}

// RequiresSession reports whether the screen is only reachable after login.
func (s Screen) RequiresSession() bool {
	return s == Dashboard || s == Tickets
}

type NavigateMsg struct {
	To Screen

	// OpenCreateForm opens the new ticket form once the screen is shown.
	OpenCreateForm bool
}

func Navigate(to Screen) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{To: to}
	}
}

type LogoutMsg struct{}

func Logout() tea.Msg {
	return LogoutMsg{}
}

type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

type ToastMsg struct {
	Kind    ToastKind
	Message string
}

func Toast(kind ToastKind, message string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Kind: kind, Message: message}
	}
}
