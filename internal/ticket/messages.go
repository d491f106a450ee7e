package ticket

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kavantix/ticketflow/internal/messages"
)

// TicketsUpdatedMsg carries a fresh copy of the collection, read back from the
// store after a load or a successful mutation.
type TicketsUpdatedMsg struct {
	Tickets []Ticket
}

// FailedMsg reports a store operation that was not applied.
type FailedMsg struct {
	Op  string
	Err error
}

// FriendlyText is the message shown to the user for the failure.
func (m FailedMsg) FriendlyText() string {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	switch {
	case errors.As(m.Err, &validationErr):
		return "Please fix the errors in the form"
	case errors.As(m.Err, &notFoundErr):
		return "Ticket no longer exists"
	case m.Op == "delete":
		return "Failed to delete ticket. Please try again."
	default:
		return "Failed to save ticket. Please try again."
	}
}

func Load(ctx context.Context, store *Store) tea.Cmd {
	return func() tea.Msg {
		return TicketsUpdatedMsg{Tickets: store.List(ctx)}
	}
}

// Create saves a new ticket. The then commands only run once the ticket is
// stored.
func Create(ctx context.Context, store *Store, in Input, then ...tea.Cmd) tea.Cmd {
	return mutate(ctx, store, "create", "Ticket created successfully!", func() error {
		_, err := store.Create(ctx, in)
		return err
	}, then...)
}

func Update(ctx context.Context, store *Store, id string, patch Patch, then ...tea.Cmd) tea.Cmd {
	return mutate(ctx, store, "update", "Ticket updated successfully!", func() error {
		_, err := store.Update(ctx, id, patch)
		return err
	}, then...)
}

func Delete(ctx context.Context, store *Store, id string) tea.Cmd {
	return mutate(ctx, store, "delete", "Ticket deleted successfully!", func() error {
		return store.Delete(ctx, id)
	})
}

func mutate(ctx context.Context, store *Store, op, notice string, apply func() error, then ...tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		if err := apply(); err != nil {
			store.log.Error("ticket_"+op+"_failed", slog.String("err", err.Error()))
			return FailedMsg{Op: op, Err: err}
		}
		return append(tea.BatchMsg{
			Load(ctx, store),
			messages.Toast(messages.ToastSuccess, notice),
		}, then...)
	}
}

// NewTicket opens the form for a new ticket.
func NewTicket(ctx context.Context, store *Store) tea.Cmd {
	return func() tea.Msg {
		return NewModel(ctx, store)
	}
}

// EditTicket opens the form prefilled with t.
func EditTicket(ctx context.Context, t Ticket, store *Store) tea.Cmd {
	return func() tea.Msg {
		m := NewModel(ctx, store)
		m.EditTicket(t)
		return m
	}
}
