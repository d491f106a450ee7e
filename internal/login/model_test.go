package login

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kavantix/ticketflow/internal/auth"
	"github.com/Kavantix/ticketflow/internal/messages"
	"github.com/Kavantix/ticketflow/internal/storage"
	"github.com/Kavantix/ticketflow/internal/testutil"
)

func newModel() Model {
	session := auth.NewSession(storage.NewMemory(), auth.TestCredentials)
	return New(context.Background(), session)
}

func TestEmptyFormShowsFieldErrors(t *testing.T) {
	var m tea.Model = newModel()
	m, _ = m.Update(testutil.Key("tab"))
	m, cmd := m.Update(testutil.Key("enter"))
	if cmd != nil {
		t.Fatalf("expected no login attempt with empty fields")
	}
	errs := m.(Model).Errors()
	if errs["email"] != "Email is required" || errs["password"] != "Password is required" {
		t.Fatalf("unexpected errors %v", errs)
	}

	m, _ = m.Update(testutil.Key("tab"))
	m = testutil.Type(m, "a")
	if _, ok := m.(Model).Errors()["email"]; ok {
		t.Fatalf("expected the email error to clear once edited")
	}
	if _, ok := m.(Model).Errors()["password"]; !ok {
		t.Fatalf("expected the password error to remain")
	}
}

func TestSuccessfulLogin(t *testing.T) {
	var m tea.Model = newModel()
	m = testutil.Type(m, "user@test.com")
	m, _ = m.Update(testutil.Key("enter"))
	m = testutil.Type(m, "password123")
	m, cmd := m.Update(testutil.Key("enter"))

	result, ok := testutil.Find[ResultMsg](testutil.Collect(cmd))
	if !ok || !result.Result.Success {
		t.Fatalf("expected a successful result, got %+v", result)
	}

	_, cmd = m.Update(result)
	msgs := testutil.Collect(cmd)
	if nav, ok := testutil.Find[messages.NavigateMsg](msgs); !ok || nav.To != messages.Dashboard {
		t.Fatalf("expected navigation to the dashboard, got %#v", msgs)
	}
	if toast, ok := testutil.Find[messages.ToastMsg](msgs); !ok || toast.Message != "Login successful!" {
		t.Fatalf("expected a success toast, got %#v", msgs)
	}
}

func TestEscapeGoesBack(t *testing.T) {
	_, cmd := newModel().Update(testutil.Key("esc"))
	nav, ok := testutil.Find[messages.NavigateMsg](testutil.Collect(cmd))
	if !ok || nav.To != messages.Landing {
		t.Fatalf("expected navigation to landing")
	}
}
