package ticket

import (
	"fmt"
	"time"
)

type Status string

const (
	Open       Status = "open"
	InProgress Status = "in_progress"
	Closed     Status = "closed"
)

var Statuses = [3]Status{
	Open, InProgress, Closed,
}

func (s Status) IsValid() bool {
	switch s {
	case Open, InProgress, Closed:
		return true
	default:
		return false
	}
}

func (s Status) Label() string {
	switch s {
	case Open:
		return "Open"
	case InProgress:
		return "In Progress"
	case Closed:
		return "Closed"
	default:
		return string(s)
	}
}

type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

var Priorities = [3]Priority{
	Low, Medium, High,
}

func (p Priority) IsValid() bool {
	switch p {
	case Low, Medium, High:
		return true
	default:
		return false
	}
}

func (p Priority) Label() string {
	switch p {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return string(p)
	}
}

type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ShortID is the id as shown in lists and modal titles.
func (t Ticket) ShortID() string {
	if len(t.ID) <= 8 {
		return fmt.Sprintf("TK-%s", t.ID)
	}
	return fmt.Sprintf("TK-%s", t.ID[:8])
}

func (t Ticket) input() Input {
	return Input{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
	}
}

// Input carries the caller supplied fields of a new ticket.
type Input struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
}

func (in Input) withDefaults() Input {
	if in.Status == "" {
		in.Status = Open
	}
	if in.Priority == "" {
		in.Priority = Medium
	}
	return in
}

// Patch holds the fields to change on an existing ticket. Nil fields are left
// as they are.
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
}

func (p Patch) apply(t Ticket) Ticket {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

// PatchFrom builds a patch that sets every mutable field to the values in in.
func PatchFrom(in Input) Patch {
	return Patch{
		Title:       &in.Title,
		Description: &in.Description,
		Status:      &in.Status,
		Priority:    &in.Priority,
	}
}
