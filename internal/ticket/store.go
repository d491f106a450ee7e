package ticket

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kavantix/ticketflow/internal/storage"
)

const DefaultNamespace = "ticketflow_tickets"

// Store owns the persisted ticket collection. Every mutation reads the whole
// collection, changes a copy and writes the whole collection back while
// holding mu, so concurrent commands never interleave.
type Store struct {
	mu sync.Mutex

	storage   storage.Storage
	namespace string
	now       func() time.Time
	newID     func() string
	log       *slog.Logger
}

type Option func(*Store)

func WithNamespace(namespace string) Option {
	return func(s *Store) {
		s.namespace = namespace
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func NewStore(backend storage.Storage, opts ...Option) *Store {
	if backend == nil {
		panic("ticket.NewStore: storage is nil")
	}
	s := &Store{
		storage:   backend,
		namespace: DefaultNamespace,
		now:       time.Now,
		newID:     uuid.NewString,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const corruptKeyLayout = "20060102T150405.000000000Z"

// CorruptKey is where unreadable data found at the given time is copied
// before it gets overwritten. Each recovery gets its own key.
func (s *Store) CorruptKey(at time.Time) string {
	return s.namespace + ".corrupt." + at.UTC().Format(corruptKeyLayout)
}

// List returns every ticket in insertion order. Missing, unreadable or corrupt
// data yields an empty list.
func (s *Store) List(ctx context.Context) []Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, _, err := s.read(ctx)
	if err != nil {
		s.log.Warn("ticket_list_degraded",
			slog.String("namespace", s.namespace),
			slog.String("err", err.Error()),
		)
		return []Ticket{}
	}
	return tickets
}

func (s *Store) Get(ctx context.Context, id string) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, _, err := s.loadForWrite(ctx, "get")
	if err != nil {
		return Ticket{}, err
	}
	i := indexOf(tickets, id)
	if i < 0 {
		return Ticket{}, &NotFoundError{ID: id}
	}
	return tickets[i], nil
}

func (s *Store) Create(ctx context.Context, in Input) (Ticket, error) {
	in = in.withDefaults()
	if err := Validate(in).Err(); err != nil {
		return Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, corrupt, err := s.loadForWrite(ctx, "create")
	if err != nil {
		return Ticket{}, err
	}

	t := Ticket{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedAt:   s.now().UTC().Round(0),
	}
	for indexOf(tickets, t.ID) >= 0 {
		t.ID = s.newID()
	}

	if err := s.persist(ctx, "create", append(tickets, t), corrupt); err != nil {
		return Ticket{}, err
	}
	s.log.Debug("ticket_created", slog.String("id", t.ID))
	return t, nil
}

func (s *Store) Update(ctx context.Context, id string, patch Patch) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, corrupt, err := s.loadForWrite(ctx, "update")
	if err != nil {
		return Ticket{}, err
	}
	i := indexOf(tickets, id)
	if i < 0 {
		return Ticket{}, &NotFoundError{ID: id}
	}

	updated := patch.apply(tickets[i])
	if updated.Priority == "" {
		updated.Priority = Medium
	}
	if err := Validate(updated.input()).Err(); err != nil {
		return Ticket{}, err
	}

	next := slices.Clone(tickets)
	next[i] = updated
	if err := s.persist(ctx, "update", next, corrupt); err != nil {
		return Ticket{}, err
	}
	s.log.Debug("ticket_updated", slog.String("id", id))
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, corrupt, err := s.loadForWrite(ctx, "delete")
	if err != nil {
		return err
	}
	i := indexOf(tickets, id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}

	next := slices.Delete(slices.Clone(tickets), i, i+1)
	if err := s.persist(ctx, "delete", next, corrupt); err != nil {
		return err
	}
	s.log.Debug("ticket_deleted", slog.String("id", id))
	return nil
}

// read returns the decoded collection together with the raw bytes it came
// from. A missing key is an empty collection.
func (s *Store) read(ctx context.Context) ([]Ticket, []byte, error) {
	raw, err := s.storage.Read(ctx, s.namespace)
	if errors.Is(err, storage.ErrNotFound) {
		return []Ticket{}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	tickets, err := Decode(raw)
	if err != nil {
		return nil, raw, err
	}
	return tickets, raw, nil
}

// loadForWrite is read for operations that may write the collection back.
// Corrupt data is treated as empty and handed back so persist can preserve
// it. Any other read failure aborts the operation.
func (s *Store) loadForWrite(ctx context.Context, op string) ([]Ticket, []byte, error) {
	tickets, raw, err := s.read(ctx)
	if err == nil {
		return tickets, nil, nil
	}
	if isDecodeError(err) {
		s.log.Warn("ticket_data_corrupt",
			slog.String("namespace", s.namespace),
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return []Ticket{}, raw, nil
	}
	return nil, nil, &PersistenceError{Op: op, Err: err}
}

func (s *Store) persist(ctx context.Context, op string, tickets []Ticket, corrupt []byte) error {
	raw, err := Encode(tickets)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	if corrupt != nil {
		key := s.CorruptKey(s.now())
		if err := s.storage.Write(ctx, key, corrupt); err != nil {
			return &PersistenceError{Op: op, Err: err}
		}
		s.log.Warn("ticket_data_backed_up", slog.String("key", key))
	}
	if err := s.storage.Write(ctx, s.namespace, raw); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func indexOf(tickets []Ticket, id string) int {
	return slices.IndexFunc(tickets, func(t Ticket) bool {
		return t.ID == id
	})
}
