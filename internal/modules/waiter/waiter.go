package waiter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/comandero/pos-core/internal/store"
)

// KeyAssignments is the store namespace for waiter table assignments.
const KeyAssignments = "waiterAssignments"

// Assignments maps a waiter name to the table numbers they cover.
type Assignments map[string][]int

var (
	ErrTableTaken    = errors.New("table is already assigned to another waiter")
	ErrNotAssigned   = errors.New("table is not assigned to this waiter")
	ErrWaiterUnknown = errors.New("waiter has no assignments")
)

// Service manages which waiter covers which tables. A table belongs to at
// most one waiter.
type Service interface {
	All(ctx context.Context) (Assignments, error)
	Assign(ctx context.Context, waiter string, tableNumber int) (Assignments, error)
	Unassign(ctx context.Context, waiter string, tableNumber int) (Assignments, error)

	// WaiterFor returns the waiter covering a table, or "" when unassigned.
	WaiterFor(ctx context.Context, tableNumber int) (string, error)
}

type service struct{ kv *store.Store }

func NewService(kv *store.Store) Service { return &service{kv: kv} }

func (s *service) load() (Assignments, error) {
	a := Assignments{}
	if _, err := s.kv.Get(KeyAssignments, &a); err != nil {
		return nil, fmt.Errorf("load waiter assignments: %w", err)
	}
	return a, nil
}

func (s *service) All(ctx context.Context) (Assignments, error) {
	return s.load()
}

func (s *service) Assign(ctx context.Context, waiter string, tableNumber int) (Assignments, error) {
	if waiter == "" {
		return nil, fmt.Errorf("waiter name is required")
	}
	a, err := s.load()
	if err != nil {
		return nil, err
	}
	for name, tables := range a {
		for _, n := range tables {
			if n == tableNumber {
				if name == waiter {
					return a, nil
				}
				return nil, ErrTableTaken
			}
		}
	}
	a[waiter] = append(a[waiter], tableNumber)
	sort.Ints(a[waiter])
	if err := s.kv.Set(KeyAssignments, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Unassign(ctx context.Context, waiter string, tableNumber int) (Assignments, error) {
	a, err := s.load()
	if err != nil {
		return nil, err
	}
	tables, ok := a[waiter]
	if !ok {
		return nil, ErrWaiterUnknown
	}
	for i, n := range tables {
		if n == tableNumber {
			a[waiter] = append(tables[:i], tables[i+1:]...)
			if len(a[waiter]) == 0 {
				delete(a, waiter)
			}
			if err := s.kv.Set(KeyAssignments, a); err != nil {
				return nil, err
			}
			return a, nil
		}
	}
	return nil, ErrNotAssigned
}

func (s *service) WaiterFor(ctx context.Context, tableNumber int) (string, error) {
	a, err := s.load()
	if err != nil {
		return "", err
	}
	for name, tables := range a {
		for _, n := range tables {
			if n == tableNumber {
				return name, nil
			}
		}
	}
	return "", nil
}
