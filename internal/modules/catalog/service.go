package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Service defines read-only catalog business logic.
type Service interface {
	// Profile returns the active store profile, falling back to the built-in
	// default when none is persisted.
	Profile(ctx context.Context) (*StoreProfile, error)

	// FindItem locates an available menu item by name.
	FindItem(ctx context.Context, name string) (*MenuItem, error)

	// GroupsFor resolves a menu item's modifier assignments into labeled group
	// definitions, in assignment order. Assignments referencing a group absent
	// from the profile are dropped, not fatal.
	GroupsFor(ctx context.Context, item *MenuItem) ([]LabeledGroup, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Profile(ctx context.Context) (*StoreProfile, error) {
	p, ok, err := s.repo.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store profile: %w", err)
	}
	if !ok {
		return DefaultProfile(), nil
	}
	return p, nil
}

func (s *service) FindItem(ctx context.Context, name string) (*MenuItem, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := p.Item(name)
	if !ok {
		return nil, fmt.Errorf("menu item %q not found", name)
	}
	if !item.Available {
		return nil, fmt.Errorf("menu item %q is currently unavailable", name)
	}
	return item, nil
}

func (s *service) GroupsFor(ctx context.Context, item *MenuItem) ([]LabeledGroup, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	var groups []LabeledGroup
	for _, assignment := range item.ModifierGroupTitles {
		def, ok := p.Group(assignment.Group)
		if !ok {
			log.Warn().Str("item", item.Name).Str("group", assignment.Group).
				Msg("catalog: item references unknown modifier group, skipping")
			continue
		}
		groups = append(groups, LabeledGroup{ModifierGroup: *def, DisplayLabel: assignment.Label})
	}
	return groups, nil
}
