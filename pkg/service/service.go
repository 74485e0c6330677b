// Package service implements user commands: track, untrack, resolve and list companies.
package service

//go:generate moq -out mocks/resolver.go -pkg mocks -skip-ensure -fmt goimports . Resolver
//go:generate moq -out mocks/registry.go -pkg mocks -skip-ensure -fmt goimports . Registry
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/describer.go -pkg mocks -skip-ensure -fmt goimports . Describer
//go:generate moq -out mocks/unpinner.go -pkg mocks -skip-ensure -fmt goimports . Unpinner

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/espiscope/pkg/domain"
	"github.com/umputun/espiscope/pkg/espi"
	"github.com/umputun/espiscope/pkg/tracker"
)

// Resolver maps user input to company id
type Resolver interface {
	Resolve(input string) (string, error)
	Name(id string) (string, bool)
}

// Registry keeps tracked companies
type Registry interface {
	Add(ctx context.Context, req tracker.AddRequest) (domain.Company, error)
	Remove(ctx context.Context, id string) (domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	History(ctx context.Context, id string) (domain.Company, []domain.Announcement, error)
}

// Fetcher returns current announcements from the company page
type Fetcher interface {
	Fetch(ctx context.Context, sourceRef string) ([]domain.Announcement, error)
}

// Describer makes an emoji for company name
type Describer interface {
	Describe(ctx context.Context, name string) (string, error)
}

// Unpinner removes pins of sent messages
type Unpinner interface {
	Unpin(ctx context.Context, ref domain.MessageRef) error
}

// Params for New
type Params struct {
	Resolver     Resolver
	Registry     Registry
	Fetcher      Fetcher
	Describer    Describer
	Unpinner     Unpinner
	URLTemplate  string // company page template with {id} and {year}
	DefaultEmoji string // used when describer fails
}

// Service handles commands
type Service struct {
	resolver     Resolver
	registry     Registry
	fetcher      Fetcher
	describer    Describer
	unpinner     Unpinner
	urlTemplate  string
	defaultEmoji string
}

// Resolution is a resolved company
type Resolution struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Tracked bool   `json:"tracked"`
}

// New makes service
func New(p Params) *Service {
	if p.URLTemplate == "" {
		p.URLTemplate = espi.DefaultURLTemplate
	}
	if p.DefaultEmoji == "" {
		p.DefaultEmoji = domain.DefaultEmoji
	}
	return &Service{
		resolver:     p.Resolver,
		registry:     p.Registry,
		fetcher:      p.Fetcher,
		describer:    p.Describer,
		unpinner:     p.Unpinner,
		urlTemplate:  p.URLTemplate,
		defaultEmoji: p.DefaultEmoji,
	}
}

// Track resolves the query and starts tracking the company. Name comes from the company page,
// or from the lookup table when the page has no announcements yet.
func (s *Service) Track(ctx context.Context, query string) (domain.Company, error) {
	id, err := s.resolver.Resolve(query)
	if err != nil {
		return domain.Company{}, err
	}
	if tracked, err := s.isTracked(ctx, id); err != nil {
		return domain.Company{}, err
	} else if tracked {
		return domain.Company{}, fmt.Errorf("track %s: %w", id, domain.ErrAlreadyTracked)
	}

	ref := espi.SourceRef(s.urlTemplate, id)
	fresh, err := s.fetcher.Fetch(ctx, ref)
	if err != nil {
		return domain.Company{}, fmt.Errorf("track %s: %w", id, err)
	}
	if fresh == nil {
		fresh = []domain.Announcement{}
	}

	name := s.displayName(id, fresh)
	return s.registry.Add(ctx, tracker.AddRequest{
		ID:        id,
		Name:      name,
		Emoji:     s.emoji(ctx, name),
		SourceRef: ref,
		Seed:      fresh,
	})
}

// Untrack stops tracking and unpins messages pinned for the company. Unpin failures are logged only.
// Query is matched against tracked ids first, so a company missing from lookup tables can still be removed.
func (s *Service) Untrack(ctx context.Context, query string) (domain.Company, error) {
	id, err := s.trackedID(ctx, query)
	if err != nil {
		return domain.Company{}, err
	}

	removed, err := s.registry.Remove(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	for _, m := range removed.PinnedMessages() {
		if err := s.unpinner.Unpin(ctx, m); err != nil {
			lgr.Printf("[WARN] can't unpin message %s of %s: %v", m.ID, removed.Label(), err)
		}
	}
	return removed, nil
}

// Resolve maps query to company without tracking it
func (s *Service) Resolve(ctx context.Context, query string) (Resolution, error) {
	id, err := s.resolver.Resolve(query)
	if err != nil {
		return Resolution{}, err
	}
	name, _ := s.resolver.Name(id)
	tracked, err := s.isTracked(ctx, id)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{ID: id, Name: name, Tracked: tracked}, nil
}

// List returns tracked companies
func (s *Service) List(ctx context.Context) ([]domain.Company, error) {
	return s.registry.List(ctx)
}

// History returns tracked company and its known announcements, query is resolved like in Untrack
func (s *Service) History(ctx context.Context, query string) (domain.Company, []domain.Announcement, error) {
	id, err := s.trackedID(ctx, query)
	if err != nil {
		return domain.Company{}, nil, err
	}
	return s.registry.History(ctx, id)
}

// trackedID matches query against tracked ids first and resolves it otherwise
func (s *Service) trackedID(ctx context.Context, query string) (string, error) {
	id := strings.TrimSpace(query)
	tracked, err := s.isTracked(ctx, id)
	if err != nil {
		return "", err
	}
	if tracked {
		return id, nil
	}
	return s.resolver.Resolve(query)
}

func (s *Service) isTracked(ctx context.Context, id string) (bool, error) {
	list, err := s.registry.List(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range list {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) displayName(id string, fresh []domain.Announcement) string {
	if len(fresh) > 0 && fresh[0].Company != "" {
		return fresh[0].Company
	}
	if name, ok := s.resolver.Name(id); ok && name != "" {
		return name
	}
	return id
}

// emoji asks describer for the company glyph, any failure gives the default one
func (s *Service) emoji(ctx context.Context, name string) string {
	if s.describer == nil {
		return s.defaultEmoji
	}
	e, err := s.describer.Describe(ctx, name)
	if err != nil {
		lgr.Printf("[WARN] no emoji for %s, using %s: %v", name, s.defaultEmoji, err)
		return s.defaultEmoji
	}
	if strings.TrimSpace(e) == "" {
		return s.defaultEmoji
	}
	return e
}
