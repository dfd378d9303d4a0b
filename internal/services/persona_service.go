// File: internal/services/persona_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/repository/persona"
)

// ErrPersonaNotFound signals a double miss across both persona tiers. The
// handler treats it as a navigational fallback to the catalog, not a
// retryable failure.
var ErrPersonaNotFound = persona.ErrPersonaNotFound

// ResolvedPersona is a persona loaded through the two-tier resolution rule.
type ResolvedPersona struct {
	ID      string               `json:"id"`
	Config  domain.PersonaConfig `json:"config"`
	Private bool                 `json:"private"`
}

// PersonaService fronts the two persistence tiers behind one API: the
// private per-user cache and the published shared catalog.
type PersonaService struct {
	privateStore persona.PrivatePersonaStore
	publicRepo   persona.PublicPersonaRepository
	logger       Logger
}

func NewPersonaService(
	privateStore persona.PrivatePersonaStore,
	publicRepo persona.PublicPersonaRepository,
	logger Logger,
) *PersonaService {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &PersonaService{
		privateStore: privateStore,
		publicRepo:   publicRepo,
		logger:       logger,
	}
}

// ListMine returns the caller's private personas with their addressable
// "<username>-<index>" identifiers.
func (s *PersonaService) ListMine(ctx context.Context, username string) ([]ResolvedPersona, error) {
	configs, err := s.privateStore.List(ctx, username)
	if err != nil {
		return nil, err
	}

	out := make([]ResolvedPersona, 0, len(configs))
	for i, cfg := range configs {
		out = append(out, ResolvedPersona{
			ID:      fmt.Sprintf("%s-%d", username, i),
			Config:  cfg,
			Private: true,
		})
	}
	return out, nil
}

// SaveMine appends a persona to the caller's private list and returns its
// identifier.
func (s *PersonaService) SaveMine(ctx context.Context, username string, config domain.PersonaConfig) (string, error) {
	if err := config.IsValid(); err != nil {
		return "", err
	}

	index, err := s.privateStore.Append(ctx, username, config)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d", username, index), nil
}

// ReplaceMine overwrites the whole private list, last write wins.
func (s *PersonaService) ReplaceMine(ctx context.Context, username string, configs []domain.PersonaConfig) error {
	for _, cfg := range configs {
		if err := cfg.IsValid(); err != nil {
			return err
		}
	}
	return s.privateStore.Put(ctx, username, configs)
}

// DeleteMine removes the private persona at index, compacting the list.
// Identifiers of later entries shift down by one, as in the original cache.
func (s *PersonaService) DeleteMine(ctx context.Context, username string, index int) error {
	return s.privateStore.Delete(ctx, username, index)
}

// Publish copies the caller's private persona at index into the shared
// catalog as a point-in-time snapshot. Anonymous publication records
// "Anonymous" as the visible creator while keeping the flag for moderators.
// The private original is left untouched.
func (s *PersonaService) Publish(ctx context.Context, username string, index int, category string, anonymous bool) (*domain.PublicPersona, error) {
	if category != "" && !domain.CategoryAllowed(category) {
		return nil, errors.New("invalid category")
	}

	cfg, err := s.privateStore.Get(ctx, username, index)
	if err != nil {
		return nil, err
	}

	creator := username
	if anonymous {
		creator = domain.AnonymousCreator
	}

	published := &domain.PublicPersona{
		ID:              uuid.NewString(),
		Name:            cfg.Name,
		Personality:     cfg.Personality,
		Instructions:    cfg.Instructions,
		Model:           cfg.Model,
		Avatar:          cfg.Avatar,
		Background:      cfg.Background,
		Category:        category,
		CreatorUsername: creator,
		IsAnonymous:     anonymous,
	}

	created, err := s.publicRepo.Create(ctx, published)
	if err != nil {
		return nil, err
	}

	s.logger.Info("persona published",
		"persona_id", created.ID, "anonymous", anonymous, "category", category)
	return created, nil
}

// Unpublish removes the caller's own catalog entry. Anonymous publications
// store no creator, so they cannot be unpublished through this path.
func (s *PersonaService) Unpublish(ctx context.Context, username, id string) error {
	err := s.publicRepo.DeleteByIDAndCreator(ctx, id, username)
	if err == nil {
		s.logger.Info("persona unpublished", "persona_id", id)
	}
	return err
}

// ListPublic lists the shared catalog with optional category and search
// filters.
func (s *PersonaService) ListPublic(ctx context.Context, category, search string, limit int) ([]domain.PublicPersona, error) {
	return s.publicRepo.FindAll(ctx, category, search, limit)
}

// Resolve applies the two-tier resolution rule: an identifier of the form
// "<current-username>-<index>" addresses the private tier; any other
// identifier is a primary-key lookup in the published tier.
func (s *PersonaService) Resolve(ctx context.Context, username, id string) (*ResolvedPersona, error) {
	if id == "" {
		return nil, ErrPersonaNotFound
	}

	if index, ok := privateIndex(username, id); ok {
		cfg, err := s.privateStore.Get(ctx, username, index)
		if err == nil {
			return &ResolvedPersona{ID: id, Config: *cfg, Private: true}, nil
		}
		if !errors.Is(err, persona.ErrPersonaNotFound) {
			return nil, err
		}
		// Fall through to the published tier on an index miss.
	}

	published, err := s.publicRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ResolvedPersona{ID: published.ID, Config: published.Config()}, nil
}

// privateIndex extracts the list index from a "<username>-<index>"
// identifier owned by the current user.
func privateIndex(username, id string) (int, bool) {
	if username == "" || !strings.HasPrefix(id, username+"-") {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimPrefix(id, username+"-"))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
