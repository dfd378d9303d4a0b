package persona

import (
	"context"

	"github.com/tafara-ai/tafara/internal/domain"
)

// PublicPersonaRepository handles the published tier (public_ais).
type PublicPersonaRepository interface {
	Create(ctx context.Context, persona *domain.PublicPersona) (*domain.PublicPersona, error)
	FindByID(ctx context.Context, id string) (*domain.PublicPersona, error)
	FindAll(ctx context.Context, category, search string, limit int) ([]domain.PublicPersona, error)
	DeleteByIDAndCreator(ctx context.Context, id, creatorUsername string) error
}

// PrivatePersonaStore is the per-user cache tier holding self-authored
// personas as an ordered list keyed by username. Writes are last-write-wins;
// entries are lost if the cache is flushed, matching the original
// browser-local lifecycle.
type PrivatePersonaStore interface {
	List(ctx context.Context, username string) ([]domain.PersonaConfig, error)
	Put(ctx context.Context, username string, configs []domain.PersonaConfig) error
	Get(ctx context.Context, username string, index int) (*domain.PersonaConfig, error)
	Append(ctx context.Context, username string, config domain.PersonaConfig) (int, error)
	Delete(ctx context.Context, username string, index int) error
}
