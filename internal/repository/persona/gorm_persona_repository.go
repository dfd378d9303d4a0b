// File: internal/repository/persona/gorm_persona_repository.go
package persona

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/tafara-ai/tafara/internal/domain"
)

var ErrPersonaNotFound = errors.New("persona not found")
var ErrUnauthorizedPersonaAccess = errors.New("unauthorized access to persona")

type gormPersonaRepository struct {
	db *gorm.DB
}

func NewPublicPersonaRepository(db *gorm.DB) PublicPersonaRepository {
	return &gormPersonaRepository{db: db}
}

func (r *gormPersonaRepository) Create(ctx context.Context, persona *domain.PublicPersona) (*domain.PublicPersona, error) {
	if err := r.validatePersonaInput(persona); err != nil {
		log.Printf("[PersonaRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(persona).Error; err != nil {
		log.Printf("[PersonaRepository] Database error during persona creation: %v", err)
		return nil, errors.New("database error creating persona")
	}

	log.Printf("[PersonaRepository] Persona published with ID: %s", persona.ID)
	return persona, nil
}

func (r *gormPersonaRepository) FindByID(ctx context.Context, id string) (*domain.PublicPersona, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("invalid persona ID")
	}

	var persona domain.PublicPersona
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&persona).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonaNotFound
		}
		log.Printf("[PersonaRepository] FindByID database error: %v", err)
		return nil, errors.New("database query failed")
	}

	return &persona, nil
}

// FindAll lists the catalog, newest first, optionally filtered by category
// and by a case-insensitive match over name and personality.
func (r *gormPersonaRepository) FindAll(ctx context.Context, category, search string, limit int) ([]domain.PublicPersona, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&domain.PublicPersona{})
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		if err := r.validateSearchPattern(search); err != nil {
			return nil, fmt.Errorf("invalid search pattern: %w", err)
		}
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(search))
		query = query.Where("LOWER(name) LIKE ? OR LOWER(personality) LIKE ?", pattern, pattern)
	}

	var personas []domain.PublicPersona
	err := query.Order("created_at DESC").Limit(limit).Find(&personas).Error
	if err != nil {
		log.Printf("[PersonaRepository] Database error listing personas: %v", err)
		return nil, errors.New("database error listing personas")
	}

	return personas, nil
}

func (r *gormPersonaRepository) DeleteByIDAndCreator(ctx context.Context, id, creatorUsername string) error {
	if id == "" || creatorUsername == "" {
		return errors.New("invalid persona ID or creator")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND creator_username = ?", id, creatorUsername).
		Delete(&domain.PublicPersona{})
	if result.Error != nil {
		log.Printf("[PersonaRepository] Database error deleting persona %s: %v", id, result.Error)
		return errors.New("database error deleting persona")
	}

	if result.RowsAffected == 0 {
		return ErrUnauthorizedPersonaAccess
	}

	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormPersonaRepository) validatePersonaInput(persona *domain.PublicPersona) error {
	if persona == nil {
		return errors.New("persona cannot be nil")
	}
	if persona.ID == "" {
		return errors.New("persona ID is required")
	}
	if strings.TrimSpace(persona.Name) == "" {
		return errors.New("persona name is required")
	}
	if !domain.ModelAllowed(persona.Model) {
		return errors.New("model is not in the allow-list")
	}
	if persona.Category != "" && !domain.CategoryAllowed(persona.Category) {
		return errors.New("invalid category")
	}
	return nil
}

func (r *gormPersonaRepository) validateSearchPattern(pattern string) error {
	if len(pattern) > 100 {
		return errors.New("search pattern too long")
	}
	if strings.ContainsAny(pattern, `%_\`) {
		return errors.New("invalid characters in search pattern")
	}
	return nil
}
