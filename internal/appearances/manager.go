package appearances

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ely.by/appearance/internal/db"
	"ely.by/appearance/internal/dispatcher"
	"ely.by/appearance/internal/skin"
)

var ErrAppearanceNotFound = errors.New("appearance not found")

type AppearancesRepository interface {
	FindAppearanceByUuid(ctx context.Context, uuid string) (*db.Appearance, error)
	SaveAppearance(ctx context.Context, appearance *db.Appearance) error
	RemoveAppearanceByUuid(ctx context.Context, uuid string) (bool, error)
}

func NewManager(repository AppearancesRepository, emitter dispatcher.Emitter) *Manager {
	return &Manager{
		AppearancesRepository: repository,
		Emitter:               emitter,
	}
}

type Manager struct {
	AppearancesRepository
	dispatcher.Emitter
}

func (m *Manager) FindAppearanceByUuid(ctx context.Context, uuid string) (*db.Appearance, error) {
	return m.AppearancesRepository.FindAppearanceByUuid(ctx, cleanupUuid(uuid))
}

func (m *Manager) PersistAppearance(ctx context.Context, appearance *db.Appearance) error {
	validationErr := validateAppearance(appearance)
	if validationErr != nil {
		m.Emit(dispatcher.AppearanceRejected, appearance.Uuid, validationErr)
		return validationErr
	}

	parsedUuid, _ := uuid.Parse(appearance.Uuid)
	appearance.Uuid = strings.ReplaceAll(parsedUuid.String(), "-", "")
	err := m.AppearancesRepository.SaveAppearance(ctx, appearance)
	if err != nil {
		return err
	}

	m.Emit(dispatcher.AppearancePersisted, appearance.Uuid)

	return nil
}

func (m *Manager) RemoveAppearanceByUuid(ctx context.Context, uuid string) error {
	uuid = cleanupUuid(uuid)
	removed, err := m.AppearancesRepository.RemoveAppearanceByUuid(ctx, uuid)
	if err != nil {
		return err
	}

	if !removed {
		return ErrAppearanceNotFound
	}

	m.Emit(dispatcher.AppearanceRemoved, uuid)

	return nil
}

type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	return "The appearance is invalid and cannot be persisted"
}

func validateAppearance(appearance *db.Appearance) *ValidationError {
	errs := make(map[string][]string)
	if _, err := uuid.Parse(appearance.Uuid); err != nil {
		errs["uuid"] = []string{"uuid must be a valid UUID"}
	}

	if appearance.Skin == nil {
		errs["skinData"] = []string{"skinData is a required field"}
	} else if length := len(appearance.Skin.SkinData()); !skin.IsValidSkinSize(length) {
		// SkinData decodes the encoded view when it's the only one known
		errs["skinData"] = []string{fmt.Sprintf(
			"skinData must contain a 64x32, 64x64, 128x64 or 128x128 RGBA texture, got %d bytes",
			length,
		)}
	}

	if len(errs) != 0 {
		return &ValidationError{errs}
	}

	return nil
}

func cleanupUuid(uuid string) string {
	return strings.ReplaceAll(strings.ToLower(uuid), "-", "")
}
