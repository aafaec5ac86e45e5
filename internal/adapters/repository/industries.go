package repository

import (
	"context"
	"fmt"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// IndustryRepositoryImpl implements the IndustryRepository interface on
// the display taxonomy table file.
type IndustryRepositoryImpl struct {
	*table[entities.Industry]
}

// NewIndustryRepository creates a new industry repository
func NewIndustryRepository(store ports.RemoteStore, appLogger *logger.Logger) ports.IndustryRepository {
	return &IndustryRepositoryImpl{
		table: newTable[entities.Industry](store, entities.FileIndustries, appLogger),
	}
}

func (r *IndustryRepositoryImpl) GetAll(ctx context.Context) ([]entities.Industry, error) {
	return r.getAll(ctx)
}

func (r *IndustryRepositoryImpl) GetForEdit(ctx context.Context) ([]entities.Industry, string, error) {
	return r.getForEdit(ctx)
}

// Save replaces the taxonomy table. Surrogate IDs and category names
// must be unique across the slice being written.
func (r *IndustryRepositoryImpl) Save(ctx context.Context, industries []entities.Industry, revision, message string) (string, error) {
	ids := make(map[int]struct{}, len(industries))
	names := make(map[string]struct{}, len(industries))
	for i := range industries {
		if _, dup := ids[industries[i].ID]; dup {
			return "", fmt.Errorf("industry ID %d duplicated", industries[i].ID)
		}
		ids[industries[i].ID] = struct{}{}

		if _, dup := names[industries[i].Name]; dup {
			return "", fmt.Errorf("category %q: %w", industries[i].Name, entities.ErrDuplicateCategory)
		}
		names[industries[i].Name] = struct{}{}
	}

	return r.save(ctx, industries, revision, message)
}

func (r *IndustryRepositoryImpl) InvalidateRevision() {
	r.invalidate()
}

// FindByID returns the taxonomy entry with the given surrogate ID.
func (r *IndustryRepositoryImpl) FindByID(ctx context.Context, id int) (*entities.Industry, error) {
	industries, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range industries {
		if industries[i].ID == id {
			return &industries[i], nil
		}
	}
	return nil, entities.ErrIndustryNotFound
}
