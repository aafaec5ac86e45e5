package repository

import (
	"context"
	"fmt"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// ProductRepositoryImpl implements the ProductRepository interface on
// the products table file.
type ProductRepositoryImpl struct {
	*table[entities.ProductCategory]
}

// NewProductRepository creates a new product repository
func NewProductRepository(store ports.RemoteStore, appLogger *logger.Logger) ports.ProductRepository {
	return &ProductRepositoryImpl{
		table: newTable[entities.ProductCategory](store, entities.FileProducts, appLogger),
	}
}

func (r *ProductRepositoryImpl) GetAll(ctx context.Context) ([]entities.ProductCategory, error) {
	return r.getAll(ctx)
}

func (r *ProductRepositoryImpl) GetForEdit(ctx context.Context) ([]entities.ProductCategory, string, error) {
	return r.getForEdit(ctx)
}

// Save replaces the products table. Uniqueness of the category names and
// of the product references across the whole table is re-validated
// against the slice being written; a duplicate never reaches the store.
func (r *ProductRepositoryImpl) Save(ctx context.Context, categories []entities.ProductCategory, revision, message string) (string, error) {
	if err := validateProductTable(categories); err != nil {
		return "", err
	}
	return r.save(ctx, categories, revision, message)
}

func (r *ProductRepositoryImpl) InvalidateRevision() {
	r.invalidate()
}

// FindByReference returns the product with the given reference and the
// name of the category holding it.
func (r *ProductRepositoryImpl) FindByReference(ctx context.Context, reference string) (*entities.Product, string, error) {
	categories, err := r.getAll(ctx)
	if err != nil {
		return nil, "", err
	}
	return entities.FindProduct(categories, reference)
}

// FilterByCategory returns the category with the given name.
func (r *ProductRepositoryImpl) FilterByCategory(ctx context.Context, category string) (*entities.ProductCategory, error) {
	categories, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Name == category {
			return &categories[i], nil
		}
	}
	return nil, entities.ErrCategoryNotFound
}

// Search returns every product matching the query case-insensitively
// over name, reference, applications and specifications.
func (r *ProductRepositoryImpl) Search(ctx context.Context, query string) ([]entities.Product, error) {
	categories, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []entities.Product{}
	for ci := range categories {
		for pi := range categories[ci].Products {
			if categories[ci].Products[pi].Matches(query) {
				matches = append(matches, categories[ci].Products[pi])
			}
		}
	}
	return matches, nil
}

func validateProductTable(categories []entities.ProductCategory) error {
	names := make(map[string]struct{}, len(categories))
	refs := make(map[string]struct{})

	for ci := range categories {
		if _, dup := names[categories[ci].Name]; dup {
			return fmt.Errorf("category %q: %w", categories[ci].Name, entities.ErrDuplicateCategory)
		}
		names[categories[ci].Name] = struct{}{}

		for pi := range categories[ci].Products {
			ref := categories[ci].Products[pi].Reference
			if _, dup := refs[ref]; dup {
				return fmt.Errorf("reference %q: %w", ref, entities.ErrDuplicateReference)
			}
			refs[ref] = struct{}{}
		}
	}
	return nil
}
