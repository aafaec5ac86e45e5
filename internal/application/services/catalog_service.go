package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// CatalogService handles product CRUD over the products table.
type CatalogService struct {
	productRepo ports.ProductRepository
	history     *HistoryService
	logger      *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo ports.ProductRepository, history *HistoryService, appLogger *logger.Logger) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		history:     history,
		logger:      appLogger,
	}
}

// ListCategories returns the full products table.
func (s *CatalogService) ListCategories(ctx context.Context) ([]entities.ProductCategory, error) {
	return s.productRepo.GetAll(ctx)
}

// GetProduct returns a product by reference with its category name.
func (s *CatalogService) GetProduct(ctx context.Context, reference string) (*entities.Product, string, error) {
	return s.productRepo.FindByReference(ctx, reference)
}

// Search returns products matching the query.
func (s *CatalogService) Search(ctx context.Context, query string) ([]entities.Product, error) {
	return s.productRepo.Search(ctx, query)
}

// SaveProduct creates or replaces a product. A new reference must be
// unique across the whole table; the target category must already exist
// in the taxonomy-driven products file.
func (s *CatalogService) SaveProduct(ctx context.Context, actorID int, req ports.SaveProductRequest) (*entities.Product, error) {
	opID := uuid.New().String()

	categories, revision, err := s.productRepo.GetForEdit(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	product := entities.Product{
		Reference:      req.Reference,
		Name:           req.Name,
		Applications:   req.Applications,
		Specifications: req.Specifications,
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
		Image:          req.Image,
		PDF:            req.PDF,
	}

	// Drop any existing copy of the reference, wherever it lives; a
	// save that moves a product between categories is a remove+insert.
	for ci := range categories {
		kept := categories[ci].Products[:0]
		for pi := range categories[ci].Products {
			if categories[ci].Products[pi].Reference != product.Reference {
				kept = append(kept, categories[ci].Products[pi])
			}
		}
		categories[ci].Products = kept
	}

	placed := false
	for ci := range categories {
		if categories[ci].Name == req.Category {
			categories[ci].Products = append(categories[ci].Products, product)
			placed = true
			break
		}
	}
	if !placed {
		return nil, entities.ErrCategoryNotFound
	}

	message := fmt.Sprintf("catalog: save product %q (op %s)", product.Reference, opID)
	if _, err := s.productRepo.Save(ctx, categories, revision, message); err != nil {
		return nil, fmt.Errorf("save products: %w", err)
	}

	s.history.Record(ctx, actorID, fmt.Sprintf("saved product %q", product.Reference))
	s.logger.LogAdminAction(actorID, "save_product", opID)

	return &product, nil
}

// DeleteProduct removes a product by reference.
func (s *CatalogService) DeleteProduct(ctx context.Context, actorID int, reference string) error {
	opID := uuid.New().String()

	categories, revision, err := s.productRepo.GetForEdit(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	found := false
	for ci := range categories {
		kept := categories[ci].Products[:0]
		for pi := range categories[ci].Products {
			if categories[ci].Products[pi].Reference == reference {
				found = true
				continue
			}
			kept = append(kept, categories[ci].Products[pi])
		}
		categories[ci].Products = kept
	}
	if !found {
		return entities.ErrProductNotFound
	}

	message := fmt.Sprintf("catalog: delete product %q (op %s)", reference, opID)
	if _, err := s.productRepo.Save(ctx, categories, revision, message); err != nil {
		return fmt.Errorf("save products: %w", err)
	}

	s.history.Record(ctx, actorID, fmt.Sprintf("deleted product %q", reference))
	s.logger.LogAdminAction(actorID, "delete_product", opID)

	return nil
}
