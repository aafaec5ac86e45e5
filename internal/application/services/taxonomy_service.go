package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// PartialSyncError reports a cascade whose first write landed and whose
// second did not. The two taxonomy files are out of sync until the
// pending step is re-run; the operation id ties the error to the commit
// that did land.
type PartialSyncError struct {
	OpID     string
	OldName  string
	NewName  string
	Complete string // file that was written
	Pending  string // file that was not
	Cause    error
}

func (e *PartialSyncError) Error() string {
	return fmt.Sprintf("partial sync %s: %s written, %s pending (category %q -> %q): %v",
		e.OpID, e.Complete, e.Pending, e.OldName, e.NewName, e.Cause)
}

func (e *PartialSyncError) Unwrap() error {
	return e.Cause
}

// TaxonomyService keeps the two taxonomy files consistent. The display
// taxonomy (industries) and the products table are independent files
// with no cross-file transaction; every cascade writes industries first,
// then products, and reports a partial failure distinctly so an operator
// can re-run the second step.
type TaxonomyService struct {
	industryRepo ports.IndustryRepository
	productRepo  ports.ProductRepository
	history      *HistoryService
	logger       *logger.Logger
}

// NewTaxonomyService creates a new taxonomy service
func NewTaxonomyService(industryRepo ports.IndustryRepository, productRepo ports.ProductRepository, history *HistoryService, appLogger *logger.Logger) *TaxonomyService {
	return &TaxonomyService{
		industryRepo: industryRepo,
		productRepo:  productRepo,
		history:      history,
		logger:       appLogger,
	}
}

// ListIndustries returns the display taxonomy.
func (s *TaxonomyService) ListIndustries(ctx context.Context) ([]entities.Industry, error) {
	return s.industryRepo.GetAll(ctx)
}

// SaveCategory creates or updates a taxonomy entry. ID == 0 assigns the
// next surrogate ID (max + 1, gaps never reused). A rename cascades to
// the products table so the join key stays consistent.
func (s *TaxonomyService) SaveCategory(ctx context.Context, actorID int, req ports.SaveCategoryRequest) (*entities.Industry, error) {
	opID := uuid.New().String()

	industries, revision, err := s.industryRepo.GetForEdit(ctx)
	if err != nil {
		return nil, fmt.Errorf("load industries: %w", err)
	}

	entry := entities.Industry{
		ID:          req.ID,
		Name:        req.Name,
		Products:    req.Products,
		Expertise:   req.Expertise,
		Description: req.Description,
		Image:       req.Image,
	}

	oldName := ""
	if entry.ID == 0 {
		entry.ID = entities.NextIndustryID(industries)
		industries = append(industries, entry)
	} else {
		found := false
		for i := range industries {
			if industries[i].ID == entry.ID {
				oldName = industries[i].Name
				industries[i] = entry
				found = true
				break
			}
		}
		if !found {
			return nil, entities.ErrIndustryNotFound
		}
	}

	message := fmt.Sprintf("taxonomy: save category %q (op %s)", entry.Name, opID)
	if _, err := s.industryRepo.Save(ctx, industries, revision, message); err != nil {
		return nil, fmt.Errorf("save industries: %w", err)
	}

	if oldName != "" && oldName != entry.Name {
		if err := s.renameProductCategory(ctx, opID, oldName, entry.Name); err != nil {
			return nil, err
		}
	}

	s.history.Record(ctx, actorID, fmt.Sprintf("saved category %q", entry.Name))
	s.logger.LogAdminAction(actorID, "save_category", opID)

	return &entry, nil
}

// DeleteCategory removes a taxonomy entry and cascades to the products
// table: the matching product category and all its products are deleted,
// as the admin confirmation promises.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, actorID, id int) error {
	opID := uuid.New().String()

	industries, revision, err := s.industryRepo.GetForEdit(ctx)
	if err != nil {
		return fmt.Errorf("load industries: %w", err)
	}

	name := ""
	kept := industries[:0]
	for i := range industries {
		if industries[i].ID == id {
			name = industries[i].Name
			continue
		}
		kept = append(kept, industries[i])
	}
	if name == "" {
		return entities.ErrIndustryNotFound
	}

	message := fmt.Sprintf("taxonomy: delete category %q (op %s)", name, opID)
	if _, err := s.industryRepo.Save(ctx, kept, revision, message); err != nil {
		return fmt.Errorf("save industries: %w", err)
	}

	categories, prodRevision, err := s.productRepo.GetForEdit(ctx)
	if err != nil {
		return &PartialSyncError{
			OpID: opID, OldName: name,
			Complete: entities.FileIndustries, Pending: entities.FileProducts,
			Cause: err,
		}
	}

	remaining := categories[:0]
	for i := range categories {
		if categories[i].Name == name {
			continue
		}
		remaining = append(remaining, categories[i])
	}

	prodMessage := fmt.Sprintf("catalog: cascade delete category %q (op %s)", name, opID)
	if _, err := s.productRepo.Save(ctx, remaining, prodRevision, prodMessage); err != nil {
		return &PartialSyncError{
			OpID: opID, OldName: name,
			Complete: entities.FileIndustries, Pending: entities.FileProducts,
			Cause: err,
		}
	}

	s.history.Record(ctx, actorID, fmt.Sprintf("deleted category %q", name))
	s.logger.LogAdminAction(actorID, "delete_category", opID)

	return nil
}

// renameProductCategory retags the matching product category after a
// taxonomy rename. The products inside the category are untouched.
func (s *TaxonomyService) renameProductCategory(ctx context.Context, opID, oldName, newName string) error {
	categories, revision, err := s.productRepo.GetForEdit(ctx)
	if err != nil {
		return &PartialSyncError{
			OpID: opID, OldName: oldName, NewName: newName,
			Complete: entities.FileIndustries, Pending: entities.FileProducts,
			Cause: err,
		}
	}

	renamed := false
	for i := range categories {
		if categories[i].Name == oldName {
			categories[i].Name = newName
			renamed = true
			break
		}
	}
	if !renamed {
		// Nothing to cascade: the category never had products.
		return nil
	}

	message := fmt.Sprintf("catalog: rename category %q -> %q (op %s)", oldName, newName, opID)
	if _, err := s.productRepo.Save(ctx, categories, revision, message); err != nil {
		return &PartialSyncError{
			OpID: opID, OldName: oldName, NewName: newName,
			Complete: entities.FileIndustries, Pending: entities.FileProducts,
			Cause: err,
		}
	}

	return nil
}

// Audit cross-checks the taxonomy files and the users table for
// referential drift: category names present on one side only, duplicate
// references, duplicate surrogate IDs, duplicate logins.
func (s *TaxonomyService) Audit(ctx context.Context, users []entities.User) (*ports.ConsistencyReport, error) {
	industries, err := s.industryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load industries: %w", err)
	}
	categories, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	report := &ports.ConsistencyReport{
		MissingInProducts:   []string{},
		MissingInIndustries: []string{},
		DuplicateReferences: []string{},
		DuplicateIndustryID: []int{},
		DuplicateLogins:     []string{},
	}

	inProducts := make(map[string]struct{}, len(categories))
	for i := range categories {
		inProducts[categories[i].Name] = struct{}{}
	}
	inIndustries := make(map[string]struct{}, len(industries))
	seenIDs := make(map[int]struct{}, len(industries))
	for i := range industries {
		inIndustries[industries[i].Name] = struct{}{}
		if _, dup := seenIDs[industries[i].ID]; dup {
			report.DuplicateIndustryID = append(report.DuplicateIndustryID, industries[i].ID)
		}
		seenIDs[industries[i].ID] = struct{}{}
	}

	for i := range industries {
		if _, ok := inProducts[industries[i].Name]; !ok {
			report.MissingInProducts = append(report.MissingInProducts, industries[i].Name)
		}
	}
	for i := range categories {
		if _, ok := inIndustries[categories[i].Name]; !ok {
			report.MissingInIndustries = append(report.MissingInIndustries, categories[i].Name)
		}
	}

	seenRefs := make(map[string]struct{})
	for ci := range categories {
		for pi := range categories[ci].Products {
			ref := categories[ci].Products[pi].Reference
			if _, dup := seenRefs[ref]; dup {
				report.DuplicateReferences = append(report.DuplicateReferences, ref)
			}
			seenRefs[ref] = struct{}{}
		}
	}

	seenLogins := make(map[string]struct{}, len(users))
	for i := range users {
		if _, dup := seenLogins[users[i].Login]; dup {
			report.DuplicateLogins = append(report.DuplicateLogins, users[i].Login)
		}
		seenLogins[users[i].Login] = struct{}{}
	}

	return report, nil
}
