package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/districhem/backoffice/internal/adapters/githubstore"
	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// CompanyRepositoryImpl implements the CompanyRepository interface. The
// company record is a singleton document, not a slice, so it does not go
// through the generic table machinery.
type CompanyRepositoryImpl struct {
	store  ports.RemoteStore
	logger *logger.Logger

	mu sync.Mutex
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(store ports.RemoteStore, appLogger *logger.Logger) ports.CompanyRepository {
	return &CompanyRepositoryImpl{
		store:  store,
		logger: appLogger.WithFields("table", entities.FileCompany),
	}
}

// Get reads the company record through the public path.
func (r *CompanyRepositoryImpl) Get(ctx context.Context) (*entities.CompanyInfo, error) {
	raw, err := r.store.FetchPublic(ctx, entities.FileCompany)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entities.FileCompany, err)
	}

	var info entities.CompanyInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode %s: %w", entities.FileCompany, err)
	}
	return &info, nil
}

// Update replaces the company record. The singleton has no edit session
// to speak of, so the revision is always taken fresh before the write.
func (r *CompanyRepositoryImpl) Update(ctx context.Context, info *entities.CompanyInfo, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, revision, err := r.store.FetchForWrite(ctx, entities.FileCompany)
	if err != nil && !errors.Is(err, githubstore.ErrNotFound) {
		return fmt.Errorf("read %s for edit: %w", entities.FileCompany, err)
	}

	if _, err := r.store.Write(ctx, entities.FileCompany, info, revision, message); err != nil {
		return fmt.Errorf("write %s: %w", entities.FileCompany, err)
	}
	return nil
}
