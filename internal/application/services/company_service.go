package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// CompanyService reads and updates the singleton company record.
type CompanyService struct {
	companyRepo ports.CompanyRepository
	history     *HistoryService
	logger      *logger.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo ports.CompanyRepository, history *HistoryService, appLogger *logger.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		history:     history,
		logger:      appLogger,
	}
}

// Get returns the company record.
func (s *CompanyService) Get(ctx context.Context) (*entities.CompanyInfo, error) {
	return s.companyRepo.Get(ctx)
}

// Update replaces the company record.
func (s *CompanyService) Update(ctx context.Context, actorID int, info *entities.CompanyInfo) error {
	opID := uuid.New().String()

	message := fmt.Sprintf("company: update record (op %s)", opID)
	if err := s.companyRepo.Update(ctx, info, message); err != nil {
		return err
	}

	s.history.Record(ctx, actorID, "updated company record")
	s.logger.LogAdminAction(actorID, "update_company", opID)

	return nil
}
