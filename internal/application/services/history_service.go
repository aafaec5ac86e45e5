package services

import (
	"context"
	"time"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// HistoryService records and lists admin actions. Recording is
// best-effort: a failed append never fails the mutation it describes,
// it is logged instead.
type HistoryService struct {
	historyRepo ports.HistoryRepository
	logger      *logger.Logger
	now         func() time.Time
}

// NewHistoryService creates a new history service
func NewHistoryService(historyRepo ports.HistoryRepository, appLogger *logger.Logger) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		logger:      appLogger,
		now:         time.Now,
	}
}

// List returns the full admin action log.
func (s *HistoryService) List(ctx context.Context) ([]entities.HistoryEntry, error) {
	return s.historyRepo.GetAll(ctx)
}

// Record appends one action to the log.
func (s *HistoryService) Record(ctx context.Context, userID int, action string) {
	at := s.now()
	entry := entities.HistoryEntry{
		UserID: userID,
		Date:   at.Format("2006-01-02"),
		Time:   at.Format("15:04:05"),
		Action: action,
	}

	if err := s.historyRepo.Append(ctx, entry); err != nil {
		s.logger.Warnw("Failed to record history entry", "error", err, "user_id", userID, "action", action)
	}
}
