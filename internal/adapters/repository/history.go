package repository

import (
	"context"
	"fmt"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

// HistoryRepositoryImpl implements the HistoryRepository interface on
// the append-only admin action log file.
type HistoryRepositoryImpl struct {
	*table[entities.HistoryEntry]
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(store ports.RemoteStore, appLogger *logger.Logger) ports.HistoryRepository {
	return &HistoryRepositoryImpl{
		table: newTable[entities.HistoryEntry](store, entities.FileHistory, appLogger),
	}
}

func (r *HistoryRepositoryImpl) GetAll(ctx context.Context) ([]entities.HistoryEntry, error) {
	return r.getAll(ctx)
}

// Append adds one entry to the log. The log is read-modify-write like
// every other table; existing entries are never rewritten.
func (r *HistoryRepositoryImpl) Append(ctx context.Context, entry entities.HistoryEntry) error {
	entries, revision, err := r.getForEdit(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	message := fmt.Sprintf("history: %s", entry.Action)
	if _, err := r.save(ctx, entries, revision, message); err != nil {
		return err
	}
	return nil
}
