package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
)

func sampleIndustries() []entities.Industry {
	return []entities.Industry{
		{ID: 1, Name: "Traitement des eaux", Expertise: "Potabilisation", Products: []string{"Sulfate d'aluminium"}},
		{ID: 3, Name: "Agroalimentaire", Expertise: "Additifs"},
	}
}

func TestIndustryRepository_FindByID(t *testing.T) {
	store := newFakeStore()
	store.seed(entities.FileIndustries, sampleIndustries())
	repo := NewIndustryRepository(store, logger.NewNop())

	industry, err := repo.FindByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if industry.Name != "Agroalimentaire" {
		t.Errorf("wrong industry: %#v", industry)
	}

	_, err = repo.FindByID(context.Background(), 2)
	if !errors.Is(err, entities.ErrIndustryNotFound) {
		t.Fatalf("expected ErrIndustryNotFound, got %v", err)
	}
}

func TestIndustryRepository_SaveRejectsDuplicateName(t *testing.T) {
	store := newFakeStore()
	sha := store.seed(entities.FileIndustries, sampleIndustries())
	repo := NewIndustryRepository(store, logger.NewNop())

	industries := append(sampleIndustries(), entities.Industry{ID: 4, Name: "Agroalimentaire"})
	_, err := repo.Save(context.Background(), industries, sha, "categories: duplicate")
	if !errors.Is(err, entities.ErrDuplicateCategory) {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}
	if store.writeCalls != 0 {
		t.Error("a duplicate name must never reach the store")
	}
}

func TestIndustryRepository_SaveRejectsDuplicateID(t *testing.T) {
	store := newFakeStore()
	sha := store.seed(entities.FileIndustries, sampleIndustries())
	repo := NewIndustryRepository(store, logger.NewNop())

	industries := append(sampleIndustries(), entities.Industry{ID: 3, Name: "Mines"})
	if _, err := repo.Save(context.Background(), industries, sha, "categories: duplicate id"); err == nil {
		t.Fatal("expected an error for a duplicated ID")
	}
	if store.writeCalls != 0 {
		t.Error("a duplicate ID must never reach the store")
	}
}

func TestNextIndustryID_GapsNeverReused(t *testing.T) {
	// IDs 1 and 3 exist, 2 was deleted. The next ID is 4, not 2.
	if got := entities.NextIndustryID(sampleIndustries()); got != 4 {
		t.Errorf("expected next ID 4, got %d", got)
	}
	if got := entities.NextIndustryID(nil); got != 1 {
		t.Errorf("expected first ID 1, got %d", got)
	}
}
