package repository

import (
	"context"
	"testing"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
)

func TestCompanyRepository_GetAndUpdate(t *testing.T) {
	store := newFakeStore()
	store.seed(entities.FileCompany, entities.CompanyInfo{
		Name:       "Districhem SARL",
		HeadOffice: "Douala, Akwa",
		Phone:      "+237 6 99 00 00 00",
	})
	repo := NewCompanyRepository(store, logger.NewNop())

	info, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if info.Name != "Districhem SARL" {
		t.Errorf("wrong record: %#v", info)
	}

	info.Phone = "+237 6 99 11 11 11"
	if err := repo.Update(context.Background(), info, "company: update phone"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var stored entities.CompanyInfo
	if err := store.decode(entities.FileCompany, &stored); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if stored.Phone != "+237 6 99 11 11 11" {
		t.Errorf("update not persisted: %#v", stored)
	}
}

func TestCompanyRepository_UpdateCreatesMissingFile(t *testing.T) {
	store := newFakeStore()
	repo := NewCompanyRepository(store, logger.NewNop())

	info := &entities.CompanyInfo{Name: "Districhem SARL"}
	if err := repo.Update(context.Background(), info, "company: initial record"); err != nil {
		t.Fatalf("Update on missing file failed: %v", err)
	}

	var stored entities.CompanyInfo
	if err := store.decode(entities.FileCompany, &stored); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if stored.Name != "Districhem SARL" {
		t.Errorf("record not created: %#v", stored)
	}
}
