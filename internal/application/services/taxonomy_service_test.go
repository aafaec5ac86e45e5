package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/districhem/backoffice/internal/domain/entities"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/ports"
)

func newTaxonomyFixture() (*TaxonomyService, *fakeIndustryRepo, *fakeProductRepo, *fakeHistoryRepo) {
	industryRepo := &fakeIndustryRepo{
		industries: []entities.Industry{
			{ID: 1, Name: "Traitement des eaux", Expertise: "Potabilisation"},
			{ID: 3, Name: "Agroalimentaire", Expertise: "Additifs"},
		},
	}
	productRepo := &fakeProductRepo{
		categories: []entities.ProductCategory{
			{Name: "Traitement des eaux", Products: []entities.Product{
				{Reference: "TE-001", Name: "Sulfate d'aluminium"},
				{Reference: "TE-002", Name: "Hypochlorite de calcium"},
			}},
			{Name: "Agroalimentaire", Products: []entities.Product{
				{Reference: "AG-001", Name: "Acide citrique"},
			}},
		},
	}
	historyRepo := &fakeHistoryRepo{}
	history := NewHistoryService(historyRepo, logger.NewNop())
	svc := NewTaxonomyService(industryRepo, productRepo, history, logger.NewNop())
	return svc, industryRepo, productRepo, historyRepo
}

func TestSaveCategory_AssignsNextID(t *testing.T) {
	svc, industryRepo, _, _ := newTaxonomyFixture()

	saved, err := svc.SaveCategory(context.Background(), 1, ports.SaveCategoryRequest{Name: "Mines"})
	if err != nil {
		t.Fatalf("SaveCategory failed: %v", err)
	}

	// Existing IDs are 1 and 3; the gap at 2 is never reused.
	if saved.ID != 4 {
		t.Errorf("expected ID 4, got %d", saved.ID)
	}
	if len(industryRepo.industries) != 3 {
		t.Errorf("expected 3 industries, got %d", len(industryRepo.industries))
	}
}

func TestSaveCategory_RenameCascadesToProducts(t *testing.T) {
	svc, industryRepo, productRepo, _ := newTaxonomyFixture()

	before, _ := productRepo.FilterByCategory(context.Background(), "Traitement des eaux")
	wantProducts := make([]entities.Product, len(before.Products))
	copy(wantProducts, before.Products)

	_, err := svc.SaveCategory(context.Background(), 1, ports.SaveCategoryRequest{
		ID:   1,
		Name: "Traitement et potabilisation",
	})
	if err != nil {
		t.Fatalf("SaveCategory rename failed: %v", err)
	}

	// Taxonomy side renamed.
	renamed, err := industryRepo.FindByID(context.Background(), 1)
	if err != nil || renamed.Name != "Traitement et potabilisation" {
		t.Fatalf("taxonomy entry not renamed: %#v, %v", renamed, err)
	}

	// Products side renamed; the old name is gone.
	if _, err := productRepo.FilterByCategory(context.Background(), "Traitement des eaux"); !errors.Is(err, entities.ErrCategoryNotFound) {
		t.Error("old category name still present in products")
	}
	after, err := productRepo.FilterByCategory(context.Background(), "Traitement et potabilisation")
	if err != nil {
		t.Fatalf("renamed category missing from products: %v", err)
	}

	// The products inside the category are untouched.
	if !reflect.DeepEqual(after.Products, wantProducts) {
		t.Errorf("rename changed the products:\nwant %#v\ngot  %#v", wantProducts, after.Products)
	}
}

func TestSaveCategory_RenameWithoutProductsSkipsCascade(t *testing.T) {
	svc, _, productRepo, _ := newTaxonomyFixture()

	// Industry 3 exists in the taxonomy but give it no product category.
	productRepo.categories = productRepo.categories[:1]

	_, err := svc.SaveCategory(context.Background(), 1, ports.SaveCategoryRequest{ID: 3, Name: "Agro-industries"})
	if err != nil {
		t.Fatalf("SaveCategory failed: %v", err)
	}
	if productRepo.saves != 0 {
		t.Errorf("expected no products write when nothing matches, got %d", productRepo.saves)
	}
}

func TestSaveCategory_SameNameDoesNotCascade(t *testing.T) {
	svc, _, productRepo, _ := newTaxonomyFixture()

	_, err := svc.SaveCategory(context.Background(), 1, ports.SaveCategoryRequest{
		ID:        1,
		Name:      "Traitement des eaux",
		Expertise: "Potabilisation et forage",
	})
	if err != nil {
		t.Fatalf("SaveCategory failed: %v", err)
	}
	if productRepo.saves != 0 {
		t.Errorf("expected no cascade for an unchanged name, got %d product writes", productRepo.saves)
	}
}

func TestSaveCategory_UnknownID(t *testing.T) {
	svc, _, _, _ := newTaxonomyFixture()

	_, err := svc.SaveCategory(context.Background(), 1, ports.SaveCategoryRequest{ID: 99, Name: "Fantôme"})
	if !errors.Is(err, entities.ErrIndustryNotFound) {
		t.Fatalf("expected ErrIndustryNotFound, got %v", err)
	}
}

func TestSaveCategory_RenameFailureReportsPartialSync(t *testing.T) {
	svc, _, productRepo, _ := newTaxonomyFixture()
	productRepo.failSave = errors.New("write rejected")

	_, err := svc.SaveCategory(context.Background(), 1, ports.SaveCategoryRequest{ID: 1, Name: "Eaux industrielles"})

	var partial *PartialSyncError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialSyncError, got %v", err)
	}
	if partial.Complete != entities.FileIndustries || partial.Pending != entities.FileProducts {
		t.Errorf("wrong completion state: %#v", partial)
	}
	if partial.OldName != "Traitement des eaux" || partial.NewName != "Eaux industrielles" {
		t.Errorf("wrong rename pair: %#v", partial)
	}
	if partial.OpID == "" {
		t.Error("expected an operation id")
	}
}

func TestDeleteCategory_CascadesToProducts(t *testing.T) {
	svc, industryRepo, productRepo, _ := newTaxonomyFixture()

	if err := svc.DeleteCategory(context.Background(), 1, 1); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	if _, err := industryRepo.FindByID(context.Background(), 1); !errors.Is(err, entities.ErrIndustryNotFound) {
		t.Error("taxonomy entry not deleted")
	}
	if _, err := productRepo.FilterByCategory(context.Background(), "Traitement des eaux"); !errors.Is(err, entities.ErrCategoryNotFound) {
		t.Error("product category not deleted")
	}
	// The products of that category are gone with it.
	if _, _, err := productRepo.FindByReference(context.Background(), "TE-001"); !errors.Is(err, entities.ErrProductNotFound) {
		t.Error("cascade left an orphan product")
	}
	// Other categories untouched.
	if _, _, err := productRepo.FindByReference(context.Background(), "AG-001"); err != nil {
		t.Errorf("unrelated product lost: %v", err)
	}
}

func TestDeleteCategory_ProductsFailureReportsPartialSync(t *testing.T) {
	svc, industryRepo, productRepo, _ := newTaxonomyFixture()
	productRepo.failSave = errors.New("write rejected")

	err := svc.DeleteCategory(context.Background(), 1, 1)

	var partial *PartialSyncError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialSyncError, got %v", err)
	}
	if partial.Complete != entities.FileIndustries || partial.Pending != entities.FileProducts {
		t.Errorf("wrong completion state: %#v", partial)
	}

	// The first write landed even though the cascade did not.
	if _, err := industryRepo.FindByID(context.Background(), 1); !errors.Is(err, entities.ErrIndustryNotFound) {
		t.Error("industries write should have landed before the failure")
	}
}

func TestDeleteCategory_Unknown(t *testing.T) {
	svc, _, productRepo, _ := newTaxonomyFixture()

	err := svc.DeleteCategory(context.Background(), 1, 42)
	if !errors.Is(err, entities.ErrIndustryNotFound) {
		t.Fatalf("expected ErrIndustryNotFound, got %v", err)
	}
	if productRepo.saves != 0 {
		t.Error("delete of an unknown id must not touch the products table")
	}
}

func TestAudit(t *testing.T) {
	svc, industryRepo, productRepo, _ := newTaxonomyFixture()

	// Clean state first.
	report, err := svc.Audit(context.Background(), []entities.User{{ID: 1, Login: "admin"}})
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if !report.Clean() {
		t.Errorf("expected clean report, got %#v", report)
	}

	// Introduce drift on every axis.
	industryRepo.industries = append(industryRepo.industries, entities.Industry{ID: 3, Name: "Mines"})
	productRepo.categories = append(productRepo.categories, entities.ProductCategory{
		Name:     "Détergence",
		Products: []entities.Product{{Reference: "AG-001", Name: "Doublon"}},
	})

	report, err = svc.Audit(context.Background(), []entities.User{
		{ID: 1, Login: "admin"},
		{ID: 2, Login: "admin"},
	})
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}

	if report.Clean() {
		t.Fatal("expected a dirty report")
	}
	if !reflect.DeepEqual(report.MissingInProducts, []string{"Mines"}) {
		t.Errorf("MissingInProducts = %v", report.MissingInProducts)
	}
	if !reflect.DeepEqual(report.MissingInIndustries, []string{"Détergence"}) {
		t.Errorf("MissingInIndustries = %v", report.MissingInIndustries)
	}
	if !reflect.DeepEqual(report.DuplicateReferences, []string{"AG-001"}) {
		t.Errorf("DuplicateReferences = %v", report.DuplicateReferences)
	}
	if !reflect.DeepEqual(report.DuplicateIndustryID, []int{3}) {
		t.Errorf("DuplicateIndustryID = %v", report.DuplicateIndustryID)
	}
	if !reflect.DeepEqual(report.DuplicateLogins, []string{"admin"}) {
		t.Errorf("DuplicateLogins = %v", report.DuplicateLogins)
	}
}
