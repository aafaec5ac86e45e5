package services

import (
	"context"
	"fmt"

	"github.com/districhem/backoffice/internal/domain/entities"
)

// In-memory repositories for service tests. Revision handling mimics
// the real store: each successful save bumps a sequence.

type fakeProductRepo struct {
	categories []entities.ProductCategory
	revision   int
	saves      int
	failSave   error
	messages   []string
}

func (r *fakeProductRepo) GetAll(ctx context.Context) ([]entities.ProductCategory, error) {
	out := make([]entities.ProductCategory, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *fakeProductRepo) GetForEdit(ctx context.Context) ([]entities.ProductCategory, string, error) {
	items, _ := r.GetAll(ctx)
	return items, fmt.Sprintf("rev-%d", r.revision), nil
}

func (r *fakeProductRepo) Save(ctx context.Context, categories []entities.ProductCategory, revision, message string) (string, error) {
	if r.failSave != nil {
		return "", r.failSave
	}
	r.categories = categories
	r.revision++
	r.saves++
	r.messages = append(r.messages, message)
	return fmt.Sprintf("rev-%d", r.revision), nil
}

func (r *fakeProductRepo) InvalidateRevision() {}

func (r *fakeProductRepo) FindByReference(ctx context.Context, reference string) (*entities.Product, string, error) {
	return entities.FindProduct(r.categories, reference)
}

func (r *fakeProductRepo) FilterByCategory(ctx context.Context, category string) (*entities.ProductCategory, error) {
	for i := range r.categories {
		if r.categories[i].Name == category {
			return &r.categories[i], nil
		}
	}
	return nil, entities.ErrCategoryNotFound
}

func (r *fakeProductRepo) Search(ctx context.Context, query string) ([]entities.Product, error) {
	matches := []entities.Product{}
	for ci := range r.categories {
		for pi := range r.categories[ci].Products {
			if r.categories[ci].Products[pi].Matches(query) {
				matches = append(matches, r.categories[ci].Products[pi])
			}
		}
	}
	return matches, nil
}

type fakeIndustryRepo struct {
	industries []entities.Industry
	revision   int
	saves      int
	failSave   error
}

func (r *fakeIndustryRepo) GetAll(ctx context.Context) ([]entities.Industry, error) {
	out := make([]entities.Industry, len(r.industries))
	copy(out, r.industries)
	return out, nil
}

func (r *fakeIndustryRepo) GetForEdit(ctx context.Context) ([]entities.Industry, string, error) {
	items, _ := r.GetAll(ctx)
	return items, fmt.Sprintf("rev-%d", r.revision), nil
}

func (r *fakeIndustryRepo) Save(ctx context.Context, industries []entities.Industry, revision, message string) (string, error) {
	if r.failSave != nil {
		return "", r.failSave
	}
	r.industries = industries
	r.revision++
	r.saves++
	return fmt.Sprintf("rev-%d", r.revision), nil
}

func (r *fakeIndustryRepo) InvalidateRevision() {}

func (r *fakeIndustryRepo) FindByID(ctx context.Context, id int) (*entities.Industry, error) {
	for i := range r.industries {
		if r.industries[i].ID == id {
			return &r.industries[i], nil
		}
	}
	return nil, entities.ErrIndustryNotFound
}

type fakeUserRepo struct {
	users    []entities.User
	revision int
	failSave error
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]entities.User, error) {
	out := make([]entities.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *fakeUserRepo) GetForEdit(ctx context.Context) ([]entities.User, string, error) {
	items, _ := r.GetAll(ctx)
	return items, fmt.Sprintf("rev-%d", r.revision), nil
}

func (r *fakeUserRepo) Save(ctx context.Context, users []entities.User, revision, message string) (string, error) {
	if r.failSave != nil {
		return "", r.failSave
	}
	r.users = users
	r.revision++
	return fmt.Sprintf("rev-%d", r.revision), nil
}

func (r *fakeUserRepo) InvalidateRevision() {}

func (r *fakeUserRepo) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	for i := range r.users {
		if r.users[i].Login == login {
			return &r.users[i], nil
		}
	}
	return nil, entities.ErrUserNotFound
}

type fakeHistoryRepo struct {
	entries    []entities.HistoryEntry
	failAppend error
}

func (r *fakeHistoryRepo) GetAll(ctx context.Context) ([]entities.HistoryEntry, error) {
	return r.entries, nil
}

func (r *fakeHistoryRepo) Append(ctx context.Context, entry entities.HistoryEntry) error {
	if r.failAppend != nil {
		return r.failAppend
	}
	r.entries = append(r.entries, entry)
	return nil
}
