package ports

import (
	"context"

	"github.com/districhem/backoffice/internal/domain/entities"
)

// RemoteStore is the single point of contact with the content
// repository. Reads go through the public raw-content mirror; writes go
// through the authenticated Contents API guarded by a revision SHA.
type RemoteStore interface {
	FetchPublic(ctx context.Context, filename string) ([]byte, error)
	FetchForWrite(ctx context.Context, filename string) (content []byte, revision string, err error)
	Write(ctx context.Context, filename string, content interface{}, revision, message string) (newRevision string, err error)
}

// ProductRepository provides access to the products table. The table is
// an ordered sequence of categories, each holding its products.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]entities.ProductCategory, error)
	GetForEdit(ctx context.Context) ([]entities.ProductCategory, string, error)
	Save(ctx context.Context, categories []entities.ProductCategory, revision, message string) (string, error)
	InvalidateRevision()

	FindByReference(ctx context.Context, reference string) (*entities.Product, string, error)
	FilterByCategory(ctx context.Context, category string) (*entities.ProductCategory, error)
	Search(ctx context.Context, query string) ([]entities.Product, error)
}

// IndustryRepository provides access to the display taxonomy table.
type IndustryRepository interface {
	GetAll(ctx context.Context) ([]entities.Industry, error)
	GetForEdit(ctx context.Context) ([]entities.Industry, string, error)
	Save(ctx context.Context, industries []entities.Industry, revision, message string) (string, error)
	InvalidateRevision()

	FindByID(ctx context.Context, id int) (*entities.Industry, error)
}

// UserRepository provides access to the back-office user table.
type UserRepository interface {
	GetAll(ctx context.Context) ([]entities.User, error)
	GetForEdit(ctx context.Context) ([]entities.User, string, error)
	Save(ctx context.Context, users []entities.User, revision, message string) (string, error)
	InvalidateRevision()

	FindByLogin(ctx context.Context, login string) (*entities.User, error)
}

// HistoryRepository provides access to the append-only admin action log.
type HistoryRepository interface {
	GetAll(ctx context.Context) ([]entities.HistoryEntry, error)
	Append(ctx context.Context, entry entities.HistoryEntry) error
}

// CompanyRepository provides access to the singleton company record.
type CompanyRepository interface {
	Get(ctx context.Context) (*entities.CompanyInfo, error)
	Update(ctx context.Context, info *entities.CompanyInfo, message string) error
}

// EmailSender dispatches a contact or quote request to the company
// mailbox. Success or failure only; no retry contract.
type EmailSender interface {
	Send(ctx context.Context, msg ContactMessage) error
}
