package ports

import (
	"github.com/districhem/backoffice/internal/domain/entities"
)

// LoginRequest carries back-office credentials.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful login. The token carries the
// session claims; the password hash never leaves the service.
type AuthResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	ExpiresIn int64            `json:"expires_in"`
	Session   entities.Session `json:"session"`
}

// Claims is the decoded session attached to authenticated requests.
type Claims struct {
	UserID  int
	Login   string
	IsAdmin int
}

// Admin reports whether the claims carry admin rights.
func (c Claims) Admin() bool {
	return c.IsAdmin == 1
}

// SaveProductRequest creates or replaces a product inside a category.
type SaveProductRequest struct {
	Category       string   `json:"categorie" validate:"required"`
	Reference      string   `json:"reference" validate:"required"`
	Name           string   `json:"produit" validate:"required"`
	Applications   []string `json:"applications"`
	Specifications string   `json:"specifications"`
	Quantity       float64  `json:"qty" validate:"gte=0"`
	UnitPrice      float64  `json:"prix_unit" validate:"gte=0"`
	Image          string   `json:"img"`
	PDF            string   `json:"pdf"`
}

// SaveCategoryRequest creates or updates a display taxonomy entry.
// ID == 0 means "not yet persisted": a new surrogate ID is assigned.
type SaveCategoryRequest struct {
	ID          int      `json:"ID" validate:"gte=0"`
	Name        string   `json:"categorie" validate:"required"`
	Products    []string `json:"products"`
	Expertise   string   `json:"expertise"`
	Description string   `json:"description"`
	Image       string   `json:"img"`
}

// CreateUserRequest creates a back-office account.
type CreateUserRequest struct {
	Login    string `json:"login" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	IsAdmin  int    `json:"isadmin" validate:"oneof=0 1"`
}

// ContactMessage is the structured payload handed to the email dispatch
// boundary.
type ContactMessage struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Template string `json:"template"`
}

// ConsistencyReport is the result of auditing the two taxonomy files
// against each other.
type ConsistencyReport struct {
	MissingInProducts   []string `json:"missing_in_products"`
	MissingInIndustries []string `json:"missing_in_industries"`
	DuplicateReferences []string `json:"duplicate_references"`
	DuplicateIndustryID []int    `json:"duplicate_industry_ids"`
	DuplicateLogins     []string `json:"duplicate_logins"`
}

// Clean reports whether the audit found nothing to repair.
func (r ConsistencyReport) Clean() bool {
	return len(r.MissingInProducts) == 0 &&
		len(r.MissingInIndustries) == 0 &&
		len(r.DuplicateReferences) == 0 &&
		len(r.DuplicateIndustryID) == 0 &&
		len(r.DuplicateLogins) == 0
}
