package entities

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrIndustryNotFound   = errors.New("industry not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateReference = errors.New("product reference already exists")
	ErrDuplicateCategory  = errors.New("category name already exists")
	ErrDuplicateLogin     = errors.New("login already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Table file names inside the content repository. One JSON file per table.
const (
	FileProducts   = "products.json"
	FileIndustries = "categories.json"
	FileUsers      = "users.json"
	FileHistory    = "histories.json"
	FileCompany    = "entreprise.json"
)

// Product is a single catalog item. JSON field names match the deployed
// table files and must not change.
type Product struct {
	Reference      string   `json:"reference"`
	Name           string   `json:"produit"`
	Applications   []string `json:"applications"`
	Specifications string   `json:"specifications"`
	Quantity       float64  `json:"qty"`
	UnitPrice      float64  `json:"prix_unit"`
	Image          string   `json:"img,omitempty"`
	PDF            string   `json:"pdf,omitempty"`
}

// ProductCategory groups products under a category name. The name is the
// join key to Industry.Name and must stay in sync with it.
type ProductCategory struct {
	Name     string    `json:"categorie"`
	Image    string    `json:"img,omitempty"`
	Products []Product `json:"datas"`
}

// Industry is the display taxonomy entry driving site navigation. It is
// stored in its own file, intentionally duplicated from the products
// table; only the category name ties the two together.
type Industry struct {
	ID          int      `json:"ID"`
	Name        string   `json:"categorie"`
	Products    []string `json:"products"`
	Expertise   string   `json:"expertise"`
	Description string   `json:"description"`
	Image       string   `json:"img"`
}

// User is an admin back-office account. PasswordHash is either a legacy
// hex SHA-256 digest or a bcrypt hash (prefix "$2").
type User struct {
	ID           int    `json:"id"`
	Login        string `json:"login"`
	PasswordHash string `json:"pawd"`
	IsAdmin      int    `json:"isadmin"`
}

// HistoryEntry is one line of the append-only admin action log.
type HistoryEntry struct {
	UserID int    `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"heure"`
	Action string `json:"action"`
}

// CompanyInfo is the singleton company record.
type CompanyInfo struct {
	Name       string `json:"nomentreprise"`
	POBox      string `json:"boitepostate"`
	HeadOffice string `json:"siege"`
	Phone      string `json:"Telephone"`
	Email      string `json:"email"`
	Website    string `json:"siteweb"`
	RC         string `json:"rc,omitempty"`
	NIU        string `json:"niu,omitempty"`
	Logo       string `json:"logo,omitempty"`
}

// Session is what the auth gate persists about a logged-in user. Never
// carries the password or its hash.
type Session struct {
	UserID  int    `json:"id"`
	Login   string `json:"login"`
	IsAdmin int    `json:"isadmin"`
}

// Admin reports whether the session has admin rights.
func (s Session) Admin() bool {
	return s.IsAdmin == 1
}

// Admin reports whether the user has admin rights.
func (u *User) Admin() bool {
	return u.IsAdmin == 1
}

// HasBcryptHash reports whether the stored hash uses the upgraded scheme.
func (u *User) HasBcryptHash() bool {
	return strings.HasPrefix(u.PasswordHash, "$2")
}

// Matches reports whether the product matches a case-insensitive
// substring query over its searchable fields.
func (p *Product) Matches(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Reference), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Specifications), q) {
		return true
	}
	for _, app := range p.Applications {
		if strings.Contains(strings.ToLower(app), q) {
			return true
		}
	}
	return false
}

// FindProduct returns the product with the given reference, searching
// across all categories.
func FindProduct(categories []ProductCategory, reference string) (*Product, string, error) {
	for ci := range categories {
		for pi := range categories[ci].Products {
			if categories[ci].Products[pi].Reference == reference {
				return &categories[ci].Products[pi], categories[ci].Name, nil
			}
		}
	}
	return nil, "", ErrProductNotFound
}

// NextIndustryID returns max(existing IDs) + 1. Gaps are never reused.
func NextIndustryID(industries []Industry) int {
	max := 0
	for _, ind := range industries {
		if ind.ID > max {
			max = ind.ID
		}
	}
	return max + 1
}
