package services

import (
	"strings"

	"github.com/districhem/backoffice/internal/domain/entities"
)

// Display projections over the raw tables. These are derived on demand
// from repository data and never persisted, so the tables stay the only
// source of truth.

// IndustryView is an industry entry shaped for site navigation. The
// stored name is French; NameEN is the derived English display pair.
type IndustryView struct {
	ID          int      `json:"ID"`
	Name        string   `json:"categorie"`
	NameEN      string   `json:"categorie_en"`
	Products    []string `json:"products"`
	Expertise   string   `json:"expertise"`
	Description string   `json:"description"`
	Image       string   `json:"img"`
	Icon        string   `json:"icon"`
}

// ProductView is a product shaped for catalog pages.
type ProductView struct {
	Reference  string `json:"reference"`
	Name       string `json:"produit"`
	Label      string `json:"label"`
	Category   string `json:"categorie,omitempty"`
	CategoryEN string `json:"categorie_en,omitempty"`
	Image      string `json:"img,omitempty"`
}

// categoryIcons maps known category names to their display icon. Lookup
// is case-insensitive on the name.
var categoryIcons = map[string]string{
	"mines et industries": "factory",
	"traitement des eaux": "water",
	"agro-industries":     "wheat",
	"peintures et encres": "palette",
	"cosmetiques":         "spa",
	"detergence":          "soap",
}

const defaultCategoryIcon = "flask"

// categoryTranslations maps known French category names to their
// English display name. Unknown names fall back to the French one so
// the site never shows an empty label.
var categoryTranslations = map[string]string{
	"mines et industries": "Mining and industry",
	"traitement des eaux": "Water treatment",
	"agro-industries":     "Agro-industries",
	"agroalimentaire":     "Food processing",
	"peintures et encres": "Paints and inks",
	"cosmetiques":         "Cosmetics",
	"detergence":          "Detergents",
	"savonnerie":          "Soap making",
}

// CategoryIcon returns the display icon for a category name.
func CategoryIcon(name string) string {
	if icon, ok := categoryIcons[strings.ToLower(name)]; ok {
		return icon
	}
	return defaultCategoryIcon
}

// CategoryNameEN returns the English display name for a category.
func CategoryNameEN(name string) string {
	if en, ok := categoryTranslations[strings.ToLower(name)]; ok {
		return en
	}
	return name
}

// ProjectIndustries shapes taxonomy entries for navigation.
func ProjectIndustries(industries []entities.Industry) []IndustryView {
	views := make([]IndustryView, len(industries))
	for i, ind := range industries {
		views[i] = IndustryView{
			ID:          ind.ID,
			Name:        ind.Name,
			NameEN:      CategoryNameEN(ind.Name),
			Products:    ind.Products,
			Expertise:   ind.Expertise,
			Description: ind.Description,
			Image:       ind.Image,
			Icon:        CategoryIcon(ind.Name),
		}
	}
	return views
}

// ProjectProducts flattens the products table into catalog views.
func ProjectProducts(categories []entities.ProductCategory) []ProductView {
	views := []ProductView{}
	for ci := range categories {
		for pi := range categories[ci].Products {
			p := &categories[ci].Products[pi]
			views = append(views, ProductView{
				Reference:  p.Reference,
				Name:       p.Name,
				Label:      p.Name + " (" + p.Reference + ")",
				Category:   categories[ci].Name,
				CategoryEN: CategoryNameEN(categories[ci].Name),
				Image:      p.Image,
			})
		}
	}
	return views
}
