// Package dictionary defines the curated legal phrase dictionary used by the
// analysis engines: named categories of key phrases, and the tier table that
// assigns each category a risk tier.
package dictionary

import (
	"sort"
	"strings"

	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
)

// RiskTier is the risk weight class of a phrase category.
type RiskTier string

const (
	TierHigh   RiskTier = "HIGH"
	TierMedium RiskTier = "MEDIUM"
	TierLow    RiskTier = "LOW"
)

// Valid reports whether t is one of the known tiers.
func (t RiskTier) Valid() bool {
	switch t {
	case TierHigh, TierMedium, TierLow:
		return true
	}
	return false
}

// Category is a named group of key phrases.
type Category struct {
	Name    string   `json:"name"`
	Phrases []string `json:"phrases"`
}

// Dictionary is an ordered set of phrase categories.  Order is preserved so
// that counting output is deterministic across runs.
type Dictionary struct {
	categories []Category
	index      map[string]int
}

// New builds a Dictionary from the given categories, preserving their order.
// Duplicate category names collapse onto the first occurrence.
func New(categories []Category) *Dictionary {
	d := &Dictionary{index: make(map[string]int, len(categories))}
	for _, c := range categories {
		if _, dup := d.index[c.Name]; dup {
			continue
		}
		d.index[c.Name] = len(d.categories)
		d.categories = append(d.categories, c)
	}
	return d
}

// FromMap builds a Dictionary from a category → phrases map (the JSON file
// format).  Categories are sorted by name for deterministic iteration.
func FromMap(m map[string][]string) *Dictionary {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, Category{Name: name, Phrases: m[name]})
	}
	return New(categories)
}

// Categories returns the ordered category list.  The returned slice must not
// be mutated.
func (d *Dictionary) Categories() []Category {
	return d.categories
}

// CategoryNames returns the category names in dictionary order.
func (d *Dictionary) CategoryNames() []string {
	names := make([]string, len(d.categories))
	for i, c := range d.categories {
		names[i] = c.Name
	}
	return names
}

// Phrases returns the phrase list of the named category, or nil when the
// category does not exist.
func (d *Dictionary) Phrases(category string) []string {
	i, ok := d.index[category]
	if !ok {
		return nil
	}
	return d.categories[i].Phrases
}

// Has reports whether the named category exists.
func (d *Dictionary) Has(category string) bool {
	_, ok := d.index[category]
	return ok
}

// Len returns the number of categories.
func (d *Dictionary) Len() int {
	return len(d.categories)
}

// Clone returns a deep copy of the dictionary.
func (d *Dictionary) Clone() *Dictionary {
	categories := make([]Category, len(d.categories))
	for i, c := range d.categories {
		phrases := make([]string, len(c.Phrases))
		copy(phrases, c.Phrases)
		categories[i] = Category{Name: c.Name, Phrases: phrases}
	}
	return New(categories)
}

// ToMap renders the dictionary as a category → phrases map (the JSON file
// format).
func (d *Dictionary) ToMap() map[string][]string {
	m := make(map[string][]string, len(d.categories))
	for _, c := range d.categories {
		phrases := make([]string, len(c.Phrases))
		copy(phrases, c.Phrases)
		m[c.Name] = phrases
	}
	return m
}

// Validate checks structural invariants: at least one category, no empty
// category names, no category without phrases, no blank phrase.
func (d *Dictionary) Validate() error {
	if d == nil || len(d.categories) == 0 {
		return errors.New(errors.ErrCodeDictionaryInvalid, "dictionary has no categories")
	}
	for _, c := range d.categories {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New(errors.ErrCodeDictionaryInvalid, "dictionary contains a category with an empty name")
		}
		if len(c.Phrases) == 0 {
			return errors.Newf(errors.ErrCodeDictionaryInvalid, "category %q has no phrases", c.Name)
		}
		for _, p := range c.Phrases {
			if strings.TrimSpace(p) == "" {
				return errors.Newf(errors.ErrCodeDictionaryEmptyPhrase, "category %q contains an empty phrase", c.Name)
			}
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Tier table
// ─────────────────────────────────────────────────────────────────────────────

// TierTable maps category names to risk tiers.  Categories missing from the
// table contribute nothing to the risk base score.
type TierTable map[string]RiskTier

// Validate checks that the table is non-empty and every tier is known.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return errors.New(errors.ErrCodeRiskTierTableEmpty, "risk tier table is empty")
	}
	for category, tier := range t {
		if !tier.Valid() {
			return errors.Newf(errors.ErrCodeRiskCalibration, "category %q has unknown tier %q", category, tier)
		}
	}
	return nil
}

// CategoriesOf returns the category names assigned to tier, sorted for
// deterministic output.
func (t TierTable) CategoriesOf(tier RiskTier) []string {
	var names []string
	for category, ct := range t {
		if ct == tier {
			names = append(names, category)
		}
	}
	sort.Strings(names)
	return names
}

// ─────────────────────────────────────────────────────────────────────────────
// Embedded defaults
// ─────────────────────────────────────────────────────────────────────────────

// Default returns the built-in phrase dictionary for Spanish social-security
// disability judgments.  It is used when no external dictionary file is
// configured.
func Default() *Dictionary {
	return New([]Category{
		{Name: "incapacidad_permanente_parcial", Phrases: []string{
			"incapacidad permanente parcial", "IPP", "permanente parcial",
			"incapacidad parcial permanente", "secuela permanente",
			"incapacidad permanente", "secuelas permanentes",
		}},
		{Name: "reclamacion_administrativa", Phrases: []string{
			"reclamación administrativa previa", "RAP", "reclamación previa",
			"vía administrativa", "recurso administrativo", "reclamación",
		}},
		{Name: "inss", Phrases: []string{
			"INSS", "Instituto Nacional de la Seguridad Social",
			"Seguridad Social", "Instituto Nacional",
		}},
		{Name: "lesiones_permanentes", Phrases: []string{
			"lesiones permanentes no incapacitantes", "LPNI", "secuelas",
			"lesiones permanentes", "secuelas permanentes", "lesiones",
		}},
		{Name: "personal_limpieza", Phrases: []string{
			"limpiadora", "personal de limpieza", "servicios de limpieza",
			"trabajador de limpieza", "empleada de limpieza", "limpieza",
		}},
		{Name: "lesiones_hombro", Phrases: []string{
			"rotura del manguito rotador", "supraespinoso", "hombro derecho",
			"lesión de hombro", "manguito rotador", "tendón supraespinoso",
			"hombro", "manguito",
		}},
		{Name: "procedimiento_legal", Phrases: []string{
			"procedente", "desestimamos", "estimamos", "fundada",
			"infundada", "accedemos", "concedemos", "reconocemos",
		}},
	})
}

// DefaultTierTable returns the built-in category → tier assignment.
func DefaultTierTable() TierTable {
	return TierTable{
		"reclamacion_administrativa":     TierHigh,
		"procedimiento_legal":            TierHigh,
		"incapacidad_permanente_parcial": TierHigh,
		"lesiones_permanentes":           TierMedium,
		"lesiones_hombro":                TierMedium,
		"inss":                           TierLow,
		"personal_limpieza":              TierLow,
	}
}
