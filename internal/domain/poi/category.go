package poi

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/propmatch/internal/domain"
	"github.com/kailas-cloud/propmatch/internal/domain/fold"
)

// Category is the closed service taxonomy of the municipal POI directory.
type Category string

// Service categories.
const (
	Education  Category = "education"
	Health     Category = "health"
	Transport  Category = "transport"
	Supply     Category = "supply"
	Recreation Category = "recreation"
	Other      Category = "other"
)

// All lists every category in presentation order.
var All = []Category{Education, Health, Transport, Supply, Recreation, Other}

// ValueCategories are the categories that drive the services sub-score.
var ValueCategories = []Category{Transport, Supply, Education, Health}

// IsValid reports whether c belongs to the taxonomy.
func (c Category) IsValid() bool {
	switch c {
	case Education, Health, Transport, Supply, Recreation, Other:
		return true
	}
	return false
}

// Label returns a human readable name for justifications.
func (c Category) Label() string {
	switch c {
	case Supply:
		return "supply/commerce"
	case Recreation:
		return "sport/recreation"
	default:
		return string(c)
	}
}

// tokenTable maps folded free-text tokens (English and Spanish) to categories.
var tokenTable = map[string]Category{
	"education":        Education,
	"educacion":        Education,
	"school":           Education,
	"schools":          Education,
	"escuela":          Education,
	"colegio":          Education,
	"colegios":         Education,
	"unidad educativa": Education,
	"universidad":      Education,
	"university":       Education,
	"kinder":           Education,
	"health":           Health,
	"salud":            Health,
	"hospital":         Health,
	"hospitales":       Health,
	"clinica":          Health,
	"clinic":           Health,
	"centro de salud":  Health,
	"farmacia":         Health,
	"pharmacy":         Health,
	"transport":        Transport,
	"transporte":       Transport,
	"bus":              Transport,
	"micro":            Transport,
	"parada":           Transport,
	"terminal":         Transport,
	"transit":          Transport,
	"supply":           Supply,
	"supply/commerce":  Supply,
	"abastecimiento":   Supply,
	"commerce":         Supply,
	"comercio":         Supply,
	"mercado":          Supply,
	"market":           Supply,
	"supermercado":     Supply,
	"supermarket":      Supply,
	"shopping":         Supply,
	"recreation":       Recreation,
	"sport/recreation": Recreation,
	"recreacion":       Recreation,
	"sport":            Recreation,
	"sports":           Recreation,
	"deporte":          Recreation,
	"deportes":         Recreation,
	"parque":           Recreation,
	"park":             Recreation,
	"plaza":            Recreation,
	"other":            Other,
	"otro":             Other,
	"otros":            Other,
}

// ParseCategory maps a free-text token to a category.
// Returns ErrUnknownCategory when the token is not in the table.
func ParseCategory(token string) (Category, error) {
	key := fold.String(token)
	if c, ok := tokenTable[key]; ok {
		return c, nil
	}
	if c := Category(key); c.IsValid() {
		return c, nil
	}
	// Compound labels such as "abastecimiento/comercio" resolve when every part agrees.
	if parts := strings.Split(key, "/"); len(parts) > 1 {
		var found Category
		for _, part := range parts {
			c, ok := tokenTable[strings.TrimSpace(part)]
			if !ok || (found != "" && c != found) {
				found = ""
				break
			}
			found = c
		}
		if found != "" {
			return found, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, token)
}

// ParseNeeds maps profile need tokens to a de-duplicated category list, preserving first-seen order.
func ParseNeeds(tokens []string) ([]Category, error) {
	seen := make(map[Category]struct{}, len(tokens))
	out := make([]Category, 0, len(tokens))
	var unknown []string
	for _, t := range tokens {
		if strings.TrimSpace(t) == "" {
			continue
		}
		c, err := ParseCategory(t)
		if err != nil {
			unknown = append(unknown, t)
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(unknown) > 0 {
		return out, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, strings.Join(unknown, ", "))
	}
	return out, nil
}
