package property

import (
	"strings"

	"github.com/kailas-cloud/propmatch/internal/domain/fold"
)

var typeSynonyms = map[string]string{
	"house":           "house",
	"casa":            "house",
	"vivienda":        "house",
	"apartment":       "apartment",
	"flat":            "apartment",
	"departamento":    "apartment",
	"depto":           "apartment",
	"apartamento":     "apartment",
	"land":            "land",
	"lot":             "land",
	"terreno":         "land",
	"lote":            "land",
	"office":          "office",
	"oficina":         "office",
	"commercial":      "commercial",
	"local":           "commercial",
	"local comercial": "commercial",
	"duplex":          "duplex",
	"penthouse":       "apartment",
	"quinta":          "country_house",
	"country house":   "country_house",
	"casa de campo":   "country_house",
	"warehouse":       "warehouse",
	"galpon":          "warehouse",
	"deposito":        "warehouse",
}

// CanonicalType maps a property type to its canonical English name.
// Unknown types are returned folded.
func CanonicalType(s string) string {
	f := fold.String(s)
	if c, ok := typeSynonyms[f]; ok {
		return c
	}
	return f
}

// TypesMatch reports whether two property types are equal or known synonyms.
func TypesMatch(a, b string) bool {
	ca, cb := CanonicalType(a), CanonicalType(b)
	return ca != "" && ca == cb
}

// TypesOverlap is the looser substring test used by the candidate filter.
func TypesOverlap(a, b string) bool {
	return TypesMatch(a, b) || fold.Contains(a, b)
}

// Amenity names the features-score cares about.
const (
	AmenityGatedCommunity = "gated_community"
	AmenityFurnished      = "furnished"
	AmenityGarage         = "garage"
	AmenityPool           = "pool"
)

var amenitySynonyms = map[string]string{
	"gated community":    AmenityGatedCommunity,
	"gated_community":    AmenityGatedCommunity,
	"condominio":         AmenityGatedCommunity,
	"condominio cerrado": AmenityGatedCommunity,
	"barrio cerrado":     AmenityGatedCommunity,
	"furnished":          AmenityFurnished,
	"amoblado":           AmenityFurnished,
	"amueblado":          AmenityFurnished,
	"garage":             AmenityGarage,
	"garaje":             AmenityGarage,
	"parqueo":            AmenityGarage,
	"pool":               AmenityPool,
	"piscina":            AmenityPool,
}

// CanonicalAmenity maps an amenity label to its canonical name.
func CanonicalAmenity(s string) string {
	f := fold.String(s)
	if c, ok := amenitySynonyms[f]; ok {
		return c
	}
	return strings.ReplaceAll(f, " ", "_")
}

var availableStatuses = map[string]struct{}{
	"available":  {},
	"for_sale":   {},
	"for sale":   {},
	"active":     {},
	"disponible": {},
	"en venta":   {},
	"venta":      {},
	"activo":     {},
}

// IsAvailableStatus reports whether a listing status means the property can be bought.
func IsAvailableStatus(s string) bool {
	_, ok := availableStatuses[fold.String(s)]
	return ok
}
