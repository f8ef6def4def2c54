// headers.go: CSV header canonicalization. Source spreadsheets spell the
// column names inconsistently (diacritics, spaces, casing), all spellings
// fold onto one logical column set.
package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Logical column names of the import format.
const (
	ColPlantID  = "ID_Rosliny"
	ColSpecies  = "Roslina"
	ColFloor    = "Pietro"
	ColMainZone = "Strefa_glowna"
	ColSubZone  = "Lokalizacja_szczegolowa"
	ColPotType  = "Rodzaj_donicy"
	ColSpot     = "Lokalizacja_precyzyjna"
)

// locationColumns lists the location columns in rank order, shallowest first.
var locationColumns = []string{ColFloor, ColMainZone, ColSubZone, ColPotType, ColSpot}

// headerAliases maps folded header spellings onto logical column names.
// Keys are lowercase, diacritic-free, with spaces collapsed to underscores.
var headerAliases = map[string]string{
	"id_rosliny":              ColPlantID,
	"roslina":                 ColSpecies,
	"pietro":                  ColFloor,
	"strefa_glowna":           ColMainZone,
	"lokalizacja_szczegolowa": ColSubZone,
	"rodzaj_donicy":           ColPotType,
	"lokalizacja_precyzyjna":  ColSpot,
}

// foldTransformer strips combining diacritical marks: NFD decomposition,
// mark removal, NFC recomposition.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// strokedRunes handles letters that are not mark compositions and survive
// the transform chain unchanged.
var strokedRunes = strings.NewReplacer("ł", "l", "Ł", "L")

// foldDiacritics returns s with diacritics removed.
func foldDiacritics(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strokedRunes.Replace(folded)
}

// CanonicalHeader maps a raw header cell onto its logical column name.
// Unknown headers pass through with surrounding whitespace trimmed.
func CanonicalHeader(header string) string {
	key := strings.ToLower(strings.TrimSpace(foldDiacritics(header)))
	key = strings.ReplaceAll(key, " ", "_")
	if logical, ok := headerAliases[key]; ok {
		return logical
	}
	return strings.TrimSpace(header)
}
