package domain

import (
	"sort"
	"strings"
)

// CountySeat is the fallback municipality for county-wide items when the
// source opts into the fallback.
const CountySeat = "Woodstock"

// gazetteer maps the lowercase names of McHenry County's municipalities and
// named communities to their canonical display form. The display form is
// stored verbatim, so irregular casings ("McHenry", "Lake in the Hills",
// "McCullom Lake") survive resolution and match what scoring queries by.
var gazetteer = map[string]string{
	"crystal lake":      "Crystal Lake",
	"mchenry":           "McHenry",
	"woodstock":         "Woodstock",
	"algonquin":         "Algonquin",
	"cary":              "Cary",
	"huntley":           "Huntley",
	"lake in the hills": "Lake in the Hills",
	"harvard":           "Harvard",
	"marengo":           "Marengo",
	"johnsburg":         "Johnsburg",
	"richmond":          "Richmond",
	"spring grove":      "Spring Grove",
	"wonder lake":       "Wonder Lake",
	"island lake":       "Island Lake",
	"fox river grove":   "Fox River Grove",
	"bull valley":       "Bull Valley",
	"union":             "Union",
	"hebron":            "Hebron",
	"ringwood":          "Ringwood",
	"prairie grove":     "Prairie Grove",
	"lakewood":          "Lakewood",
	"oakwood hills":     "Oakwood Hills",
	"trout valley":      "Trout Valley",
	"holiday hills":     "Holiday Hills",
	"mccullom lake":     "McCullom Lake",
	"greenwood":         "Greenwood",
	"alden":             "Alden",
}

// gazetteerByLength is the gazetteer's keys sorted longest-first, built once
// at init. Longer names must be tested first so a short name ("union")
// cannot match before a longer compound name present in the same text.
var gazetteerByLength = func() []string {
	names := make([]string, 0, len(gazetteer))
	for name := range gazetteer {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	return names
}()

// countyMarkers flag county-level business rather than a specific
// municipality.
var countyMarkers = []string{
	"mchenry county",
	"county board",
	"countywide",
	"county-wide",
}

// ResolveMunicipality extracts a municipality name from free text by
// case-insensitive substring match against the county gazetteer, checking
// longer names before shorter ones. The match is returned in its canonical
// display form. When nothing matches and countyFallback is set, text
// carrying a county-level marker resolves to the county seat. Otherwise the
// empty string is returned and the caller decides whether that disqualifies
// the item.
func ResolveMunicipality(text string, countyFallback bool) string {
	lower := strings.ToLower(text)

	// "mchenry county" would otherwise match the city of McHenry.
	scannable := strings.ReplaceAll(lower, "mchenry county", " ")

	for _, name := range gazetteerByLength {
		if strings.Contains(scannable, name) {
			return gazetteer[name]
		}
	}

	if countyFallback {
		for _, marker := range countyMarkers {
			if strings.Contains(lower, marker) {
				return CountySeat
			}
		}
	}

	return ""
}
