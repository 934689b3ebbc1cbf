// Package geometry dispatches a pivot.Part's {category, dimensions, length}
// to a per-category cross-section generator (see internal/geometry/profiles)
// and overrides computed fillet radii with values from a static profile
// catalogue when the part's designation is recognised.
package geometry

import (
	_ "embed"
	"encoding/csv"
	"strconv"
	"strings"
	"sync"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Hot-rolled fillet radius catalogue for a handful of well-known
// designations (IPE/HEA/HEB/UPN/L). This is a representative sample, not
// the full EN 10365/EN 10056 table set; those run to megabytes and are
// loaded from a deployment's own data/*.csv files.
//
//go:embed data/fillet_radii.csv
var filletRadiiCSV string

// CatalogueEntry is one row of the loaded profile catalogue.
type CatalogueEntry struct {
	Designation     string
	Category        pivot.Category
	Height          float64
	Width           float64
	WebThickness    float64
	FlangeThickness float64
	RootRadius      float64
	ToeRadius       float64
}

var (
	catalogue     map[string]CatalogueEntry
	catalogueOnce sync.Once
)

func loadCatalogue() {
	catalogue = make(map[string]CatalogueEntry)

	reader := csv.NewReader(strings.NewReader(filletRadiiCSV))
	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return
	}

	for _, row := range records[1:] {
		if len(row) < 8 {
			continue
		}
		entry := CatalogueEntry{
			Designation:     strings.TrimSpace(row[0]),
			Category:        categoryFromCatalogueCode(row[1]),
			Height:          parseFloatOrZero(row[2]),
			Width:           parseFloatOrZero(row[3]),
			WebThickness:    parseFloatOrZero(row[4]),
			FlangeThickness: parseFloatOrZero(row[5]),
			RootRadius:      parseFloatOrZero(row[6]),
			ToeRadius:       parseFloatOrZero(row[7]),
		}
		if entry.Designation == "" {
			continue
		}
		catalogue[entry.Designation] = entry
	}
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func categoryFromCatalogueCode(s string) pivot.Category {
	switch strings.TrimSpace(s) {
	case "I_BEAM":
		return pivot.CategoryIBeam
	case "CHANNEL_U":
		return pivot.CategoryChannelU
	case "ANGLE":
		return pivot.CategoryAngle
	default:
		return pivot.CategoryUnknown
	}
}

// Lookup returns the catalogue entry for a designation, loading the
// embedded catalogue on first use.
func Lookup(designation string) (CatalogueEntry, bool) {
	catalogueOnce.Do(loadCatalogue)
	entry, ok := catalogue[designation]
	return entry, ok
}

// ApplyCatalogue overrides a Part's fillet-radius dimensions (and, when
// absent, its web/flange thickness) with the catalogue entry matching its
// designation, leaving dimensions untouched when the designation is not in
// the catalogue.
func ApplyCatalogue(p *pivot.Part) {
	entry, ok := Lookup(p.Designation)
	if !ok {
		return
	}
	if p.Dimensions == nil {
		p.Dimensions = pivot.Dimensions{}
	}
	if p.Dimensions[pivot.DimWebThickness] <= 0 && entry.WebThickness > 0 {
		p.Dimensions[pivot.DimWebThickness] = entry.WebThickness
	}
	if p.Dimensions[pivot.DimFlangeThickness] <= 0 && entry.FlangeThickness > 0 {
		p.Dimensions[pivot.DimFlangeThickness] = entry.FlangeThickness
	}
	p.Dimensions[pivot.DimRootRadius] = entry.RootRadius
	p.Dimensions[pivot.DimToeRadius] = entry.ToeRadius

	// Catalogue radii are nominal rolling radii; several real sections
	// (IPE300 upward) carry a root radius larger than the flange is thick,
	// which the section generators cannot fillet without the flange faces
	// self-intersecting. Scale the pair down to fit.
	switch p.Category {
	case pivot.CategoryIBeam, pivot.CategoryChannelU, pivot.CategoryTee:
		tf := p.Dimensions[pivot.DimFlangeThickness]
		sum := entry.RootRadius + entry.ToeRadius
		if tf > 0 && sum > tf {
			scale := tf / sum
			p.Dimensions[pivot.DimRootRadius] *= scale
			p.Dimensions[pivot.DimToeRadius] *= scale
		}
	}
}

// Validate re-checks a Part's dimensions against its category's required
// set after catalogue application, surfacing the same DimensionError
// pivot.ValidateDimensions does.
func Validate(p *pivot.Part) error {
	return pivot.ValidateDimensions(p)
}
