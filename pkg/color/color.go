package color

import (
	"strings"

	"github.com/artcal/artcal/pkg/occurrence"
)

const DefaultColor = "#3788d8"

// Resolver picks the display color of an occurrence from its categories.
type Resolver struct {
	colors   map[int64]string
	fallback string
}

// NewResolver copies colors, so later changes to the map do not leak into
// the resolver. An empty fallback means DefaultColor.
func NewResolver(colors map[int64]string, fallback string) *Resolver {
	copied := make(map[int64]string, len(colors))
	for id, c := range colors {
		if c = strings.TrimSpace(c); c != "" {
			copied[id] = c
		}
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultColor
	}
	return &Resolver{colors: copied, fallback: fallback}
}

// Resolve returns the color of the first category, in the order the store
// returned them, that has one assigned. Occurrences without such a category
// get the fallback.
func (r *Resolver) Resolve(occ occurrence.Occurrence) string {
	for _, id := range occ.CategoryIDs {
		if c, ok := r.colors[id]; ok {
			return c
		}
	}
	return r.fallback
}

// Apply returns a copy of occs with Color set on every occurrence.
func (r *Resolver) Apply(occs []occurrence.Occurrence) []occurrence.Occurrence {
	colored := make([]occurrence.Occurrence, len(occs))
	for i, occ := range occs {
		occ.Color = r.Resolve(occ)
		colored[i] = occ
	}
	return colored
}
