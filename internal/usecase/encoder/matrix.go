package encoder

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"media-cms/internal/domain"
)

// BuildMatrix expands one source into the ordered target set, largest
// width first, and derives a base name that cannot collide across
// concurrent or repeated uploads of identically named files.
func BuildMatrix(format domain.SourceFormat, filename string, widths []int) domain.VariantMatrix {
	filter, opts := paramsFor(format)

	ordered := make([]int, len(widths))
	copy(ordered, widths)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	specs := make([]domain.VariantSpec, 0, len(ordered))
	for _, w := range ordered {
		specs = append(specs, domain.VariantSpec{
			Width:   w,
			Format:  format,
			Filter:  filter,
			Options: opts,
		})
	}

	return domain.VariantMatrix{
		BaseName: fmt.Sprintf("%s-%s", sanitizeStem(filename), uuid.New().String()),
		Format:   format,
		Specs:    specs,
	}
}

// sanitizeStem keeps the part of the filename before the first dot and
// replaces characters that are unsafe in an object path.
func sanitizeStem(filename string) string {
	stem, _, _ := strings.Cut(filepath.Base(filename), ".")
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, stem)

	if stem == "" {
		return "noname"
	}
	return stem
}
