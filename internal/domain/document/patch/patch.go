package patch

import (
	"fmt"
	"maps"
	"strings"
)

// Patch is a partial document update with merge semantics: supplied fields
// overwrite, fields not mentioned are preserved.
type Patch struct {
	fields map[string]any
}

// New validates and creates a Patch. At least one field must be provided.
func New(fields map[string]any) (Patch, error) {
	if len(fields) == 0 {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	for k := range fields {
		if k == "" {
			return Patch{}, fmt.Errorf("field name is required")
		}
		if strings.HasPrefix(k, "_") {
			return Patch{}, fmt.Errorf("field %q is reserved for metadata", k)
		}
	}
	return Patch{fields: maps.Clone(fields)}, nil
}

// Fields returns the fields to merge.
func (p Patch) Fields() map[string]any { return p.fields }
