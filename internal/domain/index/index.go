package index

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/esbridge/internal/domain/index/field"
)

// MaxFields caps the number of properties declared in one definition.
const MaxFields = 1000

const forbiddenNameChars = `\/*?"<>| ,#:`

// Definition is an index name with its field mapping (immutable value object).
type Definition struct {
	name   string
	fields []field.Field
}

// ValidateName checks an index name against the engine's naming rules:
// lowercase, 1-255 bytes, no leading '-', '_' or '+', none of \/*?"<>| ,#:
// and not "." or "..".
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("index name is required")
	}
	if len(name) > 255 {
		return fmt.Errorf("index name too long (max 255 bytes)")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("index name %q is not allowed", name)
	}
	if strings.ToLower(name) != name {
		return fmt.Errorf("index name %q must be lowercase", name)
	}
	if strings.ContainsAny(name[:1], "-_+") {
		return fmt.Errorf("index name %q must not start with '-', '_' or '+'", name)
	}
	if strings.ContainsAny(name, forbiddenNameChars) {
		return fmt.Errorf("index name %q contains a forbidden character", name)
	}
	return nil
}

func validateFields(fields []field.Field) error {
	if len(fields) > MaxFields {
		return fmt.Errorf("too many fields (max %d)", MaxFields)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// New validates and creates a Definition. Field order is preserved.
func New(name string, fields []field.Field) (Definition, error) {
	if err := ValidateName(name); err != nil {
		return Definition{}, err
	}
	if err := validateFields(fields); err != nil {
		return Definition{}, err
	}
	cp := make([]field.Field, len(fields))
	copy(cp, fields)
	return Definition{name: name, fields: cp}, nil
}

// Name returns the index name.
func (d Definition) Name() string { return d.name }

// Fields returns the mapped properties in declaration order.
func (d Definition) Fields() []field.Field { return d.fields }

// Info is an existing index as reported by the engine.
type Info struct {
	Name     string
	Settings json.RawMessage
	Mappings json.RawMessage
}
