package field

import (
	"fmt"
	"strings"
)

// Type is the mapping datatype of a field.
type Type string

// Mapping datatypes accepted in index definitions.
const (
	// Keyword is an exact-match, non-analyzed string.
	Keyword Type = "keyword"
	// Text is an analyzed full-text string.
	Text    Type = "text"
	Integer Type = "integer"
	Long    Type = "long"
	Short   Type = "short"
	Byte    Type = "byte"
	Float   Type = "float"
	Double  Type = "double"
	Boolean Type = "boolean"
	Date    Type = "date"
	IP      Type = "ip"
	Object  Type = "object"
)

var validTypes = map[Type]bool{
	Keyword: true, Text: true, Integer: true, Long: true, Short: true, Byte: true,
	Float: true, Double: true, Boolean: true, Date: true, IP: true, Object: true,
}

// IsValid reports whether t is a supported mapping datatype.
func (t Type) IsValid() bool { return validTypes[t] }

// Field is an immutable value object describing one mapped property.
type Field struct {
	name      string
	fieldType Type
}

// New validates and creates a Field.
// Name must be non-empty, max 255 chars, must not start with '_' (metadata fields)
// and must not contain whitespace.
func New(name string, ft Type) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 255 {
		return Field{}, fmt.Errorf("field name %q too long (max 255)", name)
	}
	if strings.HasPrefix(name, "_") {
		return Field{}, fmt.Errorf("field name %q is reserved for metadata", name)
	}
	if strings.ContainsAny(name, " \t\n") {
		return Field{}, fmt.Errorf("field name %q must not contain whitespace", name)
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	return Field{name: name, fieldType: ft}, nil
}

// Reconstruct creates a Field without validation (engine response hydration).
func Reconstruct(name string, ft Type) Field {
	return Field{name: name, fieldType: ft}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's mapping datatype.
func (f Field) FieldType() Type { return f.fieldType }
