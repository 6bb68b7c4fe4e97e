package db

import (
	"errors"
	"strconv"
)

// Mapping datatypes understood by the engine.
const (
	TypeKeyword = "keyword"
	TypeText    = "text"
	TypeInteger = "integer"
	TypeLong    = "long"
	TypeFloat   = "float"
	TypeDouble  = "double"
	TypeBoolean = "boolean"
	TypeDate    = "date"
)

// IndexField describes a single mapped property.
type IndexField struct {
	Name string
	Type string
}

// IndexDefinition is a complete index definition used at creation time.
type IndexDefinition struct {
	Name     string
	Shards   int // 0 = engine default
	Replicas *int
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if idx.Shards < 0 {
		return errors.New("shards must not be negative")
	}
	if idx.Replicas != nil && *idx.Replicas < 0 {
		return errors.New("replicas must not be negative")
	}
	return ValidateFields(idx.Fields)
}

// ValidateFields checks field names are present and unique.
func ValidateFields(fields []IndexField) error {
	seen := make(map[string]bool, len(fields))
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if f.Type == "" {
			return errors.New("field type is required for " + f.Name)
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
