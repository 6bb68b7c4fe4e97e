package db

import (
	"fmt"
	"strings"
)

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Shards sets the number of primary shards.
func (b *IndexBuilder) Shards(n int) *IndexBuilder {
	b.def.Shards = n
	return b
}

// Replicas sets the number of replicas per shard.
func (b *IndexBuilder) Replicas(n int) *IndexBuilder {
	b.def.Replicas = &n
	return b
}

// Field adds a property of an arbitrary datatype.
func (b *IndexBuilder) Field(name, typ string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: typ})
	return b
}

// Keyword adds an exact-match property.
func (b *IndexBuilder) Keyword(name string) *IndexBuilder {
	return b.Field(name, TypeKeyword)
}

// Text adds an analyzed full-text property.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.Field(name, TypeText)
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a debug representation resembling the create-index request line.
func (b *IndexBuilder) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PUT /%s", b.def.Name)
	for _, f := range b.def.Fields {
		fmt.Fprintf(&sb, " %s:%s", f.Name, f.Type)
	}
	return sb.String()
}
