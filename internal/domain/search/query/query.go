package query

import "fmt"

// MaxClausesPerGroup is the maximum number of clauses per bool group.
const MaxClausesPerGroup = 32

// Kind identifies the clause variant of a Query.
type Kind string

// Query kinds.
const (
	KindMatch    Kind = "match"
	KindTerm     Kind = "term"
	KindMatchAll Kind = "match_all"
	KindBool     Kind = "bool"
)

// Query is an immutable search clause: match, term, match_all or bool.
// The zero value is not a valid query; use the constructors.
type Query struct {
	kind  Kind
	field string
	text  string
	value any
	b     *Bool
}

// Bool combines sub-queries. Groups are ordered lists, so several clauses
// on the same field or of the same kind coexist.
type Bool struct {
	must    []Query
	should  []Query
	mustNot []Query
	filter  []Query
}

// NewMatch creates a full-text match clause on an analyzed field.
func NewMatch(field, text string) (Query, error) {
	if field == "" {
		return Query{}, fmt.Errorf("match field is required")
	}
	if text == "" {
		return Query{}, fmt.Errorf("match text is required for field %q", field)
	}
	return Query{kind: KindMatch, field: field, text: text}, nil
}

// NewTerm creates an exact-value clause, typically on a keyword or numeric field.
func NewTerm(field string, value any) (Query, error) {
	if field == "" {
		return Query{}, fmt.Errorf("term field is required")
	}
	if value == nil {
		return Query{}, fmt.Errorf("term value is required for field %q", field)
	}
	return Query{kind: KindTerm, field: field, value: value}, nil
}

// MatchAll matches every document.
func MatchAll() Query { return Query{kind: KindMatchAll} }

// NewBool validates and creates a bool query.
// must: every clause required. should: optional, boosts relevance.
// must_not: excluded. filter: required, not scored.
func NewBool(must, should, mustNot, filter []Query) (Query, error) {
	groups := []struct {
		name    string
		clauses []Query
	}{
		{"must", must}, {"should", should}, {"must_not", mustNot}, {"filter", filter},
	}
	total := 0
	for _, g := range groups {
		if len(g.clauses) > MaxClausesPerGroup {
			return Query{}, fmt.Errorf("too many %s clauses (max %d)", g.name, MaxClausesPerGroup)
		}
		for i, c := range g.clauses {
			if c.kind == "" {
				return Query{}, fmt.Errorf("%s clause %d is empty", g.name, i)
			}
		}
		total += len(g.clauses)
	}
	if total == 0 {
		return Query{}, fmt.Errorf("bool query needs at least one clause")
	}
	return Query{kind: KindBool, b: &Bool{
		must:    clone(must),
		should:  clone(should),
		mustNot: clone(mustNot),
		filter:  clone(filter),
	}}, nil
}

func clone(qs []Query) []Query {
	if len(qs) == 0 {
		return nil
	}
	out := make([]Query, len(qs))
	copy(out, qs)
	return out
}

// Kind returns the clause variant.
func (q Query) Kind() Kind { return q.kind }

// Field returns the target field for match and term clauses.
func (q Query) Field() string { return q.field }

// Text returns the analyzed terms of a match clause.
func (q Query) Text() string { return q.text }

// Value returns the exact value of a term clause.
func (q Query) Value() any { return q.value }

// Bool returns the bool groups, or nil for leaf clauses.
func (q Query) Bool() *Bool { return q.b }

// IsZero reports whether q was never constructed.
func (q Query) IsZero() bool { return q.kind == "" }

// Must returns the required clauses.
func (b *Bool) Must() []Query { return b.must }

// Should returns the optional, relevance-boosting clauses.
func (b *Bool) Should() []Query { return b.should }

// MustNot returns the excluding clauses.
func (b *Bool) MustNot() []Query { return b.mustNot }

// Filter returns the required, non-scoring clauses.
func (b *Bool) Filter() []Query { return b.filter }
