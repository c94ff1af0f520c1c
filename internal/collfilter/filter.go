// Package collfilter implements a post-filter language: Match/Range clauses
// combined by must/should/minimum_should_match, with numeric coercion
// across payload value encodings.
package collfilter

import (
	"fmt"
	"reflect"
	"strings"

	"vecdb-go/internal/collection"
)

// ClauseKind selects which clause shape Clause carries.
type ClauseKind string

const (
	KindMatch ClauseKind = "match"
	KindRange ClauseKind = "range"
)

// Clause is one filter predicate: either a Match (equality) or a Range
// (bounded numeric comparison), selected by Kind.
type Clause struct {
	Kind ClauseKind

	// Match
	Field string
	Value collection.MetadataValue

	// Range (Field is shared with Match)
	Gt  *float64
	Gte *float64
	Lt  *float64
	Lte *float64
}

// Filter is the top-level must/should/minimum_should_match predicate tree.
type Filter struct {
	Must               []Clause
	Should             []Clause
	MinimumShouldMatch *int
}

// Validate checks field names and range-bound sanity.
func Validate(f *Filter) error {
	if f == nil {
		return nil
	}
	for _, clause := range append(append([]Clause{}, f.Must...), f.Should...) {
		if err := validateClause(clause); err != nil {
			return err
		}
	}
	if f.MinimumShouldMatch != nil && *f.MinimumShouldMatch > len(f.Should) {
		return fmt.Errorf("collfilter: minimum_should_match must be <= number of should clauses")
	}
	return nil
}

func validateClause(c Clause) error {
	if strings.TrimSpace(c.Field) == "" {
		return fmt.Errorf("collfilter: filter field names must not be empty")
	}
	if c.Kind != KindRange {
		return nil
	}
	if c.Gt == nil && c.Gte == nil && c.Lt == nil && c.Lte == nil {
		return fmt.Errorf("collfilter: range filter requires at least one bound")
	}
	lower := c.Gte
	if lower == nil {
		lower = c.Gt
	}
	upper := c.Lte
	if upper == nil {
		upper = c.Lt
	}
	if lower != nil && upper != nil && *lower > *upper {
		return fmt.Errorf("collfilter: range filter lower bound must be <= upper bound")
	}
	return nil
}

// Matches reports whether payload satisfies f. A nil filter always matches.
func Matches(payload collection.Payload, f *Filter) bool {
	if f == nil {
		return true
	}
	for _, clause := range f.Must {
		if !matchesClause(payload, clause) {
			return false
		}
	}
	if len(f.Should) == 0 {
		return true
	}
	required := 1
	if f.MinimumShouldMatch != nil {
		required = *f.MinimumShouldMatch
	}
	matched := 0
	for _, clause := range f.Should {
		if matchesClause(payload, clause) {
			matched++
		}
	}
	return matched >= required
}

func matchesClause(payload collection.Payload, c Clause) bool {
	switch c.Kind {
	case KindMatch:
		actual, ok := payload[c.Field]
		if !ok {
			return false
		}
		return metadataValuesMatch(actual, c.Value)
	case KindRange:
		actual, ok := collection.AsF64(payload[c.Field])
		if !ok {
			return false
		}
		if c.Gt != nil && actual <= *c.Gt {
			return false
		}
		if c.Gte != nil && actual < *c.Gte {
			return false
		}
		if c.Lt != nil && actual >= *c.Lt {
			return false
		}
		if c.Lte != nil && actual > *c.Lte {
			return false
		}
		return true
	default:
		return false
	}
}

// metadataValuesMatch compares two metadata values for equality, coercing
// both sides to float64 first when both are numeric so an int 3, an int64 3
// and a float64 3.0 all compare equal regardless of wire encoding. Strings
// are never coerced: the string "3" does not equal the number 3.
func metadataValuesMatch(left, right collection.MetadataValue) bool {
	leftNum, leftOk := collection.AsF64(left)
	rightNum, rightOk := collection.AsF64(right)
	if leftOk && rightOk {
		return leftNum == rightNum
	}
	return reflect.DeepEqual(left, right)
}
