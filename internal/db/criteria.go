package db

import (
	"fmt"
	"reflect"
	"time"
)

// Criterion is one filter term of a find-style query.
// The concrete terms are built with Eq and Between.
type Criterion interface {
	Field() string
	Match(r Record) bool
}

// Criteria is a conjunction of terms. Empty criteria match every record.
type Criteria []Criterion

// Match reports whether every term matches r.
func (c Criteria) Match(r Record) bool {
	for _, term := range c {
		if !term.Match(r) {
			return false
		}
	}
	return true
}

// ByID is shorthand for Criteria{Eq(FieldID, id)}.
func ByID(id string) Criteria {
	return Criteria{Eq(FieldID, id)}
}

type equals struct {
	field string
	value any
}

// Eq matches records whose top-level field equals value. Values are compared
// in their JSON shape, so int 100 and float64 100 are equal.
func Eq(field string, value any) Criterion {
	return equals{field: field, value: value}
}

func (e equals) Field() string { return e.field }

func (e equals) Match(r Record) bool {
	return reflect.DeepEqual(canonical(r[e.field]), canonical(e.value))
}

func (e equals) String() string { return fmt.Sprintf("%s == %v", e.field, e.value) }

type between struct {
	field        string
	lower, upper time.Time
}

// Between matches records whose field holds a time within [lower, upper].
// Records with a missing or unparseable field do not match.
func Between(field string, lower, upper time.Time) Criterion {
	return between{field: field, lower: lower.UTC(), upper: upper.UTC()}
}

func (b between) Field() string { return b.field }

func (b between) Match(r Record) bool {
	t, ok := r.Time(b.field)
	if !ok {
		return false
	}
	return !t.Before(b.lower) && !t.After(b.upper)
}

func (b between) String() string {
	return fmt.Sprintf("%s in [%s, %s]", b.field, FormatTime(b.lower), FormatTime(b.upper))
}
