package db

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bookkeeping fields carried by every stored record.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// TimeLayout is the on-store representation of timestamps. It is fixed-width
// and always UTC, so formatted values sort lexically in both backends.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// Record is one stored entity: a mapping from field name to value.
// Values are JSON-shaped (string, float64, bool, nil, []any, map[string]any)
// once they have passed through a store.
type Record map[string]any

// ID returns the record's id, or "" if it has none.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// Time reads a timestamp field.
func (r Record) Time(field string) (time.Time, bool) {
	return ParseTime(r[field])
}

// Clone returns a copy of the record's top level.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts a time.Time, a string in TimeLayout, or an RFC 3339 string.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if parsed, err := time.Parse(TimeLayout, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// sanitize copies caller-supplied fields for storage: bookkeeping fields are
// dropped (the store owns them) and time values are rendered in TimeLayout.
func sanitize(fields Record) Record {
	out := make(Record, len(fields)+3)
	for k, v := range fields {
		switch k {
		case FieldID, FieldCreatedAt, FieldUpdatedAt:
			continue
		}
		switch t := v.(type) {
		case time.Time:
			out[k] = FormatTime(t)
		case *time.Time:
			if t == nil {
				out[k] = nil
			} else {
				out[k] = FormatTime(*t)
			}
		default:
			out[k] = v
		}
	}
	return out
}

// normalize round-trips a record through JSON so that what a store returns
// has exactly the shape a later read would produce.
func normalize(r Record) (Record, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("record is not serializable: %w", err)
	}
	var out Record
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("record is not serializable: %w", err)
	}
	return out, nil
}

// canonical maps a single value to its JSON shape. Values that cannot be
// serialized are returned unchanged.
func canonical(v any) any {
	switch t := v.(type) {
	case time.Time:
		return FormatTime(t)
	case *time.Time:
		if t != nil {
			return FormatTime(*t)
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// nextUpdatedAt returns now, or one nanosecond after the record's current
// updatedAt when the clock has not moved past it.
func nextUpdatedAt(existing Record, now time.Time) time.Time {
	now = now.UTC()
	if prev, ok := existing.Time(FieldUpdatedAt); ok && !now.After(prev) {
		return prev.Add(time.Nanosecond).UTC()
	}
	return now
}
