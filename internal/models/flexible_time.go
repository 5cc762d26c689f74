package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// flexibleLayouts are tried in order. Timestamps without a zone are UTC.
var flexibleLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexibleTime accepts the date formats clients send in request bodies: RFC 3339,
// ISO 8601 without a zone, or a bare calendar date.
type FlexibleTime struct {
	time.Time
}

// ParseFlexibleTime parses s with the first matching layout.
func ParseFlexibleTime(s string) (time.Time, error) {
	for _, layout := range flexibleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func (f *FlexibleTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		f.Time = time.Time{}
		return nil
	}
	t, err := ParseFlexibleTime(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f FlexibleTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Time)
}
