package core

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/koek1/budget-app/internal/db"
)

var timeType = reflect.TypeOf(time.Time{})

// storedTimeHook parses timestamp strings written by the store.
func storedTimeHook(from, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	t, ok := db.ParseTime(s)
	if !ok {
		return nil, fmt.Errorf("invalid timestamp %q", s)
	}
	return t.UTC(), nil
}

// decodeRecord copies a stored record into out, a pointer to a model struct.
func decodeRecord(rec db.Record, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(storedTimeHook),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]any(rec)); err != nil {
		return fmt.Errorf("failed to decode record %q: %w", rec.ID(), err)
	}
	return nil
}
