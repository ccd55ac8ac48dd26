// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fields models externally shaped records (Zotero items, feed
// entries) as named values and renders {placeholder} templates against them.
package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is how date values render inside templates.
const DateLayout = "2006-01-02"

// Kind tags the variant held by a Value.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindNested:
		return "nested"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a text, a calendar date, or a nested structure decoded from JSON
// or YAML.
type Value struct {
	kind   Kind
	text   string
	date   time.Time
	nested any
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Date returns a date value. The time of day is dropped.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Nested returns a value wrapping a decoded list or mapping.
func Nested(v any) Value { return Value{kind: KindNested, nested: v} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Time returns the date of a date value and false for other kinds.
func (v Value) Time() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// String renders v the way it is substituted into a template.
func (v Value) String() string {
	switch v.kind {
	case KindDate:
		return v.date.Format(DateLayout)
	case KindNested:
		b, err := json.Marshal(v.nested)
		if err != nil {
			return fmt.Sprint(v.nested)
		}
		return string(b)
	}
	return v.text
}

// Fields maps a field name to its value.
type Fields map[string]Value

// Has reports whether name is set.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// FromAny converts a decoded JSON value into a Value. Strings stay text,
// numbers and booleans are printed, lists and objects become nested.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Text("")
	case string:
		return Text(x)
	case float64:
		return Text(strconv.FormatFloat(x, 'f', -1, 64))
	case bool, int, int64, json.Number:
		return Text(fmt.Sprint(x))
	case time.Time:
		return Date(x)
	}
	return Nested(v)
}

// ErrPlaceholderNotFound is matched by every MissingFieldError.
var ErrPlaceholderNotFound = errors.New("placeholder not found")

// MissingFieldError reports a template placeholder with no matching field.
type MissingFieldError struct {
	Name string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("placeholder {%s} not found", e.Name)
}

// Is makes errors.Is(err, ErrPlaceholderNotFound) succeed.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrPlaceholderNotFound
}
