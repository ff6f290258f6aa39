package templates

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxStars = 5

// Funcs returns the default template helpers.
func Funcs() map[string]any {
	return map[string]any{
		"upper":      func(v any) string { return strings.ToUpper(toString(v)) },
		"lower":      func(v any) string { return strings.ToLower(toString(v)) },
		"title":      Title,
		"stars":      Stars,
		"default":    Default,
		"formatDate": FormatDate,
		"truncate":   Truncate,
		"join":       Join,
	}
}

// Title upper-cases the first letter of every word. Underscores are treated as spaces.
func Title(v any) string {
	s := strings.ReplaceAll(toString(v), "_", " ")
	return cases.Title(language.English).String(s)
}

// Stars renders a rating as filled and empty stars, clamped to 0..5.
func Stars(v any) string {
	n := 0
	switch r := v.(type) {
	case int:
		n = r
	case int64:
		n = int(r)
	case float64:
		n = int(r)
	case string:
		n, _ = strconv.Atoi(strings.TrimSpace(r))
	}
	n = max(0, min(n, maxStars))
	return strings.Repeat("★", n) + strings.Repeat("☆", maxStars-n)
}

// Default returns def when v is empty. Usage: {{ default "n/a" .Team }}.
func Default(def, v any) any {
	if isEmpty(v) {
		return def
	}
	return v
}

// FormatDate formats a time.Time or an RFC 3339 string with a Go layout.
func FormatDate(layout string, v any) string {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return ""
		}
		t = *d
	case string:
		parsed, err := time.Parse(time.RFC3339, d)
		if err != nil {
			return d
		}
		t = parsed
	default:
		return toString(v)
	}
	return t.Format(layout)
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(n int, v any) string {
	s := []rune(toString(v))
	if n <= 0 || len(s) <= n {
		return string(s)
	}
	return string(s[:n]) + "…"
}

// Join concatenates the elements of a slice with sep.
func Join(sep string, v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return toString(v)
	}
	parts := make([]string, rv.Len())
	for i := range rv.Len() {
		parts[i] = toString(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep)
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}
