// Package validate checks form structs against rules in a `validate` tag.
//
// Supported rules (comma-separated):
//
//	required     field must not be zero/empty
//	nullable     if empty, skip all remaining rules for this field
//	numeric      finite number (NaN and Inf are rejected)
//	integer      whole number
//	min=N        string: min char length | number: min value
//	max=N        string: max char length | number: max value
//	gt=N         number > N
//	gte=N        number >= N
//	in=a|b|c     value must be one of the listed items
//
// Field names in the error map come from the `form` tag, then `json`, then
// the lower-cased Go name.
//
//	type MenuItemForm struct {
//	    Name  string `form:"name"  validate:"required,max=100"`
//	    Price string `form:"price" validate:"required,numeric,gte=0"`
//	}
package validate

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		value := rv.Field(i)
		name := FieldName(field)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value) string {
	raw := strings.TrimSpace(fmt.Sprintf("%v", v.Interface()))
	key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "numeric":
		if _, ok := number(v); !ok {
			return fmt.Sprintf("The %s must be a number.", field)
		}
	case "integer":
		if isNumericKind(v) {
			if f, _ := number(v); f != math.Trunc(f) {
				return fmt.Sprintf("The %s must be an integer.", field)
			}
		} else if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Sprintf("The %s must be an integer.", field)
		}

	case "min", "max":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			f, _ := number(v)
			if key == "min" && f < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
			if key == "max" && f > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
			return ""
		}
		l := float64(len([]rune(raw)))
		if key == "min" && l < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
		if key == "max" && l > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if f, ok := number(v); !ok || f <= mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if f, ok := number(v); !ok || f < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}

	case "in":
		for _, a := range strings.Split(param, "|") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false // false is a valid boolean value, not empty
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// number reads v as a finite float64. Strings are parsed.
func number(v reflect.Value) (float64, bool) {
	var f float64
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Float32, reflect.Float64:
		f = v.Float()
	case reflect.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// FieldName is the name a struct field is reported (and bound) under.
func FieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
