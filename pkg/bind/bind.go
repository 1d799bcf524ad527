// Package bind decodes a submitted HTML form into a struct and validates it.
package bind

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/cafefront/config"
	"github.com/shashiranjanraj/cafefront/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// Form parses the request form into dest and runs validation.
//
// dest must be a pointer to a struct. Fields are matched by their `form`
// tag and may be string, bool, int or float64. A bool is true when the
// field is present with any value other than "", "0", "false" or "off",
// which is how an HTML checkbox arrives.
//
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body cannot be parsed or is too large.
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())
	}
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: dest must be a pointer to a struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := validate.FieldName(field)
		values, present := r.PostForm[name]
		raw := ""
		if present && len(values) > 0 {
			raw = strings.TrimSpace(values[0])
		}

		if err := set(rv.Field(i), raw, present); err != nil {
			return map[string]string{name: fmt.Sprintf("The %s field is invalid.", name)}, nil
		}
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

func set(f reflect.Value, raw string, present bool) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Bool:
		switch strings.ToLower(raw) {
		case "", "0", "false", "off":
			f.SetBool(false)
		default:
			f.SetBool(present)
		}
	case reflect.Int, reflect.Int64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		f.SetInt(n)
	case reflect.Float64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		f.SetFloat(n)
	}
	return nil
}
