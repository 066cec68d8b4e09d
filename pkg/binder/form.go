package binder

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// defaultMultipartMemory bounds in-memory multipart parsing (10 MB).
const defaultMultipartMemory = 10 << 20

// Form returns a binder populating v from an urlencoded or multipart body
// using `form` struct tags.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(defaultMultipartMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
		} else if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}
		return bindValues(r.PostForm, v, "form")
	}
}

// Query returns a binder populating v from the URL query string using
// `query` struct tags.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindValues(r.URL.Query(), v, "query")
	}
}

// bindValues assigns values into tagged struct fields. Only scalar kinds are
// supported; absent keys leave fields untouched.
func bindValues(values url.Values, v any, tag string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrTargetMustBePointer
	}

	elem := rv.Elem()
	typ := elem.Type()
	for i := range typ.NumField() {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get(tag), ",")
		if name == "" || name == "-" {
			continue
		}
		if !values.Has(name) {
			continue
		}
		if err := setField(elem.Field(i), values.Get(name)); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrFailedToParseForm, name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
