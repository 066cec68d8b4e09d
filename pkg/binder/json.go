package binder

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxBodySize caps request bodies at 1 MB.
const DefaultMaxBodySize = 1 << 20

// JSON returns a binder decoding an application/json body into v. Unknown
// fields are rejected so typos fail loudly instead of binding to nothing.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: expected application/json", ErrUnsupportedMediaType)
		}

		dec := json.NewDecoder(io.LimitReader(r.Body, DefaultMaxBodySize))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}
		return nil
	}
}

// Body returns a binder that dispatches on Content-Type: JSON bodies go
// through JSON(), form submissions through Form().
func Body() func(r *http.Request, v any) error {
	jsonBind := JSON()
	formBind := Form()
	return func(r *http.Request, v any) error {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch mediaType {
		case "application/x-www-form-urlencoded", "multipart/form-data":
			return formBind(r, v)
		default:
			return jsonBind(r, v)
		}
	}
}
