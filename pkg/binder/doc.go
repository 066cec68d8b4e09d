// Package binder populates request structs from HTTP bodies and query
// strings. Each binder is a func(r *http.Request, v any) error so transports
// can compose them without a framework.
//
//	type signInRequest struct {
//	    Email    string `json:"email" form:"email"`
//	    Password string `json:"password" form:"password"`
//	}
//
//	var req signInRequest
//	if err := binder.Body()(r, &req); err != nil { ... }
package binder
