package binder_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/binder"
)

type testRequest struct {
	Email    string `json:"email" form:"email" query:"email"`
	Password string `json:"password" form:"password"`
	Remember bool   `json:"remember" form:"remember"`
	Attempts int    `json:"attempts" form:"attempts"`
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("binds valid body", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"email":"a@b.co","password":"secret","remember":true}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		var req testRequest
		require.NoError(t, binder.JSON()(r, &req))
		assert.Equal(t, "a@b.co", req.Email)
		assert.Equal(t, "secret", req.Password)
		assert.True(t, req.Remember)
	})

	t.Run("rejects wrong content type", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "text/plain")

		var req testRequest
		assert.ErrorIs(t, binder.JSON()(r, &req), binder.ErrUnsupportedMediaType)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"emial":"a@b.co"}`))
		r.Header.Set("Content-Type", "application/json")

		var req testRequest
		assert.ErrorIs(t, binder.JSON()(r, &req), binder.ErrFailedToParseJSON)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		r.Header.Set("Content-Type", "application/json")

		var req testRequest
		assert.ErrorIs(t, binder.JSON()(r, &req), binder.ErrFailedToParseJSON)
	})
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("binds urlencoded body", func(t *testing.T) {
		t.Parallel()

		form := url.Values{
			"email":    {"a@b.co"},
			"password": {"secret"},
			"remember": {"true"},
			"attempts": {"3"},
		}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var req testRequest
		require.NoError(t, binder.Form()(r, &req))
		assert.Equal(t, "a@b.co", req.Email)
		assert.Equal(t, "secret", req.Password)
		assert.True(t, req.Remember)
		assert.Equal(t, 3, req.Attempts)
	})

	t.Run("absent keys leave zero values", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a%40b.co"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var req testRequest
		require.NoError(t, binder.Form()(r, &req))
		assert.Equal(t, "a@b.co", req.Email)
		assert.Empty(t, req.Password)
	})

	t.Run("invalid scalar reported with field name", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("attempts=many"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var req testRequest
		err := binder.Form()(r, &req)
		require.ErrorIs(t, err, binder.ErrFailedToParseForm)
		assert.Contains(t, err.Error(), "attempts")
	})

	t.Run("non-pointer target rejected", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=x"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var req testRequest
		assert.ErrorIs(t, binder.Form()(r, req), binder.ErrTargetMustBePointer)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?email=a%40b.co", nil)

	var req testRequest
	require.NoError(t, binder.Query()(r, &req))
	assert.Equal(t, "a@b.co", req.Email)
}

func TestBody(t *testing.T) {
	t.Parallel()

	t.Run("dispatches to form", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a%40b.co"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var req testRequest
		require.NoError(t, binder.Body()(r, &req))
		assert.Equal(t, "a@b.co", req.Email)
	})

	t.Run("dispatches to json", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
		r.Header.Set("Content-Type", "application/json")

		var req testRequest
		require.NoError(t, binder.Body()(r, &req))
		assert.Equal(t, "a@b.co", req.Email)
	})
}
