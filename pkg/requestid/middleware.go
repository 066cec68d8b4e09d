package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header is the correlation header read from and written to requests.
const Header = "X-Request-ID"

const maxIDLength = 128

// Inbound IDs are only trusted when they cannot break log lines or carry
// injection payloads.
var validID = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Middleware attaches a request ID to the context and the response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !isValid(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

func isValid(id string) bool {
	return id != "" && len(id) <= maxIDLength && validID.MatchString(id)
}
