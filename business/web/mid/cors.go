package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/fundme/foundation/web"
)

// Cors sets the response headers needed for Cross-Origin Resource Sharing.
// The node api only serves reads and transaction submissions.
func Cors(origin string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			hdr.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length")
			hdr.Set("Access-Control-Max-Age", "86400")
			if origin != "*" {
				hdr.Add("Vary", "Origin")
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
