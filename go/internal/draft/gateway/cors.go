package gateway

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSMiddleware allows cross-origin calls from the given origins, or from
// anywhere when none are given.
func CORSMiddleware(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:         86400, // 24 hours
	})
	return c.Handler
}
