package svc

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/glint/internal/svc/result"
)

// ctxKey is a private context key type, per the teacher's server/token.go
// AuthKey idiom.
type ctxKey int

const ctxAuthUser ctxKey = iota

// requireAuth is middleware that rejects any request without a valid
// bearer token signed with secret, after waiting unauthDelay (an
// anti-flood measure for naive non-parallel clients).
func requireAuth(secret []byte, unauthDelay time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearerToken(req)
		if err == nil {
			var subj string
			subj, err = validateToken(tok, secret)
			if err == nil {
				ctx := context.WithValue(req.Context(), ctxAuthUser, subj)
				next.ServeHTTP(w, req.WithContext(ctx))
				return
			}
		}

		time.Sleep(unauthDelay)
		result.Unauthorized("", err.Error()).WriteResponse(w)
	})
}
