package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// authRealm is announced in WWW-Authenticate on every 401.
const authRealm = "vecagent"

// publicPaths are reachable without a key (health checks, Prometheus scrapes).
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// keyRing holds SHA-256 digests of the accepted API keys. Matching compares the
// digest of the presented token against every entry in constant time, so neither
// key content nor key position leaks through response timing.
type keyRing [][sha256.Size]byte

func newKeyRing(apiKeys []string) keyRing {
	ring := make(keyRing, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			ring = append(ring, sha256.Sum256([]byte(k)))
		}
	}
	return ring
}

func (kr keyRing) accepts(token string) bool {
	digest := sha256.Sum256([]byte(token))
	match := 0
	for i := range kr {
		match |= subtle.ConstantTimeCompare(kr[i][:], digest[:])
	}
	return match == 1
}

// BearerAuthMiddleware guards the recommend and usage routes with API keys sent
// as "Authorization: Bearer <key>". The scheme name is case-insensitive.
// If apiKeys holds no non-blank key, authentication is disabled.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	ring := newKeyRing(apiKeys)

	return func(next http.Handler) http.Handler {
		if len(ring) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				challenge(w, "", "missing authorization header")
				return
			}

			scheme, token, ok := strings.Cut(auth, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				challenge(w, "invalid_request", "authorization header must use Bearer scheme")
				return
			}
			if !ring.accepts(strings.TrimSpace(token)) {
				challenge(w, "invalid_token", "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// challenge writes a 401 with a Bearer challenge (RFC 6750 section 3).
func challenge(w http.ResponseWriter, errCode, message string) {
	value := `Bearer realm="` + authRealm + `"`
	if errCode != "" {
		value += `, error="` + errCode + `"`
	}
	w.Header().Set("WWW-Authenticate", value)
	writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, message)
}
