package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	// AllowOrigins lists origins permitted to make cross-origin requests.
	// Empty, or a single "*", allows every origin.
	AllowOrigins []string

	// AllowMethods lists HTTP methods permitted in actual requests. Empty
	// defaults to "GET, POST, PUT, PATCH, DELETE, OPTIONS".
	AllowMethods []string

	// AllowHeaders lists request headers clients may send. Empty echoes the
	// preflight's Access-Control-Request-Headers back.
	AllowHeaders []string

	// ExposeHeaders lists response headers scripts may read.
	ExposeHeaders []string

	// AllowCredentials permits cookies and authorization headers. The
	// wildcard origin cannot be combined with credentials; the middleware
	// echoes the matched origin instead.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the
	// header, negative sends "0" to disable caching.
	MaxAge int
}

// corsState holds the header values precomputed from a CORSConfig.
type corsState struct {
	allowAll      bool
	origins       map[string]string // lowercased origin -> configured spelling
	methods       string
	headers       string
	exposeHeaders string
	credentials   bool
	maxAge        string
}

// CORS returns a middleware implementing the CORS protocol: preflight
// handling, origin matching (case-insensitive, echoing the configured
// spelling), and Vary headers so shared caches never serve one origin's
// response to another.
func CORS(cfg CORSConfig) Middleware {
	st := corsState{
		allowAll:    len(cfg.AllowOrigins) == 0,
		origins:     make(map[string]string, len(cfg.AllowOrigins)),
		methods:     strings.Join(cfg.AllowMethods, ", "),
		headers:     strings.Join(cfg.AllowHeaders, ", "),
		credentials: cfg.AllowCredentials,
	}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			st.allowAll = true
			break
		}
		st.origins[strings.ToLower(o)] = o
	}
	// The Fetch standard forbids "*" with credentials; match and echo instead.
	if st.credentials {
		st.allowAll = false
	}
	if st.methods == "" {
		st.methods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	}
	st.exposeHeaders = strings.Join(cfg.ExposeHeaders, ", ")
	switch {
	case cfg.MaxAge > 0:
		st.maxAge = strconv.Itoa(cfg.MaxAge)
	case cfg.MaxAge < 0:
		st.maxAge = "0"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Same-origin request. Still vary on Origin when responses can
			// differ per origin.
			if origin == "" {
				if !st.allowAll {
					w.Header().Add("Vary", "Origin")
				}
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := st.resolve(origin)

			if isPreflight(r) {
				st.preflight(w, r, allowOrigin)
				return
			}

			if !st.allowAll {
				w.Header().Add("Vary", "Origin")
			}
			if allowOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
				if st.credentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				if st.exposeHeaders != "" {
					w.Header().Set("Access-Control-Expose-Headers", st.exposeHeaders)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// preflight answers an OPTIONS preflight and never reaches the next handler.
func (st corsState) preflight(w http.ResponseWriter, r *http.Request, allowOrigin string) {
	w.Header().Add("Vary", "Origin")
	w.Header().Add("Vary", "Access-Control-Request-Method")
	w.Header().Add("Vary", "Access-Control-Request-Headers")

	if allowOrigin == "" {
		// Disallowed origin: 204 without CORS headers, the browser blocks it.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", st.methods)

	if st.headers != "" {
		w.Header().Set("Access-Control-Allow-Headers", st.headers)
	} else if rh := r.Header.Get("Access-Control-Request-Headers"); rh != "" {
		w.Header().Set("Access-Control-Allow-Headers", rh)
	}
	if st.credentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	if st.maxAge != "" {
		w.Header().Set("Access-Control-Max-Age", st.maxAge)
	}

	w.WriteHeader(http.StatusNoContent)
}

// resolve returns the Access-Control-Allow-Origin value for the request
// origin, or "" when the origin is not allowed.
func (st corsState) resolve(origin string) string {
	if st.allowAll {
		return "*"
	}
	return st.origins[strings.ToLower(origin)]
}
