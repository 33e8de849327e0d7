package ports

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DomainSuffixes is the set of sites allowed to call the API from a browser
type DomainSuffixes struct {
	suffixes []string
}

func NewDomainSuffixes(suffixes ...string) (*DomainSuffixes, error) {
	for _, suffix := range suffixes {
		if strings.HasPrefix(suffix, ".") {
			return nil, fmt.Errorf("domain suffix %s should not start with a dot", suffix)
		}
		if strings.Contains(suffix, "://") {
			return nil, fmt.Errorf("domain suffix %s should not contain a scheme", suffix)
		}
	}
	return &DomainSuffixes{
		suffixes: suffixes,
	}, nil
}

// AnyMatch reports whether origin is https://<suffix> or https://<subdomain>.<suffix> for one of
// the suffixes
func (suffixes *DomainSuffixes) AnyMatch(origin string) bool {
	host, ok := httpsOriginHost(origin)
	if !ok {
		return false
	}

	for _, suffix := range suffixes.suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

// httpsOriginHost returns the host of a bare https origin without a port
func httpsOriginHost(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return "", false
	}

	// Anything beyond scheme and host is not a valid origin
	if origin != "https://"+parsed.Host || parsed.Port() != "" {
		return "", false
	}

	return parsed.Host, true
}

// BuildCORSMiddleware allows https origins on one of the allowed domains, and answers their preflight requests
func BuildCORSMiddleware(allowedSuffixes *DomainSuffixes) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if !allowedSuffixes.AnyMatch(origin) {
				next(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)

			if r.Method != http.MethodOptions {
				next(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id, X-Correlation-Id")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

// BuildCORSHandler answers preflight requests for routes that don't otherwise handle OPTIONS
func BuildCORSHandler(allowedSuffixes *DomainSuffixes) http.HandlerFunc {
	return BuildCORSMiddleware(allowedSuffixes)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
