package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type countryContextKey struct{}

// CountryKey stores the supporter's best-effort ISO country code.
var CountryKey = countryContextKey{}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// Country detects the requester's country so contributions can be stamped
// with it. Sources, in order: proxy headers, the region of the client's
// language preference, then a GeoIP lookup when one is configured. All of it
// is display metadata; an empty result is fine.
func Country(lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			if country != "" {
				ctx := context.WithValue(r.Context(), CountryKey, country)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO country code for the given request.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if region := acceptLanguageRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

func acceptLanguageRegion(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		region, conf := tag.Region()
		if conf >= language.High && region.IsCountry() {
			return region.String()
		}
	}
	return ""
}
