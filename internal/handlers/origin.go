package handlers

import (
	"net/http"
	"net/url"
	"strings"
)

// OriginChecker возвращает CheckOrigin для websocket.Upgrader. Пустой список
// или "*" разрешают любой origin. Запросы без Origin (не из браузера) пропускаются.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	normalized := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if n, ok := normalizeOrigin(origin); ok {
			normalized[n] = struct{}{}
		}
	}
	if len(normalized) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		header := r.Header.Get("Origin")
		if header == "" {
			return true
		}
		n, ok := normalizeOrigin(header)
		if !ok {
			return false
		}
		_, allowed := normalized[n]
		return allowed
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
