package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/utils"
)

// AllowOnlyCIDRS restricts a route to clients whose address falls in one of
// allowed (plain IPs or CIDRs). An empty list lets everyone through.
// Set trustProxy when the server sits behind a reverse proxy that sets
// X-Forwarded-For.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("no allowed cidrs configured, private routes are open")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("private routes restricted",
		logger.Int("rules", len(allowed)),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("client not in allowed cidrs",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path),
					logger.String("remote_addr", r.RemoteAddr))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
