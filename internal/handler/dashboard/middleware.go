package dashboard

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// requireHTTPS rejects plain HTTP requests from remote hosts unless insecure
// access is allowed. X-Forwarded-Proto is honoured only when proxies are
// trusted.
func (h *Handler) requireHTTPS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.options.AllowInsecureHTTP || h.isSecure(r) || isLoopback(r.RemoteAddr) {
			next.ServeHTTP(w, r)
			return
		}

		logger.FromRequest(r).Warn().Str("remote_addr", r.RemoteAddr).Msg("insecure remote dashboard access rejected")
		http.Error(w, MessageHTTPSRequired, http.StatusForbidden)
	})
}

func (h *Handler) isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if h.options.TrustProxy <= 0 {
		return false
	}
	// the left-most value was set by the proxy closest to the client
	proto, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ",")
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// basicAuth requires credentials of one of the configured users. Without
// configured users the dashboard is open.
func (h *Handler) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(h.options.Users) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if ok && h.authenticate(user, pass) {
			next.ServeHTTP(w, r)
			return
		}

		if ok {
			logger.FromRequest(r).Warn().Str("user", user).Msg("dashboard authentication failed")
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

func (h *Handler) authenticate(user, pass string) bool {
	for _, u := range h.options.Users {
		if subtle.ConstantTimeCompare([]byte(user), []byte(u.User)) != 1 {
			continue
		}
		if h.options.UseEncryptedPasswords {
			return bcrypt.CompareHashAndPassword([]byte(u.Pass), []byte(pass)) == nil
		}
		return subtle.ConstantTimeCompare([]byte(pass), []byte(u.Pass)) == 1
	}
	return false
}
