package util

import (
	"net/url"
	"regexp"
	"strings"
)

// MaskDevice acorta un fingerprint para logs: primeros y últimos 4 caracteres.
func MaskDevice(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "***"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

var dsnPasswordRE = regexp.MustCompile(`(?i)(password\s*=\s*)('[^']*'|\S+)`)

// RedactURL oculta la password de un DSN/URL de conexión (redis://, postgres://
// o formato key=value de libpq).
func RedactURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), "xxxxx")
			}
			return u.String()
		}
	}
	return dsnPasswordRE.ReplaceAllString(s, "${1}xxxxx")
}
