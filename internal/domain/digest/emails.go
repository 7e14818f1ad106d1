package digest

import (
	"net/mail"
	"regexp"
	"strings"
)

// MaxEmailLength es el tope pragmático de RFC 3696.
const MaxEmailLength = 320

var (
	emailRE     = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)+$`)
	emailSplitRE = regexp.MustCompile(`[,\n;]+`)
)

// NormalizeEmail baja a minúsculas y recorta para comparar y guardar.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail valida formato con criterio pragmático: largo acotado,
// sin CR/LF (header injection) y un solo address parseable.
func IsValidEmail(email string) bool {
	if email == "" || len(email) > MaxEmailLength {
		return false
	}
	if strings.ContainsAny(email, "\r\n") {
		return false
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return false
	}
	return emailRE.MatchString(email)
}

// SanitizeEmail normaliza y devuelve "" cuando no es válido.
func SanitizeEmail(email string) string {
	normalized := NormalizeEmail(email)
	if !IsValidEmail(normalized) {
		return ""
	}
	return normalized
}

// ParseEmailList separa una lista cruda de destinatarios (coma, punto y
// coma o salto de línea).
func ParseEmailList(raw string) []string {
	var out []string
	for _, item := range emailSplitRE.Split(raw, -1) {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SanitizeEmails normaliza, valida y dedupea preservando el orden.
func SanitizeEmails(emails []string) []string {
	var cleaned []string
	seen := map[string]struct{}{}
	for _, email := range emails {
		sanitized := SanitizeEmail(email)
		if sanitized == "" {
			continue
		}
		if _, ok := seen[sanitized]; ok {
			continue
		}
		seen[sanitized] = struct{}{}
		cleaned = append(cleaned, sanitized)
	}
	return cleaned
}
