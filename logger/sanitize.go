package logger

import (
	"regexp"
	"strings"
)

// Keys are matched case-insensitively on their suffix so that
// "admin_password" or "lock_token" are caught without listing every variant.
var sensitiveSuffixes = []string{
	"password",
	"password_hash",
	"token",
	"secret",
	"authorization",
	"cookie",
	"jwt",
	"session_id",
	"api_key",
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// Whole lines of a dumped stack: goroutine headers, tab-indented file:line
// entries and bare function frames such as "main.run(...)".
var stackFrameRegex = regexp.MustCompile(`(?m)^(goroutine \d+ \[[^\]]*\]:|\t.*|panic\(.*|[\w./-]+\.\w+\(.*\))$\n?`)

const redacted = "[REDACTED]"

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

func (l *Logger) sanitizeDetails(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return nil
	}
	clean := make(map[string]interface{}, len(details))
	for key, value := range details {
		if isSensitiveKey(key) {
			clean[key] = redacted
			continue
		}
		switch v := value.(type) {
		case string:
			clean[key] = l.sanitizeString(v)
		case error:
			clean[key] = l.sanitizeString(v.Error())
		case map[string]interface{}:
			clean[key] = l.sanitizeDetails(v)
		default:
			clean[key] = v
		}
	}
	return clean
}

func (l *Logger) sanitizeString(s string) string {
	s = emailRegex.ReplaceAllStringFunc(s, maskEmail)
	if l.config.Environment == "production" && strings.Contains(s, "\n") {
		s = strings.TrimRight(stackFrameRegex.ReplaceAllString(s, ""), "\n")
	}
	return s
}

// maskEmail keeps the first two characters of the local part.
func maskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return "[REDACTED_EMAIL]"
	}
	local, domain := email[:at], email[at+1:]
	if len(local) > 2 {
		local = local[:2]
	}
	return local + strings.Repeat("*", 3) + "@" + domain
}
