package logging

import (
	"regexp"
)

const (
	// MaxMessageLength caps sanitized text that ends up in check messages or logs.
	MaxMessageLength = 300
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Bearer JWTs and opaque bearer tokens
	bearerPattern = regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-_.~+/]+=*`)

	// Query-string credentials used by Graph API, OAuth token endpoints and API keys
	queryTokenPattern = regexp.MustCompile(`(?i)(access_token|refresh_token|client_secret|api[_-]?key|key)=[^&\s"']+`)

	// Shopify admin tokens (shpat_, shpca_, shppa_, shpss_)
	shopifyTokenPattern = regexp.MustCompile(`shp(at|ca|pa|ss)_[A-Za-z0-9]+`)

	// Google OAuth access tokens
	googleTokenPattern = regexp.MustCompile(`ya29\.[A-Za-z0-9\-_.]+`)

	// user:pass@host
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from a DSN or URL before logging.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	return connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeMessage strips every known credential shape from free text.
// Probe failures pass through here before they are stored as check messages.
func SanitizeMessage(msg string) string {
	if msg == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(msg, "${1}="+RedactedText)
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = queryTokenPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = shopifyTokenPattern.ReplaceAllString(sanitized, RedactedText)
	sanitized = googleTokenPattern.ReplaceAllString(sanitized, RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return TruncateString(sanitized, MaxMessageLength)
}

// SanitizeError is SanitizeMessage for errors.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeMessage(err.Error())
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
