// Package sanitize screens message bodies before they are accepted.
// The filter blocks embedded script and markup payloads; it is a
// denylist for the few constructs the UI layer must never render, not
// a general HTML sanitizer.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"cloakchat/internal/domain"
)

// MaxMessageLen bounds accepted message bodies.
const MaxMessageLen = 5000

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script.*?>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?is)<iframe.*?>.*?</iframe>`),
	regexp.MustCompile(`(?is)<object.*?>.*?</object>`),
	regexp.MustCompile(`(?is)<embed.*?>.*?</embed>`),
}

// ValidateMessage rejects blank bodies with ErrEmptyContent and
// overlong or dangerous bodies with ErrUnsafeContent.
func ValidateMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyContent
	}
	if len(text) > MaxMessageLen {
		return domain.ErrUnsafeContent
	}
	for _, p := range dangerousPatterns {
		if p.MatchString(text) {
			return domain.ErrUnsafeContent
		}
	}
	return nil
}

var blankLines = regexp.MustCompile(`\n\s*\n`)

// CleanHTML escapes markup and collapses runs of blank lines, for
// surfaces that echo plaintext back to a renderer.
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}
	cleaned := html.EscapeString(text)
	cleaned = blankLines.ReplaceAllString(cleaned, "\n\n")
	if len(cleaned) > 1000 {
		cleaned = cleaned[:1000] + "..."
	}
	return strings.TrimSpace(cleaned)
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidUsername accepts 3-20 characters of letters, digits and
// underscores.
func ValidUsername(username string) bool {
	if len(username) < 3 || len(username) > 20 {
		return false
	}
	return usernameRe.MatchString(username)
}

// ValidEmail applies a pragmatic address shape check.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidDisplayName accepts 2-50 characters free of markup-significant
// runes.
func ValidDisplayName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 50 {
		return false
	}
	return !strings.ContainsAny(name, `<>"'&\/`)
}
