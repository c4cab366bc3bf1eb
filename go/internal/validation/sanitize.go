package validation

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mcdev12/gridiron/go/internal/apperr"
)

// MaxChatMessageLength is the longest chat message accepted, in characters
const MaxChatMessageLength = 2000

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	scriptPattern     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	stylePattern      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	sqlInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|create|alter|exec|execute|union)\b.*\b(from|into|where|set|table)\b`),
		regexp.MustCompile(`(?i)'\s*(or|and)\s+'?\d+'?\s*=\s*'?\d+`),
		regexp.MustCompile(`(?i);\s*(drop|delete|truncate|alter)\b`),
		regexp.MustCompile(`--\s*$|/\*.*\*/`),
	}

	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<\s*script`),
		regexp.MustCompile(`(?i)\bon\w+\s*=`),
		regexp.MustCompile(`(?i)(javascript|vbscript)\s*:`),
		regexp.MustCompile(`(?i)data\s*:\s*text/html`),
		regexp.MustCompile(`(?i)<\s*(iframe|object|embed|form|meta|link|base)\b`),
	}
)

// maxDecodePasses bounds entity decoding of nested encodings like &amp;lt;
const maxDecodePasses = 4

// DecodeEntities unescapes HTML entities until the string stops changing
func DecodeEntities(s string) string {
	for i := 0; i < maxDecodePasses; i++ {
		next := html.UnescapeString(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// StripHTML decodes entities and then removes every tag, including script
// and style bodies. Stripping repeats so split tags cannot reassemble.
func StripHTML(s string) string {
	s = DecodeEntities(s)
	for {
		next := scriptPattern.ReplaceAllString(s, "")
		next = stylePattern.ReplaceAllString(next, "")
		next = tagPattern.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// SanitizeString strips markup and control characters, collapses whitespace
// and truncates to maxLen characters. maxLen <= 0 disables truncation.
func SanitizeString(s string, maxLen int) string {
	s = StripHTML(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
	return truncate(s, maxLen)
}

// SanitizeChatMessage cleans a chat body. Empty results and bodies that still
// carry script-capable text after cleaning are rejected.
func SanitizeChatMessage(s string) (string, error) {
	out := SanitizeString(s, MaxChatMessageLength)
	if out == "" {
		return "", apperr.Field("body", "message cannot be empty")
	}
	if ContainsXSS(out) {
		return "", apperr.Field("body", "message contains unsafe content")
	}
	return out, nil
}

// NormalizeEmail trims and lower-cases an address. For gmail addresses the
// +tag suffix and dots in the local part are dropped.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if domain == "gmail.com" || domain == "googlemail.com" {
		if plus := strings.Index(local, "+"); plus >= 0 {
			local = local[:plus]
		}
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	}
	return local + "@" + domain
}

// ContainsSQLInjection reports whether s looks like an injection attempt
func ContainsSQLInjection(s string) bool {
	for _, p := range sqlInjectionPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// ContainsXSS reports whether s carries script-capable markup
func ContainsXSS(s string) bool {
	for _, p := range xssPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxLen]))
}
