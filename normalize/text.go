// Package normalize contains the pure text cleanup and value coercion
// helpers used on raw strings pulled out of airport detail pages. Nothing
// here performs I/O or touches shared state.
package normalize

import (
	"html"
	"net/mail"
	"regexp"
	"strings"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)

	// Anti-scraping email obfuscation embeds the address as two quoted
	// script fragments: string1 = "user" ... string3 = "domain".
	reEmailUser   = regexp.MustCompile(`string1\s*=\s*"([^"]*)"`)
	reEmailDomain = regexp.MustCompile(`string3\s*=\s*"([^"]*)"`)
)

// obfuscationMarker flags a raw value that still carries the site's
// script-based email obfuscation instead of a plain address.
const obfuscationMarker = "string1"

// Sentinel values the site renders for missing data.
const (
	sentinelUnavailable = "Unavailable"
	sentinelUnknownAdd  = "Unknown (add)"
)

// CollapseSpace folds every run of whitespace (including CR/LF) into a
// single space and trims the ends.
func CollapseSpace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// ClearText runs the full cleanup pipeline over one raw field value:
// whitespace folding, HTML entity decoding, markup artifact stripping,
// sentinel suppression, and email deobfuscation. It returns nil when
// nothing meaningful is left.
//
// ClearText is idempotent for every input except obfuscated emails, which
// are single-pass by nature (the reassembled address no longer carries the
// obfuscation marker).
func ClearText(raw string) *string {
	s := CollapseSpace(raw)
	s = html.UnescapeString(s)
	s = strings.TrimSpace(s)

	// Markup artifacts left by the detail page layout.
	s = strings.TrimPrefix(s, ": ")
	s = strings.TrimSuffix(s, " (?)")
	s = strings.TrimSuffix(s, " ft.")

	if s == sentinelUnavailable || s == sentinelUnknownAdd {
		return nil
	}

	if strings.Contains(s, obfuscationMarker) {
		s = deobfuscateEmail(s)
	}

	if s == "" {
		return nil
	}
	return &s
}

// deobfuscateEmail reassembles "user@domain" from the two quoted fragments
// of the obfuscation script. Values that do not reassemble into a
// syntactically valid address are discarded.
func deobfuscateEmail(s string) string {
	user := reEmailUser.FindStringSubmatch(s)
	domain := reEmailDomain.FindStringSubmatch(s)
	if user == nil || domain == nil {
		return ""
	}

	addr := user[1] + "@" + domain[1]
	if _, err := mail.ParseAddress(addr); err != nil {
		return ""
	}
	return addr
}
