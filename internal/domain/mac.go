package domain

import (
	"strconv"
	"strings"
)

// macSeparators are the separator characters seen in vendor MAC formats:
// colon-delimited (aa:bb:cc:dd:ee:ff) and Cisco dot-delimited (aabb.ccdd.eeff).
const macSeparators = ":."

// NormalizeMAC lower-cases a MAC address while preserving its original
// separator style. This is the storage form used in accumulators and output.
func NormalizeMAC(mac string) string {
	return strings.ToLower(strings.TrimSpace(mac))
}

// CanonicalMAC strips all separator characters and lower-cases the hex
// digits. Two MAC strings refer to the same address iff their canonical
// forms are identical, regardless of formatting. The canonical form is
// used only for comparison, never for display.
func CanonicalMAC(mac string) string {
	var b strings.Builder
	b.Grow(len(mac))
	for _, r := range strings.TrimSpace(mac) {
		if strings.ContainsRune(macSeparators, r) {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LooksLikeMAC reports whether a field plausibly holds a MAC address. A
// field qualifies if it contains a separator character, or it is
// MAC-shaped. Permissive on purpose: inside an extracted table row the
// only separator-bearing column is the address column.
func LooksLikeMAC(field string) bool {
	if strings.ContainsAny(field, macSeparators) {
		return true
	}
	return IsMACShaped(field)
}

// IsMACShaped is the strict shape test: length exactly 12, 14 or 17 with
// every character a hex digit or separator. Those lengths cover bare hex,
// dot-delimited and colon-delimited forms. Used where surrounding tokens
// may carry incidental separators (route distinguishers, IP addresses).
func IsMACShaped(token string) bool {
	if len(token) != 12 && len(token) != 14 && len(token) != 17 {
		return false
	}
	for _, r := range token {
		if !isHexOrSeparator(r) {
			return false
		}
	}
	return true
}

func isHexOrSeparator(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	case strings.ContainsRune(macSeparators, r):
		return true
	}
	return false
}

// FindMACField scans the fields of an extracted record left to right and
// returns the index of the first MAC-looking field, or -1 if none matches.
// Used when the template's field order cannot be assumed.
func FindMACField(fields []string) int {
	for i, f := range fields {
		if LooksLikeMAC(f) {
			return i
		}
	}
	return -1
}

// IsIPv4 reports whether a token is a dotted-quad IPv4 address: exactly
// four numeric groups, each in the range 0-255.
func IsIPv4(token string) bool {
	groups := strings.Split(token, ".")
	if len(groups) != 4 {
		return false
	}
	for _, g := range groups {
		if g == "" || len(g) > 3 {
			return false
		}
		n, err := strconv.Atoi(g)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}
