package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// trailingIntComponent returns the terminal numeric component of oid,
// the ifIndex for every ifTable/ifXTable column (SPEC_FULL.md §4.2.2).
func trailingIntComponent(oid string) (int, bool) {
	parts := strings.Split(strings.Trim(oid, "."), ".")
	if len(parts) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// trailingComponents returns the last n dot-separated components of
// oid as integers, in order, or false if oid has fewer than n numeric
// trailing components.
func trailingComponents(oid string, n int) ([]int, bool) {
	parts := strings.Split(strings.Trim(oid, "."), ".")
	if len(parts) < n {
		return nil, false
	}
	tail := parts[len(parts)-n:]
	out := make([]int, n)
	for i, p := range tail {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// macFromOIDTail recovers a MAC address from the last six dotted
// numeric components of a dot1dTpFdb OID, formatted lowercase
// colon-separated.
func macFromOIDTail(oid string) (string, bool) {
	comps, ok := trailingComponents(oid, 6)
	if !ok {
		return "", false
	}
	for _, c := range comps {
		if c < 0 || c > 255 {
			return "", false
		}
	}
	return formatMACBytes(comps), true
}

func formatMACBytes(b []int) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
}

var hexDigitsOnly = regexp.MustCompile(`[0-9a-fA-F]`)

// macFromValue recovers a MAC address from a value string that
// contains exactly 12 hex characters once type prefixes ("Hex-STRING:",
// "0x"), spaces, and colons are discarded.
func macFromValue(value string) (string, bool) {
	s := strings.TrimSpace(value)
	s = strings.TrimPrefix(s, "Hex-STRING:")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")

	hex := strings.Builder{}
	for _, r := range s {
		if hexDigitsOnly.MatchString(string(r)) {
			hex.WriteRune(r)
		} else if r == ' ' || r == ':' || r == '-' {
			continue
		} else {
			return "", false
		}
	}
	digits := hex.String()
	if len(digits) != 12 {
		return "", false
	}
	digits = strings.ToLower(digits)
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		digits[0:2], digits[2:4], digits[4:6], digits[6:8], digits[8:10], digits[10:12]), true
}

var leadingIntRe = regexp.MustCompile(`-?\d+`)

var typePrefixRe = regexp.MustCompile(`^\s*[A-Za-z][A-Za-z0-9-]*:`)

// firstInt extracts the first integer appearing in value, tolerating
// type prefixes like "INTEGER: 5" or "Gauge32: 42".
func firstInt(value string) (int, bool) {
	value = typePrefixRe.ReplaceAllString(value, "")
	m := leadingIntRe.FindString(value)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// extractIfIndexAndIP parses an ipNetToMedia-style OID of the shape
// <base>.<ifIndex>.<a>.<b>.<c>.<d>, returning the ifIndex and the
// dotted IPv4 address. Components are counted after the ipNetToMedia
// column prefix when oid is under one. When fewer than five numeric
// components are present, ifIndex is reported absent but the IP is
// still returned when the last four components parse.
func extractIfIndexAndIP(oid string) (ifIndex int, hasIfIndex bool, ip string, hasIP bool) {
	tail := strings.TrimPrefix(oid, ".")
	for _, base := range []string{oidArpPhysAddress, oidArpNetAddress} {
		if hasPrefix(tail, base) {
			tail = strings.TrimPrefix(strings.TrimPrefix(tail, base), ".")
			break
		}
	}
	if comps, ok := trailingComponents(tail, 5); ok {
		valid := true
		for _, c := range comps[1:] {
			if c < 0 || c > 255 {
				valid = false
			}
		}
		if valid {
			return comps[0], true, fmt.Sprintf("%d.%d.%d.%d", comps[1], comps[2], comps[3], comps[4]), true
		}
	}
	if comps, ok := trailingComponents(tail, 4); ok {
		valid := true
		for _, c := range comps {
			if c < 0 || c > 255 {
				valid = false
			}
		}
		if valid {
			return 0, false, fmt.Sprintf("%d.%d.%d.%d", comps[0], comps[1], comps[2], comps[3]), true
		}
	}
	return 0, false, "", false
}

// hasPrefix reports whether oid (optionally leading-dot) is under the
// numeric subtree rooted at prefix.
func hasPrefix(oid, prefix string) bool {
	oid = strings.TrimPrefix(oid, ".")
	prefix = strings.TrimPrefix(prefix, ".")
	return oid == prefix || strings.HasPrefix(oid, prefix+".")
}
