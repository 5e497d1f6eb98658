// internal/recommend/match.go
package recommend

import "strings"

// TagOverlap reports whether two free-text tags refer to the same thing: either one contains the
// other, ignoring case. Empty tags never match.
func TagOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// CountOverlap counts the tags that overlap at least one rule tag. Each tag counts once no matter
// how many rule tags it matches.
func CountOverlap(tags, ruleTags []string) int {
	n := 0
	for _, tag := range tags {
		for _, rt := range ruleTags {
			if TagOverlap(tag, rt) {
				n++
				break
			}
		}
	}
	return n
}

func containsExact(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
