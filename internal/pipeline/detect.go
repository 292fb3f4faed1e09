package pipeline

import "strings"

// IsXMLShaped is the fast-path gate: a cheap prefix/suffix check plus a
// known-tag substring scan, no parsing. Non-XML input must get through here
// in microseconds because every piece of assistant input passes by.
func IsXMLShaped(text string, knownTags []string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 3 {
		return false
	}
	if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, tag := range knownTags {
		if strings.Contains(lower, "<"+tag+">") {
			return true
		}
	}
	return false
}
