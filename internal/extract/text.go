package extract

import (
	"strings"
	"unicode"
)

// CleanText is the lossy normalization applied before matching and export.
// Non-ASCII runes other than whitespace are dropped, each line is trimmed,
// blank lines are removed and the rest are joined with single spaces.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(asciiOnly(line))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}
