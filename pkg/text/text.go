package text

import "strings"

// Chomp removes every trailing "\n", and a "\r" left in front of them.
func Chomp(s string) string {
	s = strings.TrimRight(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// 🔪 Split splits a raw line into fields. An empty sep splits on runs of
// whitespace and drops the line terminator; any other sep splits exactly,
// so the last field keeps the terminator.
func Split(line, sep string) []string {
	if sep == "" {
		return strings.Fields(line)
	}
	return strings.Split(line, sep)
}
