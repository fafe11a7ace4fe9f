package util

import (
	"regexp"
	"strings"
)

var controlRe = regexp.MustCompile(`[\x00-\x1F\x7F]+`)

// SanitizeForLog removes control characters and newlines from user content
// before it reaches a log line or an audit detail field.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return controlRe.ReplaceAllString(s, " ")
}

// Truncate limits a string to n bytes for log and evidence safety.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
