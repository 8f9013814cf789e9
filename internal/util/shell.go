// Package util provides common utility functions used across the codebase.
package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
// This is safe for use in shell commands where the string should be treated literally.
func ShellQuote(s string) string {
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ShellJoin renders an argument vector the way an operator would type it,
// quoting only the arguments that need it. Used for logs and dry-run output.
func ShellJoin(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if needsQuoting(a) {
			parts[i] = ShellQuote(a)
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./:=,@%+", r):
		default:
			return true
		}
	}
	return false
}
