package utils

import "strings"

var shellSafe = func() map[rune]bool {
	safe := make(map[rune]bool)
	for _, r := range "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%_-+=:,./" {
		safe[r] = true
	}
	return safe
}()

// ShellQuote quotes a string for safe use in a POSIX shell script.
// Safe ASCII strings pass through untouched; everything else is
// single-quoted with embedded quotes escaped as '"'"'.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	needsQuoting := false
	for _, r := range s {
		if !shellSafe[r] {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
