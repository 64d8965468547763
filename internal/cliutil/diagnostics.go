package cliutil

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

const redactedPlaceholder = "[redacted]"

var secretKeyPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(secretKeys(), "|") + `)\b(["']?\s*[:=]\s*)(["']?)([^"'\s,}]+)(["']?)`)

// secretKeys lists sing-box config fields that hold credentials and can be
// echoed back in sing-box error output.
func secretKeys() []string {
	keys := []string{
		"password",
		"uuid",
		"private_key",
		"pre_shared_key",
		"auth_str",
		"obfs_password",
		"token",
		"secret",
	}
	escaped := make([]string, len(keys))
	for i, key := range keys {
		escaped[i] = regexp.QuoteMeta(key)
	}
	return escaped
}

// RedactSecrets masks the values of known credential fields in message.
func RedactSecrets(message string) string {
	if message == "" {
		return message
	}
	return secretKeyPattern.ReplaceAllString(message, "$1$2$3"+redactedPlaceholder+"$5")
}

// ErrorLines flattens err into one message per leaf of an errors.Join tree.
func ErrorLines(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var lines []string
		for _, e := range joined.Unwrap() {
			lines = append(lines, ErrorLines(e)...)
		}
		return lines
	}
	return []string{strings.TrimSpace(err.Error())}
}

// WriteErrors prints each message of err as an "Error: " line with
// credentials masked.
func WriteErrors(w io.Writer, err error) {
	for _, line := range ErrorLines(err) {
		fmt.Fprintf(w, "Error: %s\n", RedactSecrets(line))
	}
}
