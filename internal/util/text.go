package util

import "strings"

// SanitizePostgresText strips byte sequences Postgres rejects in TEXT
// columns: invalid UTF-8 and NUL bytes. Node names and relations pass
// through here before any write.
func SanitizePostgresText(value string) string {
	if value == "" {
		return ""
	}
	return strings.ReplaceAll(strings.ToValidUTF8(value, ""), "\x00", "")
}
