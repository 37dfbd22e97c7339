package eventlog

import (
	"regexp"
	"strings"
)

var disallowedRun = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)
var dashRun = regexp.MustCompile(`-{2,}`)

// SanitizeFilename keeps alphanumerics and -_. , replaces every other
// rune (or run of runes) with a single '-', collapses '--' runs, and
// strips leading/trailing '-' or '.'. The result always matches
// [A-Za-z0-9_.-]+ and is never empty.
func SanitizeFilename(name string) string {
	s := disallowedRun.ReplaceAllString(name, "-")
	s = dashRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if s == "" {
		return "attachment"
	}
	return s
}

func attachmentFilename(id, name string) string {
	return id + "-" + SanitizeFilename(name)
}
