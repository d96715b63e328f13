package common

import (
	"fmt"
	"strings"
)

// FormatCreationError renders a per-item failure the same way for every stage.
// index is zero-based; the message shows it one-based.
func FormatCreationError(itemType, title string, index int, err error) string {
	return fmt.Sprintf("%s #%d '%s': %v", itemType, index+1, title, err)
}

// NormalizeNewlines rewrites the literal two-character sequence `\n` into a real line break.
// Templates authored as escaped JSON strings often carry it.
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
