package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var english = message.NewPrinter(language.English)

// FormatCount renders a row count with thousands separators for log lines
// and the run summary (1234567 -> "1,234,567").
func FormatCount(n int) string {
	return english.Sprintf("%d", n)
}
