package co2

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPopulation renders n with thousands separators, e.g. 14,000,000.
func FormatPopulation(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatPercent renders a percentage the way the dashboard labels it.
func FormatPercent(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.1f%%", v)
}
