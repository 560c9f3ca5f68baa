package kyc

import (
	"regexp"
	"strings"
)

var (
	phoneRe   = regexp.MustCompile(`^\d{10}$`)
	aadhaarRe = regexp.MustCompile(`^\d{12}$`)
	panRe     = regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`)
)

// NormalizeName folds case and collapses whitespace for partial matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NormalizePAN folds a PAN-equivalent id to its canonical uppercase form.
func NormalizePAN(pan string) string {
	return strings.ToUpper(strings.TrimSpace(pan))
}
