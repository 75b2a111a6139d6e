package challan

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	trailingUnders  = regexp.MustCompile(`_+\.pdf$`)
)

// SanitizeFilename reduces value to [A-Za-z0-9_-]. An empty result falls back to
// fallback, sanitized the same way, and finally to "file".
func SanitizeFilename(value, fallback string) string {
	source := value
	if source == "" {
		source = fallback
	}
	safe := strings.TrimSpace(source)
	safe = whitespaceRun.ReplaceAllString(safe, "_")
	safe = unsafeFileChars.ReplaceAllString(safe, "")
	safe = strings.Trim(safe, "_")
	if safe != "" {
		return safe
	}
	if fallback != "" {
		return SanitizeFilename(fallback, "file")
	}
	return "file"
}

// InvoiceFilename builds the download name "<invoice>_<buyer>.pdf".
func InvoiceFilename(invoiceNumber, buyer string) string {
	name := SanitizeFilename(invoiceNumber, "invoice") + "_" + SanitizeFilename(buyer, "customer") + ".pdf"
	return trailingUnders.ReplaceAllString(name, ".pdf")
}
