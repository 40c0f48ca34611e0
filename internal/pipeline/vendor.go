package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VendorFromPath derives a display vendor name from a contract file name:
// "github_tos.html" -> "Github", "aws_customer_agreement.html" -> "Aws Customer Agreement"
func VendorFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.ReplaceAll(stem, "_tos", "")
	stem = strings.ReplaceAll(stem, "_terms", "")
	stem = strings.ReplaceAll(stem, "_", " ")
	return titleCase(stem)
}

// VendorFromURL derives a vendor name from the host:
// "https://www.stripe.com/legal" -> "Stripe"
func VendorFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "Unknown Vendor"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	name, _, _ := strings.Cut(host, ".")
	name = strings.ReplaceAll(name, "-", " ")
	return titleCase(name)
}

func titleCase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "Unknown Vendor"
	}
	return cases.Title(language.English).String(s)
}
