package pipeline

import "testing"

func TestVendorFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"contracts/github_tos.html", "Github"},
		{"aws_customer_agreement.html", "Aws Customer Agreement"},
		{"/tmp/slack_terms.txt", "Slack"},
		{"zoom.md", "Zoom"},
		{"_tos.html", "Unknown Vendor"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := VendorFromPath(tt.path); got != tt.want {
				t.Errorf("VendorFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestVendorFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.stripe.com/legal", "Stripe"},
		{"https://acme-cloud.io/terms", "Acme Cloud"},
		{"http://EXAMPLE.org", "Example"},
		{"not a url", "Unknown Vendor"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := VendorFromURL(tt.url); got != tt.want {
				t.Errorf("VendorFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
