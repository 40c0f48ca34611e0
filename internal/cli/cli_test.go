package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/lockscore/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Cloud", "acme-cloud"},
		{"a/b\\c:d", "a_b_c_d"},
		{"  ..Hidden  ", "hidden"},
		{"", "contract"},
		{"???", "contract"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReportName(t *testing.T) {
	a := &model.Assessment{Vendor: "Acme Cloud", ID: "0d3c9a7e-1234-5678-9abc-def012345678"}
	if got := reportName(a); got != "acme-cloud_0d3c9a7e" {
		t.Errorf("reportName() = %q", got)
	}
}

func TestReadAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	content := `vendor_name: Acme
data_export: "Yes"
sla_credits: true
liability_cap: false
uptime_percentage: 99.9
renewal_notice_days: 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	answers, err := readAnswers(path)
	if err != nil {
		t.Fatalf("readAnswers() error = %v", err)
	}

	want := map[string]string{
		"vendor_name":         "Acme",
		"data_export":         "Yes",
		"sla_credits":         "Yes",
		"liability_cap":       "No",
		"uptime_percentage":   "99.9",
		"renewal_notice_days": "30",
	}
	for k, v := range want {
		if answers[k] != v {
			t.Errorf("answers[%s] = %q, want %q", k, answers[k], v)
		}
	}
}

func TestReadAnswers_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"nested", "data_export:\n  - Yes\n"},
		{"not a mapping", "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := readAnswers(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := readAnswers(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
