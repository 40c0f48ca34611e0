package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/terms"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://other.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)
	host := "http://example.com/legal"

	if !limiter.Allow(host) {
		t.Fatal("first request should pass")
	}
	if limiter.Allow("http://EXAMPLE.com/terms") {
		t.Error("same host (any case, any path) should share a bucket")
	}
	if !limiter.Allow("http://other.com") {
		t.Error("other host should pass")
	}
}

func TestLimiter_FilesAreNotPaced(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	for i := 0; i < 3; i++ {
		if !limiter.Allow("contracts/acme_tos.html") {
			t.Fatal("local files must never be paced")
		}
	}
	if err := limiter.Wait(context.Background(), "/tmp/acme.txt"); err != nil {
		t.Errorf("wait on file failed: %v", err)
	}
}

func TestLimiter_ZeroRateUnlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("http://example.com") {
			t.Fatalf("request %d should pass with pacing disabled", i)
		}
	}
}

func TestLimiter_WaitCanceled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	limiter.Allow("http://slow.com")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "http://slow.com"); err == nil {
		t.Error("expected wait to fail once the context ends")
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		source string
		host   string
		ok     bool
	}{
		{"http://example.com/foo", "example.com", true},
		{"https://Example.COM:8443/x", "example.com", true},
		{"contracts/acme.html", "", false},
		{"ftp://example.com/x", "", false},
		{"::invalid", "", false},
	}

	for _, tt := range tests {
		host, ok := hostOf(tt.source)
		if host != tt.host || ok != tt.ok {
			t.Errorf("hostOf(%q) = %q, %v; want %q, %v", tt.source, host, ok, tt.host, tt.ok)
		}
	}
}
