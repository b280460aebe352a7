package config

import (
	"testing"
	"time"
)

func TestParseMethods(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"GET", []string{"GET"}},
		{"get, head", []string{"GET", "HEAD"}},
		{" , GET,, ", []string{"GET"}},
		{"", nil},
	}
	for _, tt := range tests {
		m := parseMethods(tt.in)
		if len(m) != len(tt.want) {
			t.Fatalf("parseMethods(%q) = %v, want %v", tt.in, m, tt.want)
		}
		for _, w := range tt.want {
			if !m[w] {
				t.Fatalf("parseMethods(%q) missing %q", tt.in, w)
			}
		}
	}
}

func TestParseDur(t *testing.T) {
	if d := parseDur("45s"); d != 45*time.Second {
		t.Fatalf("parseDur(45s) = %v", d)
	}
	// Unparsable durations fall back to one second rather than disabling the
	// cache entirely.
	if d := parseDur("nonsense"); d != time.Second {
		t.Fatalf("parseDur(nonsense) = %v", d)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("TEST_FLAG", "yes")
	if !envBool("TEST_FLAG", false) {
		t.Fatal("yes should parse as true")
	}
	t.Setenv("TEST_FLAG", "off")
	if envBool("TEST_FLAG", true) {
		t.Fatal("off should parse as false")
	}
	t.Setenv("TEST_FLAG", "maybe")
	if !envBool("TEST_FLAG", true) {
		t.Fatal("unparsable value should keep the default")
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Fatalf("Capacity = %d, want clamp to 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Fatalf("RefillTokens = %d, want clamp to 1", cfg.RefillTokens)
	}
	// TTL must outlive several refill intervals or buckets expire mid-burst.
	if cfg.TTL != 10*time.Second {
		t.Fatalf("TTL = %v, want 10s", cfg.TTL)
	}
}
