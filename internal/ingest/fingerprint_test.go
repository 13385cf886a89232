package ingest

import "testing"

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("Apple beats estimates", "www.reuters.com", "body text")
	b := Fingerprint("Apple beats estimates", "www.reuters.com", "different body")

	if a != b {
		t.Errorf("fingerprint depends on text when title present: %q != %q", a, b)
	}
	if len(a) != 40 {
		t.Errorf("fingerprint length = %d, want 40 hex chars", len(a))
	}
}

func TestFingerprint_TitleNormalization(t *testing.T) {
	a := Fingerprint("Apple  Beats   Estimates", "reuters.com", "")
	b := Fingerprint("apple beats estimates", "REUTERS.COM", "")

	if a != b {
		t.Errorf("normalized titles/hosts differ: %q != %q", a, b)
	}
}

func TestFingerprint_ChangesWithTitleOrHost(t *testing.T) {
	base := Fingerprint("Apple beats estimates", "reuters.com", "")

	if got := Fingerprint("Apple misses estimates", "reuters.com", ""); got == base {
		t.Error("fingerprint unchanged after title change")
	}
	if got := Fingerprint("Apple beats estimates", "bloomberg.com", ""); got == base {
		t.Error("fingerprint unchanged after host change")
	}
}

func TestFingerprint_FullTextFallback(t *testing.T) {
	a := Fingerprint("", "reuters.com", "the full body")
	b := Fingerprint("", "bloomberg.com", "the full body")
	c := Fingerprint("", "reuters.com", "another body")

	if a != b {
		t.Errorf("text fallback should ignore host: %q != %q", a, b)
	}
	if a == c {
		t.Error("text fallback should vary with text")
	}

	// Whitespace-only title uses the text path too.
	if got := Fingerprint("   ", "reuters.com", "the full body"); got != a {
		t.Errorf("whitespace title fingerprint = %q, want text hash %q", got, a)
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.Reuters.com/markets/apple", "www.reuters.com"},
		{"http://feeds.bloomberg.com:8080/x", "feeds.bloomberg.com"},
	}
	for _, tt := range tests {
		got, err := HostOf(tt.url)
		if err != nil {
			t.Errorf("HostOf(%q) error = %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("HostOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
