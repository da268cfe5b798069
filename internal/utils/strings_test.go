package utils

import "testing"

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and uppercases", "  abc123  ", "ABC123"},
		{"non-breaking space becomes regular space", "ab cd", "AB CD"},
		{"leading non-breaking space trimmed", " abc", "ABC"},
		{"already normalized", "ABC123", "ABC123"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCode(tt.in); got != tt.want {
				t.Fatalf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "alice@example.com"}
	invalid := []string{"", "not-an-email", "a@b", "a@@b.com"}

	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}
