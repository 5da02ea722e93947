package service

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("expected %d characters, got %q", codeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected distinct codes across generations")
	}
}

func TestCodeExpired(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if codeExpired(issued, issued.Add(codeTTL-time.Second)) {
		t.Fatal("code must be valid inside the window")
	}
	if !codeExpired(issued, issued.Add(codeTTL)) {
		t.Fatal("code must expire exactly at the window edge")
	}
	if !codeExpired(issued, issued.Add(time.Hour)) {
		t.Fatal("code must be expired after an hour")
	}
}
