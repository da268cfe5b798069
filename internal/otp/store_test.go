package otp

import (
	"fmt"
	"sync"
	"testing"
)

func TestStore_PutReplacesPriorChallenge(t *testing.T) {
	s := NewStore()

	s.Put("alice@example.com", "111111")
	s.Put("alice@example.com", "222222")

	if s.Match("alice@example.com", "111111") {
		t.Fatal("first code should be invalid after a second was issued")
	}
	if !s.Match("alice@example.com", "222222") {
		t.Fatal("most recent code should match")
	}
}

func TestStore_MatchIsExact(t *testing.T) {
	s := NewStore()
	s.Put("alice@example.com", "123456")

	if s.Match("alice@example.com", " 123456") {
		t.Fatal("match must not trim the supplied code")
	}
	if s.Match("bob@example.com", "123456") {
		t.Fatal("no challenge stored for this email")
	}
	if !s.Match("alice@example.com", "123456") {
		t.Fatal("exact code should match")
	}
}

func TestStore_MatchSurvivesRepeatedVerification(t *testing.T) {
	s := NewStore()
	s.Put("alice@example.com", "123456")

	// Verification does not consume the challenge.
	for i := 0; i < 3; i++ {
		if !s.Match("alice@example.com", "123456") {
			t.Fatalf("match %d failed; challenge should persist until replaced", i+1)
		}
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Put("alice@example.com", "123456")
	s.Remove("alice@example.com")

	if s.Match("alice@example.com", "123456") {
		t.Fatal("removed challenge should not match")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", i%10)
			s.Put(email, "123456")
			s.Match(email, "123456")
			if i%5 == 0 {
				s.Remove(email)
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
		if code[0] == '0' {
			t.Fatalf("code %q outside [100000, 999999]", code)
		}
	}
}
