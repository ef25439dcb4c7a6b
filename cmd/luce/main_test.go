package main

import (
	"strings"
	"testing"
)

func TestResolveSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "change_me_in_production")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY uses insecure placeholder")
	}

	t.Setenv("SECRET_KEY", "too-short-secret")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY is too short")
	}

	valid := "0123456789abcdef0123456789abcdef"
	t.Setenv("SECRET_KEY", valid)
	secret, err := resolveSecretKey()
	if err != nil {
		t.Fatalf("expected valid secret, got error: %v", err)
	}
	if secret != valid {
		t.Fatalf("expected %q, got %q", valid, secret)
	}
}

func TestResolveSecretKeyGeneratesEphemeralWhenUnset(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	first, err := resolveSecretKey()
	if err != nil {
		t.Fatalf("expected generated secret, got error: %v", err)
	}
	if len(first) < minSecretKeyLength {
		t.Fatalf("generated secret too short: %d characters", len(first))
	}
	for _, char := range first {
		if !strings.ContainsRune(secretKeyAlphabet, char) {
			t.Fatalf("generated secret contains unexpected character %q", char)
		}
	}

	second, err := resolveSecretKey()
	if err != nil {
		t.Fatalf("expected second generated secret, got error: %v", err)
	}
	if first == second {
		t.Fatal("expected each generated secret to be unique")
	}
}
