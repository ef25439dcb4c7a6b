package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lucaferrani/luce/internal/security"
)

const (
	minSecretKeyLength = 32
	secretKeyAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var insecureSecretPlaceholders = []string{
	"change_me_in_production",
	"replace_with_at_least_32_random_characters",
}

// resolveSecretKey reads SECRET_KEY, refusing placeholders and short values.
// When the variable is unset entirely, a random ephemeral key is generated:
// the server stays usable, but sessions do not survive a restart.
func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		generated, err := security.RandomString(minSecretKeyLength*2, secretKeyAlphabet)
		if err != nil {
			return "", fmt.Errorf("generate ephemeral secret key: %w", err)
		}
		log.Println("SECRET_KEY not set, using an ephemeral key; sessions reset on restart")
		return generated, nil
	}

	for _, placeholder := range insecureSecretPlaceholders {
		if secret == placeholder {
			return "", fmt.Errorf("SECRET_KEY uses the insecure placeholder %q", placeholder)
		}
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}
