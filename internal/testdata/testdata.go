// Package testdata generates randomized input data for data-driven tests
// and loads fixture files.
package testdata

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns a random alphanumeric string of the given length.
func RandomString(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(letters[rand.Intn(len(letters))])
	}
	return sb.String()
}

// RandomEmail returns a unique, routable-looking test email address.
func RandomEmail() string {
	return fmt.Sprintf("test-%s@example.com", uuid.New().String()[:8])
}

// RandomPassword returns a password satisfying common complexity rules.
func RandomPassword() string {
	return fmt.Sprintf("Test%s123!", RandomString(10))
}

// Registration is a generated form payload for signup-style flows.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

var firstNames = []string{"Alex", "Sam", "Jordan", "Casey", "Riley", "Morgan", "Quinn", "Avery"}
var lastNames = []string{"Smith", "Nguyen", "Garcia", "Kim", "Olsen", "Patel", "Weber", "Rossi"}

// NewRegistration generates a random registration payload.
func NewRegistration() Registration {
	return Registration{
		FirstName: firstNames[rand.Intn(len(firstNames))],
		LastName:  lastNames[rand.Intn(len(lastNames))],
		Email:     RandomEmail(),
		Password:  RandomPassword(),
		Phone:     fmt.Sprintf("+1555%07d", rand.Intn(10000000)),
	}
}

// LoadJSON reads a JSON fixture file into dst.
func LoadJSON(path string, dst any) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read fixture %s: %w", path, err)
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return fmt.Errorf("could not parse fixture %s: %w", path, err)
	}
	return nil
}

// SaveJSON writes v as indented JSON to path.
func SaveJSON(path string, v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize %s: %w", path, err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("could not write fixture %s: %w", path, err)
	}
	return nil
}
