package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// Prefixes for different entity types (Stripe-style)
const (
	PrefixApplication  = "app"
	PrefixLicenseType  = "lt"
	PrefixSubscription = "sub"
	PrefixAssignment   = "la"
	PrefixAccess       = "acc"
	PrefixAuditEntry   = "alg"
	PrefixTenant       = "tn"
)

// Generate creates a random short ID with the specified length using Base62 encoding.
// The generated ID is cryptographically random and URL-safe.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// MustGenerate creates a random short ID and panics on error.
// Use this only when you're certain the generation won't fail.
func MustGenerate(length int) string {
	id, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
// This follows the Stripe-style ID pattern for human-readable identifiers.
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}

// MustGenerateWithPrefix creates a prefixed ID and panics on error.
func MustGenerateWithPrefix(prefix string, length int) string {
	id, err := GenerateWithPrefix(prefix, length)
	if err != nil {
		panic(err)
	}
	return id
}

// FormatWithPrefix adds a prefix to an existing short ID.
// Example: FormatWithPrefix("sub", "xK9mP2vL3nQ") returns "sub_xK9mP2vL3nQ"
func FormatWithPrefix(prefix, shortID string) string {
	if shortID == "" {
		return ""
	}
	return fmt.Sprintf("%s_%s", prefix, shortID)
}

// ParsePrefixedID extracts the prefix and short ID from a prefixed ID string.
// Example: ParsePrefixedID("sub_xK9mP2vL3nQ") returns ("sub", "xK9mP2vL3nQ", nil)
func ParsePrefixedID(prefixedID string) (prefix, shortID string, err error) {
	parts := strings.SplitN(prefixedID, "_", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	return parts[0], parts[1], nil
}

// ValidatePrefix checks if the prefixed ID has the expected prefix.
func ValidatePrefix(prefixedID, expectedPrefix string) error {
	prefix, _, err := ParsePrefixedID(prefixedID)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	return nil
}

// ExtractShortID extracts the short ID from a prefixed ID, validating the prefix.
// Example: ExtractShortID("sub_xK9mP2vL3nQ", "sub") returns "xK9mP2vL3nQ"
func ExtractShortID(prefixedID, expectedPrefix string) (string, error) {
	if err := ValidatePrefix(prefixedID, expectedPrefix); err != nil {
		return "", err
	}
	_, shortID, _ := ParsePrefixedID(prefixedID)
	return shortID, nil
}

// NewSubscriptionID generates a new AppSubscription prefixed ID.
func NewSubscriptionID() (string, error) {
	return GenerateWithPrefix(PrefixSubscription, DefaultLength)
}

// NewAssignmentID generates a new LicenseAssignment prefixed ID.
func NewAssignmentID() (string, error) {
	return GenerateWithPrefix(PrefixAssignment, DefaultLength)
}

// NewAccessID generates a new AppAccess prefixed ID.
func NewAccessID() (string, error) {
	return GenerateWithPrefix(PrefixAccess, DefaultLength)
}

// NewAuditEntryID generates a new audit entry prefixed ID.
func NewAuditEntryID() (string, error) {
	return GenerateWithPrefix(PrefixAuditEntry, DefaultLength)
}

// NewApplicationID generates a new Application prefixed ID.
func NewApplicationID() (string, error) {
	return GenerateWithPrefix(PrefixApplication, DefaultLength)
}

// NewLicenseTypeID generates a new LicenseType prefixed ID.
func NewLicenseTypeID() (string, error) {
	return GenerateWithPrefix(PrefixLicenseType, DefaultLength)
}

// NewTenantID generates a new Tenant prefixed ID.
func NewTenantID() (string, error) {
	return GenerateWithPrefix(PrefixTenant, DefaultLength)
}

// FormatSubscriptionID formats a short ID as an AppSubscription prefixed ID.
func FormatSubscriptionID(shortID string) string {
	return FormatWithPrefix(PrefixSubscription, shortID)
}

// FormatAssignmentID formats a short ID as a LicenseAssignment prefixed ID.
func FormatAssignmentID(shortID string) string {
	return FormatWithPrefix(PrefixAssignment, shortID)
}

// ParseSubscriptionID extracts the short ID from an AppSubscription prefixed ID.
func ParseSubscriptionID(prefixedID string) (string, error) {
	return ExtractShortID(prefixedID, PrefixSubscription)
}

// ParseAssignmentID extracts the short ID from a LicenseAssignment prefixed ID.
func ParseAssignmentID(prefixedID string) (string, error) {
	return ExtractShortID(prefixedID, PrefixAssignment)
}
